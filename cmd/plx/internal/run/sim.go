package run

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ComedicChimera/olive"

	"github.com/plx-lang/plx/config"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/sim"
	"github.com/plx-lang/plx/util"
)

// Sim executes the `sim` subcommand: load a project, construct a top-level
// instance of the requested (or task-default) POU, and run it for a fixed
// number of scan cycles, printing the clock and scan count after each one
// (spec §4.6: Controller.Tick / Controller.Scan).
func Sim(result *olive.ArgParseResult) {
	projectPath, _ := result.PrimaryArg()

	if _, err := config.Load(projectPath); err != nil {
		report.Fatal("%s", err.Error())
		return
	}

	proj, err := loadProjectDocument(projectPath)
	if err != nil {
		report.Fatal("%s", err.Error())
		return
	}

	pouName := StringArg(result, "pou", "")
	if pouName == "" {
		pouName = defaultSimPOU(proj)
	}
	pou, ok := proj.POUByName(pouName)
	if !ok {
		known := util.Map(proj.POUs, func(p *ir.POU) string { return p.Name })
		report.Fatal("no such POU %q in project %q (known: %v)", pouName, proj.Name, known)
		return
	}

	scans := 10
	if s := StringArg(result, "scans", ""); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			report.Fatal("invalid --scans value %q: %s", s, err.Error())
			return
		}
		scans = n
	}

	period := 10 * time.Millisecond
	if p := StringArg(result, "period", ""); p != "" {
		d, err := time.ParseDuration(p)
		if err != nil {
			report.Fatal("invalid --period value %q: %s", p, err.Error())
			return
		}
		period = d
	}

	rt := sim.NewRuntime(proj)
	ctrl, err := sim.Simulate(pou, rt)
	if err != nil {
		report.Fatal("%s", err.Error())
		return
	}

	for i := 0; i < scans; i++ {
		ctrl.Tick(period)
		if err := ctrl.Scan(); err != nil {
			fmt.Fprintf(os.Stderr, "scan %d (t=%s): %s\n", ctrl.ScanCount(), ctrl.Clock(), err.Error())
			return
		}
		fmt.Printf("scan %d (t=%s): ok\n", ctrl.ScanCount(), ctrl.Clock())
	}
}

// defaultSimPOU picks the first task's first referenced POU, falling back
// to the project's first POU when no task is declared.
func defaultSimPOU(p *ir.Project) string {
	if len(p.Tasks) > 0 && len(p.Tasks[0].POURefs) > 0 {
		return p.Tasks[0].POURefs[0]
	}
	if len(p.POUs) > 0 {
		return p.POUs[0].Name
	}
	return ""
}
