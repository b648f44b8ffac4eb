package run

import (
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"

	"github.com/plx-lang/plx/config"
	"github.com/plx-lang/plx/ir"
	"github.com/plx-lang/plx/lower"
	"github.com/plx-lang/plx/persist"
	"github.com/plx-lang/plx/project"
	"github.com/plx-lang/plx/report"
	"github.com/plx-lang/plx/util"
	"github.com/plx-lang/plx/vendorlower"
	"github.com/plx-lang/plx/vendorlower/st"
)

var knownVendors = []string{"st", "l5x", "simaticml", "tcpou"}

// Build executes the `build` subcommand: load the project's module file
// and persisted IR document, validate it, lower it to the configured (or
// overridden) vendor's artifact, and write the result to --out or stdout.
func Build(result *olive.ArgParseResult) {
	projectPath, _ := result.PrimaryArg()

	mod, err := config.Load(projectPath)
	if err != nil {
		report.Fatal("%s", err.Error())
		return
	}

	report.BeginPhase("loading project")
	proj, err := loadProjectDocument(projectPath)
	report.EndPhase(err == nil)
	if err != nil {
		report.Fatal("%s", err.Error())
		return
	}

	report.BeginPhase("validating project")
	proj, err = project.Compile(proj)
	report.EndPhase(err == nil)
	if err != nil {
		if batch, ok := err.(*report.Batch); ok {
			report.Errors(batch)
		} else {
			report.Fatal("%s", err.Error())
		}
		return
	}

	vendorName := StringArg(result, "vendor", mod.Vendor)
	emitter, err := emitterFor(vendorName)
	if err != nil {
		report.Fatal("%s", err.Error())
		return
	}

	if emitter.RequiresFlattening() {
		proj, err = flattenProject(proj)
		if err != nil {
			report.Fatal("%s", err.Error())
			return
		}
	}

	report.BeginPhase("emitting " + emitter.Name())
	out, err := emitter.Emit(proj)
	report.EndPhase(err == nil)
	if err != nil {
		report.Fatal("%s", err.Error())
		return
	}

	if outPath := StringArg(result, "out", ""); outPath != "" {
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			report.Fatal("unable to write output to %q: %s", outPath, err.Error())
			return
		}
	} else {
		os.Stdout.Write(out)
	}

	report.Finished(0, 0)
}

func loadProjectDocument(projectPath string) (*ir.Project, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, persist.DocumentFileName))
	if err != nil {
		return nil, report.New(report.SourceUnavailable, nil, "unable to open project document at %q: %s", projectPath, err)
	}
	return persist.Unmarshal(data)
}

func emitterFor(vendorName string) (vendorlower.Emitter, error) {
	if vendorName != "" && !util.Contains(knownVendors, vendorName) {
		return nil, report.New(report.InvalidLiteral, nil, "unknown vendor %q (known: %v)", vendorName, knownVendors)
	}
	switch vendorName {
	case "st", "":
		return st.StructuredText{}, nil
	case "l5x":
		return vendorlower.L5X{}, nil
	case "simaticml":
		return vendorlower.SimaticML{}, nil
	case "tcpou":
		return vendorlower.TcPOU{}, nil
	default:
		return nil, report.New(report.InvalidLiteral, nil, "unknown vendor %q", vendorName)
	}
}

// flattenProject returns a copy of p with every function-block POU's
// inheritance chain flattened (spec §4.4), for vendors lacking native
// EXTENDS. Lower.Flatten operates one POU at a time; this just threads it
// across the whole project's POU list.
func flattenProject(p *ir.Project) (*ir.Project, error) {
	flattened := make([]*ir.POU, len(p.POUs))
	for i, pou := range p.POUs {
		if pou.Parent == nil {
			flattened[i] = pou
			continue
		}
		fp, err := lower.Flatten(pou)
		if err != nil {
			return nil, err
		}
		flattened[i] = fp
	}
	clone := *p
	clone.POUs = flattened
	return &clone, nil
}
