// Command plx is the compiler front-end: it loads a plx-mod.toml module and
// its persisted project.plxir document, validates the project, and either
// lowers it to a vendor artifact (`build`) or drives the scan-cycle
// simulator over it (`sim`). Its subcommand layout and olive wiring mirror
// the teacher compiler's bootstrap/cmd/execute.go line for line — the
// authoring-language parser chai's "build" drives is out of this repo's
// scope (spec.md §1), so plx's own "build" instead consumes plx's own
// persist document format, the one whole-project interchange shape this
// repo does own end to end.
package main

import (
	"fmt"
	"os"

	"github.com/ComedicChimera/olive"

	"github.com/plx-lang/plx/cmd/plx/internal/run"
	"github.com/plx-lang/plx/config"
	"github.com/plx-lang/plx/report"
)

func main() {
	cli := olive.NewCLI("plx", "plx compiles PLC control logic into vendor-neutral and vendor-specific project artifacts", true)

	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "lower a project into a vendor artifact", true)
	buildCmd.AddPrimaryArg("project-path", "the path to the project directory (containing plx-mod.toml and project.plxir)", true)
	buildCmd.AddStringArg("vendor", "v", "override the module's configured target vendor (st, l5x, simaticml, tcpou)", false)
	buildCmd.AddStringArg("out", "o", "output file path (defaults to stdout)", false)

	simCmd := cli.AddSubcommand("sim", "run the scan-cycle simulator over a project POU", true)
	simCmd.AddPrimaryArg("project-path", "the path to the project directory", true)
	simCmd.AddStringArg("pou", "p", "the POU to simulate (defaults to the first task's first POU)", false)
	simCmd.AddStringArg("scans", "n", "number of scan cycles to run (default 10)", false)
	simCmd.AddStringArg("period", "t", "scan period, e.g. 10ms (default 10ms)", false)

	modCmd := cli.AddSubcommand("mod", "manage plx modules", true)
	modInitCmd := modCmd.AddSubcommand("init", "initialize a new module", true)
	modInitCmd.AddPrimaryArg("module-path", "the path to the module directory", true)
	modInitCmd.AddStringArg("name", "n", "the module name (defaults to the directory name)", false)

	cli.AddSubcommand("version", "print the plx compiler version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.Fatal(err.Error())
		os.Exit(1)
	}

	report.Init(run.LogLevelFromString(run.StringArg(result, "loglevel", "verbose")))

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		run.Build(subResult)
	case "sim":
		run.Sim(subResult)
	case "mod":
		execModCommand(subResult)
	case "version":
		fmt.Println("plx " + config.Version)
	}

	if report.AnyErrors() {
		os.Exit(1)
	}
}

func execModCommand(result *olive.ArgParseResult) {
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "init":
		run.ModInit(subResult)
	}
}

