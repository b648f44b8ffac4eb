package run

import (
	"path/filepath"

	"github.com/ComedicChimera/olive"

	"github.com/plx-lang/plx/config"
	"github.com/plx-lang/plx/report"
)

// ModInit executes `mod init`: write a minimal plx-mod.toml into the given
// module directory.
func ModInit(result *olive.ArgParseResult) {
	modulePath, _ := result.PrimaryArg()
	name := StringArg(result, "name", filepath.Base(filepath.Clean(modulePath)))

	if err := config.Init(modulePath, name); err != nil {
		report.Fatal("%s", err.Error())
		return
	}
	report.Finished(0, 0)
}
