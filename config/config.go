// Package config loads a project's plx-mod.toml module file: the name,
// target vendor, and compiler-version compatibility declaration a plx
// project carries the way a chai module carries chai-mod.toml.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pelletier/go-toml"

	"github.com/plx-lang/plx/report"
)

// ModuleFileName is the name plx looks for in a project's root directory.
const ModuleFileName = "plx-mod.toml"

// Version is the current plx compiler version, compared against a loaded
// module's declared PlxVersion.
const Version = "0.1.0"

// tomlModule mirrors the on-disk TOML shape of a plx-mod.toml file.
type tomlModule struct {
	Name       string `toml:"name"`
	Vendor     string `toml:"vendor"`
	PlxVersion string `toml:"plx-version"`
	Watchdog   string `toml:"default-watchdog"`
}

// Module is the validated, in-memory form of a project's module file.
type Module struct {
	AbsPath        string
	Name           string
	Vendor         string
	DefaultWatchdog string
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SupportedVendors lists the vendor-lowering targets plx's vendorlower
// package knows how to address (spec.md §6.2 plus the ST emitter SPEC_FULL
// adds). A module's `vendor` field is checked against this set.
var SupportedVendors = map[string]struct{}{
	"st":       {},
	"l5x":      {},
	"simaticml": {},
	"tcpou":    {},
}

// Load reads and validates the plx-mod.toml file in abspath, mirroring the
// teacher's LoadModule / validateModule split: Load opens and unmarshals,
// validate checks the decoded fields.
func Load(abspath string) (*Module, error) {
	f, err := os.Open(filepath.Join(abspath, ModuleFileName))
	if err != nil {
		return nil, report.New(report.SourceUnavailable, nil, "unable to open module file at %q: %s", abspath, err)
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, report.New(report.SourceUnavailable, nil, "error reading module file at %q: %s", abspath, err)
	}

	var tm tomlModule
	if err := toml.Unmarshal(buf, &tm); err != nil {
		return nil, report.New(report.SyntaxUnsupported, nil, "error parsing module file at %q: %s", abspath, err)
	}

	mod := &Module{AbsPath: abspath}
	if err := validate(mod, &tm); err != nil {
		return nil, err
	}
	return mod, nil
}

func validate(mod *Module, tm *tomlModule) error {
	if tm.Name == "" {
		return report.New(report.InvalidLiteral, nil, "module at %q is missing a name", mod.AbsPath)
	}
	if !identifierRE.MatchString(tm.Name) {
		return report.New(report.InvalidLiteral, nil, "module name %q must be a valid identifier", tm.Name)
	}

	vendor := tm.Vendor
	if vendor == "" {
		vendor = "st"
	}
	if _, ok := SupportedVendors[vendor]; !ok {
		return report.New(report.InvalidLiteral, nil, "module %q declares unsupported vendor %q", tm.Name, vendor)
	}

	if tm.PlxVersion != "" && tm.PlxVersion != Version {
		report.Warning(nil, "module %q was authored for plx v%s (current compiler is v%s)", tm.Name, tm.PlxVersion, Version)
	}

	mod.Name = tm.Name
	mod.Vendor = vendor
	mod.DefaultWatchdog = tm.Watchdog
	return nil
}

// WatchdogDuration returns the module's DefaultWatchdog field as written
// (it is not parsed), or ("", false) if it is unset.
func (m *Module) WatchdogDuration() (string, bool) {
	if m.DefaultWatchdog == "" {
		return "", false
	}
	return m.DefaultWatchdog, true
}

// Init writes a minimal plx-mod.toml to abspath for `plx mod init`, failing
// if one already exists.
func Init(abspath, name string) error {
	path := filepath.Join(abspath, ModuleFileName)
	if _, err := os.Stat(path); err == nil {
		return report.New(report.DuplicateName, nil, "a module file already exists at %q", path)
	}
	contents := fmt.Sprintf("name = %q\nvendor = \"st\"\nplx-version = %q\n", name, Version)
	return ioutil.WriteFile(path, []byte(contents), 0o644)
}
