// Package run implements the plx CLI's subcommand bodies, split out of
// main.go the way the teacher splits execBuildCommand/execModCommand out
// of bootstrap/cmd/execute.go's Execute.
package run

import (
	"github.com/ComedicChimera/olive"

	"github.com/plx-lang/plx/report"
)

// StringArg reads an optional string argument from a parsed subcommand
// result, returning fallback if it was never set (mirroring how olive
// leaves unset optional arguments absent from result.Arguments rather
// than present with a zero value).
func StringArg(result *olive.ArgParseResult, name, fallback string) string {
	v, ok := result.Arguments[name]
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// LogLevelFromString maps a --loglevel selector value to a report log
// level constant.
func LogLevelFromString(s string) int {
	switch s {
	case "silent":
		return report.LogLevelSilent
	case "error":
		return report.LogLevelError
	case "warn":
		return report.LogLevelWarn
	default:
		return report.LogLevelVerbose
	}
}
