// Package ui prints user-facing messages through pterm.
package ui

import (
	"github.com/pterm/pterm"
)

// SetVerbose toggles Debug output.
func SetVerbose(verbose bool) {
	pterm.PrintDebugMessages = verbose
}

func Printf(format string, a ...interface{}) {
	pterm.Printf(format, a...)
}

func Printfln(format string, a ...interface{}) {
	pterm.Printfln(format, a...)
}

func Debug(format string, a ...interface{}) {
	pterm.Debug.Printfln(format, a...)
}

func Info(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

func Success(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

func Warning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

func Error(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}

func Fatal(format string, a ...interface{}) {
	pterm.Fatal.Printfln(format, a...)
}
