package ui

import (
	"os"

	"github.com/pterm/pterm"
)

func ExamplePrintfln() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Printfln("tick %d", 5)
	// Output:
	// tick 5
}

func ExampleDebug() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()
	SetVerbose(true)
	defer SetVerbose(false)

	Debug("gain text %q ignored", "0.2abc")
	// Output:
	// DEBUG: gain text "0.2abc" ignored
}

func ExampleDebug_quiet() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()
	SetVerbose(false)

	Debug("not shown")
	Printfln("shown")
	// Output:
	// shown
}

func ExampleInfo() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Info("settled at tick %d", 42)
	// Output:
	// INFO: settled at tick 42
}

func ExampleWarning() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Warning("%d scenario events never delivered", 2)
	// Output:
	// WARNING: 2 scenario events never delivered
}

func ExampleError() {
	pterm.SetDefaultOutput(os.Stdout)
	pterm.DisableStyling()

	Error("saving run: %v", os.ErrClosed)
	// Output:
	// ERROR: saving run: file already closed
}
