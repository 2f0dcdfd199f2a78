package cli

import (
	"io"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen, color.Bold)
	colorWarn    = color.New(color.FgYellow)
	colorFail    = color.New(color.FgRed, color.Bold)
	colorInfo    = color.New(color.FgCyan)
)

// consolePrinter writes human readable command reports. Colors are dropped
// automatically when the output is not a terminal.
type consolePrinter struct {
	w io.Writer
}

var printer = &consolePrinter{w: color.Output}

func (p *consolePrinter) Success(format string, args ...any) {
	_, _ = colorSuccess.Fprintf(p.w, "[ OK ] "+format+"\n", args...)
}

func (p *consolePrinter) Warn(format string, args ...any) {
	_, _ = colorWarn.Fprintf(p.w, "[WARN] "+format+"\n", args...)
}

func (p *consolePrinter) Fail(format string, args ...any) {
	_, _ = colorFail.Fprintf(p.w, "[FAIL] "+format+"\n", args...)
}

func (p *consolePrinter) Info(format string, args ...any) {
	_, _ = colorInfo.Fprintf(p.w, "[INFO] "+format+"\n", args...)
}
