package foldr_go

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// / Status is how the command line tool talks to the user.
type Status interface {
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// / StatusPrinter implements Status on a pair of console streams. Info goes
// / to stdout; everything else goes to stderr.
type StatusPrinter struct {
	out_ *LinePrinter
	err_ *LinePrinter

	error_   *color.Color
	warning_ *color.Color
	trace_   *color.Color
}

func NewStatusPrinter(stdout, stderr io.Writer) *StatusPrinter {
	ret := StatusPrinter{}
	ret.out_ = NewLinePrinter(stdout)
	ret.err_ = NewLinePrinter(stderr)
	ret.error_ = color.New(color.FgRed, color.Bold)
	ret.warning_ = color.New(color.FgYellow)
	ret.trace_ = color.New(color.FgCyan)
	for _, c := range []*color.Color{ret.error_, ret.warning_, ret.trace_} {
		if ret.err_.supports_color() {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &ret
}

func (this *StatusPrinter) Info(msg string, args ...interface{}) {
	this.out_.PrintLine("foldr: " + fmt.Sprintf(msg, args...))
}

func (this *StatusPrinter) Warning(msg string, args ...interface{}) {
	this.err_.PrintLine("foldr: " + this.warning_.Sprint("warning: ") + fmt.Sprintf(msg, args...))
}

func (this *StatusPrinter) Error(msg string, args ...interface{}) {
	this.err_.PrintLine("foldr: " + this.error_.Sprint("error: ") + fmt.Sprintf(msg, args...))
}

// / Diagnostic prints the one-line report for a failed run:
// /   Error: <message> (line <n>, token='<lexeme>', type=<kind>)
func (this *StatusPrinter) Diagnostic(err error) {
	var e *Error
	text := "Error: " + err.Error()
	if errors.As(err, &e) {
		text = e.Diagnostic()
	}
	text = this.error_.Sprint("Error:") + strings.TrimPrefix(text, "Error:")
	this.err_.PrintLine(text)
}

func (this *StatusPrinter) Trace(depth int, format string, args ...interface{}) {
	this.err_.PrintLine(this.trace_.Sprint("trace: ") + strings.Repeat("  ", depth) + fmt.Sprintf(format, args...))
}
