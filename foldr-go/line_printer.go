package foldr_go

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// / LinePrinter writes whole lines to one console stream and knows whether
// / that stream can show colour.
type LinePrinter struct {
	w_ io.Writer

	/// Whether the stream is an interactive terminal.
	smart_terminal_ bool

	/// Whether we can use ISO 6429 (ANSI) color sequences.
	supports_color_ bool
}

func NewLinePrinter(w io.Writer) *LinePrinter {
	ret := LinePrinter{}
	ret.w_ = w
	term := os.Getenv("TERM")
	if f, ok := w.(*os.File); ok {
		ret.smart_terminal_ = isatty.IsTerminal(f.Fd()) && term != "" && term != "dumb"
	}
	ret.supports_color_ = ret.smart_terminal_
	if !ret.supports_color_ {
		clicolor_force := os.Getenv("CLICOLOR_FORCE")
		ret.supports_color_ = clicolor_force != "" && clicolor_force != "0"
	}
	return &ret
}

func (this *LinePrinter) supports_color() bool { return this.supports_color_ }

// / Print a line, adding the trailing newline if it is missing.
func (this *LinePrinter) PrintLine(line string) {
	if line == "" || line[len(line)-1] != '\n' {
		line += "\n"
	}
	io.WriteString(this.w_, line)
}
