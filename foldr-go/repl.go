package foldr_go

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	kReplPrompt      = "foldr> "
	kReplContinue    = " ...> "
	kReplHistoryFile = ".foldr_history"
)

// / replIncomplete reports whether src failed to parse only because it
// / ended too early, so another line should be read.
func replIncomplete(src string) bool {
	_, err := ParseSource(src)
	var e *Error
	return errors.As(err, &e) && e.Kind == SyntaxError && e.Tok.Kind == TEOF
}

// / endsWithOpenIf reports whether the last statement of src is an if
// / without else, so an else may still follow on the next line.
func endsWithOpenIf(src string) bool {
	if strings.HasSuffix(strings.TrimSpace(src), ";") {
		return false
	}
	prog, err := ParseSource(src)
	if err != nil || len(prog.Statements) == 0 {
		return false
	}
	n, ok := prog.Statements[len(prog.Statements)-1].(*IfStmt)
	return ok && n.Else == nil
}

// / replReader groups typed lines into entries. prompt_ is liner's
// / Prompt in the REPL.
type replReader struct {
	prompt_  func(string) (string, error)
	pending_ string
}

func (this *replReader) nextLine(prompt string) (string, error) {
	if this.pending_ != "" {
		line := this.pending_
		this.pending_ = ""
		return line, nil
	}
	return this.prompt_(prompt)
}

// / Read lines until they form a complete entry or the parser reports a
// / real error. ok is false at end of input.
func (this *replReader) ReadStatement() (src string, ok bool) {
	var b strings.Builder
	for {
		prompt := kReplPrompt
		if b.Len() > 0 {
			prompt = kReplContinue
		}
		line, err := this.nextLine(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			if err != io.EOF {
				return "", false
			}
			return b.String(), b.Len() > 0
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if replIncomplete(b.String()) {
			continue
		}
		if !endsWithOpenIf(b.String()) {
			return b.String(), true
		}
		next, err := this.prompt_(kReplContinue)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return b.String(), true
		}
		if strings.HasPrefix(strings.TrimSpace(next), "else") {
			b.WriteByte('\n')
			b.WriteString(next)
			if replIncomplete(b.String()) {
				continue
			}
			return b.String(), true
		}
		// The line belongs to the next entry.
		this.pending_ = next
		return b.String(), true
	}
}

// / ToolRepl runs statements as they are typed, all against one global
// / environment.
func (this *FoldrMain) ToolRepl(args []string) int {
	fmt.Fprintf(this.stdout_, "Foldr v%s (type :quit or Ctrl-D to leave)\n", kFoldrVersion)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, kReplHistoryFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	options := EvalOptions{Legacy: this.Options.Legacy}
	if this.Options.Trace {
		options.Tracer = this.status_
	}
	interp := NewInterpreter(this.stdin_, this.stdout_, options)
	if this.HandleSignals {
		stop := TerminateHandler(interp.Interrupter())
		defer stop()
	}

	reader := &replReader{prompt_: ln.Prompt}
	for {
		src, ok := reader.ReadStatement()
		if !ok {
			fmt.Fprintln(this.stdout_)
			break
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			break
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		interp.Interrupter().Reset()
		if err := interp.Run(src); err != nil {
			this.status_.Diagnostic(err)
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}
