package foldr_go

import (
	"bytes"
	"context"
	"io"
	"strings"
)

// / Interpreter runs Foldr programs against one global environment.
type Interpreter struct {
	Env *Environment

	evaluator_ *Evaluator
}

func NewInterpreter(stdin io.Reader, stdout io.Writer, options EvalOptions) *Interpreter {
	ret := Interpreter{}
	ret.Env = NewEnvironment()
	ret.evaluator_ = NewEvaluator(stdin, stdout, options)
	return &ret
}

func (this *Interpreter) Interrupter() *Interrupter {
	return this.evaluator_.Interrupter()
}

// / Parse the whole source, then evaluate it. Nothing runs if parsing
// / fails.
func (this *Interpreter) Run(source string) error {
	prog, err := ParseSource(source)
	if err != nil {
		return err
	}
	return this.RunProgram(prog)
}

func (this *Interpreter) RunProgram(prog *Program) error {
	return this.evaluator_.Run(prog, this.Env)
}

// / RunContext is Run with cancellation: a cancelled ctx stops evaluation
// / with Interrupted, an expired deadline with TimeLimitExceeded.
func (this *Interpreter) RunContext(ctx context.Context, source string) error {
	stop := this.Interrupter().Watch(ctx)
	defer stop()
	return this.Run(source)
}

// / RunString runs source with stdin as its input and returns everything
// / it printed, including output produced before a failure.
func RunString(ctx context.Context, source, stdin string, options EvalOptions) (string, error) {
	return RunStringLimit(ctx, source, stdin, 0, options)
}

// / RunStringLimit is RunString keeping at most limit bytes of output. A
// / program still printing past the limit stops with OutputLimitExceeded.
// / A limit of zero or less means no limit.
func RunStringLimit(ctx context.Context, source, stdin string, limit int, options EvalOptions) (string, error) {
	out := &outputLimiter{limit_: limit}
	interp := NewInterpreter(strings.NewReader(stdin), out, options)
	out.interrupter_ = interp.Interrupter()
	err := interp.RunContext(ctx, source)
	return out.buf_.String(), err
}

type outputLimiter struct {
	buf_         bytes.Buffer
	limit_       int
	interrupter_ *Interrupter
}

func (this *outputLimiter) Write(p []byte) (int, error) {
	if this.limit_ <= 0 {
		return this.buf_.Write(p)
	}
	if room := this.limit_ - this.buf_.Len(); len(p) > room {
		this.buf_.Write(p[:max(room, 0)])
		this.interrupter_.Interrupt(OutputLimitExceeded)
		return len(p), nil
	}
	return this.buf_.Write(p)
}
