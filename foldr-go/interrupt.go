package foldr_go

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/tevino/abool/v2"
)

// / Interrupter lets another goroutine stop a running evaluation. The
// / evaluator polls it at every loop iteration and call.
type Interrupter struct {
	flag_ *abool.AtomicBool
	kind_ atomic.Int32
}

func NewInterrupter() *Interrupter {
	ret := Interrupter{}
	ret.flag_ = abool.NewBool(false)
	return &ret
}

// / Interrupt requests a stop; kind is Interrupted, TimeLimitExceeded or
// / OutputLimitExceeded. The first request decides the kind.
func (this *Interrupter) Interrupt(kind ErrorKind) {
	if this.flag_.IsSet() {
		return
	}
	this.kind_.Store(int32(kind))
	this.flag_.Set()
}

func (this *Interrupter) IsSet() bool { return this.flag_.IsSet() }

func (this *Interrupter) Reset() { this.flag_.UnSet() }

// / Check returns an error if a stop was requested.
func (this *Interrupter) Check(tok Token) error {
	if !this.flag_.IsSet() {
		return nil
	}
	switch kind := ErrorKind(this.kind_.Load()); kind {
	case TimeLimitExceeded:
		return NewError(kind, tok, "time limit exceeded")
	case OutputLimitExceeded:
		return NewError(kind, tok, "output limit exceeded")
	}
	return NewError(Interrupted, tok, "interrupted by user")
}

// / Watch interrupts when ctx is done. The returned function stops
// / watching.
func (this *Interrupter) Watch(ctx context.Context) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				this.Interrupt(TimeLimitExceeded)
			} else {
				this.Interrupt(Interrupted)
			}
		case <-done:
		}
	}()
	return func() { close(done) }
}

// / TerminateHandler turns the first SIGINT or SIGTERM into an interrupt
// / and exits on the second, for programs blocked reading input. The
// / returned function uninstalls the handler.
func TerminateHandler(interrupter *Interrupter) (stop func()) {
	quit := make(chan os.Signal, 2)
	done := make(chan struct{})
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			select {
			case <-quit:
				if interrupter.IsSet() {
					os.Exit(130)
				}
				interrupter.Interrupt(Interrupted)
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(quit)
		close(done)
	}
}
