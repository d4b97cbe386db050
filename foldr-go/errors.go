package foldr_go

import (
	"errors"
	"fmt"
)

type ErrorKind int8

const (
	LexicalError ErrorKind = iota
	SyntaxError
	ConstAssignment
	TypeMismatch
	IndexOutOfRange
	ZeroDivision
	UndefinedVariable
	UndefinedFunction
	ArityMismatch
	IntegerOverflow
	CallDepthExceeded
	Interrupted
	TimeLimitExceeded
	OutputLimitExceeded
)

var errorKindNames_ = [...]string{
	LexicalError:        "LexicalError",
	SyntaxError:         "SyntaxError",
	ConstAssignment:     "ConstAssignment",
	TypeMismatch:        "TypeMismatch",
	IndexOutOfRange:     "IndexOutOfRange",
	ZeroDivision:        "ZeroDivision",
	UndefinedVariable:   "UndefinedVariable",
	UndefinedFunction:   "UndefinedFunction",
	ArityMismatch:       "ArityMismatch",
	IntegerOverflow:     "IntegerOverflow",
	CallDepthExceeded:   "CallDepthExceeded",
	Interrupted:         "Interrupted",
	TimeLimitExceeded:   "TimeLimitExceeded",
	OutputLimitExceeded: "OutputLimitExceeded",
}

func (this ErrorKind) String() string {
	if int(this) < len(errorKindNames_) {
		return errorKindNames_[this]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(this))
}

// / Error is the single failure type of the lexer, parser and evaluator.
// / Tok is the token at which the failure was detected.
type Error struct {
	Kind ErrorKind
	Msg  string
	Tok  Token
	// Function names the innermost user function being evaluated, if any.
	Function string
}

func NewError(kind ErrorKind, tok Token, format string, args ...interface{}) *Error {
	ret := Error{}
	ret.Kind = kind
	ret.Tok = tok
	ret.Msg = fmt.Sprintf(format, args...)
	return &ret
}

func (this *Error) Error() string {
	return fmt.Sprintf("%s (line %d, token='%s', type=%s)",
		this.Msg, this.Tok.Line, this.Tok.Lexeme, this.Tok.Kind)
}

// / Diagnostic renders the one-line message printed by the command line tool.
func (this *Error) Diagnostic() string {
	if this.Kind == ConstAssignment {
		return "Error: " + this.Msg
	}
	return "Error: " + this.Error()
}

// / Return the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
