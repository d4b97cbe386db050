package foldr_go

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueKind int8

const (
	KindInt ValueKind = iota
	KindFloat
	KindString
	KindBool
	KindArray
	KindNull
)

func (this ValueKind) String() string {
	switch this {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindArray:
		return "Array"
	case KindNull:
		return "Null"
	}
	return fmt.Sprintf("ValueKind(%d)", int(this))
}

// / Value is a runtime value. Strings and arrays are never mutated after
// / construction, so bindings may share them freely.
type Value interface {
	Kind() ValueKind
}

type IntValue int64
type FloatValue float64
type StringValue string
type BoolValue bool
type ArrayValue []Value
type NullValue struct{}

func (IntValue) Kind() ValueKind    { return KindInt }
func (FloatValue) Kind() ValueKind  { return KindFloat }
func (StringValue) Kind() ValueKind { return KindString }
func (BoolValue) Kind() ValueKind   { return KindBool }
func (ArrayValue) Kind() ValueKind  { return KindArray }
func (NullValue) Kind() ValueKind   { return KindNull }

var Null Value = NullValue{}

// / Only Bool(true) and nonzero Int are truthy.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case BoolValue:
		return bool(x)
	case IntValue:
		return x != 0
	}
	return false
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

// / ValueText is the text form used by print, str and string concatenation.
func ValueText(v Value) string {
	switch x := v.(type) {
	case IntValue:
		return strconv.FormatInt(int64(x), 10)
	case FloatValue:
		return formatFloat(float64(x))
	case StringValue:
		return string(x)
	case BoolValue:
		if x {
			return "true"
		}
		return "false"
	case ArrayValue:
		parts := make([]string, len(x))
		for i, e := range x {
			if s, ok := e.(StringValue); ok {
				parts[i] = `"` + string(s) + `"`
			} else {
				parts[i] = ValueText(e)
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case NullValue:
		return "null"
	}
	panic(fmt.Sprintf("unknown value type %T", v))
}

// / Equal compares numerically across Int and Float, by value within a
// / kind, and reports different kinds as unequal.
func Equal(a, b Value) bool {
	if isNumeric(a) && isNumeric(b) {
		ai, aok := a.(IntValue)
		bi, bok := b.(IntValue)
		if aok && bok {
			return ai == bi
		}
		return toFloat(a) == toFloat(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case StringValue:
		return x == b.(StringValue)
	case BoolValue:
		return x == b.(BoolValue)
	case NullValue:
		return true
	case ArrayValue:
		y := b.(ArrayValue)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	panic(fmt.Sprintf("unknown value type %T", a))
}

func isNumeric(v Value) bool {
	k := v.Kind()
	return k == KindInt || k == KindFloat
}

func toFloat(v Value) float64 {
	switch x := v.(type) {
	case IntValue:
		return float64(x)
	case FloatValue:
		return float64(x)
	}
	return 0
}

// / legacyInt reads a value the way compatibility mode does for arithmetic
// / and comparisons.
func legacyInt(v Value) int64 {
	switch x := v.(type) {
	case IntValue:
		return int64(x)
	case BoolValue:
		if x {
			return 1
		}
		return 0
	case FloatValue:
		return truncFloat(float64(x))
	}
	return 0
}

func legacyFloat(v Value) float64 {
	if f, ok := v.(FloatValue); ok {
		return float64(f)
	}
	return float64(legacyInt(v))
}

// / truncFloat converts toward zero, saturating at the int64 range.
func truncFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// / Atoi parses an optional sign and leading decimal digits after leading
// / whitespace; anything else yields 0. Out-of-range values saturate.
func Atoi(s string) int64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	var n uint64
	overflow := false
	for ; i < len(s) && isDigit(s[i]); i++ {
		if n > (math.MaxUint64-9)/10 {
			overflow = true
			continue
		}
		n = n*10 + uint64(s[i]-'0')
	}
	if neg {
		if overflow || n > 1<<63 {
			return math.MinInt64
		}
		return int64(-n)
	}
	if overflow || n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// / Atof parses the longest leading decimal number of a NUMBER lexeme, so
// / "1.2.3" reads as 1.2.
func Atof(s string) float64 {
	end := 0
	dot := false
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if dot {
				break
			}
			dot = true
		} else if !isDigit(c) {
			break
		}
		end++
	}
	// A range error still yields ±Inf, which is what we want.
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}
