package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a numeric model value: either a finite float64 or Empty.
// A Value never carries formatting artifacts.
type Value struct {
	n   float64
	set bool
}

// Empty is the absent value.
var Empty = Value{}

// Float returns a Value holding f. NaN and infinities yield Empty.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Empty
	}
	return Value{n: f, set: true}
}

// IsEmpty reports whether v holds no number.
func (v Value) IsEmpty() bool {
	return !v.set
}

// Float64 returns the number and whether one is present.
func (v Value) Float64() (float64, bool) {
	return v.n, v.set
}

// Equal reports whether both values are empty or hold the same number.
func (v Value) Equal(o Value) bool {
	if v.set != o.set {
		return false
	}
	return !v.set || v.n == o.n
}

// String returns the shortest plain decimal form of v, or "" when empty.
func (v Value) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatFloat(v.n, 'f', -1, 64)
}

// ParseValue strictly parses a plain number. "", "null" and "nil" yield Empty.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "nil":
		return Empty, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Empty, fmt.Errorf("%w: %q is not a number", ErrParseRejected, s)
	}
	return Float(f), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := ParseValue(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
