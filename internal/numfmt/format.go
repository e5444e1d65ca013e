// Package numfmt converts between numeric values and the decorated display
// strings shown in a numeric text field.
//
// Format and Parse share one rounding rule, so for any finite x in range
//
//	Parse(Format(x)) == Normalize(x)
//
// and repeated format/parse cycles never drift.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// overflowLimit is where fixed notation stops being representable.
var overflowLimit = decimal.New(1, 21)

// Formatter formats and parses numbers under one immutable Options value.
type Formatter struct {
	opts Options
	loc  Locale
	// NFKC forms of the decoration, matched against normalized input.
	prefix  string
	suffix  string
	group   string
	decimal string
}

// New validates opts and returns a Formatter for them.
func New(opts Options) (*Formatter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	loc := opts.locale()
	return &Formatter{
		opts:    opts,
		loc:     loc,
		prefix:  norm.NFKC.String(opts.Prefix),
		suffix:  norm.NFKC.String(opts.Suffix),
		group:   norm.NFKC.String(loc.GroupSeparator),
		decimal: norm.NFKC.String(loc.DecimalSeparator),
	}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(opts Options) *Formatter {
	f, err := New(opts)
	if err != nil {
		panic(err)
	}
	return f
}

// Options returns the configuration the formatter was built with.
func (f *Formatter) Options() Options {
	return f.opts
}

// Format renders raw input as a display string. Input that is not a number
// renders the configured default, or "" when there is none.
func (f *Formatter) Format(raw string) string {
	n, err := f.scan(raw, false)
	if err != nil {
		return f.FormatValue(Empty)
	}
	return f.FormatFloat(n)
}

// FormatFloat renders n as a display string.
func (f *Formatter) FormatFloat(n float64) string {
	return f.FormatValue(Float(n))
}

// FormatValue renders v as a display string, falling back to the default
// value when v is empty.
func (f *Formatter) FormatValue(v Value) string {
	n, ok := v.Float64()
	if !ok {
		if n, ok = f.opts.Default.Float64(); !ok {
			return ""
		}
	}

	body, err := f.fixed(n)
	if err != nil {
		return ""
	}

	sign := ""
	if strings.HasPrefix(body, "-") {
		sign, body = "-", body[1:]
	}

	whole, frac, hasFrac := strings.Cut(body, ".")
	if f.opts.GroupDigits {
		whole = group(whole, f.loc.GroupSeparator)
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(f.opts.Prefix)
	b.WriteString(whole)
	if hasFrac {
		b.WriteString(f.loc.DecimalSeparator)
		b.WriteString(frac)
	}
	b.WriteString(f.opts.Suffix)
	return b.String()
}

// Parse strips decoration from s and returns the normalized number.
// It returns an error wrapping ErrParseRejected or ErrOverflow when s does
// not hold a usable number.
func (f *Formatter) Parse(s string) (float64, error) {
	n, err := f.scan(s, f.opts.Integer)
	if err != nil {
		return 0, err
	}
	return f.Normalize(n)
}

// ParseValue is Parse returning a Value.
func (f *Formatter) ParseValue(s string) (Value, error) {
	n, err := f.Parse(s)
	if err != nil {
		return Empty, err
	}
	return Float(n), nil
}

// Commit parses s, substituting the configured default when s is rejected.
func (f *Formatter) Commit(s string) Value {
	v, err := f.ParseValue(s)
	if err != nil {
		return f.opts.Default
	}
	return v
}

// Normalize applies the sign constraint and the decimal-place rounding rule.
func (f *Formatter) Normalize(n float64) (float64, error) {
	body, err := f.fixed(n)
	if err != nil {
		return 0, err
	}
	out, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOverflow, err)
	}
	return out, nil
}

// constrain applies the sign constraint.
func (f *Formatter) constrain(n float64) float64 {
	switch f.opts.Sign {
	case SignPositive:
		return math.Abs(n)
	case SignNegative:
		return -math.Abs(n)
	default:
		return n
	}
}

// fixed returns the collapsed plain-decimal form of n: the max-precision
// rounding, shortened to the min-precision rounding when both agree, and to
// a whole number when that agrees too.
func (f *Formatter) fixed(n float64) (string, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "", ErrOverflow
	}
	d := decimal.NewFromFloat(f.constrain(n))
	if d.Abs().GreaterThanOrEqual(overflowLimit) {
		return "", ErrOverflow
	}

	minPlaces, maxPlaces := f.opts.places()
	atMax := d.Round(maxPlaces)
	atMin := d.Round(minPlaces)
	if !atMin.Equal(atMax) {
		return atMax.StringFixed(maxPlaces), nil
	}
	if f.opts.AlwaysShowDecimals {
		return atMin.StringFixed(minPlaces), nil
	}
	if whole := d.Round(0); whole.Equal(atMin) {
		return whole.String(), nil
	}
	// String drops trailing zeros: 3.10 renders as 3.1.
	return atMin.String(), nil
}

// scan strips decoration and reads the leading number of s. With
// integerOnly the fraction and exponent are ignored, so "12.7" reads 12.
func (f *Formatter) scan(s string, integerOnly bool) (float64, error) {
	cleaned := strings.TrimSpace(norm.NFKC.String(s))
	if f.prefix != "" {
		cleaned = strings.Replace(cleaned, f.prefix, "", 1)
	}
	if f.suffix != "" {
		cleaned = strings.Replace(cleaned, f.suffix, "", 1)
	}
	cleaned = strings.ReplaceAll(cleaned, f.group, "")
	if f.decimal != "." {
		cleaned = strings.Replace(cleaned, f.decimal, ".", 1)
	}

	num, ok := leadingNumber(strings.TrimSpace(cleaned), integerOnly)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrParseRejected, s)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("%w: %q", ErrParseRejected, s)
	}
	return n, nil
}

// leadingNumber returns the longest prefix of s that reads as a decimal
// number, so "12abc" yields "12". With integerOnly it stops before any
// fraction or exponent.
func leadingNumber(s string, integerOnly bool) (string, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if integerOnly {
		return s[:i], digits > 0
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return "", false
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return s[:end], true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// group inserts sep between every three digits, counting from the right.
func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
