package numfmt

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/klauern/numfield/internal/validation"
)

// numberRunes may appear in the number itself, never in its decoration.
const numberRunes = "0123456789+-"

// MaxPlaces is the largest supported number of decimal places.
const MaxPlaces = 20

// SignConstraint forces values to one side of zero.
type SignConstraint string

const (
	// SignAny leaves the sign untouched.
	SignAny SignConstraint = ""
	// SignPositive forces the absolute value.
	SignPositive SignConstraint = "positive"
	// SignNegative forces the negated absolute value.
	SignNegative SignConstraint = "negative"
)

// IsValid returns true if the constraint is recognized.
func (s SignConstraint) IsValid() bool {
	switch s {
	case SignAny, SignPositive, SignNegative:
		return true
	default:
		return false
	}
}

// String returns the string representation of the constraint.
func (s SignConstraint) String() string {
	if s == SignAny {
		return "any"
	}
	return string(s)
}

// ParseSignConstraint converts a string to a SignConstraint.
// Empty input and "any"/"none" yield SignAny.
func ParseSignConstraint(s string) (SignConstraint, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "", "any", "none":
		return SignAny, nil
	case "positive", "positive-only", "positiveonly", "+":
		return SignPositive, nil
	case "negative", "negative-only", "negativeonly", "-":
		return SignNegative, nil
	default:
		return "", fmt.Errorf("unknown sign constraint %q (valid: any, positive, negative)", s)
	}
}

// SignFromFlags maps a positive-only/negative-only flag pair to a constraint.
// Setting both is a configuration error.
func SignFromFlags(positiveOnly, negativeOnly bool) (SignConstraint, error) {
	switch {
	case positiveOnly && negativeOnly:
		return "", &validation.Error{
			Field:   "sign",
			Message: "positive-only and negative-only are mutually exclusive",
			Err:     ErrInvalidConfig,
		}
	case positiveOnly:
		return SignPositive, nil
	case negativeOnly:
		return SignNegative, nil
	default:
		return SignAny, nil
	}
}

// Locale holds the grouping and decimal separators used for display.
type Locale struct {
	GroupSeparator   string `yaml:"group_separator" toml:"group_separator"`
	DecimalSeparator string `yaml:"decimal_separator" toml:"decimal_separator"`
}

// DefaultLocale uses American conventions: "1,234.5".
func DefaultLocale() Locale {
	return Locale{GroupSeparator: ",", DecimalSeparator: "."}
}

// Options is the Format Configuration of a numeric field.
type Options struct {
	// Integer disables decimal places entirely.
	Integer bool `yaml:"integer" toml:"integer"`
	// Sign clamps values to one side of zero.
	Sign SignConstraint `yaml:"sign,omitempty" toml:"sign"`
	// MinDecimalPlaces is the precision values collapse to when nothing is lost.
	MinDecimalPlaces int `yaml:"min_decimal_places" toml:"min_decimal_places"`
	// MaxDecimalPlaces is the absolute precision limit.
	MaxDecimalPlaces int `yaml:"max_decimal_places" toml:"max_decimal_places"`
	// AlwaysShowDecimals keeps MinDecimalPlaces digits on whole numbers.
	AlwaysShowDecimals bool `yaml:"always_show_decimals" toml:"always_show_decimals"`
	// GroupDigits separates thousands in the integer part.
	GroupDigits bool `yaml:"group_digits" toml:"group_digits"`
	// Prefix is prepended on format and stripped on parse.
	Prefix string `yaml:"prefix,omitempty" toml:"prefix"`
	// Suffix is appended on format and stripped on parse.
	Suffix string `yaml:"suffix,omitempty" toml:"suffix"`
	// Default is the fallback used when input is not a number.
	Default Value `yaml:"default" toml:"default"`
	// Locale supplies the separators. Zero value means DefaultLocale.
	Locale Locale `yaml:"locale" toml:"locale"`
}

// DefaultOptions returns the options of a plain decimal field.
func DefaultOptions() Options {
	return Options{
		MinDecimalPlaces: 2,
		MaxDecimalPlaces: 4,
		Locale:           DefaultLocale(),
	}
}

// places returns the effective min and max decimal places.
func (o Options) places() (minPlaces, maxPlaces int32) {
	if o.Integer {
		return 0, 0
	}
	return int32(o.MinDecimalPlaces), int32(o.MaxDecimalPlaces)
}

// locale returns the configured locale, filling unset separators.
func (o Options) locale() Locale {
	l := o.Locale
	def := DefaultLocale()
	if l.GroupSeparator == "" {
		l.GroupSeparator = def.GroupSeparator
	}
	if l.DecimalSeparator == "" {
		l.DecimalSeparator = def.DecimalSeparator
	}
	return l
}

// Validate reports every reason the options can never format correctly.
func (o Options) Validate() error {
	result := validation.NewResult()

	if !o.Sign.IsValid() {
		result.Fail("sign", fmt.Sprintf("unknown sign constraint %q", string(o.Sign)), ErrInvalidConfig)
	}

	if !o.Integer {
		if o.MinDecimalPlaces < 0 {
			result.Fail("min_decimal_places", "must not be negative", ErrInvalidConfig)
		}
		if o.MaxDecimalPlaces > MaxPlaces {
			result.Fail("max_decimal_places", fmt.Sprintf("must not exceed %d", MaxPlaces), ErrInvalidConfig)
		}
		if o.MinDecimalPlaces > o.MaxDecimalPlaces {
			result.Fail("min_decimal_places",
				fmt.Sprintf("min (%d) exceeds max (%d)", o.MinDecimalPlaces, o.MaxDecimalPlaces),
				ErrInvalidConfig)
		}
	}

	// Parsing matches the NFKC forms, so the checks run on those.
	loc := o.locale()
	group := norm.NFKC.String(loc.GroupSeparator)
	decimal := norm.NFKC.String(loc.DecimalSeparator)
	if group == decimal {
		result.Fail("locale", "group and decimal separators must differ", ErrInvalidConfig)
	}
	if strings.ContainsAny(group+decimal, numberRunes) {
		result.Fail("locale", "separators must not contain digits or signs", ErrInvalidConfig)
	}
	if strings.TrimSpace(decimal) == "" {
		result.Fail("locale", "decimal separator must not be blank", ErrInvalidConfig)
	}

	for _, d := range []struct{ name, value string }{{"prefix", o.Prefix}, {"suffix", o.Suffix}} {
		v := norm.NFKC.String(d.value)
		if v == "" {
			continue
		}
		if strings.ContainsAny(v, numberRunes) {
			result.Fail(d.name, fmt.Sprintf("%q must not contain digits or signs", d.value), ErrInvalidConfig)
		}
		if strings.Contains(v, group) || strings.Contains(v, decimal) {
			result.Fail(d.name, fmt.Sprintf("%q must not contain the group or decimal separator", d.value), ErrInvalidConfig)
		}
	}

	return result.Error()
}
