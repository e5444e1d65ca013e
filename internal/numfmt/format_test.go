package numfmt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_DecimalCollapsing(t *testing.T) {
	f := MustNew(Options{MinDecimalPlaces: 2, MaxDecimalPlaces: 4})

	tests := map[string]struct {
		in   float64
		want string
	}{
		"whole number collapses to integer":   {in: 3.0, want: "3"},
		"trailing zero dropped at min places": {in: 3.10, want: "3.1"},
		"full precision kept":                 {in: 3.1234, want: "3.1234"},
		"min precision kept":                  {in: 3.12, want: "3.12"},
		"rounded to max places":               {in: 3.14159, want: "3.1416"},
		"half away from zero":                 {in: 2.00005, want: "2.0001"},
		"negative half away from zero":        {in: -2.00005, want: "-2.0001"},
		"tiny negative rounds to zero":        {in: -0.00001, want: "0"},
		"zero":                                {in: 0, want: "0"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatFloat(tt.in))
		})
	}
}

func TestFormat_AlwaysShowDecimals(t *testing.T) {
	f := MustNew(Options{MinDecimalPlaces: 2, MaxDecimalPlaces: 4, AlwaysShowDecimals: true})

	assert.Equal(t, "3.00", f.FormatFloat(3))
	assert.Equal(t, "3.10", f.FormatFloat(3.1))
	assert.Equal(t, "3.1234", f.FormatFloat(3.1234))
}

func TestFormat_Grouping(t *testing.T) {
	f := MustNew(Options{GroupDigits: true, MaxDecimalPlaces: 1})

	assert.Equal(t, "1,234,567.5", f.FormatFloat(1234567.5))
	assert.Equal(t, "999", f.FormatFloat(999))
	assert.Equal(t, "1,000", f.FormatFloat(1000))
	assert.Equal(t, "-12,345", f.FormatFloat(-12345))
	assert.Equal(t, "0.5", f.FormatFloat(0.5))
}

func TestFormat_GroupingNeverTouchesFraction(t *testing.T) {
	f := MustNew(Options{GroupDigits: true, MaxDecimalPlaces: 6})

	assert.Equal(t, "1,234.123456", f.FormatFloat(1234.123456))
}

func TestFormat_SignOutsidePrefix(t *testing.T) {
	f := MustNew(Options{Prefix: "$"})

	assert.Equal(t, "-$42", f.FormatFloat(-42))
	assert.Equal(t, "$42", f.FormatFloat(42))
}

func TestFormat_PrefixSuffix(t *testing.T) {
	f := MustNew(Options{Prefix: "$", Suffix: " USD", GroupDigits: true, MinDecimalPlaces: 2, MaxDecimalPlaces: 2, AlwaysShowDecimals: true})

	assert.Equal(t, "$1,234.00 USD", f.FormatFloat(1234))
	assert.Equal(t, "-$0.50 USD", f.FormatFloat(-0.5))
}

func TestFormat_SignConstraints(t *testing.T) {
	pos := MustNew(Options{Sign: SignPositive})
	neg := MustNew(Options{Sign: SignNegative})

	assert.Equal(t, "5", pos.FormatFloat(-5))
	assert.Equal(t, "-5", neg.FormatFloat(5))
	assert.Equal(t, "0", neg.FormatFloat(0))
}

func TestFormat_Integer(t *testing.T) {
	f := MustNew(Options{Integer: true, MinDecimalPlaces: 2, MaxDecimalPlaces: 4, AlwaysShowDecimals: true})

	assert.Equal(t, "13", f.FormatFloat(12.7))
	assert.Equal(t, "-13", f.FormatFloat(-12.5))
	assert.Equal(t, "12", f.FormatFloat(12.4))
}

func TestFormat_RawInput(t *testing.T) {
	f := MustNew(Options{Prefix: "$", GroupDigits: true, MaxDecimalPlaces: 2})

	assert.Equal(t, "$1,234.50", f.Format("1234.5"))
	assert.Equal(t, "$1,234.50", f.Format("$1,234.5"))
	assert.Equal(t, "$12", f.Format("12abc"))
	assert.Equal(t, "", f.Format("abc"))
	assert.Equal(t, "", f.Format(""))
}

func TestFormat_DefaultFallback(t *testing.T) {
	f := MustNew(Options{Default: Float(7), Suffix: "%"})

	assert.Equal(t, "7%", f.Format("not a number"))
	assert.Equal(t, "7%", f.FormatValue(Empty))
	assert.Equal(t, "7%", f.FormatFloat(math.NaN()))
	assert.Equal(t, "3%", f.Format("3"))
}

func TestFormat_Overflow(t *testing.T) {
	f := MustNew(DefaultOptions())

	assert.Equal(t, "", f.FormatFloat(1e21))
	assert.Equal(t, "", f.FormatFloat(math.Inf(1)))
	assert.Equal(t, "100000000000000000000", f.FormatFloat(1e20))
}

func TestFormat_Locale(t *testing.T) {
	f := MustNew(Options{
		GroupDigits:      true,
		MaxDecimalPlaces: 2,
		Suffix:           " €",
		Locale:           Locale{GroupSeparator: ".", DecimalSeparator: ","},
	})

	assert.Equal(t, "1.234.567,89 €", f.FormatFloat(1234567.891))

	got, err := f.Parse("1.234.567,89 €")
	require.NoError(t, err)
	assert.Equal(t, 1234567.89, got)
}

func TestParse(t *testing.T) {
	f := MustNew(Options{Prefix: "$", Suffix: "/mo", MinDecimalPlaces: 2, MaxDecimalPlaces: 4})

	tests := map[string]struct {
		in   string
		want float64
	}{
		"plain":             {in: "12.5", want: 12.5},
		"decorated":         {in: "$1,234.5/mo", want: 1234.5},
		"negative outside":  {in: "-$42", want: -42},
		"rounds to max":     {in: "1.23456", want: 1.2346},
		"lenient trailing":  {in: "12abc", want: 12},
		"leading dot":       {in: ".5", want: 0.5},
		"trailing dot":      {in: "7.", want: 7},
		"exponent":          {in: "1.5e3", want: 1500},
		"whitespace":        {in: "  8  ", want: 8},
		"full width digits": {in: "１２３", want: 123},
		"explicit plus":     {in: "+3", want: 3},
		"dangling exponent": {in: "4e", want: 4},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := f.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_PrefixStrippedOnce(t *testing.T) {
	f := MustNew(Options{Prefix: "$"})

	_, err := f.Parse("$$5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParseRejected))
}

func TestParse_Rejected(t *testing.T) {
	f := MustNew(DefaultOptions())

	for _, in := range []string{"", "abc", "-", ".", "$5", "1e400"} {
		_, err := f.Parse(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, IsRejected(err), "input %q: %v", in, err)
	}
}

func TestParse_SignConstraints(t *testing.T) {
	neg := MustNew(Options{Sign: SignNegative})
	pos := MustNew(Options{Sign: SignPositive})

	got, err := neg.Parse("5")
	require.NoError(t, err)
	assert.Equal(t, -5.0, got)

	got, err = pos.Parse("-5")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
}

func TestParse_Integer(t *testing.T) {
	f := MustNew(Options{Integer: true, Prefix: "$", GroupDigits: true})

	tests := map[string]float64{
		"12.7":       12,
		"-3.9":       -3,
		"1e3":        1,
		"$1,234.99":  1234,
		"42abc":      42,
		"0.9":        0,
		"+7":         7,
		"$-1,000.50": -1000,
	}
	for in, want := range tests {
		got, err := f.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := f.Parse(".5")
	assert.True(t, IsRejected(err), "a fraction without whole digits has no integer part")

	// The display still rounds; only parsing truncates.
	assert.Equal(t, "$13", f.Format("12.7"))
}

func TestParse_Overflow(t *testing.T) {
	f := MustNew(DefaultOptions())

	_, err := f.Parse("1e22")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverflow))
}

func TestCommit(t *testing.T) {
	withDefault := MustNew(Options{Default: Float(1)})
	noDefault := MustNew(DefaultOptions())

	assert.True(t, withDefault.Commit("oops").Equal(Float(1)))
	assert.True(t, withDefault.Commit("2").Equal(Float(2)))
	assert.True(t, noDefault.Commit("oops").IsEmpty())
}

func TestRoundTrip(t *testing.T) {
	configs := map[string]Options{
		"defaults":       DefaultOptions(),
		"currency":       {Prefix: "$", GroupDigits: true, MinDecimalPlaces: 2, MaxDecimalPlaces: 2, AlwaysShowDecimals: true},
		"integer":        {Integer: true, GroupDigits: true, Suffix: " units"},
		"negative only":  {Sign: SignNegative, MaxDecimalPlaces: 3},
		"positive only":  {Sign: SignPositive, MinDecimalPlaces: 1, MaxDecimalPlaces: 6, Suffix: "%"},
		"european":       {GroupDigits: true, MaxDecimalPlaces: 2, Locale: Locale{GroupSeparator: ".", DecimalSeparator: ","}},
		"wide precision": {MinDecimalPlaces: 0, MaxDecimalPlaces: 10},
		"french":         {GroupDigits: true, MaxDecimalPlaces: 2, Suffix: "€", Locale: Locale{GroupSeparator: "\u202f", DecimalSeparator: ","}},
		"no-break space": {GroupDigits: true, MaxDecimalPlaces: 2, Locale: Locale{GroupSeparator: "\u00a0", DecimalSeparator: ","}},
	}
	values := []float64{0, 1, -1, 3.1, 3.14159, -42.5, 1234567.891, 0.00049, -0.5, 999.9999, 12345678901.25, 2.5, -2.5}

	for name, opts := range configs {
		t.Run(name, func(t *testing.T) {
			f := MustNew(opts)
			for _, x := range values {
				want, err := f.Normalize(x)
				require.NoError(t, err)

				got, err := f.Parse(f.FormatFloat(x))
				require.NoError(t, err, "x=%v formatted=%q", x, f.FormatFloat(x))
				assert.Equal(t, want, got, "x=%v formatted=%q", x, f.FormatFloat(x))

				// A second cycle must not drift.
				again, err := f.Parse(f.FormatFloat(got))
				require.NoError(t, err)
				assert.Equal(t, got, again, "x=%v", x)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := map[string]Options{
		"min exceeds max":       {MinDecimalPlaces: 4, MaxDecimalPlaces: 2},
		"negative min":          {MinDecimalPlaces: -1, MaxDecimalPlaces: 2},
		"too many places":       {MaxDecimalPlaces: MaxPlaces + 1},
		"unknown sign":          {Sign: SignConstraint("sideways")},
		"same separators":       {Locale: Locale{GroupSeparator: ".", DecimalSeparator: "."}},
		"digit as separator":    {Locale: Locale{GroupSeparator: "0", DecimalSeparator: "."}},
		"equal once normalized": {Locale: Locale{GroupSeparator: "\u00a0", DecimalSeparator: " "}},
		"full-width digit":      {Locale: Locale{GroupSeparator: "\uff11", DecimalSeparator: "."}},
		"blank decimal":         {Locale: Locale{GroupSeparator: ",", DecimalSeparator: "\u2009"}},
		"digit in prefix":       {Prefix: "No1 "},
		"sign in suffix":        {Suffix: "-ish"},
		"separator in prefix":   {Prefix: "Rs."},
		"separator in suffix":   {Suffix: "\u00a0kg", Locale: Locale{GroupSeparator: " ", DecimalSeparator: ","}},
	}

	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := New(opts)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestNew_IntegerIgnoresPlaces(t *testing.T) {
	_, err := New(Options{Integer: true, MinDecimalPlaces: 5, MaxDecimalPlaces: 1})
	assert.NoError(t, err)
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(Options{MinDecimalPlaces: 3, MaxDecimalPlaces: 1})
	})
}

func TestSignFromFlags(t *testing.T) {
	s, err := SignFromFlags(true, false)
	require.NoError(t, err)
	assert.Equal(t, SignPositive, s)

	s, err = SignFromFlags(false, true)
	require.NoError(t, err)
	assert.Equal(t, SignNegative, s)

	s, err = SignFromFlags(false, false)
	require.NoError(t, err)
	assert.Equal(t, SignAny, s)

	_, err = SignFromFlags(true, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestParseSignConstraint(t *testing.T) {
	for in, want := range map[string]SignConstraint{
		"":              SignAny,
		"none":          SignAny,
		"Positive":      SignPositive,
		"negative-only": SignNegative,
	} {
		got, err := ParseSignConstraint(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSignConstraint("both")
	assert.Error(t, err)
}

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"123", "123", true},
		{"-1.5x", "-1.5", true},
		{"1e5", "1e5", true},
		{"1e+", "1", true},
		{"+", "", false},
		{"", "", false},
		{"x1", "", false},
	}
	for _, tt := range tests {
		got, ok := leadingNumber(tt.in, false)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLeadingNumber_IntegerOnly(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"12.7", "12", true},
		{"-3.9", "-3", true},
		{"1e3", "1", true},
		{"7", "7", true},
		{".5", "", false},
		{"-", "", false},
	}
	for _, tt := range tests {
		got, ok := leadingNumber(tt.in, true)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormat_NoBreakSpaceLocale(t *testing.T) {
	f := MustNew(Options{
		GroupDigits:      true,
		MaxDecimalPlaces: 2,
		Locale:           Locale{GroupSeparator: "\u00a0", DecimalSeparator: ","},
	})

	shown := f.FormatFloat(1234.5)
	assert.Equal(t, "1\u00a0234,50", shown)

	got, err := f.Parse(shown)
	require.NoError(t, err)
	assert.Equal(t, 1234.5, got)

	got, err = f.Parse("1 234 567,8")
	require.NoError(t, err)
	assert.Equal(t, 1234567.8, got)
}
