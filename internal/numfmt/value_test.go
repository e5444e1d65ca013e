package numfmt

import (
	"errors"
	"math"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFloat_NonFiniteIsEmpty(t *testing.T) {
	assert.True(t, Float(math.NaN()).IsEmpty())
	assert.True(t, Float(math.Inf(-1)).IsEmpty())
	assert.False(t, Float(0).IsEmpty())
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", Empty.String())
	assert.Equal(t, "1234", Float(1234).String())
	assert.Equal(t, "-0.5", Float(-0.5).String())
	assert.Equal(t, "0.1", Float(0.1).String())
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Empty.Equal(Value{}))
	assert.True(t, Float(2).Equal(Float(2)))
	assert.False(t, Float(2).Equal(Float(3)))
	assert.False(t, Float(0).Equal(Empty))
}

func TestParseValue(t *testing.T) {
	for _, in := range []string{"", "null", " NULL ", "nil"} {
		v, err := ParseValue(in)
		require.NoError(t, err, in)
		assert.True(t, v.IsEmpty(), in)
	}

	v, err := ParseValue("12.25")
	require.NoError(t, err)
	n, ok := v.Float64()
	assert.True(t, ok)
	assert.Equal(t, 12.25, n)

	_, err = ParseValue("$12")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParseRejected))

	_, err = ParseValue("NaN")
	assert.Error(t, err)
}

func TestValue_YAML(t *testing.T) {
	var doc struct {
		A Value `yaml:"a"`
		B Value `yaml:"b"`
		C Value `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 1.5\nb: null\nc: \"-3\"\n"), &doc))

	assert.True(t, doc.A.Equal(Float(1.5)))
	assert.True(t, doc.B.IsEmpty())
	assert.True(t, doc.C.Equal(Float(-3)))

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var back struct {
		A Value `yaml:"a"`
		B Value `yaml:"b"`
		C Value `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.True(t, back.A.Equal(doc.A))
	assert.True(t, back.B.IsEmpty())
	assert.True(t, back.C.Equal(doc.C))
}

func TestValue_TOML(t *testing.T) {
	var doc struct {
		Default Value `toml:"default"`
	}
	_, err := toml.Decode(`default = "42"`, &doc)
	require.NoError(t, err)
	assert.True(t, doc.Default.Equal(Float(42)))
}
