package suite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	th := 40 * time.Millisecond
	assert.Equal(t, Fast, classify(time.Hour, 0, false))
	assert.Equal(t, Fast, classify(0, th, true))
	assert.Equal(t, Fast, classify(20*time.Millisecond, th, true))
	assert.Equal(t, OnTime, classify(20*time.Millisecond+1, th, true))
	assert.Equal(t, OnTime, classify(th, th, true))
	assert.Equal(t, Slow, classify(th+1, th, true))
}

func TestSpeed_Text(t *testing.T) {
	for _, sp := range []Speed{Fast, OnTime, Slow} {
		text, err := sp.MarshalText()
		require.NoError(t, err)

		var back Speed
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, sp, back)
	}

	var s Speed
	assert.Error(t, s.UnmarshalText([]byte("glacial")))
}

func TestParsePrecision(t *testing.T) {
	cases := map[string]Precision{
		"":       Nano,
		"nano":   Nano,
		"ns":     Nano,
		"micro":  Micro,
		"us":     Micro,
		"μs":     Micro,
		"millis": Milli,
		"MS":     Milli,
		"sec":    Sec,
		"s":      Sec,
	}
	for in, want := range cases {
		got, err := ParsePrecision(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePrecision("fortnight")
	assert.Error(t, err)
}

func TestPrecision_Format(t *testing.T) {
	d := 12*time.Millisecond + 345*time.Microsecond + 678*time.Nanosecond

	assert.Equal(t, "(12345678ns)", Nano.Format(d))
	assert.Equal(t, "(12345μs)", Micro.Format(d))
	assert.Equal(t, "(12ms)", Milli.Format(d))
	assert.Equal(t, "(0sec)", Sec.Format(d))

	assert.Equal(t, 12*time.Millisecond, Milli.Truncate(d))
	assert.Equal(t, int64(12345), Micro.Units(d))
}

func TestPrecision_Text(t *testing.T) {
	var p Precision
	require.NoError(t, p.UnmarshalText([]byte("millis")))
	assert.Equal(t, Milli, p)

	text, err := Sec.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "sec", string(text))
}
