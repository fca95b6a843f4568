package codec

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Lafeng/dhlab/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKnown(t *testing.T) {
	cases := map[string]int64{
		"a":   1,
		"z":   26,
		"ba":  2 + 27,
		"cab": 3 + 1*27 + 2*27*27,
		"CaB": 1488,
	}
	for text, want := range cases {
		got, err := Decode(text)
		require.NoError(t, err)
		assert.Equal(t, want, got, "Decode(%q)", text)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, text := range []string{"ab1", "hello world", "é", "a-b", "\n"} {
		_, err := Decode(text)
		require.Error(t, err, text)
		assert.True(t, errors.Is(err, NonAlphabetic))
		assert.True(t, errors.Is(err, exception.InvalidInput))
		assert.Equal(t, exception.EX_INPUT, exception.ExitCode(err))
	}
	_, err := Decode("")
	assert.True(t, errors.Is(err, EmptyMessage))

	_, err = Decode(strings.Repeat("z", 14))
	assert.True(t, errors.Is(err, MessageTooLong))
}

func TestDecodeLongest(t *testing.T) {
	got, err := Decode(strings.Repeat("z", 13))
	require.NoError(t, err)
	want := int64(1)
	for i := 0; i < 13; i++ {
		want *= Base
	}
	assert.Equal(t, want-1, got)
}

// every lowercase word of length 1..n
func words(n int, visit func(string)) {
	var rec func(prefix []byte)
	rec = func(prefix []byte) {
		if len(prefix) > 0 {
			visit(string(prefix))
		}
		if len(prefix) == n {
			return
		}
		for i := 0; i < len(Alphabet); i++ {
			rec(append(prefix, Alphabet[i]))
		}
	}
	rec(make([]byte, 0, n))
}

func TestRoundTripExhaustive(t *testing.T) {
	words(3, func(s string) {
		m, err := Decode(s)
		require.NoError(t, err)
		back, err := Encode(m)
		require.NoError(t, err)
		require.Equal(t, s, back)
	})
}

func TestRoundTripLonger(t *testing.T) {
	for _, s := range []string{"hello", "squid", "zzzzzz", "aaaaaa", "dhlabs", "Mixed", "abcdefghijklm"} {
		m, err := Decode(s)
		require.NoError(t, err)
		back, err := Encode(m)
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(s), back)
	}
}

func TestEncodeUnrepresentable(t *testing.T) {
	for _, m := range []int64{27, 81, 27 * 27, -1, math.MinInt64} {
		_, err := Encode(m)
		require.Error(t, err, "m=%d", m)
		assert.True(t, errors.Is(err, Unrepresentable))
	}
	s, err := Encode(0)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestMaxLetters(t *testing.T) {
	assert.Equal(t, 0, MaxLetters(26))
	assert.Equal(t, 1, MaxLetters(27))
	assert.Equal(t, 2, MaxLetters(7919))
	// 27^5 - 1 = 14348906
	assert.Equal(t, 4, MaxLetters(14348906))
	assert.Equal(t, 5, MaxLetters(14348907))
	assert.Equal(t, 5, MaxLetters(20000003))
	assert.Equal(t, 13, MaxLetters(math.MaxInt64))
}
