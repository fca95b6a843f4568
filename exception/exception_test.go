package exception

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyKeepsKind(t *testing.T) {
	sentinel := InvalidInput.Derive("Bad letter")
	err := sentinel.Apply("x")
	assert.Equal(t, "Bad letter x", err.Error())
	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(err, InvalidInput))
	assert.False(t, errors.Is(err, ConfigError))
	assert.Equal(t, EX_INPUT, err.Code())
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidInput, EX_INPUT},
		{ArithmeticInconsistency.Apply(7), EX_ARITHMETIC},
		{SearchExhausted.Derive("none"), EX_EXHAUSTED},
		{fmt.Errorf("loading: %w", ConfigError.Apply("DigitCount")), EX_CONFIG},
		{fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ProtocolViolation)), EX_PROTOCOL},
		{errors.New("plain"), EX_GENERIC},
		{New(0, "no code"), EX_GENERIC},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ExitCode(c.err), "%v", c.err)
	}
}

func TestCatch(t *testing.T) {
	var err error
	func() {
		defer func() {
			assert.True(t, Catch(recover(), &err))
		}()
		panic(ProtocolViolation.Apply("boom"))
	}()
	assert.True(t, errors.Is(err, ProtocolViolation))

	err = nil
	assert.False(t, Catch(nil, &err))
	err = InvalidInput
	assert.True(t, Catch(nil, &err))

	func() {
		defer func() {
			assert.True(t, Catch(recover(), &err))
		}()
		panic("text")
	}()
	assert.Equal(t, "text", err.Error())
	assert.Equal(t, EX_GENERIC, ExitCode(err))
}
