// Package codec maps lowercase alphabetic messages to integers and back.
//
// Each letter is a base-27 digit in 1..26 (a=1 ... z=26) and the leftmost
// letter is the least significant digit, so "cab" is 3 + 1*27 + 2*27^2 = 1488.
// Zero digits never occur in a valid encoding.
package codec

import (
	"math"
	"strings"

	"github.com/Lafeng/dhlab/exception"
)

const (
	Base     = 27
	Alphabet = "abcdefghijklmnopqrstuvwxyz"
)

var (
	NonAlphabetic   = exception.InvalidInput.Derive("Received non alphabetical text:")
	EmptyMessage    = exception.InvalidInput.Derive("Empty message")
	MessageTooLong  = exception.InvalidInput.Derive("Message too long:")
	Unrepresentable = exception.InvalidInput.Derive("Integer has no alphabetic encoding:")
)

// Decode returns sum(value(text[i]) * 27^i), letters case-insensitive.
func Decode(text string) (int64, error) {
	if text == "" {
		return 0, EmptyMessage
	}
	var encoding int64
	place := int64(1)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c < 'a' || c > 'z' {
			return 0, NonAlphabetic.Apply(text)
		}
		if i > 0 {
			if place > math.MaxInt64/Base {
				return 0, MessageTooLong.Apply(text)
			}
			place *= Base
		}
		digit := int64(c-'a') + 1
		if encoding > math.MaxInt64-digit*place {
			return 0, MessageTooLong.Apply(text)
		}
		encoding += digit * place
	}
	return encoding, nil
}

// Encode is the inverse of Decode. Encode(0) is the empty string.
func Encode(m int64) (string, error) {
	if m < 0 {
		return "", Unrepresentable.Apply(m)
	}
	var sb strings.Builder
	for n := m; n > 0; n /= Base {
		digit := n % Base
		if digit == 0 {
			return "", Unrepresentable.Apply(m)
		}
		sb.WriteByte(Alphabet[digit-1])
	}
	return sb.String(), nil
}

// MaxLetters is the longest message length whose every encoding stays below
// modulus: 27^n - 1 < modulus.
func MaxLetters(modulus int64) int {
	n := 0
	for limit := int64(Base); limit-1 < modulus; limit *= Base {
		n++
		if limit > math.MaxInt64/Base {
			break
		}
	}
	return n
}
