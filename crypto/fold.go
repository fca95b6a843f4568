package crypto

import (
	"encoding/binary"

	"github.com/Lafeng/dhlab/exception"
	"github.com/dchest/siphash"
)

var (
	EmptySecret   = exception.InvalidInput.Derive("Empty shared secret")
	ModulusTooLow = exception.InvalidInput.Derive("Cannot fold into modulus")
)

// fixed SipHash key, the shared secret is the only secret input
var foldKey = [16]byte{'d', 'h', 'l', 'a', 'b', '-', 'f', 'o', 'l', 'd', '-', 'k', 'e', 'y', 0, 1}

// FoldKey maps a shared secret to a cipher key in [1, prime-1].
// Zero is excluded so the key stays invertible modulo a prime.
func FoldKey(shared []byte, prime int64) (int64, error) {
	if len(shared) == 0 {
		return 0, EmptySecret
	}
	if prime < 3 {
		return 0, ModulusTooLow.Apply(prime)
	}
	k0 := binary.LittleEndian.Uint64(foldKey[:8])
	k1 := binary.LittleEndian.Uint64(foldKey[8:])
	h := siphash.Hash(k0, k1, shared)
	return int64(h%uint64(prime-1)) + 1, nil
}
