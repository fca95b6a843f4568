package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Lafeng/dhlab/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgreement(t *testing.T) {
	for _, method := range Methods {
		t.Run(method, func(t *testing.T) {
			alice, err := NewDHKey(method)
			require.NoError(t, err)
			bob, err := NewDHKey(method)
			require.NoError(t, err)

			k1, err := alice.ComputeKey(bob.ExportPubKey())
			require.NoError(t, err)
			k2, err := bob.ComputeKey(alice.ExportPubKey())
			require.NoError(t, err)
			assert.NotEmpty(t, k1)
			assert.True(t, bytes.Equal(k1, k2), "%s keys differ", method)

			c1, err := CipherKey(alice, k1, 7919)
			require.NoError(t, err)
			c2, err := CipherKey(bob, k2, 7919)
			require.NoError(t, err)
			assert.Equal(t, c1, c2)
			assert.True(t, c1 >= 1 && c1 < 7919)
		})
	}
}

func TestMethodNamesCaseInsensitive(t *testing.T) {
	for _, name := range []string{"dhe", "ecdhe-p256", "P384", "x25519", "secp256k1"} {
		_, err := NewDHKey(name)
		assert.NoError(t, err, name)
	}
}

func TestNoSuchMethod(t *testing.T) {
	for _, name := range []string{"ECDHE-P192", "ECDHE-P224", MethodTextbook, ""} {
		_, err := NewDHKey(name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, NoSuchDHMethod))
		assert.Equal(t, exception.EX_CONFIG, exception.ExitCode(err))
	}
}

func TestInvalidPeerKey(t *testing.T) {
	for _, method := range Methods {
		k, err := NewDHKey(method)
		require.NoError(t, err)
		_, err = k.ComputeKey([]byte{})
		assert.True(t, errors.Is(err, InvalidPeerKey), method)
	}
	k, err := NewDHKey("ECDHE-P256")
	require.NoError(t, err)
	_, err = k.ComputeKey([]byte{4, 1, 2, 3})
	assert.True(t, errors.Is(err, InvalidPeerKey))
	assert.Equal(t, exception.EX_INPUT, exception.ExitCode(err))
}

func TestFoldKey(t *testing.T) {
	secret := []byte("the same shared secret")
	for _, p := range []int64{3, 97, 7919, 999999999999999989} {
		k, err := FoldKey(secret, p)
		require.NoError(t, err)
		assert.True(t, k >= 1 && k <= p-1, "key %d outside [1, %d]", k, p-1)

		again, err := FoldKey(secret, p)
		require.NoError(t, err)
		assert.Equal(t, k, again)
	}
	// p=3 leaves only keys 1 and 2
	seen := map[int64]bool{}
	for i := 0; i < 64; i++ {
		k, err := FoldKey([]byte{byte(i)}, 3)
		require.NoError(t, err)
		seen[k] = true
	}
	assert.Len(t, seen, 2)
}

func TestFoldKeyInvalid(t *testing.T) {
	_, err := FoldKey(nil, 97)
	assert.True(t, errors.Is(err, EmptySecret))
	_, err = FoldKey([]byte{1}, 2)
	assert.True(t, errors.Is(err, ModulusTooLow))
	assert.True(t, errors.Is(err, exception.InvalidInput))
}
