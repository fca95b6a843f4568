// Package crypto holds the key agreements an exchange can run: the textbook
// one over fixed-width domain parameters, and reference agreements whose
// shared secrets are folded into a cipher key.
package crypto

import (
	"strings"

	"github.com/Lafeng/dhlab/exception"
)

const MethodTextbook = "TEXTBOOK"

var (
	NoSuchDHMethod = exception.ConfigError.Derive("No Such DH method")
	InvalidPeerKey = exception.InvalidInput.Derive("Invalid peer public key:")
)

// Methods are the reference agreements accepted by NewDHKey.
var Methods = []string{"DHE", "ECDHE-P256", "ECDHE-P384", "ECDHE-P521", "ECDHE-X25519", "ECDHE-SECP256K1"}

// DHKE is one side of a key agreement.
type DHKE interface {
	ExportPubKey() []byte
	ComputeKey(peerPub []byte) ([]byte, error)
}

// NewDHKey generates a fresh key for a reference agreement, case-insensitive.
func NewDHKey(name string) (DHKE, error) {
	name = strings.ToUpper(name)
	switch name {
	case "DHE":
		return generateGroupKey(modpGroup)
	case "ECDHE-SECP256K1", "SECP256K1":
		return generateKoblitzKey()
	}
	curve, ok := curves[strings.TrimPrefix(name, "ECDHE-")]
	if !ok {
		return nil, NoSuchDHMethod.Apply(name)
	}
	return generateCurveKey(curve)
}

// CipherKey turns the shared secret computed by agreement into a multiplier
// in [1, prime-1]. Textbook secrets already are one, the rest are folded.
func CipherKey(agreement DHKE, shared []byte, prime int64) (int64, error) {
	if _, ok := agreement.(*TextbookKey); ok {
		return unmarshalResidue(shared, prime)
	}
	return FoldKey(shared, prime)
}
