package crypto

import (
	"crypto/ecdh"
	"crypto/rand"

	"github.com/btcsuite/btcd/btcec/v2"
)

var curves = map[string]ecdh.Curve{
	"P256":   ecdh.P256(),
	"P384":   ecdh.P384(),
	"P521":   ecdh.P521(),
	"X25519": ecdh.X25519(),
}

type curveKey struct {
	priv *ecdh.PrivateKey
}

func generateCurveKey(curve ecdh.Curve) (*curveKey, error) {
	priv, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &curveKey{priv: priv}, nil
}

func (k *curveKey) ExportPubKey() []byte {
	return k.priv.PublicKey().Bytes()
}

func (k *curveKey) ComputeKey(peerPub []byte) ([]byte, error) {
	pub, err := k.priv.Curve().NewPublicKey(peerPub)
	if err != nil {
		// not a point of the curve
		return nil, InvalidPeerKey.Apply(err)
	}
	shared, err := k.priv.ECDH(pub)
	if err != nil {
		return nil, InvalidPeerKey.Apply(err)
	}
	return shared, nil
}

// secp256k1 is outside crypto/ecdh
type koblitzKey struct {
	priv *btcec.PrivateKey
}

func generateKoblitzKey() (*koblitzKey, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &koblitzKey{priv: priv}, nil
}

func (k *koblitzKey) ExportPubKey() []byte {
	return k.priv.PubKey().SerializeCompressed()
}

func (k *koblitzKey) ComputeKey(peerPub []byte) ([]byte, error) {
	pub, err := btcec.ParsePubKey(peerPub)
	if err != nil {
		return nil, InvalidPeerKey.Apply(err)
	}
	return btcec.GenerateSharedSecret(k.priv, pub), nil
}
