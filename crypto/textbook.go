package crypto

import (
	"encoding/binary"
	"fmt"

	"github.com/Lafeng/dhlab/arith"
	"github.com/Lafeng/dhlab/exception"
	"github.com/Lafeng/dhlab/prime"
)

// residues travel as 8 big-endian bytes
const residueSize = 8

var InvalidSecret = exception.InvalidInput.Derive("Secret exponent out of range:")

// TextbookKey is g^secret mod p over fixed-width domain parameters.
type TextbookKey struct {
	params prime.DomainParameters
	secret int64
	public int64
}

// NewTextbookKey accepts secrets in [1, p-2].
func NewTextbookKey(params prime.DomainParameters, secret int64) (*TextbookKey, error) {
	if secret < 1 || secret > params.Prime-2 {
		return nil, InvalidSecret.Apply(fmt.Sprintf("%d not in [1, %d]", secret, params.Prime-2))
	}
	public, err := arith.PowerMod(params.Generator, secret, params.Prime)
	if err != nil {
		return nil, err
	}
	return &TextbookKey{params: params, secret: secret, public: public}, nil
}

func (k *TextbookKey) Public() int64 { return k.public }

// Shared raises the peer's public value to the own secret.
func (k *TextbookKey) Shared(peerPublic int64) (int64, error) {
	if peerPublic < 1 || peerPublic >= k.params.Prime {
		return 0, InvalidPeerKey.Apply(peerPublic)
	}
	return arith.PowerMod(peerPublic, k.secret, k.params.Prime)
}

func (k *TextbookKey) ExportPubKey() []byte {
	return marshalResidue(k.public)
}

func (k *TextbookKey) ComputeKey(peerPub []byte) ([]byte, error) {
	peer, err := unmarshalResidue(peerPub, k.params.Prime)
	if err != nil {
		return nil, err
	}
	shared, err := k.Shared(peer)
	if err != nil {
		return nil, err
	}
	return marshalResidue(shared), nil
}

func marshalResidue(v int64) []byte {
	b := make([]byte, residueSize)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// unmarshalResidue reads a residue in [1, prime-1].
func unmarshalResidue(b []byte, prime int64) (int64, error) {
	if len(b) != residueSize {
		return 0, InvalidPeerKey.Apply(fmt.Sprintf("%d bytes", len(b)))
	}
	v := int64(binary.BigEndian.Uint64(b))
	if v < 1 || v >= prime {
		return 0, InvalidPeerKey.Apply(v)
	}
	return v, nil
}
