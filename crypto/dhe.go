package crypto

import (
	"github.com/monnand/dhkx"
)

// RFC 3526 2048-bit MODP group
const modpGroup = 14

type groupKey struct {
	group *dhkx.DHGroup
	priv  *dhkx.DHKey
}

func generateGroupKey(id int) (*groupKey, error) {
	group, err := dhkx.GetGroup(id)
	if err != nil {
		return nil, err
	}
	// nil reader is crypto/rand
	priv, err := group.GeneratePrivateKey(nil)
	if err != nil {
		return nil, err
	}
	return &groupKey{group: group, priv: priv}, nil
}

func (k *groupKey) ExportPubKey() []byte {
	return k.priv.Bytes()
}

func (k *groupKey) ComputeKey(peerPub []byte) ([]byte, error) {
	if len(peerPub) == 0 {
		return nil, InvalidPeerKey.Apply("empty")
	}
	shared, err := k.group.ComputeKey(dhkx.NewPublicKey(peerPub), k.priv)
	if err != nil {
		return nil, InvalidPeerKey.Apply(err)
	}
	return shared.Bytes(), nil
}
