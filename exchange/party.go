// Package exchange runs the two-party key agreement: a KeyHolder publishes
// domain parameters and its public value, a Sender binds a message to a
// shared cipher key, and the KeyHolder recovers the message.
package exchange

import (
	"fmt"

	"github.com/Lafeng/dhlab/arith"
	"github.com/Lafeng/dhlab/codec"
	"github.com/Lafeng/dhlab/crypto"
	"github.com/Lafeng/dhlab/exception"
	log "github.com/Lafeng/dhlab/glog"
	"github.com/Lafeng/dhlab/prime"
)

const (
	// lowest KeyHolder secret, 1 would publish the generator itself
	MinHolderSecret = 2
	// lowest Sender secret
	MinSenderSecret = 3
	// smallest prime with a non-empty Sender secret range [3, p-2]
	MinPrime = 5
)

var (
	InvalidParams    = exception.InvalidInput.Derive("Invalid domain parameters:")
	InvalidSecret    = exception.InvalidInput.Derive("Secret exponent out of range:")
	InvalidPublic    = exception.InvalidInput.Derive("Public value out of range:")
	MessageNotBelow  = exception.InvalidInput.Derive("Message does not fit below the prime:")
	UnexpectedState  = exception.ProtocolViolation.Derive("Unexpected state:")
	NothingReceived  = exception.ProtocolViolation.Derive("Nothing received before decryption")
	EnvelopeNotReady = exception.ProtocolViolation.Derive("No message bound yet")
)

type State int

const (
	Initialized State = iota
	MessageBound
	Decrypted
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case MessageBound:
		return "MessageBound"
	case Decrypted:
		return "Decrypted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PublicView is everything a Sender may learn from a KeyHolder.
type PublicView struct {
	Params       prime.DomainParameters
	HolderPublic int64
}

// Envelope is what travels from the Sender to the KeyHolder.
type Envelope struct {
	SenderPublic int64
	Encrypted    int64
}

func validateParams(dp prime.DomainParameters) error {
	if dp.Prime < MinPrime {
		return InvalidParams.Apply(dp)
	}
	if dp.Generator < 2 || dp.Generator >= dp.Prime {
		return InvalidParams.Apply(dp)
	}
	return nil
}

func validateSecret(secret, lower, p int64) error {
	if secret < lower || secret > p-2 {
		return InvalidSecret.Apply(fmt.Sprintf("%d not in [%d, %d]", secret, lower, p-2))
	}
	return nil
}

// sample uniformly in [lower, p-2]
func sampleSecret(rng prime.Source, lower, p int64) int64 {
	return lower + rng.Int63n(p-1-lower)
}

type KeyHolder struct {
	params   prime.DomainParameters
	key      *crypto.TextbookKey
	received *Envelope
	state    State
}

// NewKeyHolder generates domain parameters of digitCount digits and a fresh key pair.
func NewKeyHolder(gen *prime.Generator, digitCount int, rng prime.Source) (*KeyHolder, error) {
	if rng == nil {
		rng = prime.TimeSource()
	}
	params, err := gen.Generate(digitCount)
	if err != nil {
		return nil, err
	}
	return NewKeyHolderWith(params, sampleSecret(rng, MinHolderSecret, params.Prime))
}

func NewKeyHolderWith(params prime.DomainParameters, secret int64) (*KeyHolder, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if err := validateSecret(secret, MinHolderSecret, params.Prime); err != nil {
		return nil, err
	}
	key, err := crypto.NewTextbookKey(params, secret)
	if err != nil {
		return nil, err
	}
	return &KeyHolder{params: params, key: key}, nil
}

func (k *KeyHolder) Params() prime.DomainParameters { return k.params }
func (k *KeyHolder) PublicValue() int64             { return k.key.Public() }
func (k *KeyHolder) State() State                   { return k.state }

// Agreement is the KeyHolder's side of the textbook key agreement.
func (k *KeyHolder) Agreement() crypto.DHKE { return k.key }

func (k *KeyHolder) PublicView() PublicView {
	return PublicView{Params: k.params, HolderPublic: k.key.Public()}
}

// Receive copies the envelope into the KeyHolder.
func (k *KeyHolder) Receive(env Envelope) error {
	if k.state != Initialized {
		return UnexpectedState.Apply(k.state)
	}
	p := k.params.Prime
	if env.SenderPublic < 1 || env.SenderPublic >= p {
		return InvalidPublic.Apply(env.SenderPublic)
	}
	if env.Encrypted < 0 || env.Encrypted >= p {
		return InvalidPublic.Apply(env.Encrypted)
	}
	k.received = &env
	return nil
}

// Decrypt derives the cipher key from the Sender's public value and recovers the message.
func (k *KeyHolder) Decrypt() (string, error) {
	if err := k.readyToDecrypt(); err != nil {
		return "", err
	}
	key, err := k.key.Shared(k.received.SenderPublic)
	if err != nil {
		return "", err
	}
	return k.DecryptWithKey(key)
}

// DecryptWithKey recovers the message with a cipher key agreed elsewhere.
func (k *KeyHolder) DecryptWithKey(key int64) (string, error) {
	if err := k.readyToDecrypt(); err != nil {
		return "", err
	}
	p := k.params.Prime
	inverse, err := arith.ModularInverse(key, p)
	if err != nil {
		return "", err
	}
	plain, err := arith.MulMod(k.received.Encrypted, inverse, p)
	if err != nil {
		return "", err
	}
	text, err := codec.Encode(plain)
	if err != nil {
		return "", err
	}
	k.state = Decrypted
	if log.V(log.LV_EXCHANGE) {
		log.Infof("key holder decrypted %d letters", len(text))
	}
	return text, nil
}

func (k *KeyHolder) readyToDecrypt() error {
	if k.state != Initialized {
		return UnexpectedState.Apply(k.state)
	}
	if k.received == nil {
		return NothingReceived
	}
	return nil
}

type Sender struct {
	view      PublicView
	key       *crypto.TextbookKey
	encrypted int64
	state     State
}

// NewSender samples a secret in [3, p-2] against the KeyHolder's public view.
func NewSender(view PublicView, rng prime.Source) (*Sender, error) {
	if rng == nil {
		rng = prime.TimeSource()
	}
	if err := validateParams(view.Params); err != nil {
		return nil, err
	}
	return NewSenderWith(view, sampleSecret(rng, MinSenderSecret, view.Params.Prime))
}

func NewSenderWith(view PublicView, secret int64) (*Sender, error) {
	if err := validateParams(view.Params); err != nil {
		return nil, err
	}
	p := view.Params.Prime
	if view.HolderPublic < 1 || view.HolderPublic >= p {
		return nil, InvalidPublic.Apply(view.HolderPublic)
	}
	if err := validateSecret(secret, MinSenderSecret, p); err != nil {
		return nil, err
	}
	key, err := crypto.NewTextbookKey(view.Params, secret)
	if err != nil {
		return nil, err
	}
	return &Sender{view: view, key: key}, nil
}

func (s *Sender) PublicValue() int64 { return s.key.Public() }
func (s *Sender) State() State       { return s.state }

// Agreement is the Sender's side of the textbook key agreement.
func (s *Sender) Agreement() crypto.DHKE { return s.key }

// Bind encodes message and encrypts it under the shared cipher key.
func (s *Sender) Bind(message string) error {
	if s.state != Initialized {
		return UnexpectedState.Apply(s.state)
	}
	key, err := s.key.Shared(s.view.HolderPublic)
	if err != nil {
		return err
	}
	return s.BindWithKey(message, key)
}

// BindWithKey encrypts message under a cipher key agreed elsewhere.
func (s *Sender) BindWithKey(message string, key int64) error {
	if s.state != Initialized {
		return UnexpectedState.Apply(s.state)
	}
	p := s.view.Params.Prime
	plain, err := codec.Decode(message)
	if err != nil {
		return err
	}
	if plain >= p {
		return MessageNotBelow.Apply(fmt.Sprintf("%q encodes to %d >= %d", message, plain, p))
	}
	s.encrypted, err = arith.MulMod(plain, key, p)
	if err != nil {
		return err
	}
	s.state = MessageBound
	if log.V(log.LV_EXCHANGE) {
		log.Infof("sender bound %d letters", len(message))
	}
	return nil
}

func (s *Sender) Envelope() (Envelope, error) {
	if s.state != MessageBound {
		return Envelope{}, EnvelopeNotReady
	}
	return Envelope{SenderPublic: s.key.Public(), Encrypted: s.encrypted}, nil
}
