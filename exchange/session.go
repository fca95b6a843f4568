package exchange

import (
	"github.com/Lafeng/dhlab/crypto"
	log "github.com/Lafeng/dhlab/glog"
	"github.com/Lafeng/dhlab/prime"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
)

// verdict cache of the oracle used by a session
const sessionCacheSize = 1024

// Session is one exchange between an in-process KeyHolder and Sender.
type Session struct {
	ID        uuid.UUID
	conf      *Config
	rng       prime.Source
	generator *prime.Generator
	params    *prime.DomainParameters
}

type Result struct {
	SessionID    uuid.UUID
	Method       string
	Params       prime.DomainParameters
	HolderPublic int64
	SenderPublic int64
	Encrypted    int64
	Decrypted    string
}

// NewSession prepares a session from conf. A nil rng seeds from the clock.
func NewSession(conf *Config, rng prime.Source) (*Session, error) {
	if conf == nil {
		conf = DefaultConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = prime.TimeSource()
	}
	oracle := prime.NewOracle(conf.Iterations, rng).WithCache(sessionCacheSize)
	gen := prime.NewGenerator(oracle, rng)
	gen.SearchLimit = conf.SearchLimit
	gen.Strict = conf.StrictRoot
	return &Session{
		ID:        uuid.New(),
		conf:      conf,
		rng:       rng,
		generator: gen,
	}, nil
}

// UseParams skips parameter generation.
func (s *Session) UseParams(dp prime.DomainParameters) error {
	if err := validateParams(dp); err != nil {
		return err
	}
	s.params = &dp
	return nil
}

func (s *Session) Generator() *prime.Generator {
	return s.generator
}

func (s *Session) newKeyHolder() (*KeyHolder, error) {
	if s.params != nil {
		return NewKeyHolderWith(*s.params, sampleSecret(s.rng, MinHolderSecret, s.params.Prime))
	}
	return NewKeyHolder(s.generator, s.conf.DigitCount, s.rng)
}

// Run carries message from a fresh Sender to a fresh KeyHolder. Both sides
// agree on a cipher key through the configured method, then the message
// travels in one envelope.
func (s *Session) Run(message string) (*Result, error) {
	holder, err := s.newKeyHolder()
	if err != nil {
		return nil, err
	}
	view := holder.PublicView()
	if log.V(log.LV_PARAMS) {
		log.Infof("session %s %s holder public %d", s.ID, view.Params, view.HolderPublic)
	}
	sender, err := NewSender(view, s.rng)
	if err != nil {
		return nil, err
	}
	holderKE, senderKE, err := s.agreement(holder, sender)
	if err != nil {
		return nil, err
	}

	p := view.Params.Prime
	senderKey, err := cipherKey(senderKE, holderKE.ExportPubKey(), p)
	if err != nil {
		return nil, err
	}
	if err = sender.BindWithKey(message, senderKey); err != nil {
		return nil, err
	}
	env, err := sender.Envelope()
	if err != nil {
		return nil, err
	}
	if err = holder.Receive(env); err != nil {
		return nil, err
	}
	holderKey, err := cipherKey(holderKE, senderKE.ExportPubKey(), p)
	if err != nil {
		return nil, err
	}
	plain, err := holder.DecryptWithKey(holderKey)
	if err != nil {
		return nil, err
	}

	if log.V(log.LV_DUMP) {
		log.Infoln("session", s.ID, "public view and envelope\n"+spew.Sdump(view, env))
	}
	return &Result{
		SessionID:    s.ID,
		Method:       s.conf.Method,
		Params:       view.Params,
		HolderPublic: view.HolderPublic,
		SenderPublic: env.SenderPublic,
		Encrypted:    env.Encrypted,
		Decrypted:    plain,
	}, nil
}

// agreement returns the holder's and the sender's side of the configured method.
func (s *Session) agreement(holder *KeyHolder, sender *Sender) (crypto.DHKE, crypto.DHKE, error) {
	if s.conf.Method == METHOD_TEXTBOOK {
		return holder.Agreement(), sender.Agreement(), nil
	}
	holderKE, err := crypto.NewDHKey(s.conf.Method)
	if err != nil {
		return nil, nil, err
	}
	senderKE, err := crypto.NewDHKey(s.conf.Method)
	if err != nil {
		return nil, nil, err
	}
	if log.V(log.LV_EXCHANGE) {
		log.Infof("session %s agrees through %s", s.ID, s.conf.Method)
	}
	return holderKE, senderKE, nil
}

func cipherKey(own crypto.DHKE, peerPub []byte, p int64) (int64, error) {
	shared, err := own.ComputeKey(peerPub)
	if err != nil {
		return 0, err
	}
	return crypto.CipherKey(own, shared, p)
}
