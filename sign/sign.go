// Package sign creates detached ASCII-armored OpenPGP signatures for release
// artifacts. How to sign is decided by a [release.Signing] decision: key
// decisions sign in memory, the external agent decision signs with the secret
// key ring named by properties or runs gpg in batch mode with pinentry
// disabled.
package sign

import (
	"context"
	"fmt"
	"io"
	"sync"

	"git.fractalqb.de/fractalqb/relmk/mkcore"
	"git.fractalqb.de/fractalqb/relmk/release"
)

// Extension of signature files.
const Extension = ".asc"

// Signer writes a detached signature of data to sig.
type Signer interface {
	Sign(ctx context.Context, sig io.Writer, data io.Reader) error
	fmt.Stringer
}

type newSigner struct {
	s   Signer
	err error
}

// New creates the signer for decision s. Properties for the external agent
// are taken from env which may be nil. A relative key ring file is resolved
// against dir.
func New(s release.Signing, env *mkcore.Env, dir string) (Signer, error) {
	res := release.MatchSigning(s,
		func(k release.KeyFromFile) newSigner {
			im, err := NewInMemory(k.Key, k.Passphrase)
			if err != nil {
				return newSigner{err: fmt.Errorf("key file %s: %w", k.Path, err)}
			}
			return newSigner{s: im}
		},
		func(k release.KeyLiteral) newSigner {
			im, err := NewInMemory(k.Key, k.Passphrase)
			if err != nil {
				return newSigner{err: fmt.Errorf("key property: %w", err)}
			}
			return newSigner{s: im}
		},
		func(a release.ExternalAgent) newSigner {
			ring, ok := keyRingFile(env, dir)
			if !ok {
				return newSigner{s: NewAgent(a, env)}
			}
			id, _ := env.Prop(PropKeyID)
			pass, _ := env.Prop(PropPassword)
			im, err := LoadKeyRing(ring, id, pass)
			return newSigner{s: im, err: err}
		},
	)
	return res.s, res.err
}

func keyRingFile(env *mkcore.Env, dir string) (string, bool) {
	ring, ok := env.Prop(PropSecretKeyRingFile)
	if !ok || ring == "" {
		return "", false
	}
	return release.KeyPath(dir, ring), true
}

// Deferred is the signer of a decision that is created with [New] when the
// first signature is made. Goals that do not sign never fail on an unusable
// key.
type Deferred struct {
	Decision release.Signing
	Env      *mkcore.Env
	Dir      string

	once sync.Once
	s    Signer
	err  error
}

var _ Signer = (*Deferred)(nil)

func NewDeferred(s release.Signing, env *mkcore.Env, dir string) *Deferred {
	return &Deferred{Decision: s, Env: env, Dir: dir}
}

// Signer creates the signer once and then keeps it, or the error.
func (d *Deferred) Signer() (Signer, error) {
	d.once.Do(func() {
		d.s, d.err = New(d.Decision, d.Env, d.Dir)
	})
	return d.s, d.err
}

func (d *Deferred) Sign(ctx context.Context, sig io.Writer, data io.Reader) error {
	s, err := d.Signer()
	if err != nil {
		return err
	}
	return s.Sign(ctx, sig, data)
}

// String describes the signer without creating it.
func (d *Deferred) String() string {
	return release.MatchSigning(d.Decision,
		release.KeyFromFile.String,
		release.KeyLiteral.String,
		func(a release.ExternalAgent) string {
			if ring, ok := keyRingFile(d.Env, d.Dir); ok {
				return "secret key ring " + ring
			}
			return NewAgent(a, d.Env).String()
		},
	)
}
