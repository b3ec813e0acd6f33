package sign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// InMemory signs with a private key that is held in memory.
type InMemory struct {
	entity *openpgp.Entity
}

var _ Signer = (*InMemory)(nil)

// NewInMemory parses key, an ASCII-armored or binary OpenPGP secret key
// ring, and unlocks the first secret key with passphrase. Errors never
// contain the passphrase or key material.
func NewInMemory(key, passphrase string) (*InMemory, error) {
	el, err := readKeyRing(strings.NewReader(key), strings.Contains(key, armorStart))
	if err != nil {
		return nil, err
	}
	return selectKey(el, "", passphrase)
}

func readKeyRing(r io.Reader, armored bool) (el openpgp.EntityList, err error) {
	if armored {
		el, err = openpgp.ReadArmoredKeyRing(r)
	} else {
		el, err = openpgp.ReadKeyRing(r)
	}
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	return el, nil
}

// selectKey unlocks the first secret key whose primary key or one of its
// subkeys has keyID. An empty keyID selects the first secret key. Short (8)
// and long (16) hex IDs match case-insensitively.
func selectKey(el openpgp.EntityList, keyID, passphrase string) (*InMemory, error) {
	for _, e := range el {
		if e.PrivateKey == nil || !hasKeyID(e, keyID) {
			continue
		}
		if err := unlock(e, []byte(passphrase)); err != nil {
			return nil, err
		}
		return &InMemory{entity: e}, nil
	}
	if keyID != "" {
		return nil, fmt.Errorf("no secret key %s in signing key ring", keyID)
	}
	return nil, errors.New("no secret key in signing key ring")
}

func hasKeyID(e *openpgp.Entity, keyID string) bool {
	if keyID == "" {
		return true
	}
	keyID = strings.TrimPrefix(strings.ToUpper(keyID), "0X")
	match := func(short, long string) bool {
		return keyID == strings.ToUpper(short) || keyID == strings.ToUpper(long)
	}
	if match(e.PrimaryKey.KeyIdShortString(), e.PrimaryKey.KeyIdString()) {
		return true
	}
	for _, sk := range e.Subkeys {
		if match(sk.PublicKey.KeyIdShortString(), sk.PublicKey.KeyIdString()) {
			return true
		}
	}
	return false
}

func unlock(e *openpgp.Entity, passphrase []byte) error {
	if e.PrivateKey.Encrypted {
		if err := e.PrivateKey.Decrypt(passphrase); err != nil {
			return fmt.Errorf("unlock signing key %s: %w", e.PrivateKey.KeyIdShortString(), err)
		}
	}
	for _, sk := range e.Subkeys {
		if sk.PrivateKey != nil && sk.PrivateKey.Encrypted {
			if err := sk.PrivateKey.Decrypt(passphrase); err != nil {
				return fmt.Errorf("unlock signing subkey %s: %w", sk.PrivateKey.KeyIdShortString(), err)
			}
		}
	}
	return nil
}

// KeyID is the short ID of the signing key.
func (im *InMemory) KeyID() string { return im.entity.PrivateKey.KeyIdShortString() }

func (im *InMemory) String() string {
	return fmt.Sprintf("in-memory key %s", im.KeyID())
}

func (im *InMemory) Sign(ctx context.Context, sig io.Writer, data io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return openpgp.ArmoredDetachSign(sig, im.entity, ctxReader{ctx, data}, nil)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
