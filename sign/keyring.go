package sign

import (
	"bufio"
	"fmt"
	"os"
)

// Properties that select a secret key ring for the external agent decision.
// With PropSecretKeyRingFile set, signing uses the key ring in memory and
// never starts gpg or its agent.
const (
	PropKeyID             = "signing.keyId"
	PropPassword          = "signing.password"
	PropSecretKeyRingFile = "signing.secretKeyRingFile"
)

// LoadKeyRing reads the secret key ring file, binary or ASCII-armored, and
// unlocks the key with keyID.
func LoadKeyRing(file, keyID, password string) (*InMemory, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("secret key ring: %w", err)
	}
	defer f.Close()
	r := bufio.NewReader(f)
	head, _ := r.Peek(len(armorStart))
	el, err := readKeyRing(r, string(head) == armorStart)
	if err != nil {
		return nil, fmt.Errorf("secret key ring %s: %w", file, err)
	}
	return selectKey(el, keyID, password)
}

const armorStart = "-----BEGIN PGP"
