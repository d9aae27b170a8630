package pacman

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Verifier checks detached OpenPGP signatures of sync databases
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier from an armored or binary public keyring file
func NewVerifier(keyringPath string) (*Verifier, error) {
	if keyringPath == "" {
		return nil, fmt.Errorf("keyring path is empty")
	}

	keyFile, err := os.Open(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored keyring first
	entityList, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		// Try as binary keyring
		if _, err := keyFile.Seek(0, 0); err != nil {
			return nil, fmt.Errorf("failed to rewind keyring: %w", err)
		}
		entityList, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyring: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in keyring %s", keyringPath)
	}

	return &Verifier{keyring: entityList}, nil
}

// Verify checks signature (binary or armored) against data and returns the signing key id
func (v *Verifier) Verify(data, signature []byte) (string, error) {
	var signer *openpgp.Entity
	var err error

	if bytes.HasPrefix(bytes.TrimSpace(signature), []byte("-----BEGIN")) {
		signer, err = openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	} else {
		signer, err = openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(data), bytes.NewReader(signature), nil)
	}
	if err != nil {
		return "", fmt.Errorf("signature verification failed: %w", err)
	}

	return signer.PrimaryKey.KeyIdString(), nil
}
