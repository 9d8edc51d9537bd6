// Package gpg signs gate evidence with OpenPGP detached signatures.
package gpg

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// SignatureSuffix is appended to a signed file's path
const SignatureSuffix = ".asc"

// Signer produces armored detached signatures using ProtonMail's go-crypto
// This is in external-adapters to isolate the external dependency
type Signer struct {
	entity *openpgp.Entity
}

// NewSignerFromFile loads the first private key of an armored (or binary)
// keyring file. Encrypted keys are rejected.
func NewSignerFromFile(keyPath string) (*Signer, error) {
	//nolint:gosec // G304: keyPath is the operator-supplied signing key
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}

	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	return NewSigner(entities)
}

// NewSigner picks the first entity carrying an unencrypted private key
func NewSigner(keyring openpgp.EntityList) (*Signer, error) {
	for _, entity := range keyring {
		if entity.PrivateKey == nil {
			continue
		}
		if entity.PrivateKey.Encrypted {
			return nil, fmt.Errorf("signing key %X is passphrase protected", entity.PrimaryKey.Fingerprint)
		}
		return &Signer{entity: entity}, nil
	}
	return nil, fmt.Errorf("no private key found in keyring")
}

// Fingerprint returns the signing key fingerprint in upper-case hex
func (s *Signer) Fingerprint() string {
	return fmt.Sprintf("%X", s.entity.PrimaryKey.Fingerprint)
}

// SignFile writes an armored detached signature next to filePath and returns its path
func (s *Signer) SignFile(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	//nolint:gosec // G304: filePath is an evidence file this process just wrote
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}

	var sig bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sig, s.entity, bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", filePath, err)
	}

	sigPath := filePath + SignatureSuffix
	//nolint:gosec // G306: signatures are published alongside the evidence
	if err := os.WriteFile(sigPath, sig.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write signature: %w", err)
	}

	return sigPath, nil
}
