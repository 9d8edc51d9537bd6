package gpg

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	entity, err := openpgp.NewEntity("Release Gate", "test", "gate@example.com", nil)
	require.NoError(t, err)
	return entity
}

func writeArmoredPrivateKey(t *testing.T, entity *openpgp.Entity) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "gate.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func TestSigner_SignFile_Verifies(t *testing.T) {
	entity := newTestEntity(t)
	signer, err := NewSignerFromFile(writeArmoredPrivateKey(t, entity))
	require.NoError(t, err)
	assert.Len(t, signer.Fingerprint(), 40)

	reportPath := filepath.Join(t.TempDir(), "pypi-gate-report.json")
	content := []byte(`{"gate":"pypi-publish-gate","status":"PASS"}`)
	require.NoError(t, os.WriteFile(reportPath, content, 0600))

	sigPath, err := signer.SignFile(context.Background(), reportPath)
	require.NoError(t, err)
	assert.Equal(t, reportPath+".asc", sigPath)

	sigData, err := os.ReadFile(sigPath)
	require.NoError(t, err)
	assert.Contains(t, string(sigData), "BEGIN PGP SIGNATURE")

	keyring := openpgp.EntityList{entity}
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(content), bytes.NewReader(sigData), nil)
	assert.NoError(t, err)

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader([]byte("tampered")), bytes.NewReader(sigData), nil)
	assert.Error(t, err)
}

func TestNewSignerFromFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewSignerFromFile("/nonexistent/key.asc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open key file")
	})

	t.Run("not a key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.asc")
		require.NoError(t, os.WriteFile(path, []byte("not a gpg key"), 0600))

		_, err := NewSignerFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read key")
	})

	t.Run("public key only", func(t *testing.T) {
		entity := newTestEntity(t)
		var buf bytes.Buffer
		w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
		require.NoError(t, err)
		require.NoError(t, entity.Serialize(w))
		require.NoError(t, w.Close())

		path := filepath.Join(t.TempDir(), "pub.asc")
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

		_, err = NewSignerFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no private key")
	})
}

func TestSigner_SignFile_MissingInput(t *testing.T) {
	signer, err := NewSigner(openpgp.EntityList{newTestEntity(t)})
	require.NoError(t, err)

	_, err = signer.SignFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
