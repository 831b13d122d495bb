package keybackend_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/go-phorce/ostiarius/keybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeyPEM(t *testing.T, dir string, priv *rsa.PrivateKey) string {
	t.Helper()
	der := x509.MarshalPKCS1PrivateKey(priv)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}
	path := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))
	return path
}

func TestFromURIFileBackend(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	path := writeKeyPEM(t, dir, priv)

	backend, err := keybackend.FromURI("file://" + path)
	require.NoError(t, err)
	assert.Equal(t, priv.Size(), backend.Size())

	plaintext := []byte("hello ostiarius")
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &priv.PublicKey, plaintext)
	require.NoError(t, err)

	out := make([]byte, backend.Size())
	n, err := backend.Decrypt(ciphertext, out)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out[:n])
}

func TestFromURIFileBackendNoScheme(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	dir := t.TempDir()
	path := writeKeyPEM(t, dir, priv)

	backend, err := keybackend.FromURI(path)
	require.NoError(t, err)
	assert.Equal(t, priv.Size(), backend.Size())
}

func TestFromURIFileBackendMissingFile(t *testing.T) {
	_, err := keybackend.FromURI("file:///nonexistent/key.pem")
	require.Error(t, err)
	assert.True(t, gatekeeper.Is(err, gatekeeper.KindIO))
}

func TestFromURIUnsupportedScheme(t *testing.T) {
	_, err := keybackend.FromURI("kms://some-key")
	require.Error(t, err)
	assert.True(t, gatekeeper.Is(err, gatekeeper.KindInvalidURI))
}

func TestFromURINoPEMBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a pem file"), 0o600))

	_, err := keybackend.FromURI("file://" + path)
	require.Error(t, err)
	assert.True(t, gatekeeper.Is(err, gatekeeper.KindCrypto))
}
