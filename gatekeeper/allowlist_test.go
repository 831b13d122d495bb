package gatekeeper_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allowlistFixture = `
[[clients]]
name = "Client 1"
pub_key = """-----BEGIN PUBLIC KEY-----
MIIBIjANBgkq
-----END PUBLIC KEY-----"""
commands = ["date", "uptime"]

[[clients]]
name = "Client 1"
pub_key = "second Client 1 entry"
commands = ["reboot"]
`

func TestLoadAuthorizations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "authorizations.toml")
	require.NoError(t, os.WriteFile(path, []byte(allowlistFixture), 0o600))

	auths, err := gatekeeper.LoadAuthorizations(path)
	require.NoError(t, err)
	require.Len(t, auths.Clients, 2)

	client, ok := auths.Find("Client 1", "date")
	require.True(t, ok)
	assert.Contains(t, client.PubKey, "BEGIN PUBLIC KEY")

	// first match wins on the (name, command) pair: the first "Client 1"
	// entry does not list "reboot", so the second one is returned.
	client, ok = auths.Find("Client 1", "reboot")
	assert.True(t, ok)
	assert.Equal(t, "second Client 1 entry", client.PubKey)

	_, ok = auths.Find("Client 7", "date")
	assert.False(t, ok)
}

func TestLoadAuthorizationsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = valid = toml = ["), 0o600))

	_, err := gatekeeper.LoadAuthorizations(path)
	require.Error(t, err)
	assert.True(t, gatekeeper.Is(err, gatekeeper.KindSerialization))
}

func TestLoadAuthorizationsMissingFile(t *testing.T) {
	_, err := gatekeeper.LoadAuthorizations("/nonexistent/path.toml")
	require.Error(t, err)
	assert.True(t, gatekeeper.Is(err, gatekeeper.KindIO))
}
