package gatekeeper

import (
	"os"

	"github.com/BurntSushi/toml"
)

// AuthorizedClient is one entry of the allow-list: a named client, its RSA
// public key in PEM form, and the commands it may run. Matching is
// name-exact and command-exact; no glob, no prefix, no case folding.
type AuthorizedClient struct {
	Name     string   `toml:"name"`
	PubKey   string   `toml:"pub_key"`
	Commands []string `toml:"commands"`
}

// Authorizations is the allow-list as loaded from the clients TOML document:
// a top-level [[clients]] table-of-tables. Lookup is linear on the
// (name, command) pair and first-match wins: a later entry with the same name
// is reached only for commands that no earlier entry of that name lists.
type Authorizations struct {
	Clients []AuthorizedClient `toml:"clients"`
}

// Find returns the first AuthorizedClient whose Name matches name and whose
// Commands contains command, or false if none does.
func (a *Authorizations) Find(name, command string) (AuthorizedClient, bool) {
	for _, c := range a.Clients {
		if c.Name != name {
			continue
		}
		for _, cmd := range c.Commands {
			if cmd == command {
				return c, true
			}
		}
	}
	return AuthorizedClient{}, false
}

// LoadAuthorizations parses the allow-list document at path. Malformed TOML
// maps to KindSerialization; the file itself not being readable maps to
// KindIO.
func LoadAuthorizations(path string) (*Authorizations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(KindIO, err, "read authorizations file %q", path)
	}
	var a Authorizations
	if _, err := toml.Decode(string(data), &a); err != nil {
		return nil, WrapError(KindSerialization, err, "parse authorizations file %q", path)
	}
	return &a, nil
}
