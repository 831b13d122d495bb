// Package keybackend implements the PrivateKey capability and its dispatch
// over the closed set of backend URIs the core recognizes: file:// for a PEM
// key on disk, and pkcs11: for a hardware or software token.
package keybackend

import (
	"net/url"

	"github.com/go-phorce/ostiarius/gatekeeper"
)

// PrivateKey is the capability a Checker or Requester holds to decrypt a
// PKCS#1 v1.5 ciphertext without the core needing to know where the key
// material actually lives.
type PrivateKey interface {
	// Decrypt writes at most len(to) bytes of the RSA-PKCS1v15 decryption of
	// from into to, and returns the number of bytes written.
	Decrypt(from, to []byte) (int, error)
	// Size returns the modulus size in bytes: the required ciphertext length.
	Size() int
}

// FromURI parses uri and constructs the PrivateKey backend its scheme names.
// A bare filesystem path with no scheme is treated as file:// for CLI
// convenience. Any other scheme fails with KindInvalidURI.
func FromURI(uri string) (PrivateKey, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, gatekeeper.WrapError(gatekeeper.KindInvalidURI, err, "parse private key uri %q", uri)
	}
	switch u.Scheme {
	case "", "file":
		return newFileBackend(u)
	case "pkcs11":
		return newPKCS11Backend(uri)
	default:
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "unrecognized private key scheme %q", u.Scheme)
	}
}
