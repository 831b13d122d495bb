//go:build !pkcs11

package keybackend

import "github.com/go-phorce/ostiarius/gatekeeper"

// newPKCS11Backend is compiled in only with the pkcs11 build tag (it links
// against the Cryptoki module loader via github.com/miekg/pkcs11). Builds
// without the tag reject pkcs11: URIs outright rather than silently no-op.
func newPKCS11Backend(uri string) (PrivateKey, error) {
	return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "pkcs11 support not compiled in")
}
