package keybackend

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/url"
	"os"

	"github.com/go-phorce/ostiarius/gatekeeper"
)

// fileBackend decrypts using an RSA private key loaded once from a PEM file
// on disk. It carries no mutable state after construction, so it is
// trivially safe to call concurrently.
type fileBackend struct {
	priv *rsa.PrivateKey
}

func newFileBackend(u *url.URL) (PrivateKey, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "file uri has no path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gatekeeper.WrapError(gatekeeper.KindIO, err, "read private key file %q", path)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, gatekeeper.NewError(gatekeeper.KindCrypto, "no PEM block found in %q", path)
	}

	der := block.Bytes
	if password := u.Query().Get("password"); password != "" && x509.IsEncryptedPEMBlock(block) { //nolint:staticcheck
		decrypted, err := x509.DecryptPEMBlock(block, []byte(password)) //nolint:staticcheck
		if err != nil {
			return nil, gatekeeper.WrapError(gatekeeper.KindCrypto, err, "decrypt private key %q", path)
		}
		der = decrypted
	}

	priv, err := parseRSAPrivateKey(der)
	if err != nil {
		return nil, gatekeeper.WrapError(gatekeeper.KindCrypto, err, "parse private key %q", path)
	}

	return &fileBackend{priv: priv}, nil
}

func parseRSAPrivateKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, gatekeeper.NewError(gatekeeper.KindCrypto, "PKCS#8 key is not RSA")
	}
	return rsaKey, nil
}

// Decrypt implements PrivateKey.
func (f *fileBackend) Decrypt(from, to []byte) (int, error) {
	plain, err := rsa.DecryptPKCS1v15(nil, f.priv, from)
	if err != nil {
		return 0, gatekeeper.WrapError(gatekeeper.KindCrypto, err, "rsa decrypt")
	}
	n := copy(to, plain)
	return n, nil
}

// Size implements PrivateKey.
func (f *fileBackend) Size() int {
	return f.priv.Size()
}
