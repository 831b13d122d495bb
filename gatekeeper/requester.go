package gatekeeper

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"

	"github.com/go-phorce/ostiarius/xlog"
)

var logger = xlog.NewPackageLogger("github.com/go-phorce/ostiarius", "gatekeeper")

// keyDecrypter is the capability Requester needs from its client private key:
// just enough to satisfy the keybackend.PrivateKey shape without gatekeeper
// importing keybackend (which itself imports gatekeeper for Error/Kind).
type keyDecrypter interface {
	Decrypt(from, to []byte) (int, error)
	Size() int
}

// Requester is the client side of the protocol: it holds a long-lived client
// key pair, a cached copy of the server's public key, and a single-use Token
// minted at construction.
type Requester struct {
	clientPriv keyDecrypter
	serverPub  *rsa.PublicKey
	token      Token
}

// NewRequester constructs a Requester from the client private key (any
// keybackend.PrivateKey, typically keybackend.FromURI's result) and the PEM
// bytes of the server's public key.
func NewRequester(clientPriv keyDecrypter, serverPubPEM []byte) (*Requester, error) {
	serverPub, err := parseRSAPublicKeyPEM(serverPubPEM)
	if err != nil {
		return nil, WrapError(KindInvalidKey, err, "parse server public key")
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	return &Requester{
		clientPriv: clientPriv,
		serverPub:  serverPub,
		token:      token,
	}, nil
}

// Make builds a Request for name/command: the Token is encrypted under the
// server's public key to form the challenge. It never touches the network.
func (r *Requester) Make(name, command string) (Request, error) {
	challenge, err := rsa.EncryptPKCS1v15(rand.Reader, r.serverPub, r.token[:])
	if err != nil {
		return Request{}, WrapError(KindCrypto, err, "encrypt challenge")
	}
	return Request{
		Name:      name,
		Command:   command,
		Challenge: base64.StdEncoding.EncodeToString(challenge),
	}, nil
}

// Check decrypts the Authorization's token with the client private key and
// compares it byte-exact to this Requester's Token. A decrypt failure is
// returned as an error; a clean decrypt that simply doesn't match yields
// (false, nil) — inequality is not itself an error condition.
func (r *Requester) Check(auth Authorization) (bool, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(auth.Token)
	if err != nil {
		return false, WrapError(KindCrypto, err, "decode authorization token")
	}

	plain := make([]byte, r.clientPriv.Size())
	n, err := r.clientPriv.Decrypt(ciphertext, plain)
	if err != nil {
		return false, WrapError(KindCrypto, err, "decrypt authorization token")
	}

	return r.token.Equal(plain[:n]), nil
}

func parseRSAPublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, NewError(KindCrypto, "no PEM block found in public key")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, NewError(KindCrypto, "public key is not RSA")
	}
	return pub, nil
}
