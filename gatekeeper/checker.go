package gatekeeper

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// Checker is the server side of the protocol: it holds the server's private
// key capability and the loaded allow-list snapshot. Both are read-only
// after construction, so a *Checker is safe to share across concurrent
// callers.
type Checker struct {
	serverPriv     keyDecrypter
	authorizations *Authorizations
}

// NewChecker constructs a Checker from the server private key backend and a
// loaded Authorizations snapshot.
func NewChecker(serverPriv keyDecrypter, authorizations *Authorizations) *Checker {
	return &Checker{serverPriv: serverPriv, authorizations: authorizations}
}

// Check runs the six-step authorization algorithm: decode, decrypt, match,
// parse the client's public key, re-encrypt, and mint a fresh Authorization.
// An unmatched (name, command) fails with KindUnauthorized and produces no
// Authorization — the ledger is left untouched by the caller in that case.
func (c *Checker) Check(req Request) (Authorization, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(req.Challenge)
	if err != nil {
		return Authorization{}, WrapError(KindCrypto, err, "decode request challenge")
	}

	plain := make([]byte, c.serverPriv.Size())
	n, err := c.serverPriv.Decrypt(ciphertext, plain)
	if err != nil {
		return Authorization{}, WrapError(KindCrypto, err, "decrypt request challenge")
	}

	client, ok := c.authorizations.Find(req.Name, req.Command)
	if !ok {
		logger.Noticef("status=denied, name=%q, command=%q", req.Name, req.Command)
		return Authorization{}, NewError(KindUnauthorized, "%q is not authorized to run %q", req.Name, req.Command)
	}

	clientPub, err := parseRSAPublicKeyPEM([]byte(client.PubKey))
	if err != nil {
		return Authorization{}, WrapError(KindCrypto, err, "parse client public key for %q", req.Name)
	}

	token, err := rsa.EncryptPKCS1v15(rand.Reader, clientPub, plain[:n])
	if err != nil {
		return Authorization{}, WrapError(KindCrypto, err, "encrypt authorization token")
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Authorization{}, WrapError(KindCrypto, err, "mint authorization id")
	}

	logger.Infof("status=approved, id=%s, name=%q, command=%q", id, req.Name, req.Command)

	return Authorization{
		ID:        id.String(),
		Timestamp: time.Now().UTC(),
		Name:      req.Name,
		Command:   req.Command,
		Token:     base64.StdEncoding.EncodeToString(token),
	}, nil
}
