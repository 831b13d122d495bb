package gatekeeper

import "crypto/rand"

// TokenSize is the length in bytes of a Token.
const TokenSize = 32

// Token is the 32-byte secret a Requester mints per instance. It round-trips
// through the Checker encrypted first under the server's public key (the
// challenge) and then under the client's public key (the Authorization
// token); equality of the recovered plaintext with the original Token is
// what "approved" means.
type Token [TokenSize]byte

// NewToken draws TokenSize bytes from a cryptographic RNG.
func NewToken() (Token, error) {
	var t Token
	if _, err := rand.Read(t[:]); err != nil {
		return t, WrapError(KindCrypto, err, "generate token")
	}
	return t, nil
}

// Equal reports whether t and other are byte-identical over the full token
// length. A short or truncated comparison buffer is always unequal.
func (t Token) Equal(other []byte) bool {
	if len(other) != TokenSize {
		return false
	}
	var diff byte
	for i := range t {
		diff |= t[i] ^ other[i]
	}
	return diff == 0
}
