// Package uriutil implements the password-injection utility that threads a
// secret into a PrivateKey backend URI, plus the percent-encoding and
// newline-stripping helpers it relies on.
package uriutil

import (
	"net/url"
	"strings"

	"github.com/go-phorce/ostiarius/gatekeeper"
)

const upperhex = "0123456789ABCDEF"

// isUnreservedByte reports whether b is ASCII alphanumeric: the only bytes
// PercentEncode leaves untouched, matching the "NON_ALPHANUMERIC" encode set.
func isUnreservedByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// PercentEncode percent-encodes every byte of s that is not ASCII
// alphanumeric, using uppercase hex digits. Unlike url.QueryEscape, a space
// becomes %20, never '+'.
func PercentEncode(s string) string {
	var needsEscape bool
	for i := 0; i < len(s); i++ {
		if !isUnreservedByte(s[i]) {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedByte(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xF])
	}
	return b.String()
}

// UnescapePassword is the inverse of PercentEncode: it decodes %XX escapes
// without treating '+' as a space, unlike url.QueryUnescape.
func UnescapePassword(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", gatekeeper.NewError(gatekeeper.KindURLParse, "incomplete percent-escape in %q", s)
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", gatekeeper.NewError(gatekeeper.KindURLParse, "invalid percent-escape in %q", s)
		}
		b.WriteByte(hi<<4 | lo)
		i += 2
	}
	return b.String(), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// StripTrailingNewline trims any run of '\n'/'\r' characters from the very
// end of s, leaving interior newlines intact.
func StripTrailingNewline(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return s[:end]
}

// InsertPassword returns a URI of the same scheme as uri with password
// embedded, so downstream code can build a PrivateKey backend from a single
// URI argument instead of ferrying a side-band secret.
//
//   - file://...[?...]: drops any existing query, appends ?password=<enc>.
//   - pkcs11:<attrs>?<module>: strips any existing pin-value= attribute,
//     appends pin-value=<enc> as a new attribute, and re-attaches the
//     original query verbatim.
//   - any other scheme fails with KindInvalidURI.
func InsertPassword(password, uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", gatekeeper.WrapError(gatekeeper.KindInvalidURI, err, "parse uri %q", uri)
	}

	switch u.Scheme {
	case "file":
		u.RawQuery = "password=" + PercentEncode(password)
		return u.String(), nil
	case "pkcs11":
		attrs := []string{}
		for _, attr := range strings.Split(u.Opaque, ";") {
			if attr == "" {
				continue
			}
			if strings.HasPrefix(attr, "pin-value=") {
				continue
			}
			attrs = append(attrs, attr)
		}
		attrs = append(attrs, "pin-value="+PercentEncode(password))
		u.Opaque = strings.Join(attrs, ";")
		return u.String(), nil
	default:
		return "", gatekeeper.NewError(gatekeeper.KindInvalidURI, "unsupported scheme for password injection: %q", u.Scheme)
	}
}
