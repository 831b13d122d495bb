package keybackend

import (
	"net/url"
	"strings"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/go-phorce/ostiarius/uriutil"
)

// pkcs11URI is the parsed form of an RFC 7512-style PKCS#11 URI:
//
//	pkcs11:<attr>;<attr>;...?module-path=<path>&...
//
// All four fields are mandatory; any missing one fails with KindInvalidURI
// naming the field. pin-value is the only attribute that is fully
// percent-decoded; token and object only get the %20-to-space substitution
// RFC 7512 attribute parsing performs.
type pkcs11URI struct {
	token      string
	object     string
	pin        string
	modulePath string
}

func parsePKCS11URI(uri string) (*pkcs11URI, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, gatekeeper.WrapError(gatekeeper.KindInvalidURI, err, "parse pkcs11 uri %q", uri)
	}
	if u.Scheme != "pkcs11" {
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "not a pkcs11 uri: %q", uri)
	}

	attrs := map[string]string{}
	rawAttrs := map[string]string{}
	for _, attr := range strings.Split(u.Opaque, ";") {
		if attr == "" {
			continue
		}
		parts := strings.SplitN(attr, "=", 2)
		if len(parts) != 2 {
			continue
		}
		rawAttrs[parts[0]] = parts[1]
		attrs[parts[0]] = strings.ReplaceAll(parts[1], "%20", " ")
	}

	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, gatekeeper.WrapError(gatekeeper.KindInvalidURI, err, "parse pkcs11 uri query %q", uri)
	}

	p := &pkcs11URI{
		token:      attrs["token"],
		object:     attrs["object"],
		modulePath: query.Get("module-path"),
	}

	if rawPin, ok := rawAttrs["pin-value"]; ok {
		decoded, err := uriutil.UnescapePassword(rawPin)
		if err != nil {
			return nil, gatekeeper.WrapError(gatekeeper.KindInvalidURI, err, "decode pin-value")
		}
		p.pin = decoded
	}

	switch {
	case p.token == "":
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "pkcs11 uri missing token attribute")
	case p.object == "":
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "pkcs11 uri missing object attribute")
	case p.pin == "":
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "pkcs11 uri missing pin-value attribute")
	case p.modulePath == "":
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidURI, "pkcs11 uri missing module-path attribute")
	}

	return p, nil
}
