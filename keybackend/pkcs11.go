//go:build pkcs11

package keybackend

import (
	"sync"

	"github.com/go-phorce/ostiarius/gatekeeper"
	pkcs11 "github.com/miekg/pkcs11"
)

const maxSessionsPerSlot = 1024

// pkcs11Backend decrypts via a Cryptoki token. Every Decrypt call takes a
// session from a per-slot pool (opening a new one when the pool is empty),
// re-finds the key object handle in it, and returns the session to the pool
// afterwards. Sessions are reused across calls, not re-opened per call; a
// session is used by only one caller at a time, so no lock is held around
// the Cryptoki operations themselves.
type pkcs11Backend struct {
	ctx    *pkcs11.Ctx
	slot   uint
	object string
	pin    string
	size   int

	mu    sync.Mutex
	pools map[uint]chan pkcs11.SessionHandle
}

func newPKCS11Backend(uri string) (PrivateKey, error) {
	parsed, err := parsePKCS11URI(uri)
	if err != nil {
		return nil, err
	}

	ctx := pkcs11.New(parsed.modulePath)
	if ctx == nil {
		return nil, gatekeeper.NewError(gatekeeper.KindPkcs11, "could not load pkcs11 module %q", parsed.modulePath)
	}
	if err := ctx.Initialize(); err != nil {
		if perr, ok := err.(pkcs11.Error); !ok || perr != pkcs11.CKR_CRYPTOKI_ALREADY_INITIALIZED {
			return nil, gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "initialize pkcs11 module %q", parsed.modulePath)
		}
	}

	slot, err := firstInitializedSlot(ctx)
	if err != nil {
		ctx.Destroy()
		return nil, err
	}

	b := &pkcs11Backend{
		ctx:    ctx,
		slot:   slot,
		object: parsed.object,
		pin:    parsed.pin,
		pools:  map[uint]chan pkcs11.SessionHandle{slot: make(chan pkcs11.SessionHandle, maxSessionsPerSlot)},
	}

	if err := b.withSession(func(session pkcs11.SessionHandle) error {
		if err := ctx.Login(session, pkcs11.CKU_USER, b.pin); err != nil {
			if perr, ok := err.(pkcs11.Error); !ok || perr != pkcs11.CKR_USER_ALREADY_LOGGED_IN {
				return gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "login to pkcs11 token")
			}
		}
		handle, err := b.findObject(session)
		if err != nil {
			return err
		}
		size, err := b.modulusSize(session, handle)
		if err != nil {
			return err
		}
		b.size = size
		return nil
	}); err != nil {
		ctx.Destroy()
		return nil, err
	}

	return b, nil
}

// firstInitializedSlot enumerates slots and returns the first one reporting
// an initialized token, preserving the documented single-token assumption
// rather than disambiguating by the URI's token label.
func firstInitializedSlot(ctx *pkcs11.Ctx) (uint, error) {
	slots, err := ctx.GetSlotList(true)
	if err != nil {
		return 0, gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "list pkcs11 slots")
	}
	for _, slotID := range slots {
		info, err := ctx.GetTokenInfo(slotID)
		if err != nil {
			continue
		}
		if info.Flags&pkcs11.CKF_TOKEN_INITIALIZED != 0 {
			return slotID, nil
		}
	}
	return 0, gatekeeper.NewError(gatekeeper.KindPkcs11, "no initialized pkcs11 token found")
}

func (b *pkcs11Backend) newSession() (pkcs11.SessionHandle, error) {
	session, err := b.ctx.OpenSession(b.slot, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return 0, gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "open pkcs11 session")
	}
	return session, nil
}

func (b *pkcs11Backend) withSession(f func(session pkcs11.SessionHandle) error) error {
	b.mu.Lock()
	pool := b.pools[b.slot]
	b.mu.Unlock()

	var session pkcs11.SessionHandle
	var err error
	select {
	case session = <-pool:
	default:
		if session, err = b.newSession(); err != nil {
			return err
		}
	}
	defer func() { pool <- session }()
	return f(session)
}

func (b *pkcs11Backend) findObject(session pkcs11.SessionHandle) (pkcs11.ObjectHandle, error) {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_LABEL, b.object),
		pkcs11.NewAttribute(pkcs11.CKA_PRIVATE, true),
		pkcs11.NewAttribute(pkcs11.CKA_SIGN, true),
	}
	if err := b.ctx.FindObjectsInit(session, template); err != nil {
		return 0, gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "find objects init")
	}
	defer b.ctx.FindObjectsFinal(session)

	handles, _, err := b.ctx.FindObjects(session, 1)
	if err != nil {
		return 0, gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "find objects")
	}
	if len(handles) == 0 {
		return 0, gatekeeper.NewError(gatekeeper.KindInvalidKey, "No such PKCS#11 key: %q", b.object)
	}
	return handles[0], nil
}

func (b *pkcs11Backend) modulusSize(session pkcs11.SessionHandle, handle pkcs11.ObjectHandle) (int, error) {
	attrs, err := b.ctx.GetAttributeValue(session, handle, []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_MODULUS, nil),
	})
	if err != nil || len(attrs) == 0 {
		return 0, gatekeeper.WrapError(gatekeeper.KindInvalidKey, err, "read modulus attribute for %q", b.object)
	}
	return len(attrs[0].Value), nil
}

// Decrypt implements PrivateKey.
func (b *pkcs11Backend) Decrypt(from, to []byte) (int, error) {
	var n int
	err := b.withSession(func(session pkcs11.SessionHandle) error {
		handle, err := b.findObject(session)
		if err != nil {
			return err
		}
		mech := []*pkcs11.Mechanism{pkcs11.NewMechanism(pkcs11.CKM_RSA_PKCS, nil)}
		if err := b.ctx.DecryptInit(session, mech, handle); err != nil {
			return gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "decrypt init")
		}
		plain, err := b.ctx.Decrypt(session, from)
		if err != nil {
			return gatekeeper.WrapError(gatekeeper.KindPkcs11, err, "decrypt")
		}
		n = copy(to, plain)
		return nil
	})
	return n, err
}

// Size implements PrivateKey.
func (b *pkcs11Backend) Size() int {
	return b.size
}
