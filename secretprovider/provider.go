// Package secretprovider implements the password-provider abstraction used
// to unlock file-based private keys: a value parsed from a "kind:arg" spec
// that yields a secret on demand.
package secretprovider

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"golang.org/x/term"
)

// Provider supplies a single secret string on demand.
type Provider interface {
	Provide() (string, error)
}

// Parse splits spec as "kind:arg" and returns the matching Provider.
// allowPass gates the pass: kind, which echoes its argument back verbatim
// and is only appropriate when the caller has opted into visible passwords
// (e.g. a --password-is-visible flag); with allowPass false, a pass: spec
// fails KindInvalidProvider exactly like an unrecognized kind would if it
// weren't also the documented fallback-to-interactive-prompt spelling.
//
// An absent (empty) spec is the fallback: prompt interactively. Any other
// spec must split into exactly kind and arg around a single colon; any other
// field count is InvalidProvider, even if the kind half would otherwise be
// recognized.
func Parse(spec string, allowPass bool) (Provider, error) {
	if spec == "" {
		return interactiveProvider{}, nil
	}

	fields := strings.Split(spec, ":")
	if len(fields) != 2 {
		return nil, gatekeeper.NewError(gatekeeper.KindInvalidProvider, "provider spec %q is not of the form kind:arg", spec)
	}
	kind, arg := fields[0], fields[1]

	switch kind {
	case "env":
		return envProvider{name: arg}, nil
	case "fd":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, gatekeeper.WrapError(gatekeeper.KindIntegerParse, err, "parse fd number %q", arg)
		}
		return fdProvider{fd: n}, nil
	case "file":
		return fileProvider{path: arg}, nil
	case "pass":
		if !allowPass {
			return nil, gatekeeper.NewError(gatekeeper.KindInvalidProvider, "pass: provider requires the visible-password flag")
		}
		return literalProvider{value: arg}, nil
	default:
		return interactiveProvider{}, nil
	}
}

type envProvider struct{ name string }

func (p envProvider) Provide() (string, error) {
	v, ok := os.LookupEnv(p.name)
	if !ok {
		return "", gatekeeper.NewError(gatekeeper.KindEnvironment, "environment variable %q is not set", p.name)
	}
	return v, nil
}

// fdProvider reads a POSIX file descriptor to end-of-file. It wraps the fd
// with os.NewFile and closes it once read: callers that need the fd kept
// open afterward must dup() it themselves before passing the number in.
type fdProvider struct{ fd int }

func (p fdProvider) Provide() (string, error) {
	f := os.NewFile(uintptr(p.fd), fmt.Sprintf("fd:%d", p.fd))
	if f == nil {
		return "", gatekeeper.NewError(gatekeeper.KindIO, "invalid file descriptor %d", p.fd)
	}
	defer f.Close()

	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", gatekeeper.WrapError(gatekeeper.KindIO, err, "read fd %d", p.fd)
		}
	}
	return sb.String(), nil
}

type fileProvider struct{ path string }

func (p fileProvider) Provide() (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return "", gatekeeper.WrapError(gatekeeper.KindIO, err, "read password file %q", p.path)
	}
	return string(data), nil
}

type literalProvider struct{ value string }

func (p literalProvider) Provide() (string, error) {
	return p.value, nil
}

// interactiveProvider prompts on a TTY with echo disabled; it is the
// fallback for an unrecognized or absent kind.
type interactiveProvider struct{}

func (interactiveProvider) Provide() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", gatekeeper.WrapError(gatekeeper.KindIO, err, "read password from terminal")
	}
	return string(b), nil
}
