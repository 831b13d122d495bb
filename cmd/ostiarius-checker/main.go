// Command ostiarius-checker serves the /api/v1/authorizations HTTP surface,
// approving command requests against an allow-list with the server's RSA
// private key.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/go-phorce/ostiarius/keybackend"
	"github.com/go-phorce/ostiarius/ledger"
	"github.com/go-phorce/ostiarius/secretprovider"
	"github.com/go-phorce/ostiarius/transport"
	"github.com/go-phorce/ostiarius/uriutil"
	"github.com/go-phorce/ostiarius/xlog"
	"github.com/go-phorce/ostiarius/xlog/logrotate"
	"gopkg.in/alecthomas/kingpin.v2"
)

var logger = xlog.NewPackageLogger("github.com/go-phorce/ostiarius/cmd", "ostiarius-checker")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	app := kingpin.New("ostiarius-checker", "serve command authorization decisions")
	privKeyURI := app.Flag("priv-key", "URI locating the server's private key (file:// or pkcs11:)").Required().String()
	authorizationsPath := app.Flag("authorizations", "path to the client allow-list TOML file").Required().String()
	address := app.Flag("address", "address to listen on").Default("127.0.0.1").String()
	port := app.Flag("port", "port to listen on").Default("7891").Uint16()
	password := app.Flag("password", "password-provider spec (kind:arg) unlocking --priv-key").Short('S').String()
	allowVisiblePassword := app.Flag("password-is-visible", "allow pass: as a password-provider kind").Bool()
	logDir := app.Flag("log-dir", "directory to rotate log files into; empty logs to stderr").String()

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *logDir != "" {
		rotator, err := logrotate.Initialize(*logDir, "ostiarius-checker", 30, 10, false, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer rotator.Close()
	}

	keyURI := *privKeyURI
	if *password != "" {
		provider, err := secretprovider.Parse(*password, *allowVisiblePassword)
		if err != nil {
			logger.Errorf("reason=provider, err=[%+v]", err)
			return 1
		}
		secret, err := provider.Provide()
		if err != nil {
			logger.Errorf("reason=provide, err=[%+v]", err)
			return 1
		}
		secret = uriutil.StripTrailingNewline(secret)
		keyURI, err = uriutil.InsertPassword(secret, keyURI)
		if err != nil {
			logger.Errorf("reason=insert-password, err=[%+v]", err)
			return 1
		}
	}

	serverPriv, err := keybackend.FromURI(keyURI)
	if err != nil {
		logger.Errorf("reason=load-private-key, err=[%+v]", err)
		return 1
	}

	authorizations, err := gatekeeper.LoadAuthorizations(*authorizationsPath)
	if err != nil {
		logger.Errorf("reason=load-authorizations, path=%q, err=[%+v]", *authorizationsPath, err)
		return 1
	}

	checker := gatekeeper.NewChecker(serverPriv, authorizations)
	led := ledger.New()
	srv := transport.NewServer(checker, led)

	router := transport.NewRouter(http.NotFound)
	srv.Mount(router)

	addr := fmt.Sprintf("%s:%d", *address, *port)
	logger.Infof("status=starting, address=%q", addr)
	if err := http.ListenAndServe(addr, router.Handler()); err != nil {
		logger.Errorf("reason=listen, err=[%+v]", err)
		return 1
	}
	return 0
}
