// Command ostiarius-requester asks an Ostiarius server to approve a shell
// command and, if approved, executes it.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-phorce/ostiarius/gatekeeper"
	"github.com/go-phorce/ostiarius/keybackend"
	"github.com/go-phorce/ostiarius/secretprovider"
	"github.com/go-phorce/ostiarius/transport"
	"github.com/go-phorce/ostiarius/uriutil"
	"github.com/go-phorce/ostiarius/xlog"
	"github.com/go-phorce/ostiarius/xlog/logrotate"
	"gopkg.in/alecthomas/kingpin.v2"
)

var logger = xlog.NewPackageLogger("github.com/go-phorce/ostiarius/cmd", "ostiarius-requester")

// Exit codes, per the spec's CLI surface: 0 success, 2 forbidden (non-success
// transport response; also returned for every local failure before the
// Authorization is received, such as bad flags or an unreadable key),
// 3 authorization mismatch or token decrypt failure, 4 the approved command
// itself exited non-zero.
const (
	exitSuccess            = 0
	exitForbidden          = 2
	exitAuthorizationCheck = 3
	exitCommandFailed      = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	app := kingpin.New("ostiarius-requester", "request command authorization from an Ostiarius server")
	name := app.Flag("name", "client name registered in the server's allow-list").Required().String()
	privKeyURI := app.Flag("priv-key", "URI locating this client's private key").Required().String()
	serverPubKey := app.Flag("server-pub-key", "path to the server's RSA public key, PEM encoded").Required().String()
	address := app.Flag("address", "Ostiarius server address").Default("http://127.0.0.1:7891").String()
	password := app.Flag("password", "password-provider spec (kind:arg) unlocking --priv-key").Short('S').String()
	allowVisiblePassword := app.Flag("password-is-visible", "allow pass: as a password-provider kind").Bool()
	logDir := app.Flag("log-dir", "directory to rotate log files into; empty logs to stderr").String()
	command := app.Arg("command", "command to run, split on whitespace and executed with no shell").Required().String()

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitForbidden
	}

	if *logDir != "" {
		rotator, err := logrotate.Initialize(*logDir, "ostiarius-requester", 30, 10, false, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitForbidden
		}
		defer rotator.Close()
	}

	keyURI := *privKeyURI
	if *password != "" {
		provider, err := secretprovider.Parse(*password, *allowVisiblePassword)
		if err != nil {
			logger.Errorf("reason=provider, err=[%+v]", err)
			return exitForbidden
		}
		secret, err := provider.Provide()
		if err != nil {
			logger.Errorf("reason=provide, err=[%+v]", err)
			return exitForbidden
		}
		secret = uriutil.StripTrailingNewline(secret)
		keyURI, err = uriutil.InsertPassword(secret, keyURI)
		if err != nil {
			logger.Errorf("reason=insert-password, err=[%+v]", err)
			return exitForbidden
		}
	}

	clientPriv, err := keybackend.FromURI(keyURI)
	if err != nil {
		logger.Errorf("reason=load-private-key, err=[%+v]", err)
		return exitForbidden
	}

	serverPubPEM, err := os.ReadFile(*serverPubKey)
	if err != nil {
		logger.Errorf("reason=read-server-pub-key, err=[%+v]", err)
		return exitForbidden
	}

	requester, err := gatekeeper.NewRequester(clientPriv, serverPubPEM)
	if err != nil {
		logger.Errorf("reason=new-requester, err=[%+v]", err)
		return exitForbidden
	}

	req, err := requester.Make(*name, *command)
	if err != nil {
		logger.Errorf("reason=make-request, err=[%+v]", err)
		return exitForbidden
	}

	client := transport.NewClient(*address)
	id, err := client.CreateAuthorization(req)
	if err != nil {
		logger.Errorf("reason=create-authorization, err=[%+v]", err)
		return exitForbidden
	}

	auth, err := client.GetAuthorization(id)
	if err != nil {
		logger.Errorf("reason=get-authorization, id=%q, err=[%+v]", id, err)
		return exitForbidden
	}

	approved, err := requester.Check(auth)
	if err != nil {
		logger.Errorf("reason=check-authorization, err=[%+v]", err)
		return exitAuthorizationCheck
	}
	if !approved {
		logger.Noticef("status=mismatch, id=%s", auth.ID)
		return exitAuthorizationCheck
	}

	return runCommand(*command)
}

func runCommand(command string) int {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return exitSuccess
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		logger.Errorf("reason=run-command, command=%q, err=[%+v]", command, err)
		return exitCommandFailed
	}
	return exitSuccess
}
