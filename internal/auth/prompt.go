package auth

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kidoz/zbxctl/internal/errs"
)

// stdinIsTerminal reports whether an interactive prompt is possible.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptCredentials asks for a username and a password on the
// controlling terminal. The password is read with echo off.
func promptCredentials(defaultUsername string) (username, password string, err error) {
	if defaultUsername != "" {
		fmt.Fprintf(os.Stderr, "Username [%s]: ", defaultUsername)
	} else {
		fmt.Fprint(os.Stderr, "Username: ")
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", errs.Wrap(errs.KindLogin, "cannot read username", err)
	}
	username = strings.TrimSpace(line)
	if username == "" {
		username = defaultUsername
	}
	if username == "" {
		return "", "", errs.New(errs.KindLogin, "no username given")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", "", errs.Wrap(errs.KindLogin, "cannot read password", err)
	}

	return username, string(secret), nil
}
