// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package auth

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// PasswordPrompt asks the user for the password of username.
type PasswordPrompt func(username string) (string, error)

// TerminalPrompt reads the password from the terminal without echoing it.
func TerminalPrompt(username string) (string, error) {
	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	return string(password), nil
}
