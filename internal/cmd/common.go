// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	errNoArguments      = errors.New("no argument provided")
	errInvalidKeyValue  = errors.New("invalid key=value pair")
	errInvalidTimestamp = errors.New("invalid timestamp")
	errSignInFailed     = errors.New("sign in failed")
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoArguments):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, errInvalidKeyValue), errors.Is(err, errInvalidTimestamp):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// parseKeyValues splits every "key=value" pair on the first equal sign.
func parseKeyValues(pairs []string) (map[string][]string, error) {
	parsed := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidKeyValue, pair)
		}
		parsed[key] = append(parsed[key], value)
	}

	return parsed, nil
}

// writeValue prints strings as they are and everything else as indented JSON.
func writeValue(w io.Writer, value any) error {
	if text, ok := value.(string); ok {
		_, err := fmt.Fprintln(w, text)
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "\t")
	return encoder.Encode(value)
}
