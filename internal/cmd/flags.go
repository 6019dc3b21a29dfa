// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/gisutils/internal/auth"
	"github.com/mia-platform/gisutils/internal/dates"
)

const (
	methodFlagName    = "method"
	methodFlagShort   = "X"
	methodFlagUsage   = "HTTP method of the request, every method other than GET is sent as POST"
	defaultMethodFlag = http.MethodGet

	paramFlagName  = "param"
	paramFlagShort = "p"
	paramFlagUsage = "query parameter in the key=value form. Can be specified multiple times."

	headerFlagName  = "header"
	headerFlagShort = "H"
	headerFlagUsage = "request header in the key=value form. Can be specified multiple times."

	sessionFlagName  = "session"
	sessionFlagUsage = "send the request with a portal session, see the signin command"

	usernameFlagName  = "username"
	usernameFlagShort = "u"
	usernameFlagUsage = "portal username whose profile is used to sign in, empty means the active session"

	portalFlagName  = "portal"
	portalFlagUsage = "portal URL, it overrides the profile and the ARCGIS_PORTAL_URL portal"

	formatFlagName  = "format"
	formatFlagShort = "f"
	formatFlagUsage = "strftime style format of the date"

	secondsFlagName  = "seconds"
	secondsFlagUsage = "return the timestamp in seconds instead of milliseconds"
)

// sessionFlags collects the sign in options shared by the request and signin commands.
type sessionFlags struct {
	username string
	portal   string
}

func (f *sessionFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, usernameFlagName, usernameFlagShort, "", usernameFlagUsage)
	cmd.Flags().StringVar(&f.portal, portalFlagName, "", portalFlagUsage)
}

func (f *sessionFlags) toAuthOptions(cmd *cobra.Command) auth.Options {
	return auth.Options{
		Username:  f.username,
		PortalURL: f.portal,
		Output:    cmd.ErrOrStderr(),
	}
}

// requestFlags collects the CLI options of the request command.
type requestFlags struct {
	sessionFlags

	method  string
	params  []string
	headers []string
	session bool
}

// addFlags registers the CLI flags on cmd.
func (f *requestFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.method, methodFlagName, methodFlagShort, defaultMethodFlag, methodFlagUsage)
	cmd.Flags().StringArrayVarP(&f.params, paramFlagName, paramFlagShort, nil, paramFlagUsage)
	cmd.Flags().StringArrayVarP(&f.headers, headerFlagName, headerFlagShort, nil, headerFlagUsage)
	cmd.Flags().BoolVar(&f.session, sessionFlagName, false, sessionFlagUsage)
	f.sessionFlags.addFlags(cmd)
}

// toOptions builds a requestOptions instance from the parsed flags and CLI arguments.
func (f *requestFlags) toOptions(cmd *cobra.Command, args []string) (*requestOptions, error) {
	if len(args) == 0 {
		return nil, errNoArguments
	}

	params, err := parseKeyValues(f.params)
	if err != nil {
		return nil, err
	}

	headers, err := parseKeyValues(f.headers)
	if err != nil {
		return nil, err
	}

	header := make(http.Header, len(headers))
	for key, values := range headers {
		for _, value := range values {
			header.Add(key, value)
		}
	}

	return &requestOptions{
		url:         args[0],
		method:      strings.ToUpper(f.method),
		params:      url.Values(params),
		headers:     header,
		session:     f.session,
		authOptions: f.toAuthOptions(cmd),
		out:         cmd.OutOrStdout(),
		connect:     auth.Connect,
	}, nil
}

// signInFlags collects the CLI options of the signin command.
type signInFlags struct {
	sessionFlags
}

func (f *signInFlags) addFlags(cmd *cobra.Command) {
	f.sessionFlags.addFlags(cmd)
}

func (f *signInFlags) toOptions(cmd *cobra.Command) *signInOptions {
	return &signInOptions{
		authOptions: f.toAuthOptions(cmd),
		out:         cmd.OutOrStdout(),
		signIn:      auth.SignIn,
	}
}

// toTimestampFlags collects the CLI options of the date to-timestamp command.
type toTimestampFlags struct {
	format  string
	seconds bool
}

func (f *toTimestampFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, formatFlagName, formatFlagShort, dates.DefaultFormat, formatFlagUsage)
	cmd.Flags().BoolVar(&f.seconds, secondsFlagName, false, secondsFlagUsage)
}

func (f *toTimestampFlags) toOptions(cmd *cobra.Command, args []string) (*toTimestampOptions, error) {
	if len(args) == 0 {
		return nil, errNoArguments
	}

	return &toTimestampOptions{
		date:         args[0],
		format:       f.format,
		milliseconds: !f.seconds,
		out:          cmd.OutOrStdout(),
	}, nil
}

// toStringFlags collects the CLI options of the date to-string command.
type toStringFlags struct {
	format string
}

func (f *toStringFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, formatFlagName, formatFlagShort, dates.DefaultFormat, formatFlagUsage)
}

func (f *toStringFlags) toOptions(cmd *cobra.Command, args []string) (*toStringOptions, error) {
	if len(args) == 0 {
		return nil, errNoArguments
	}

	timestamp, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w %q", errInvalidTimestamp, args[0])
	}

	return &toStringOptions{
		timestamp: timestamp,
		format:    f.format,
		out:       cmd.OutOrStdout(),
	}, nil
}
