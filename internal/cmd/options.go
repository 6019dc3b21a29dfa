// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mia-platform/gisutils/internal/auth"
	"github.com/mia-platform/gisutils/internal/dates"
	"github.com/mia-platform/gisutils/internal/request"
)

var errInvalidURL = errors.New("invalid request URL")

// requestOptions configures a single request sent by the request command.
type requestOptions struct {
	url         string
	method      string
	params      url.Values
	headers     http.Header
	session     bool
	authOptions auth.Options
	client      *http.Client
	out         io.Writer

	connect func(context.Context, auth.Options) (*auth.Session, error)
}

// validate checks the configured values and reports invalid setups.
func (o *requestOptions) validate() error {
	parsed, err := url.Parse(o.url)
	if err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidURL, o.url, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w %q: an absolute http or https URL is required", errInvalidURL, o.url)
	}

	return nil
}

// execute sends the request and prints the response value.
func (o *requestOptions) execute(ctx context.Context) error {
	var (
		response *request.Response
		err      error
	)

	if o.session {
		authOptions := o.authOptions
		if authOptions.HTTPClient == nil {
			authOptions.HTTPClient = o.client
		}

		session, connectErr := o.connect(ctx, authOptions)
		if connectErr != nil {
			return connectErr
		}
		response, err = request.SendWithSession(ctx, session, o.method, o.url, o.params, o.headers)
	} else {
		response, err = request.Send(ctx, o.client, o.method, o.url, o.params, o.headers)
	}
	if err != nil {
		return err
	}

	return writeValue(o.out, response.Value())
}

// signInOptions configures the signin command.
type signInOptions struct {
	authOptions auth.Options
	out         io.Writer

	signIn func(context.Context, auth.Options) *auth.Session
}

// execute signs in and prints the session details.
func (o *signInOptions) execute(ctx context.Context) error {
	session := o.signIn(ctx, o.authOptions)
	if session == nil {
		return errSignInFailed
	}

	_, err := fmt.Fprintf(o.out, "portal: %s\nhostname: %s\nuser: %s\n", session.PortalURL, session.PortalHostname, session.Username)
	return err
}

// toTimestampOptions configures the date to-timestamp command.
type toTimestampOptions struct {
	date         string
	format       string
	milliseconds bool
	out          io.Writer
}

func (o *toTimestampOptions) execute() error {
	timestamp, err := dates.DateStringToTimestamp(o.date, o.format, o.milliseconds)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.out, timestamp)
	return err
}

// toStringOptions configures the date to-string command.
type toStringOptions struct {
	timestamp int64
	format    string
	out       io.Writer
}

func (o *toStringOptions) execute() error {
	date, err := dates.TimestampToDateString(o.timestamp, o.format)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.out, date)
	return err
}
