// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/mia-platform/gisutils/internal/logger"
	"github.com/mia-platform/gisutils/internal/request"
)

const (
	loggerName = "gisutils:auth"

	portalSelfPath = "/sharing/rest/portals/self"

	signInFailedMessage = "the GIS session could not be created, either sign in with an active session or provide a portal username"
)

var (
	// ErrPortalResponse is returned when the portal description cannot be read.
	ErrPortalResponse = errors.New("unexpected portal response")
)

// Options configures how Connect signs in.
type Options struct {
	// Username selects the profile sign in, empty means active session sign in.
	Username string
	// PortalURL overrides the portal, it defaults to the profile portal or DefaultPortalURL.
	PortalURL string
	// Store holds the profiles, nil uses DefaultProfileStore.
	Store *ProfileStore
	// Prompt asks for missing passwords, nil uses TerminalPrompt.
	Prompt PasswordPrompt
	// HTTPClient is used for token requests and as base transport, nil uses http.DefaultClient.
	HTTPClient *http.Client
	// Output receives progress messages when the context carries no configured logger.
	Output io.Writer
}

var _ request.Session = &Session{}

// Session is an authenticated connection to a portal.
type Session struct {
	PortalURL      string
	PortalHostname string
	Username       string

	client *http.Client
}

// Client returns the HTTP client adding the portal token to every request.
func (s *Session) Client() *http.Client {
	return s.client
}

// Connect signs in to the portal described by opts.
func Connect(ctx context.Context, opts Options) (*Session, error) {
	log := progressLogger(ctx, opts.Output)

	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}

	var (
		portalURL string
		transport http.RoundTripper
		err       error
	)
	if opts.Username != "" {
		log.Info("signing in using profile", "user", opts.Username)
		portalURL, transport, err = profileTransport(ctx, base, opts, log)
	} else {
		log.Info("signing in using the active session")
		portalURL, transport, err = activeSessionTransport(ctx, base, opts)
	}
	if err != nil {
		return nil, err
	}

	session := &Session{
		PortalURL: portalURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   base.Timeout,
		},
	}
	if err := session.describe(ctx); err != nil {
		return nil, err
	}

	log.Info("successfully signed in", "portal", session.PortalHostname, "user", session.Username)
	return session, nil
}

// SignIn is Connect for scripts: failures are logged and a nil session is
// returned, callers must check it.
func SignIn(ctx context.Context, opts Options) *Session {
	session, err := Connect(ctx, opts)
	if err != nil {
		progressLogger(ctx, opts.Output).Exception(err, signInFailedMessage)
		return nil
	}

	return session
}

func profileTransport(ctx context.Context, base *http.Client, opts Options, log logger.Logger) (string, http.RoundTripper, error) {
	store := opts.Store
	if store == nil {
		var err error
		if store, err = DefaultProfileStore(); err != nil {
			return "", nil, err
		}
	}

	name := ProfileName(opts.Username)
	profile, err := store.Get(name)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		prompt := opts.Prompt
		if prompt == nil {
			prompt = TerminalPrompt
		}

		password, err := prompt(opts.Username)
		if err != nil {
			return "", nil, err
		}

		profile = &Profile{
			PortalURL: opts.PortalURL,
			Username:  opts.Username,
			Password:  password,
		}
		if err := store.Create(name, *profile); err != nil {
			return "", nil, err
		}
		log.Info("created new profile", "user", opts.Username)
	case err != nil:
		return "", nil, err
	}

	portalURL, err := resolvePortalURL(opts.PortalURL, profile.PortalURL)
	if err != nil {
		return "", nil, err
	}

	return portalURL, newPasswordTransport(ctx, base, portalURL, profile.Username, profile.Password), nil
}

func activeSessionTransport(ctx context.Context, base *http.Client, opts Options) (string, http.RoundTripper, error) {
	config, err := loadSessionConfigFromEnv()
	if err != nil {
		return "", nil, err
	}

	portalURL, err := resolvePortalURL(opts.PortalURL, config.PortalURL)
	if err != nil {
		return "", nil, err
	}
	config.PortalURL = portalURL

	return portalURL, newSessionTransport(ctx, base, config), nil
}

// resolvePortalURL returns the first non empty candidate without trailing slashes.
func resolvePortalURL(candidates ...string) (string, error) {
	portalURL := DefaultPortalURL
	for _, candidate := range candidates {
		if candidate != "" {
			portalURL = candidate
			break
		}
	}

	parsed, err := url.Parse(portalURL)
	if err != nil {
		return "", fmt.Errorf("invalid portal url %q: %w", portalURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid portal url %q: scheme and host are required", portalURL)
	}

	return strings.TrimRight(portalURL, "/"), nil
}

// describe reads the portal hostname and the signed in user.
func (s *Session) describe(ctx context.Context) error {
	response, err := request.SendWithSession(ctx, s, http.MethodGet, s.PortalURL+portalSelfPath, nil, nil)
	if err != nil {
		return err
	}

	object, ok := response.Object()
	if !ok {
		return fmt.Errorf("%w: status %d", ErrPortalResponse, response.StatusCode)
	}
	if portalErr, found := object["error"].(map[string]any); found {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, portalErr["message"])
	}

	s.PortalHostname, _ = object["portalHostname"].(string)
	if user, ok := object["user"].(map[string]any); ok {
		s.Username, _ = user["username"].(string)
	} else if app, ok := object["appInfo"].(map[string]any); ok {
		// app credentials sign in without a user
		s.Username, _ = app["appId"].(string)
	}
	if s.Username == "" {
		return fmt.Errorf("%w: no signed in user", ErrPortalResponse)
	}

	return nil
}

// progressLogger returns the context logger when configured, otherwise a
// logger printing plain lines to output.
func progressLogger(ctx context.Context, output io.Writer) logger.Logger {
	log := logger.FromContext(ctx)
	if log.Configured() {
		return log.WithName(loggerName)
	}

	if output == nil {
		output = os.Stdout
	}
	return &printLogger{out: output}
}
