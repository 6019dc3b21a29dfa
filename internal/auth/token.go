// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	generateTokenPath = "/sharing/rest/generateToken"
	oauthTokenPath    = "/sharing/rest/oauth2/token"

	tokenExpirationMinutes = 60
)

var (
	// ErrInvalidCredentials is returned when the portal refuses the login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type portalError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

type generateTokenResponse struct {
	Token   string       `json:"token"`
	Expires int64        `json:"expires"`
	Error   *portalError `json:"error"`
}

// generateTokenSource obtains tokens from the portal generateToken endpoint
// with a username and a password.
type generateTokenSource struct {
	ctx      context.Context
	client   *http.Client
	tokenURL string
	referer  string
	username string
	password string
}

func (s *generateTokenSource) Token() (*oauth2.Token, error) {
	form := url.Values{
		"username":   []string{s.username},
		"password":   []string{s.password},
		"client":     []string{"referer"},
		"referer":    []string{s.referer},
		"expiration": []string{strconv.Itoa(tokenExpirationMinutes)},
		"f":          []string{"json"},
	}

	request, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body generateTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	switch {
	case body.Error != nil:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, body.Error.Message)
	case body.Token == "":
		return nil, fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}

	token := &oauth2.Token{
		AccessToken: body.Token,
		TokenType:   "Bearer",
	}
	if body.Expires > 0 {
		token.Expiry = time.UnixMilli(body.Expires)
	}
	return token, nil
}

// refererTransport sets the Referer the portal bound the token to.
type refererTransport struct {
	referer string
	base    http.RoundTripper
}

func (t *refererTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	req = req.Clone(req.Context())
	req.Header.Set("Referer", t.referer)
	return base.RoundTrip(req)
}

// newPasswordTransport creates a transport that signs requests with tokens
// generated from a username and a password. The tokens are bound to the
// portal URL used as Referer.
func newPasswordTransport(ctx context.Context, base *http.Client, portalURL, username, password string) http.RoundTripper {
	source := &generateTokenSource{
		ctx:      ctx,
		client:   base,
		tokenURL: portalURL + generateTokenPath,
		referer:  portalURL,
		username: username,
		password: password,
	}

	return &oauth2.Transport{
		Source: oauth2.ReuseTokenSource(nil, source),
		Base: &refererTransport{
			referer: portalURL,
			base:    base.Transport,
		},
	}
}

// newSessionTransport creates a transport configured with either a static
// token or a client-credentials flow.
func newSessionTransport(ctx context.Context, base *http.Client, config *sessionConfig) http.RoundTripper {
	var source oauth2.TokenSource
	switch {
	case len(config.Token) > 0:
		source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token, TokenType: "Bearer"})
	default:
		credentials := clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.PortalURL + oauthTokenPath,
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		source = credentials.TokenSource(context.WithValue(ctx, oauth2.HTTPClient, base))
	}

	return &oauth2.Transport{
		Source: source,
		Base:   base.Transport,
	}
}
