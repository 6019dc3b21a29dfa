// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package auth

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// DefaultPortalURL is the portal used when none is configured.
const DefaultPortalURL = "https://www.arcgis.com"

var (
	errParsingConfig       = errors.New("error parsing session configuration from environment variables")
	errMissingClientID     = errors.New("ARCGIS_CLIENT_ID is required when ARCGIS_CLIENT_SECRET is set")
	errMissingClientSecret = errors.New("ARCGIS_CLIENT_SECRET is required when ARCGIS_CLIENT_ID is set")

	// ErrNoActiveSession is returned when the environment holds no session credentials.
	ErrNoActiveSession = errors.New("no active session: set ARCGIS_TOKEN or ARCGIS_CLIENT_ID and ARCGIS_CLIENT_SECRET")
)

// sessionConfig holds the environment-driven active session settings.
type sessionConfig struct {
	PortalURL    string `env:"ARCGIS_PORTAL_URL" envDefault:"https://www.arcgis.com"`
	Token        string `env:"ARCGIS_TOKEN"`
	ClientID     string `env:"ARCGIS_CLIENT_ID"`
	ClientSecret string `env:"ARCGIS_CLIENT_SECRET"`
}

func loadSessionConfigFromEnv() (*sessionConfig, error) {
	config, err := env.ParseAs[sessionConfig]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errParsingConfig, err.Error())
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *sessionConfig) validate() error {
	if c.PortalURL == "" {
		c.PortalURL = DefaultPortalURL
	}
	if _, err := url.Parse(c.PortalURL); err != nil {
		return fmt.Errorf("invalid ARCGIS_PORTAL_URL: %w", err)
	}

	switch {
	case len(c.ClientID) > 0 && len(c.ClientSecret) == 0:
		return errMissingClientSecret
	case len(c.ClientSecret) > 0 && len(c.ClientID) == 0:
		return errMissingClientID
	case len(c.Token) == 0 && len(c.ClientID) == 0:
		return ErrNoActiveSession
	}

	return nil
}
