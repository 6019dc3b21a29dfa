// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/gisutils/internal/info"
)

const (
	profilePrefix    = "arcgis_"
	profilesFileName = "profiles.yaml"
)

var (
	// ErrProfileNotFound is returned when a profile does not exist in the store.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileStore wraps failures while reading or writing the profile store.
	ErrProfileStore = errors.New("profile store error")
)

// ProfileName returns the name of the profile holding the login of username.
func ProfileName(username string) string {
	return profilePrefix + username
}

// Profile is a persisted set of login details for a portal.
type Profile struct {
	PortalURL string `yaml:"portalUrl,omitempty"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

type profilesFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// ProfileStore keeps the profiles in a single YAML file readable only by its owner.
type ProfileStore struct {
	fs   afero.Fs
	path string

	lock sync.Mutex
}

// NewProfileStore returns a store backed by the file at path on fs.
func NewProfileStore(fs afero.Fs, path string) *ProfileStore {
	return &ProfileStore{
		fs:   fs,
		path: path,
	}
}

// DefaultProfileStore returns the store in the user configuration directory.
func DefaultProfileStore() (*ProfileStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileStore, err)
	}

	return NewProfileStore(afero.NewOsFs(), filepath.Join(configDir, info.AppName, profilesFileName)), nil
}

// List returns the sorted profile names.
func (s *ProfileStore) List() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	profiles, err := s.read()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profiles.Profiles))
	for name := range profiles.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Get returns the profile called name.
func (s *ProfileStore) Get(name string) (*Profile, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	profiles, err := s.read()
	if err != nil {
		return nil, err
	}

	profile, ok := profiles.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return &profile, nil
}

// Create saves profile under name, replacing an existing one.
func (s *ProfileStore) Create(name string, profile Profile) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	profiles, err := s.read()
	if err != nil {
		return err
	}
	profiles.Profiles[name] = profile

	content, err := yaml.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfileStore, err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: %w", ErrProfileStore, err)
	}
	if err := afero.WriteFile(s.fs, s.path, content, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrProfileStore, err)
	}
	return nil
}

func (s *ProfileStore) read() (*profilesFile, error) {
	profiles := &profilesFile{Profiles: make(map[string]Profile)}

	content, err := afero.ReadFile(s.fs, s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return profiles, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrProfileStore, err)
	}

	if err := yaml.Unmarshal(content, profiles); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProfileStore, s.path, err)
	}
	if profiles.Profiles == nil {
		profiles.Profiles = make(map[string]Profile)
	}
	return profiles, nil
}
