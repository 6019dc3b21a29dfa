// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package host

import (
	"errors"

	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	// DefaultNamespace is used when no explicit waPC namespace is provided.
	DefaultNamespace = "gisutils"

	capabilityName = "logging"
)

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")
)

// HostCallFunc is the signature of the waPC host call entrypoint.
type HostCallFunc func(binding, namespace, operation string, payload []byte) ([]byte, error)

// WAPCConfig controls how a WAPC notifier interacts with the host runtime.
type WAPCConfig struct {
	// Namespace scopes the host calls. If empty, DefaultNamespace is used.
	Namespace string

	// HostCall overrides the waPC host function, tests use it to record calls.
	HostCall HostCallFunc

	// OnError receives failed host calls. When nil failures are ignored.
	OnError func(error)
}

var _ Notifier = &WAPC{}

// WAPC forwards host window lines through waPC host calls.
type WAPC struct {
	namespace string
	hostCall  HostCallFunc
	onError   func(error)
}

// NewWAPC creates a WAPC notifier from cfg.
func NewWAPC(cfg WAPCConfig) *WAPC {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &WAPC{
		namespace: namespace,
		hostCall:  hostCall,
		onError:   cfg.OnError,
	}
}

func (w *WAPC) AddMessage(message string) { w.call("Info", message) }
func (w *WAPC) AddWarning(message string) { w.call("Warn", message) }
func (w *WAPC) AddError(message string)   { w.call("Error", message) }

func (w *WAPC) call(operation, message string) {
	_, err := w.hostCall(w.namespace, capabilityName, operation, []byte(message))
	if err != nil && w.onError != nil {
		w.onError(errors.Join(ErrHostCall, err))
	}
}
