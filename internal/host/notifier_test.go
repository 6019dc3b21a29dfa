// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package host

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	t.Parallel()

	messages := new(bytes.Buffer)
	warnings := new(bytes.Buffer)
	errs := new(bytes.Buffer)
	window := NewWindow(messages, warnings, errs)

	window.AddMessage("first message")
	window.AddWarning("a warning")
	window.AddError("an error")
	window.AddMessage("second message")

	assert.Equal(t, "first message\nsecond message\n", messages.String())
	assert.Equal(t, "a warning\n", warnings.String())
	assert.Equal(t, "an error\n", errs.String())
}

func TestWindowWithNilWriters(t *testing.T) {
	t.Parallel()

	messages := new(bytes.Buffer)
	window := NewWindow(messages, nil, nil)

	assert.NotPanics(t, func() {
		window.AddWarning("discarded")
		window.AddError("discarded")
	})
	window.AddMessage("kept")
	assert.Equal(t, "kept\n", messages.String())
}
