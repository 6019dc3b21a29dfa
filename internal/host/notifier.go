// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package host

import (
	"fmt"
	"io"
	"sync"
)

// Notifier is the message API of a host application.
type Notifier interface {
	// AddMessage shows an informational line in the host window.
	AddMessage(message string)

	// AddWarning shows a warning line in the host window.
	AddWarning(message string)

	// AddError shows an error line in the host window.
	AddError(message string)
}

var _ Notifier = &Window{}

// Window is a Notifier that writes each severity bucket to a separate writer.
type Window struct {
	messages io.Writer
	warnings io.Writer
	errors   io.Writer

	lock sync.Mutex
}

// NewWindow returns a Window writing to the provided writers. A nil writer
// discards the lines of its bucket.
func NewWindow(messages, warnings, errors io.Writer) *Window {
	return &Window{
		messages: orDiscard(messages),
		warnings: orDiscard(warnings),
		errors:   orDiscard(errors),
	}
}

func (w *Window) AddMessage(message string) { w.write(w.messages, message) }
func (w *Window) AddWarning(message string) { w.write(w.warnings, message) }
func (w *Window) AddError(message string)   { w.write(w.errors, message) }

func (w *Window) write(writer io.Writer, message string) {
	w.lock.Lock()
	defer w.lock.Unlock()
	fmt.Fprintln(writer, message)
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
