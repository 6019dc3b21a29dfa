// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerInContext(t *testing.T) {
	t.Parallel()

	t.Run("from nil context return null logger", func(t *testing.T) {
		t.Parallel()
		var ctx context.Context = nil
		log := FromContext(ctx)
		assert.Equal(t, log, nullLogger)
		assert.False(t, log.Configured())
	})

	t.Run("from empty context return null logger", func(t *testing.T) {
		t.Parallel()

		log := FromContext(t.Context())
		assert.Equal(t, log, nullLogger)
	})

	t.Run("context with a logger return that logger", func(t *testing.T) {
		t.Parallel()

		log := NewFacade()
		ctx := WithContext(t.Context(), log)

		logFromCtx := FromContext(ctx)
		assert.Same(t, log, logFromCtx)
	})

	t.Run("null logger drops every call", func(t *testing.T) {
		t.Parallel()

		log := FromContext(t.Context())
		assert.NotPanics(t, func() {
			log.Debug("dropped")
			log.Info("dropped")
			log.Warn("dropped")
			log.Error("dropped")
			log.Exception(assert.AnError, "dropped")
		})
		assert.False(t, log.Enabled(ERROR))
	})
}
