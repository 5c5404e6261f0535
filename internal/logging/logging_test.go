// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	t.Run("console only", func(t *testing.T) {
		var buf bytes.Buffer
		closer, err := Setup(Options{Console: &buf})
		require.NoError(t, err)
		t.Cleanup(func() { _ = closer.Close() })

		assert.Equal(t, zerolog.InfoLevel, log.Logger.GetLevel())

		log.Debug().Msg("hidden")
		log.Info().Str("page", "2024-02").Msg("rendered")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "rendered")
		assert.Contains(t, out, "2024-02")
	})

	t.Run("debug with file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "epcal.log")

		closer, err := Setup(Options{Debug: true, File: path, Console: &buf})
		require.NoError(t, err)

		assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())

		log.Debug().Msg("refresh scheduled")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"refresh scheduled"`)
		assert.Contains(t, buf.String(), "refresh scheduled")
	})
}
