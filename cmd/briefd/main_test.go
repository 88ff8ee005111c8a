package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	names := make([]string, 0, 4)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "research")
	assert.Contains(t, names, "redact")
	assert.Contains(t, names, "capabilities")
}

func TestRedactCommand(t *testing.T) {
	t.Run("redacts a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("mail alice@example.com, SSN 123-45-6789"), 0o600))

		var out bytes.Buffer
		redactCmd.SetOut(&out)
		defer redactCmd.SetOut(nil)

		require.NoError(t, runRedact(redactCmd, []string{path}))
		assert.Contains(t, out.String(), "[EMAIL_REDACTED]")
		assert.Contains(t, out.String(), "[SSN_REDACTED]")
		assert.NotContains(t, out.String(), "alice@example.com")
	})

	t.Run("redacts stdin", func(t *testing.T) {
		var out bytes.Buffer
		redactCmd.SetOut(&out)
		redactCmd.SetIn(strings.NewReader("card 4111111111111111"))
		defer func() {
			redactCmd.SetOut(nil)
			redactCmd.SetIn(nil)
		}()

		require.NoError(t, runRedact(redactCmd, []string{"-"}))
		assert.Contains(t, out.String(), "[CREDIT_CARD_REDACTED]")
	})

	t.Run("json output carries match details", func(t *testing.T) {
		redactJSON = true
		defer func() { redactJSON = false }()

		var out bytes.Buffer
		redactCmd.SetOut(&out)
		redactCmd.SetIn(strings.NewReader("mail alice@example.com"))
		defer func() {
			redactCmd.SetOut(nil)
			redactCmd.SetIn(nil)
		}()

		require.NoError(t, runRedact(redactCmd, []string{"-"}))
		assert.Contains(t, out.String(), `"matches_found": 1`)
		assert.Contains(t, out.String(), `"type": "email"`)
	})

	t.Run("missing file fails", func(t *testing.T) {
		err := runRedact(redactCmd, []string{filepath.Join(t.TempDir(), "nope.txt")})
		require.Error(t, err)
	})
}

func TestFormatSteps(t *testing.T) {
	assert.Equal(t, "(none)", formatSteps(nil))
	assert.Equal(t, "web_search -> briefing_generator", formatSteps([]string{"web_search", "briefing_generator"}))
}
