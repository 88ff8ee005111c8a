package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, NewDefaultConfig().Validate())
	})

	t.Run("bad level", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Level = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad format", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Format = "xml"
		assert.Error(t, cfg.Validate())
	})
}

func TestNew(t *testing.T) {
	t.Run("builds from defaults", func(t *testing.T) {
		logger, err := New(NewDefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("empty config gets defaults", func(t *testing.T) {
		logger, err := New(Config{})
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("console format", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Format = "console"
		logger, err := New(cfg)
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		_, err := New(Config{Level: "loud"})
		require.Error(t, err)
	})
}
