package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "./static", cfg.Server.StaticDir)
	assert.Equal(t, 3, cfg.Redis.MaxRetries)

	// LoadConfig is a singleton, repeated calls return the same instance.
	again, err := LoadConfig()
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestSplitOrigins(t *testing.T) {
	assert.Nil(t, splitOrigins(""))
	assert.Equal(t,
		[]string{"https://chat.example.com", "http://localhost:3000"},
		splitOrigins("https://chat.example.com, http://localhost:3000"))
}
