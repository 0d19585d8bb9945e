package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-craftadmin/internal/config"
	"github.com/goliatone/go-craftadmin/internal/logging"
)

func TestNew_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "craftadmin.log")
	cfg := config.DefaultConfig().Log
	cfg.File = path
	cfg.Level = "warn"

	logger, err := logging.New(cfg)
	require.NoError(t, err)

	logger.Info("dropped below level")
	logger.Warn("row fetch failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "row fetch failed"))
	assert.False(t, strings.Contains(string(data), "dropped below level"))
	assert.Contains(t, string(data), `"service":"craftadmin"`)
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	cfg := config.DefaultConfig().Log
	cfg.Level = "loud"
	_, err := logging.New(cfg)
	assert.Error(t, err)
}
