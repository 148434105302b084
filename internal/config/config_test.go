package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")

	content := `
database:
  host: localhost
  port: 5432
  user: pml
  password: ${DB_PASSWORD}
  dbname: pml
  sslmode: disable
reddit:
  username: sirneon
  password: hunter2
scan:
  scrape_limit: 50
  verbose: true
leaderboard:
  team_scoped_totals: true
  posts:
    "[TMC]": 2bzehq
logging:
  error_logging: true
log_level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
	assert.Equal(t, "sirneon", cfg.Reddit.Username)
	assert.Equal(t, 50, cfg.Scan.ScrapeLimit)
	assert.True(t, cfg.Scan.Verbose)
	assert.True(t, cfg.Leaderboard.TeamScopedTotals)
	assert.Equal(t, "2bzehq", cfg.Leaderboard.Posts["[TMC]"])
	assert.True(t, cfg.Logging.ErrorLogging)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://www.reddit.com", cfg.Reddit.BaseURL)
	assert.Equal(t, 3, cfg.Reddit.Retry.MaxAttempts)
	assert.Equal(t, 100, cfg.Scan.ScrapeLimit)
	assert.Equal(t, 1*time.Minute, cfg.Scan.Interval)
	assert.Equal(t, "players.txt", cfg.Files.Players)
	assert.Equal(t, "teams.txt", cfg.Files.Teams)
	assert.Equal(t, "pmlbot_logerr.log", cfg.Logging.ErrorLog)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}
