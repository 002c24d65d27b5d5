package providers

import (
	"os"
	"path/filepath"
	"steamledger/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
storage:
  dataDir: /var/lib/steamledger
  journalPath: /var/lib/steamledger/journal.db
logger:
  dir: /tmp
recordStore:
  backoff: 2s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func setCredentials(t *testing.T) {
	t.Setenv("STEAM_KEY", "key")
	t.Setenv("STEAM_ID", "76561198000000000")
	t.Setenv("NOTION_KEY", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db")
}

func TestNewConfigProvider_DefaultsAndEnv(t *testing.T) {
	setCredentials(t)
	t.Setenv("STEAMLEDGER_LOG_LEVEL", "debug")
	path := writeConfig(t, minimalConfig)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, "Asia/Shanghai", conf.Location.String())
	assert.Equal(t, "debug", conf.Logger.Level)
	assert.Equal(t, 2*time.Second, conf.RecordStore.Backoff)
	assert.Equal(t, "2022-06-28", conf.RecordStore.Version)
	assert.Equal(t, "Minutes", conf.RecordStore.Properties.Minutes)
	assert.Equal(t, "04:00", conf.Schedule.At)
	assert.Equal(t, "key", conf.Credentials.SteamKey)
	assert.Equal(t, "db", conf.Credentials.NotionDatabaseID)
}

func TestNewConfigProvider_TimezoneOverride(t *testing.T) {
	setCredentials(t)
	t.Setenv("STEAMLEDGER_TIMEZONE", "UTC")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: writeConfig(t, minimalConfig)})
	require.NoError(t, err)
	assert.Equal(t, time.UTC, conf.Location)
}

func TestNewConfigProvider_MissingCredentials(t *testing.T) {
	t.Setenv("STEAM_KEY", "key")
	t.Setenv("STEAM_ID", "")
	t.Setenv("NOTION_KEY", "secret")
	t.Setenv("NOTION_DATABASE_ID", "db")

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: writeConfig(t, minimalConfig)})
	assert.Error(t, err)
}

func TestNewConfigProvider_UnknownTimezone(t *testing.T) {
	setCredentials(t)
	t.Setenv("STEAMLEDGER_TIMEZONE", "Mars/Olympus")

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: writeConfig(t, minimalConfig)})
	assert.Error(t, err)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	setCredentials(t)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}
