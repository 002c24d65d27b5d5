package providers

import (
	"steamledger/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		TimeZone: "Asia/Shanghai",
		Storage: structures.StorageConfig{
			DataDir:     "/var/lib/steamledger",
			JournalPath: "/var/lib/steamledger/journal.db",
		},
		Source: structures.SourceConfig{
			BaseURL: "https://api.steampowered.com",
		},
		RecordStore: structures.RecordStoreConfig{
			BaseURL: "https://api.notion.com",
			Version: "2022-06-28",
			Backoff: time.Second,
			Properties: structures.RecordProperties{
				Title:   "Name",
				AppID:   "AppID",
				Minutes: "Minutes",
				Date:    "Date",
			},
		},
		Credentials: structures.Credentials{
			SteamKey:         "key",
			SteamID:          "76561198000000000",
			NotionKey:        "secret",
			NotionDatabaseID: "db",
		},
		Schedule: structures.ScheduleConfig{At: "04:00"},
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *structures.Config)
	}{
		{"empty host", func(c *structures.Config) { c.WebServer.Host = "" }},
		{"zero port", func(c *structures.Config) { c.WebServer.Port = 0 }},
		{"empty log level", func(c *structures.Config) { c.Logger.Level = "" }},
		{"invalid log level", func(c *structures.Config) { c.Logger.Level = "verbose" }},
		{"missing steam key", func(c *structures.Config) { c.Credentials.SteamKey = "" }},
		{"missing steam id", func(c *structures.Config) { c.Credentials.SteamID = "" }},
		{"missing notion key", func(c *structures.Config) { c.Credentials.NotionKey = "" }},
		{"missing database id", func(c *structures.Config) { c.Credentials.NotionDatabaseID = "" }},
		{"missing data dir", func(c *structures.Config) { c.Storage.DataDir = "" }},
		{"relative source url", func(c *structures.Config) { c.Source.BaseURL = "api.steampowered.com" }},
		{"zero backoff", func(c *structures.Config) { c.RecordStore.Backoff = 0 }},
		{"bad schedule", func(c *structures.Config) { c.Schedule.At = "4am" }},
		{"out of range schedule", func(c *structures.Config) { c.Schedule.At = "25:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, NewCnfValidator(c).Validate())
		})
	}
}
