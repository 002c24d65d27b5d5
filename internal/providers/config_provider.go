package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"steamledger/internal/structures"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AppName = "SteamLedger"

var envBindings = map[string]string{
	"logger.level":                 "STEAMLEDGER_LOG_LEVEL",
	"storage.dataDir":              "STEAMLEDGER_DATA_DIR",
	"timezone":                     "STEAMLEDGER_TIMEZONE",
	"credentials.steamKey":         "STEAM_KEY",
	"credentials.steamId":          "STEAM_ID",
	"credentials.notionKey":        "NOTION_KEY",
	"credentials.notionDatabaseId": "NOTION_DATABASE_ID",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Asia/Shanghai")
	v.SetDefault("storage.dataDir", "./data")
	v.SetDefault("storage.journalPath", "./data/journal.db")
	v.SetDefault("source.baseUrl", "https://api.steampowered.com")
	v.SetDefault("source.timeout", 30*time.Second)
	v.SetDefault("source.includePlayedFreeGames", true)
	v.SetDefault("source.includeFreeSub", true)
	v.SetDefault("recordStore.baseUrl", "https://api.notion.com")
	v.SetDefault("recordStore.version", "2022-06-28")
	v.SetDefault("recordStore.timeout", 30*time.Second)
	v.SetDefault("recordStore.backoff", time.Second)
	v.SetDefault("recordStore.properties.title", "Name")
	v.SetDefault("recordStore.properties.appId", "AppID")
	v.SetDefault("recordStore.properties.minutes", "Minutes")
	v.SetDefault("recordStore.properties.date", "Date")
	v.SetDefault("schedule.at", "04:00")
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "./logs")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 8)
	v.SetDefault("cache.ttl", time.Hour)
}

// NewConfigProvider reads the yaml file named by flags, overlays the
// environment and validates the result. Missing credentials fail here,
// before any network or disk I/O of the job.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(conf.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", conf.TimeZone, err)
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.Location = loc

	return &conf, nil
}
