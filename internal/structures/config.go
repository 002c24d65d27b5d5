package structures

import "time"

type Server struct {
	Host string `yaml:"host" mapstructure:"host" validate:"required"`
	Port int    `yaml:"port" mapstructure:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	DataDir     string `yaml:"dataDir" mapstructure:"dataDir" validate:"required|unixPath"`
	JournalPath string `yaml:"journalPath" mapstructure:"journalPath" validate:"required|unixPath"`
}

type LoggerConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" mapstructure:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" mapstructure:"dir" validate:"required|unixPath"`
}

type SourceConfig struct {
	BaseURL                string        `yaml:"baseUrl" mapstructure:"baseUrl" validate:"required|fullUrl"`
	Timeout                time.Duration `yaml:"timeout" mapstructure:"timeout"`
	IncludePlayedFreeGames bool          `yaml:"includePlayedFreeGames" mapstructure:"includePlayedFreeGames"`
	IncludeFreeSub         bool          `yaml:"includeFreeSub" mapstructure:"includeFreeSub"`
}

// RecordProperties names the columns of the destination database.
type RecordProperties struct {
	Title   string `yaml:"title" mapstructure:"title" validate:"required"`
	AppID   string `yaml:"appId" mapstructure:"appId" validate:"required"`
	Minutes string `yaml:"minutes" mapstructure:"minutes" validate:"required"`
	Date    string `yaml:"date" mapstructure:"date" validate:"required"`
}

type RecordStoreConfig struct {
	BaseURL    string           `yaml:"baseUrl" mapstructure:"baseUrl" validate:"required|fullUrl"`
	Version    string           `yaml:"version" mapstructure:"version" validate:"required"`
	Timeout    time.Duration    `yaml:"timeout" mapstructure:"timeout"`
	Backoff    time.Duration    `yaml:"backoff" mapstructure:"backoff" validate:"required|min:1"`
	Properties RecordProperties `yaml:"properties" mapstructure:"properties"`
}

// Credentials are never read from the yaml file in production; they are
// bound to STEAM_KEY, STEAM_ID, NOTION_KEY and NOTION_DATABASE_ID.
type Credentials struct {
	SteamKey         string `yaml:"steamKey" mapstructure:"steamKey" validate:"required"`
	SteamID          string `yaml:"steamId" mapstructure:"steamId" validate:"required"`
	NotionKey        string `yaml:"notionKey" mapstructure:"notionKey" validate:"required"`
	NotionDatabaseID string `yaml:"notionDatabaseId" mapstructure:"notionDatabaseId" validate:"required"`
}

type ScheduleConfig struct {
	At string `yaml:"at" mapstructure:"at" validate:"required"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Size    int           `yaml:"size" mapstructure:"size"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

type Config struct {
	AppName     string            `mapstructure:"-"`
	Debug       bool              `mapstructure:"-"`
	Path        string            `mapstructure:"-"`
	Location    *time.Location    `mapstructure:"-"`
	TimeZone    string            `yaml:"timezone" mapstructure:"timezone" validate:"required"`
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	Source      SourceConfig      `yaml:"source" mapstructure:"source"`
	RecordStore RecordStoreConfig `yaml:"recordStore" mapstructure:"recordStore"`
	Credentials Credentials       `yaml:"credentials" mapstructure:"credentials"`
	Schedule    ScheduleConfig    `yaml:"schedule" mapstructure:"schedule"`
	WebServer   Server            `yaml:"webServer" mapstructure:"webServer"`
	Logger      LoggerConfig      `yaml:"logger" mapstructure:"logger"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics"`
}
