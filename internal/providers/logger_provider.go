package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"steamledger/internal/structures"
	"time"

	"github.com/rs/zerolog"
)

const logFileName = "steamledger.log"

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeCollect
	TypeMerge
	TypeDelta
	TypeSync
	TypeHTTP
)

var typeNames = map[TypeEnum]string{
	TypeApp:     "app",
	TypeCollect: "collect",
	TypeMerge:   "merge",
	TypeDelta:   "delta",
	TypeSync:    "sync",
	TypeHTTP:    "http",
}

func (t TypeEnum) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	file *os.File
	log  zerolog.Logger
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	if err := os.MkdirAll(conf.Logger.Dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create log dir: %w", err)
	}
	path := filepath.Join(conf.Logger.Dir, logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	var console io.Writer = os.Stderr
	if conf.Debug {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(zerolog.MultiLevelWriter(file, console)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &LogProvider{file: file, log: l}, nil
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.log.Error().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.log.Warn().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.log.Debug().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.log.Info().Str("type", t.String()).Msgf(format, args...)
}

// Fatalf logs and terminates the process with exit code 1.
func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.log.Fatal().Str("type", t.String()).Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	if lp.file != nil {
		_ = lp.file.Sync()
		_ = lp.file.Close()
	}
}
