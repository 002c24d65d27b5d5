package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"steamledger/internal/storage/interfaces"
	"steamledger/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const fileExt = ".json.zst"

// LedgerStore keeps one compressed JSON file per (kind, date) under
// <dir>/<kind>/<kind>_<YYYYMMDD>.json.zst.
type LedgerStore struct {
	dir        string
	loc        *time.Location
	compressor interfaces.CompressorInterface
	cache      providers.CacheProviderInterface
	metrics    providers.MetricsProviderInterface
	logger     providers.Logger
}

func NewLedgerStore(conf *structures.Config, compressor interfaces.CompressorInterface, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) *LedgerStore {
	return &LedgerStore{
		dir:        conf.Storage.DataDir,
		loc:        conf.Location,
		compressor: compressor,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *LedgerStore) WriteLedger(ledger *models.DailyLedger) error {
	if ledger.Games == nil {
		ledger.Games = make([]models.GameRecord, 0)
	}
	if err := s.save(ledger.Kind, ledger.Date, ledger); err != nil {
		return err
	}
	s.metrics.SetLedgerRecords(string(ledger.Kind), ledger.Len())
	return nil
}

func (s *LedgerStore) ReadLedger(kind models.LedgerKind, date time.Time) (*models.DailyLedger, error) {
	var ledger models.DailyLedger
	if err := s.load(kind, s.dateKey(date), &ledger); err != nil {
		return nil, err
	}
	if ledger.Games == nil {
		ledger.Games = make([]models.GameRecord, 0)
	}
	return &ledger, nil
}

func (s *LedgerStore) WriteActivity(batch *models.ActivityBatch) error {
	if err := s.save(models.KindActivity, batch.RunDate, batch); err != nil {
		return err
	}
	s.metrics.SetLedgerRecords(string(models.KindActivity), len(batch.Records))
	return nil
}

func (s *LedgerStore) ReadActivity(date time.Time) (*models.ActivityBatch, error) {
	var batch models.ActivityBatch
	if err := s.load(models.KindActivity, s.dateKey(date), &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListDates returns every date holding a table of the given kind, oldest
// first.
func (s *LedgerStore) ListDates(kind models.LedgerKind) ([]time.Time, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, string(kind), string(kind)+"_*"+fileExt))
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(files))
	for _, file := range files {
		key := extractDateKey(kind, file)
		date, err := models.ParseDateKey(key, s.loc)
		if err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping unexpected file %s: %s", file, err)
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates, nil
}

func (s *LedgerStore) dateKey(date time.Time) string {
	return models.DateKey(models.DayOf(date, s.loc))
}

func (s *LedgerStore) filePath(kind models.LedgerKind, dateKey string) string {
	return filepath.Join(s.dir, string(kind), string(kind)+"_"+dateKey+fileExt)
}

func cacheKey(kind models.LedgerKind, dateKey string) string {
	return string(kind) + ":" + dateKey
}

// save writes through a temp file and renames it over the target so a
// reader never observes a half-written table.
func (s *LedgerStore) save(kind models.LedgerKind, dateKey string, v any) error {
	start := time.Now()

	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	key := cacheKey(kind, dateKey)
	s.cache.Del(key)

	fileName := s.filePath(kind, dateKey)
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, fileName); err != nil {
		os.Remove(tmpFile)
		return err
	}

	s.cache.Set(key, jsonData)
	s.metrics.ObservePersistenceDuration(string(kind), time.Since(start))
	s.logger.Debugf(providers.TypeApp, "Persisted %s table %s to %s", kind, dateKey, fileName)
	return nil
}

func (s *LedgerStore) load(kind models.LedgerKind, dateKey string, v any) error {
	key := cacheKey(kind, dateKey)
	if cached, ok := s.cache.Get(key); ok {
		if err := json.Unmarshal(cached, v); err == nil {
			return nil
		}
		s.cache.Del(key)
	}

	fileName := s.filePath(kind, dateKey)
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, dateKey)
		}
		return err
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("corrupt table %s: %w", fileName, err)
	}
	if err := json.Unmarshal(decompressed, v); err != nil {
		return fmt.Errorf("corrupt table %s: %w", fileName, err)
	}

	s.cache.Set(key, decompressed)
	return nil
}

// extractDateKey extracts the date part of a table path.
// "owned/owned_20240102.json.zst" → "20240102"
func extractDateKey(kind models.LedgerKind, path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(strings.TrimPrefix(base, string(kind)+"_"), fileExt)
}
