package testutil

import (
	"fmt"
	"sort"
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MemoryLedgerStore implements interfaces.LedgerStoreInterface in memory.
type MemoryLedgerStore struct {
	mu          sync.Mutex
	Ledgers     map[string]*models.DailyLedger
	Batches     map[string]*models.ActivityBatch
	WriteErr    error
	ReadErr     error
	WriteCalls  int
	ActivityErr error
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		Ledgers: make(map[string]*models.DailyLedger),
		Batches: make(map[string]*models.ActivityBatch),
	}
}

func ledgerKey(kind models.LedgerKind, dateKey string) string {
	return string(kind) + ":" + dateKey
}

// Put stores a ledger without counting it as a write.
func (m *MemoryLedgerStore) Put(ledger *models.DailyLedger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ledgers[ledgerKey(ledger.Kind, ledger.Date)] = cloneLedger(ledger)
}

func (m *MemoryLedgerStore) WriteLedger(ledger *models.DailyLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Ledgers[ledgerKey(ledger.Kind, ledger.Date)] = cloneLedger(ledger)
	return nil
}

func (m *MemoryLedgerStore) ReadLedger(kind models.LedgerKind, date time.Time) (*models.DailyLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	l, ok := m.Ledgers[ledgerKey(kind, models.DateKey(date))]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, models.DateKey(date))
	}
	return cloneLedger(l), nil
}

func (m *MemoryLedgerStore) WriteActivity(batch *models.ActivityBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ActivityErr != nil {
		return m.ActivityErr
	}
	cp := *batch
	cp.Records = append([]models.ActivityRecord(nil), batch.Records...)
	m.Batches[batch.RunDate] = &cp
	return nil
}

func (m *MemoryLedgerStore) ReadActivity(date time.Time) (*models.ActivityBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Batches[models.DateKey(date)]
	if !ok {
		return nil, fmt.Errorf("%w: activity %s", models.ErrNotFound, models.DateKey(date))
	}
	cp := *b
	cp.Records = append([]models.ActivityRecord(nil), b.Records...)
	return &cp, nil
}

func (m *MemoryLedgerStore) ListDates(kind models.LedgerKind) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	if kind == models.KindActivity {
		for k := range m.Batches {
			keys = append(keys, k)
		}
	} else {
		for _, l := range m.Ledgers {
			if l.Kind == kind {
				keys = append(keys, l.Date)
			}
		}
	}
	sort.Strings(keys)
	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		d, err := models.ParseDateKey(k, time.UTC)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func cloneLedger(l *models.DailyLedger) *models.DailyLedger {
	cp := *l
	cp.Games = append([]models.GameRecord(nil), l.Games...)
	if cp.Games == nil {
		cp.Games = make([]models.GameRecord, 0)
	}
	return &cp
}

// MockJournal implements interfaces.JournalInterface.
type MockJournal struct {
	mu        sync.Mutex
	Keys      map[uuid.UUID]time.Time
	LookupErr error
	MarkErr   error
}

func NewMockJournal() *MockJournal {
	return &MockJournal{Keys: make(map[uuid.UUID]time.Time)}
}

func (m *MockJournal) Delivered(key uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LookupErr != nil {
		return false, m.LookupErr
	}
	_, ok := m.Keys[key]
	return ok, nil
}

func (m *MockJournal) MarkDelivered(key uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.Keys[key] = at
	return nil
}
