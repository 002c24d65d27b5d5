package services

import (
	"context"
	"errors"
	"steamledger/internal/models"
	"steamledger/internal/notionapi"
	"steamledger/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecordStore answers CreateEntry from a per-app script of errors.
// Once a script runs out every further call succeeds.
type fakeRecordStore struct {
	mu      sync.Mutex
	calls   map[uint32]int
	order   []uint32
	scripts map[uint32][]error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		calls:   make(map[uint32]int),
		scripts: make(map[uint32][]error),
	}
}

func (f *fakeRecordStore) CreateEntry(_ context.Context, rec models.ActivityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[rec.AppID]++
	f.order = append(f.order, rec.AppID)
	script := f.scripts[rec.AppID]
	if len(script) == 0 {
		return nil
	}
	err := script[0]
	f.scripts[rec.AppID] = script[1:]
	return err
}

func activity(appID uint32, name string, minutes int64, date time.Time) models.ActivityRecord {
	return models.ActivityRecord{
		AppID:           appID,
		Name:            name,
		ActivityMinutes: minutes,
		ActivityDate:    date,
	}
}

func newSyncService(client RecordStoreClientInterface, store *testutil.MemoryLedgerStore, journal *testutil.MockJournal) (*SyncService, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	s := NewSyncService(testConfig(), client, store, journal, noopMetrics(), logger)
	s.now = fixedClock(day(2024, 3, 10).Add(5 * time.Hour))
	return s, logger
}

func TestUpload_RateLimitedRecordRetriedOnce(t *testing.T) {
	d := day(2024, 3, 9)
	client := newFakeRecordStore()
	client.scripts[2] = []error{notionapi.ErrRateLimited}
	journal := testutil.NewMockJournal()
	s, _ := newSyncService(client, testutil.NewMemoryLedgerStore(), journal)

	report := s.Upload(context.Background(), []models.ActivityRecord{
		activity(1, "First", 10, d),
		activity(2, "Second", 20, d),
		activity(3, "Third", 30, d),
	})

	assert.Equal(t, 1, client.calls[1])
	assert.Equal(t, 2, client.calls[2])
	assert.Equal(t, 1, client.calls[3])
	assert.Equal(t, []uint32{1, 2, 2, 3}, client.order)
	assert.Equal(t, models.SyncReport{Attempted: 3, Delivered: 3, RateLimited: 1}, report)
	assert.Len(t, journal.Keys, 3)
}

func TestUpload_SecondRateLimitFailsRecordAndContinues(t *testing.T) {
	d := day(2024, 3, 9)
	client := newFakeRecordStore()
	client.scripts[2] = []error{notionapi.ErrRateLimited, notionapi.ErrRateLimited}
	journal := testutil.NewMockJournal()
	s, logger := newSyncService(client, testutil.NewMemoryLedgerStore(), journal)

	report := s.Upload(context.Background(), []models.ActivityRecord{
		activity(1, "First", 10, d),
		activity(2, "Second", 20, d),
		activity(3, "Third", 30, d),
	})

	assert.Equal(t, 2, client.calls[2])
	assert.Equal(t, 1, client.calls[3])
	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, logger.Count("error"))
	delivered, err := journal.Delivered(activity(2, "Second", 20, d).IdempotencyKey())
	require.NoError(t, err)
	assert.False(t, delivered)
}

func TestUpload_OtherErrorsAreNotRetried(t *testing.T) {
	d := day(2024, 3, 9)
	client := newFakeRecordStore()
	client.scripts[1] = []error{&notionapi.APIError{Status: 400, Code: "validation_error", Message: "bad"}}
	s, _ := newSyncService(client, testutil.NewMemoryLedgerStore(), testutil.NewMockJournal())

	report := s.Upload(context.Background(), []models.ActivityRecord{
		activity(1, "First", 10, d),
		activity(2, "Second", 20, d),
	})

	assert.Equal(t, 1, client.calls[1])
	assert.Equal(t, 1, client.calls[2])
	assert.Equal(t, models.SyncReport{Attempted: 2, Delivered: 1, Failed: 1}, report)
}

func TestUpload_JournalSkipsDeliveredRecords(t *testing.T) {
	d := day(2024, 3, 9)
	client := newFakeRecordStore()
	journal := testutil.NewMockJournal()
	s, _ := newSyncService(client, testutil.NewMemoryLedgerStore(), journal)
	records := []models.ActivityRecord{activity(1, "First", 10, d), activity(2, "Second", 20, d)}

	first := s.Upload(context.Background(), records)
	second := s.Upload(context.Background(), records)

	assert.Equal(t, 2, first.Delivered)
	assert.Equal(t, models.SyncReport{Skipped: 2}, second)
	assert.Equal(t, 1, client.calls[1])
	assert.Equal(t, 1, client.calls[2])
}

func TestUpload_JournalErrorsDoNotBlockDelivery(t *testing.T) {
	d := day(2024, 3, 9)
	client := newFakeRecordStore()
	journal := testutil.NewMockJournal()
	journal.LookupErr = errors.New("bolt closed")
	journal.MarkErr = errors.New("bolt closed")
	s, logger := newSyncService(client, testutil.NewMemoryLedgerStore(), journal)

	report := s.Upload(context.Background(), []models.ActivityRecord{activity(1, "First", 10, d)})

	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, logger.Count("warn"))
	assert.Equal(t, 1, logger.Count("error"))
}

func TestUpload_Empty(t *testing.T) {
	client := newFakeRecordStore()
	s, _ := newSyncService(client, testutil.NewMemoryLedgerStore(), testutil.NewMockJournal())

	report := s.Upload(context.Background(), nil)

	assert.Equal(t, models.SyncReport{}, report)
	assert.Empty(t, client.order)
}

func TestUploadAll_ResendsPersistedBatches(t *testing.T) {
	client := newFakeRecordStore()
	store := testutil.NewMemoryLedgerStore()
	journal := testutil.NewMockJournal()
	first := day(2024, 3, 9)
	second := day(2024, 3, 10)
	require.NoError(t, store.WriteActivity(models.NewActivityBatch(first, []models.ActivityRecord{
		activity(1, "First", 10, first.AddDate(0, 0, -1)),
	})))
	require.NoError(t, store.WriteActivity(models.NewActivityBatch(second, []models.ActivityRecord{
		activity(2, "Second", 20, first),
		activity(3, "Third", 30, first),
	})))
	journal.Keys[activity(3, "Third", 30, first).IdempotencyKey()] = first

	s, _ := newSyncService(client, store, journal)
	report, err := s.UploadAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{Attempted: 2, Delivered: 2, Skipped: 1}, report)
	assert.Equal(t, []uint32{1, 2}, client.order)
}

func TestUploadAll_EmptyBatch(t *testing.T) {
	store := testutil.NewMemoryLedgerStore()
	require.NoError(t, store.WriteActivity(models.NewActivityBatch(day(2024, 3, 9), nil)))
	client := newFakeRecordStore()
	s, _ := newSyncService(client, store, testutil.NewMockJournal())

	report, err := s.UploadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SyncReport{}, report)
	assert.Empty(t, client.order)
}
