package storage

import (
	"path/filepath"
	"steamledger/internal/structures"
	"steamledger/internal/testutil"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_MarkAndLookup(t *testing.T) {
	j, err := OpenJournal(filepath.Join(t.TempDir(), "state", "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	key := uuid.NewSHA1(uuid.NameSpaceOID, []byte("10:2024-03-09"))
	delivered, err := j.Delivered(key)
	require.NoError(t, err)
	assert.False(t, delivered)

	require.NoError(t, j.MarkDelivered(key, time.Now()))
	delivered, err = j.Delivered(key)
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestJournal_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	key := uuid.New()

	j, err := OpenJournal(path)
	require.NoError(t, err)
	require.NoError(t, j.MarkDelivered(key, time.Now()))
	require.NoError(t, j.Close())

	j, err = OpenJournal(path)
	require.NoError(t, err)
	defer j.Close()
	delivered, err := j.Delivered(key)
	require.NoError(t, err)
	assert.True(t, delivered)
}

func TestJournal_EmptyPath(t *testing.T) {
	_, err := OpenJournal("  ")
	assert.Error(t, err)
}

func TestNewJournal_Cleanup(t *testing.T) {
	conf := &structures.Config{Storage: structures.StorageConfig{JournalPath: filepath.Join(t.TempDir(), "journal.db")}}
	logger := &testutil.MockLogger{}

	j, cleanup, err := NewJournal(conf, logger)
	require.NoError(t, err)
	require.NotNil(t, j)
	cleanup()

	assert.Zero(t, logger.Count("error"))
	_, err = j.Delivered(uuid.New())
	assert.Error(t, err)
}
