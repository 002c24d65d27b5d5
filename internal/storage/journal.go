package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"steamledger/internal/providers"
	"steamledger/internal/structures"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const deliveredBucket = "delivered"

// Journal is a bbolt-backed set of idempotency keys of activity records the
// record store accepted.
type Journal struct {
	db *bbolt.DB
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(deliveredBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s bucket: %w", deliveredBucket, err)
	}

	return &Journal{db: db}, nil
}

// NewJournal opens the configured journal and returns a cleanup closing it.
func NewJournal(conf *structures.Config, logger providers.Logger) (*Journal, func(), error) {
	j, err := OpenJournal(conf.Storage.JournalPath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := j.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Closing journal: %s", err)
		}
	}
	return j, cleanup, nil
}

func (j *Journal) Delivered(key uuid.UUID) (bool, error) {
	var found bool
	err := j.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(deliveredBucket))
		if bucket == nil {
			return fmt.Errorf("%s bucket is missing", deliveredBucket)
		}
		found = bucket.Get(key[:]) != nil
		return nil
	})
	return found, err
}

func (j *Journal) MarkDelivered(key uuid.UUID, at time.Time) error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(deliveredBucket))
		if bucket == nil {
			return fmt.Errorf("%s bucket is missing", deliveredBucket)
		}
		return bucket.Put(key[:], []byte(at.UTC().Format(time.RFC3339)))
	})
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}
