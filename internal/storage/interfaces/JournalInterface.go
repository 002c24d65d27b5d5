package interfaces

import (
	"time"

	"github.com/google/uuid"
)

// JournalInterface remembers which activity records reached the record
// store.
type JournalInterface interface {
	Delivered(key uuid.UUID) (bool, error)
	MarkDelivered(key uuid.UUID, at time.Time) error
}
