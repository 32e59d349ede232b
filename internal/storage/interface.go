package storage

import (
	"context"

	"github.com/SUMMERxKx/nwHacks/internal"
)

// CheckInRepository stores one check-in per user per date. Saving an existing
// date overwrites it (createdAt is kept). Deletion is soft: deleted records
// are never returned by GetCheckIn or ListCheckIns.
type CheckInRepository interface {
	SaveCheckIn(ctx context.Context, checkIn *internal.CheckIn) error
	GetCheckIn(ctx context.Context, userID, date string) (*internal.CheckIn, error)
	// ListCheckIns returns the user's check-ins with start <= date <= end, in no particular order.
	ListCheckIns(ctx context.Context, userID, start, end string) ([]internal.CheckIn, error)
	DeleteCheckIn(ctx context.Context, userID, date string) error
	Close() error
}
