package domain

import "context"

type ReservationRepository interface {
	// Write paths.
	//
	// Reserve is the single writer path into the availability index. It must
	// execute the room lock, overlap check, and insert as one atomic unit:
	// a committed Reserve is visible to every later check, and a failed one
	// leaves nothing behind. Returns ErrNotFound for an unknown room and
	// ErrConflict when the range is taken.
	Reserve(ctx context.Context, res Reservation) error
	Cancel(ctx context.Context, id string) error

	// Read paths.
	GetReservation(ctx context.Context, id string) (Reservation, error)
	GetReservationByToken(ctx context.Context, token string) (Reservation, error)
	ListConfirmedRanges(ctx context.Context, roomID string, window *DateRange) ([]DateRange, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// RoomAvailability is the read model for a room's occupied ranges.
type RoomAvailability struct {
	RoomID string
	Booked []DateRange
}
