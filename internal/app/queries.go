package app

import (
	"context"
	"fmt"
	"time"

	"guesthouse/internal/domain"
)

type QueryService struct {
	repo     domain.ReservationRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReservationRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetReservation(ctx context.Context, id string) (domain.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

// GetReservationByToken serves guest self-service lookup. Tokens are opaque
// credentials, so results are never cached.
func (s *QueryService) GetReservationByToken(ctx context.Context, token string) (domain.Reservation, error) {
	return s.repo.GetReservationByToken(ctx, token)
}

func (s *QueryService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.repo.ListRooms(ctx)
}

// RoomAvailability returns the confirmed ranges for a room, optionally
// clipped to a window. The unwindowed view is cached; the admission service
// evicts it on every accept and cancel.
func (s *QueryService) RoomAvailability(ctx context.Context, roomID string, window *domain.DateRange) (domain.RoomAvailability, error) {
	if window != nil {
		ranges, err := s.repo.ListConfirmedRanges(ctx, roomID, window)
		if err != nil {
			return domain.RoomAvailability{}, err
		}
		return domain.RoomAvailability{RoomID: roomID, Booked: ranges}, nil
	}

	key := availabilityKey(roomID)
	var av domain.RoomAvailability
	if ok, _ := s.cache.Get(ctx, key, &av); ok {
		return av, nil
	}

	ranges, err := s.repo.ListConfirmedRanges(ctx, roomID, nil)
	if err != nil {
		return domain.RoomAvailability{}, err
	}
	av = domain.RoomAvailability{RoomID: roomID, Booked: copyRanges(ranges)}
	_ = s.cache.Set(ctx, key, av, int(s.cacheTTL.Seconds()))
	return av, nil
}

func availabilityKey(roomID string) string {
	return fmt.Sprintf("availability:%s", roomID)
}

// copy to avoid aliasing the repo's backing array into the cache
func copyRanges(in []domain.DateRange) []domain.DateRange {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.DateRange, len(in))
	copy(out, in)
	return out
}
