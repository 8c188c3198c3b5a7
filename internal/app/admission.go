package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"guesthouse/internal/adapters/observability"
	"guesthouse/internal/domain"
)

// AdmissionService owns the write path into the availability index. The
// check-then-reserve sequence itself lives in the repository as one atomic
// unit (per-room lock inside a transaction); this layer validates, mints the
// identifiers, and keeps the caches honest.
type AdmissionService struct {
	repo  domain.ReservationRepository
	cache domain.Cache
}

func NewAdmissionService(r domain.ReservationRepository, c domain.Cache) *AdmissionService {
	return &AdmissionService{repo: r, cache: c}
}

// Book admits or rejects a booking request.
//
// Outcomes: (Confirmation, nil) on acceptance; domain.ErrConflict when the
// range is taken; *domain.ValidationError for malformed input (returned
// before any lock or storage access); domain.ErrNotFound for an unknown
// room; anything else is a transient infrastructure fault the caller may
// retry.
func (s *AdmissionService) Book(ctx context.Context, req domain.BookingRequest) (domain.Confirmation, error) {
	if err := req.Validate(); err != nil {
		observability.ObserveAdmission("invalid")
		return domain.Confirmation{}, err
	}

	token, err := newGuestToken()
	if err != nil {
		observability.ObserveAdmission("error")
		return domain.Confirmation{}, fmt.Errorf("generate guest token: %w", err)
	}

	res := domain.Reservation{
		ID:         uuid.NewString(),
		RoomID:     req.RoomID,
		Dates:      req.Dates,
		Guest:      req.Guest,
		Status:     domain.StatusConfirmed,
		GuestToken: token,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Reserve(ctx, res); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			// Routine outcome under contention, not a fault.
			log.Info().
				Str("room_id", req.RoomID).
				Time("check_in", req.Dates.CheckIn).
				Time("check_out", req.Dates.CheckOut).
				Msg("booking rejected: dates taken")
			observability.ObserveAdmission("conflict")
		case errors.Is(err, domain.ErrNotFound):
			observability.ObserveAdmission("invalid")
		default:
			log.Error().Err(err).Str("room_id", req.RoomID).Msg("admission write failed")
			observability.ObserveAdmission("error")
		}
		return domain.Confirmation{}, err
	}

	observability.ObserveAdmission("accepted")
	s.invalidateAvailability(ctx, req.RoomID)

	return domain.Confirmation{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		Dates:         res.Dates,
		GuestToken:    res.GuestToken,
	}, nil
}

// Cancel flips a reservation to cancelled, freeing its range for future
// admissions. Idempotent: cancelling an already-cancelled reservation is not
// an error.
func (s *AdmissionService) Cancel(ctx context.Context, id string) error {
	res, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return err
	}
	if res.Status == domain.StatusCancelled {
		return nil
	}
	if err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}
	s.invalidateAvailability(ctx, res.RoomID)
	return nil
}

func (s *AdmissionService) invalidateAvailability(ctx context.Context, roomID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, availabilityKey(roomID))
}

// newGuestToken draws 32 bytes from crypto/rand, hex-encoded. The token is
// the guest's only credential for self-service lookup, so it must not be
// derivable from booking metadata.
func newGuestToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
