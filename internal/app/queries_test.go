package app_test

import (
	"context"
	"testing"
	"time"

	"guesthouse/internal/app"
	"guesthouse/internal/domain"
)

func TestRoomAvailability_CacheMissThenHit(t *testing.T) {
	repo := newFakeRepo(roomA)
	cache := &fakeCache{}
	adm := app.NewAdmissionService(repo, cache)
	q := app.NewQueryService(repo, cache, 10*time.Minute)
	ctx := context.Background()

	if _, err := adm.Book(ctx, req(roomA, "2026-05-15", "2026-05-18", 0)); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	// Miss (first read populates the cache)
	av, err := q.RoomAvailability(ctx, roomA, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(av.Booked) != 1 || !av.Booked[0].CheckIn.Equal(day("2026-05-15")) {
		t.Fatalf("unexpected availability: %+v", av)
	}

	// Write directly past the service so the cache goes stale on purpose
	_ = repo.Reserve(ctx, domain.Reservation{
		ID: "r-direct", RoomID: roomA, Status: domain.StatusConfirmed,
		Dates:      domain.DateRange{CheckIn: day("2026-06-01"), CheckOut: day("2026-06-03")},
		Guest:      domain.Guest{Name: "X", Email: "x@example.com"},
		GuestToken: "t-direct",
	})

	// Hit (served from cache, still one range)
	av2, err := q.RoomAvailability(ctx, roomA, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(av2.Booked) != 1 {
		t.Fatalf("expected cached view with 1 range, got %d", len(av2.Booked))
	}
}

func TestRoomAvailability_BookingInvalidatesCache(t *testing.T) {
	repo := newFakeRepo(roomA)
	cache := &fakeCache{}
	adm := app.NewAdmissionService(repo, cache)
	q := app.NewQueryService(repo, cache, 10*time.Minute)
	ctx := context.Background()

	if _, err := q.RoomAvailability(ctx, roomA, nil); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := adm.Book(ctx, req(roomA, "2026-05-15", "2026-05-18", 0)); err != nil {
		t.Fatalf("book: %v", err)
	}

	av, err := q.RoomAvailability(ctx, roomA, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(av.Booked) != 1 {
		t.Fatalf("stale availability after booking: %+v", av)
	}
}

func TestRoomAvailability_WindowBypassesCache(t *testing.T) {
	repo := newFakeRepo(roomA)
	cache := &fakeCache{}
	adm := app.NewAdmissionService(repo, cache)
	q := app.NewQueryService(repo, cache, 10*time.Minute)
	ctx := context.Background()

	if _, err := adm.Book(ctx, req(roomA, "2026-05-15", "2026-05-18", 0)); err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := adm.Book(ctx, req(roomA, "2026-07-01", "2026-07-05", 1)); err != nil {
		t.Fatalf("book: %v", err)
	}

	w := domain.DateRange{CheckIn: day("2026-05-01"), CheckOut: day("2026-06-01")}
	av, err := q.RoomAvailability(ctx, roomA, &w)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(av.Booked) != 1 {
		t.Fatalf("window should clip to 1 range, got %d", len(av.Booked))
	}
	if len(cache.store) != 0 {
		t.Fatal("windowed reads must not populate the cache")
	}
}

func TestGetReservationByToken(t *testing.T) {
	repo := newFakeRepo(roomA)
	cache := &fakeCache{}
	adm := app.NewAdmissionService(repo, cache)
	q := app.NewQueryService(repo, cache, 10*time.Minute)
	ctx := context.Background()

	conf, err := adm.Book(ctx, req(roomA, "2026-05-15", "2026-05-18", 0))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	res, err := q.GetReservationByToken(ctx, conf.GuestToken)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.ID != conf.ReservationID {
		t.Fatalf("token resolved to wrong reservation: %s", res.ID)
	}

	if _, err := q.GetReservationByToken(ctx, "0000"); err != domain.ErrNotFound {
		t.Fatalf("bogus token: expected ErrNotFound, got %v", err)
	}
}
