package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "guesthouse/internal/adapters/redis"
	"guesthouse/internal/domain"
)

func day(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.UTC)
	return t
}

func TestCache_RoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	av := domain.RoomAvailability{
		RoomID: "room-1",
		Booked: []domain.DateRange{{CheckIn: day("2026-05-15"), CheckOut: day("2026-05-18")}},
	}
	if err := c.Set(ctx, "availability:room-1", av, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.RoomAvailability
	ok, err := c.Get(ctx, "availability:room-1", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.RoomID != "room-1" || len(got.Booked) != 1 || !got.Booked[0].CheckIn.Equal(day("2026-05-15")) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	// TTL elapses
	mr.FastForward(61 * time.Second)
	ok, err = c.Get(ctx, "availability:room-1", &got)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if ok {
		t.Fatal("expected miss after TTL")
	}
}

func TestCache_DelAndMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var dst domain.RoomAvailability
	ok, err := c.Get(ctx, "availability:absent", &dst)
	if err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "availability:room-2", domain.RoomAvailability{RoomID: "room-2"}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "availability:room-2"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "availability:room-2", &dst)
	if ok {
		t.Fatal("expected miss after del")
	}
}
