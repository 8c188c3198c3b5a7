// Command loadtest probes the booking admission contract: it fires N
// concurrent identical booking requests at a running API and expects exactly
// one 200 with the rest 409. Any other split is a double-booking defect.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"guesthouse/internal/adapters/observability"
	"guesthouse/internal/shared"
)

func main() {
	var (
		base     = flag.String("base", "http://localhost:8080", "API base URL")
		roomID   = flag.String("room", "", "room id to contend on (required)")
		checkIn  = flag.String("checkin", "2026-05-15", "check-in date (YYYY-MM-DD)")
		checkOut = flag.String("checkout", "2026-05-18", "check-out date (YYYY-MM-DD)")
		n        = flag.Int("n", 3, "number of concurrent requests")
		workers  = flag.Int("workers", 0, "concurrency cap (0 = n)")
	)
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *roomID == "" {
		log.Fatal().Msg("-room is required")
	}
	limit := int64(*n)
	if *workers > 0 {
		limit = int64(*workers)
	}

	ctx := context.Background()
	hc := &http.Client{Timeout: 20 * time.Second}
	sem := semaphore.NewWeighted(limit)
	var wg sync.WaitGroup
	var ok200, conflict409, other atomic.Int64

	log.Info().
		Str("room", *roomID).
		Str("checkin", *checkIn).
		Str("checkout", *checkOut).
		Int("n", *n).
		Msg("loadtest starting")

	start := time.Now()
	for i := 0; i < *n; i++ {
		i := i

		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			status, body, err := postBooking(ctx, hc, *base, *roomID, *checkIn, *checkOut, i)
			if err != nil {
				other.Add(1)
				log.Warn().Int("req", i).Err(err).Msg("request failed")
				return
			}
			switch status {
			case http.StatusOK:
				ok200.Add(1)
				log.Info().Int("req", i).RawJSON("body", body).Msg("accepted")
			case http.StatusConflict:
				conflict409.Add(1)
				log.Info().Int("req", i).Msg("rejected: conflict")
			default:
				other.Add(1)
				log.Warn().Int("req", i).Int("status", status).Bytes("body", body).Msg("unexpected status")
			}
		}()
	}
	wg.Wait()

	log.Info().
		Int64("accepted", ok200.Load()).
		Int64("conflicts", conflict409.Load()).
		Int64("other", other.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("loadtest done")

	if ok200.Load() == 1 && conflict409.Load() == int64(*n-1) {
		fmt.Println("PASS: exactly one booking won the slot")
		return
	}
	fmt.Printf("FAIL: expected 1x200 and %dx409, got %dx200 %dx409 %dxother\n",
		*n-1, ok200.Load(), conflict409.Load(), other.Load())
}

func postBooking(ctx context.Context, hc *http.Client, base, roomID, checkIn, checkOut string, i int) (int, []byte, error) {
	payload, _ := json.Marshal(map[string]any{
		"room_id":     roomID,
		"check_in":    checkIn,
		"check_out":   checkOut,
		"guest_name":  fmt.Sprintf("Load Tester %d", i),
		"guest_email": fmt.Sprintf("loadtest+%d@example.com", i),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v1/bookings", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	return resp.StatusCode, body, nil
}
