package domain

import (
	"strings"
	"time"
)

type Room struct {
	ID       string
	RoomType string
	Name     *string
	Capacity int
}

// DateRange is a half-open interval [CheckIn, CheckOut): the check-out day is
// free for the next guest's check-in. Both dates are UTC midnights.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func (d DateRange) Valid() bool { return d.CheckIn.Before(d.CheckOut) }

func (d DateRange) Nights() int {
	return int(d.CheckOut.Sub(d.CheckIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges intersect:
// [a,b) and [c,d) overlap iff a < d && c < b.
func (d DateRange) Overlaps(o DateRange) bool {
	return d.CheckIn.Before(o.CheckOut) && o.CheckIn.Before(d.CheckOut)
}

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Guest struct {
	Name  string
	Email string
	Phone *string
}

// Reservation is the durable booking record. Rows are never deleted;
// cancellation only flips Status.
type Reservation struct {
	ID         string
	RoomID     string
	Dates      DateRange
	Guest      Guest
	Status     string
	GuestToken string
	CreatedAt  time.Time
}

// BookingRequest is what callers submit for admission. Dates arrive already
// parsed; guest identity is taken as supplied.
type BookingRequest struct {
	RoomID string
	Dates  DateRange
	Guest  Guest
}

// Validate rejects malformed requests before any lock or storage access.
func (b BookingRequest) Validate() error {
	if strings.TrimSpace(b.RoomID) == "" {
		return &ValidationError{Field: "room_id", Reason: "required"}
	}
	if b.Dates.CheckIn.IsZero() || b.Dates.CheckOut.IsZero() {
		return &ValidationError{Field: "dates", Reason: "check_in and check_out are required"}
	}
	if !b.Dates.Valid() {
		return &ValidationError{Field: "dates", Reason: "check_in must be before check_out"}
	}
	if strings.TrimSpace(b.Guest.Name) == "" {
		return &ValidationError{Field: "guest_name", Reason: "required"}
	}
	if strings.TrimSpace(b.Guest.Email) == "" {
		return &ValidationError{Field: "guest_email", Reason: "required"}
	}
	return nil
}

// Confirmation is returned to the caller on an accepted admission.
type Confirmation struct {
	ReservationID string
	RoomID        string
	Dates         DateRange
	GuestToken    string
}
