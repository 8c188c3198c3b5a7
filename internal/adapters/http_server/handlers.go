package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"guesthouse/internal/app"
	"guesthouse/internal/domain"
)

type Handlers struct {
	Adm *app.AdmissionService
	Q   *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/bookings/lookup", h.lookupBooking)
	s.mux.Get("/v1/bookings/{id}", h.getBooking)
	s.mux.Post("/v1/bookings/{id}/cancel", h.cancelBooking)
	s.mux.Get("/v1/rooms", h.listRooms)
	s.mux.Get("/v1/rooms/{id}/availability", h.roomAvailability)
}

const dateLayout = "2006-01-02"

type bookingRequest struct {
	RoomID     string  `json:"room_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	GuestPhone *string `json:"guest_phone,omitempty"`
}

type bookingResponse struct {
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Status     string `json:"status"`
	GuestToken string `json:"guest_token,omitempty"`
}

type reservationView struct {
	BookingID  string  `json:"booking_id"`
	RoomID     string  `json:"room_id"`
	CheckIn    string  `json:"check_in"`
	CheckOut   string  `json:"check_out"`
	GuestName  string  `json:"guest_name"`
	GuestEmail string  `json:"guest_email"`
	GuestPhone *string `json:"guest_phone,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

type rangeView struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeBookingError maps the admission error taxonomy onto the HTTP
// contract. 409 (conflict) and 500 (infrastructure) must stay distinct:
// a 409 means the dates are taken, a 500 means retry later.
func writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeProblem(w, http.StatusBadRequest, "Invalid booking request", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Room unavailable", "the room is already booked for the requested dates")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "unknown room")
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "temporary failure, please retry")
	}
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var body bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	checkIn, err := parseDate(body.CheckIn)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid booking request", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(body.CheckOut)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid booking request", "check_out must be YYYY-MM-DD")
		return
	}

	conf, err := h.Adm.Book(r.Context(), domain.BookingRequest{
		RoomID: body.RoomID,
		Dates:  domain.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		Guest: domain.Guest{
			Name:  body.GuestName,
			Email: body.GuestEmail,
			Phone: body.GuestPhone,
		},
	})
	if err != nil {
		writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingResponse{
		BookingID:  conf.ReservationID,
		RoomID:     conf.RoomID,
		CheckIn:    conf.Dates.CheckIn.Format(dateLayout),
		CheckOut:   conf.Dates.CheckOut.Format(dateLayout),
		Status:     domain.StatusConfirmed,
		GuestToken: conf.GuestToken,
	})
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	res, err := h.Q.GetReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "temporary failure, please retry")
		return
	}
	writeJSON(w, http.StatusOK, toReservationView(res))
}

// lookupBooking is the guest self-service path: the opaque token issued at
// booking time is the only credential.
func (h *Handlers) lookupBooking(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeProblem(w, http.StatusBadRequest, "Missing token", "token query parameter is required")
		return
	}
	res, err := h.Q.GetReservationByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no booking for this token")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "temporary failure, please retry")
		return
	}
	writeJSON(w, http.StatusOK, toReservationView(res))
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Adm.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "booking not found")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "temporary failure, please retry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"booking_id": id, "status": domain.StatusCancelled})
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Q.ListRooms(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "temporary failure, please retry")
		return
	}
	type roomView struct {
		ID       string  `json:"id"`
		RoomType string  `json:"room_type"`
		Name     *string `json:"name,omitempty"`
		Capacity int     `json:"capacity"`
	}
	out := make([]roomView, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, roomView{ID: rm.ID, RoomType: rm.RoomType, Name: rm.Name, Capacity: rm.Capacity})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) roomAvailability(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var window *domain.DateRange
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from != "" || to != "" {
		f, err1 := parseDate(from)
		t, err2 := parseDate(to)
		if err1 != nil || err2 != nil || !f.Before(t) {
			writeProblem(w, http.StatusBadRequest, "Invalid window", "from and to must be YYYY-MM-DD with from < to")
			return
		}
		window = &domain.DateRange{CheckIn: f, CheckOut: t}
	}

	av, err := h.Q.RoomAvailability(r.Context(), roomID, window)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "temporary failure, please retry")
		return
	}
	booked := make([]rangeView, 0, len(av.Booked))
	for _, dr := range av.Booked {
		booked = append(booked, rangeView{CheckIn: dr.CheckIn.Format(dateLayout), CheckOut: dr.CheckOut.Format(dateLayout)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"room_id": roomID, "booked": booked})
}

func toReservationView(res domain.Reservation) reservationView {
	return reservationView{
		BookingID:  res.ID,
		RoomID:     res.RoomID,
		CheckIn:    res.Dates.CheckIn.Format(dateLayout),
		CheckOut:   res.Dates.CheckOut.Format(dateLayout),
		GuestName:  res.Guest.Name,
		GuestEmail: res.Guest.Email,
		GuestPhone: res.Guest.Phone,
		Status:     res.Status,
		CreatedAt:  res.CreatedAt.Format(time.RFC3339),
	}
}
