package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	CORSOrigins []string
	RateRPS     int
	RateBurst   int
}

type Server struct {
	mux  *chi.Mux
	cors *cors.Cors
}

func New(opts Options) *Server {
	m := chi.NewRouter()

	// middleware before any routes
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))
	if opts.RateRPS > 0 {
		m.Use(NewRateLimiter(opts.RateRPS, opts.RateBurst).Limit)
	}

	// the booking UI is a separate React app on another origin
	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return &Server{mux: m, cors: c}
}

func (s *Server) Mux() http.Handler { return s.cors.Handler(s.mux) }

// Mount attaches any extra handler (e.g. /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
