// Package devapi is a development implementation of the SMS platform HTTP API
// the dashboard talks to. It keeps users, sessions, country-operator entries
// and sending counters in SQLite.
package devapi

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"smsDashboard/internal/auth"
	"smsDashboard/internal/config"
	"smsDashboard/repository"
)

// Server bundles dependencies and serves the API.
type Server struct {
	Users     *repository.UserRepository
	Sessions  *repository.SessionRepository
	Operators *repository.CountryOperatorRepository
	Metrics   *repository.MetricRepository

	verifier   *auth.Verifier
	secret     string
	sessionTTL time.Duration
	log        *log.Logger
}

// NewServer wires repositories on d. cfg.Auth supplies the signing secret and
// the session lifetime.
func NewServer(d *sql.DB, cfg *config.Config, logger *log.Logger) *Server {
	if cfg == nil {
		panic("config is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	sessions := repository.NewSessionRepository(d)
	ttl := cfg.Auth.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Server{
		Users:      repository.NewUserRepository(d),
		Sessions:   sessions,
		Operators:  repository.NewCountryOperatorRepository(d),
		Metrics:    repository.NewMetricRepository(d),
		verifier:   auth.NewVerifier(cfg.Auth.JWTSecret, sessions),
		secret:     cfg.Auth.JWTSecret,
		sessionTTL: ttl,
		log:        logger,
	}
}

// Verifier exposes the token verifier so that other transports share it.
func (s *Server) Verifier() *auth.Verifier { return s.verifier }

// Router returns the HTTP routes of the API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	// Country and operator path segments may contain escaped slashes.
	r.UseEncodedPath()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/token", s.handleToken).Methods(http.MethodPost)

	private := r.NewRoute().Subrouter()
	private.Use(s.verifier.Middleware)
	private.HandleFunc("/users/me", s.handleMe).Methods(http.MethodGet)
	private.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	private.HandleFunc("/metrics/all", s.handleListMetrics).Methods(http.MethodGet)
	private.HandleFunc("/country_operators", s.handleListOperators).Methods(http.MethodGet)
	private.HandleFunc("/country_operator", s.handleCreateOperator).Methods(http.MethodPost)
	private.HandleFunc("/country_operator/{id:[0-9]+}", s.handleUpdateOperator).Methods(http.MethodPut)
	private.HandleFunc("/country_operator/{id:[0-9]+}", s.handleDeleteOperator).Methods(http.MethodDelete)
	private.HandleFunc("/start_session/{country}/{operator}", s.handleSession(true)).Methods(http.MethodPost)
	private.HandleFunc("/stop_session/{country}/{operator}", s.handleSession(false)).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}

// Start serves the API on addr and returns a shutdown function.
func (s *Server) Start(addr string) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":8000"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second, ErrorLog: s.log}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Printf("http serve: %v", err)
		}
	}()
	return srv.Shutdown, nil
}

// PurgeSessions deletes expired sessions every interval until ctx is done.
func (s *Server) PurgeSessions(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Sessions.DeleteExpired(ctx)
			if err != nil && ctx.Err() == nil {
				s.log.Printf("purge sessions: %v", err)
				continue
			}
			if n > 0 {
				s.log.Printf("purged %d expired sessions", n)
			}
		}
	}
}
