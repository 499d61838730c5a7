// Package web serves the dashboard UI: server-rendered pages whose forms post
// back to the controller, plus the chart data consumed by Chart.js.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"smsDashboard/internal/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the dashboard of one Controller.
type Server struct {
	ctrl *dashboard.Controller
	log  *log.Logger
	page *template.Template
}

// NewServer parses the embedded templates.
func NewServer(ctrl *dashboard.Controller, logger *log.Logger) (*Server, error) {
	if ctrl == nil {
		return nil, errors.New("controller is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	page, err := template.New("index.html").ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{ctrl: ctrl, log: logger, page: page}, nil
}

// Router returns the UI routes. Every POST redirects back to the page.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/chart", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)

	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/tab/{tab}", s.handleTab).Methods(http.MethodPost)

	r.HandleFunc("/operators", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/operators/cancel", s.handleCancel).Methods(http.MethodPost)
	r.HandleFunc("/operators/{id:[0-9]+}/edit", s.handleEdit).Methods(http.MethodPost)
	r.HandleFunc("/operators/{id:[0-9]+}/update", s.handleUpdate).Methods(http.MethodPost)
	r.HandleFunc("/operators/{id:[0-9]+}/delete", s.handleDelete).Methods(http.MethodPost)

	r.HandleFunc("/sessions/start", s.handleSession(true)).Methods(http.MethodPost)
	r.HandleFunc("/sessions/stop", s.handleSession(false)).Methods(http.MethodPost)
	return r
}

// Start serves the UI on addr and returns a shutdown function.
func (s *Server) Start(addr string) (func(context.Context) error, error) {
	if addr == "" {
		addr = "127.0.0.1:8080"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second, ErrorLog: s.log}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Printf("web serve: %v", err)
		}
	}()
	return srv.Shutdown, nil
}
