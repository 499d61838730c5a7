// Package devapitest starts an in-memory development API for tests.
package devapitest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smsDashboard/internal/config"
	"smsDashboard/internal/devapi"
	"smsDashboard/internal/testutil"
	"smsDashboard/models"
)

// Secret signs session tokens of test servers.
const Secret = "devapitest-secret"

// Server is a running development API backed by an in-memory database.
type Server struct {
	*httptest.Server
	API *devapi.Server
}

// New starts a server on a fresh database named after the test.
func New(t *testing.T) *Server {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, dbName(t))
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: Secret, SessionTTL: time.Hour}}
	api := devapi.NewServer(d, cfg, log.New(io.Discard, "", 0))
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return &Server{Server: srv, API: api}
}

// SeedUser registers a user through POST /signup.
func (s *Server) SeedUser(t *testing.T, creds models.Credentials) {
	t.Helper()
	body, err := json.Marshal(creds)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	resp, err := s.Client().Post(s.URL+"/signup", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed user: status %d", resp.StatusCode)
	}
}

// SeedOperator inserts a registry entry.
func (s *Server) SeedOperator(t *testing.T, co models.CountryOperator) models.CountryOperator {
	t.Helper()
	out, err := s.API.Operators.Create(context.Background(), &co)
	if err != nil {
		t.Fatalf("seed operator: %v", err)
	}
	return *out
}

// SeedMetric sets the counters of a pair.
func (s *Server) SeedMetric(t *testing.T, m models.Metric) {
	t.Helper()
	ctx := context.Background()
	if err := s.API.Metrics.SetActive(ctx, m.Country, m.Operator, false); err != nil {
		t.Fatalf("seed metric: %v", err)
	}
	if err := s.API.Metrics.AddCounts(ctx, m.Country, m.Operator, m.Sent, m.Success, m.Failure); err != nil {
		t.Fatalf("seed metric counts: %v", err)
	}
}

func dbName(t *testing.T) string {
	r := strings.NewReplacer("/", "_", " ", "_", "#", "_")
	return "devapitest_" + r.Replace(t.Name()) + "_" + time.Now().Format("150405.000000000")
}
