package devapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"smsDashboard/models"
	"smsDashboard/repository"
)

type countryOperatorRequest struct {
	Country        string `json:"country"`
	Operator       string `json:"operator"`
	IsHighPriority bool   `json:"is_high_priority"`
}

func (req *countryOperatorRequest) validate() string {
	req.Country = strings.TrimSpace(req.Country)
	req.Operator = strings.TrimSpace(req.Operator)
	if req.Country == "" || req.Operator == "" {
		return "country and operator are required"
	}
	return ""
}

func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	list, err := s.Metrics.List(r.Context())
	if err != nil {
		s.log.Printf("list metrics: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleListOperators(w http.ResponseWriter, r *http.Request) {
	list, err := s.Operators.List(r.Context())
	if err != nil {
		s.log.Printf("list country operators: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateOperator(w http.ResponseWriter, r *http.Request) {
	var req countryOperatorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	co, err := s.Operators.Create(r.Context(), &models.CountryOperator{
		Country: req.Country, Operator: req.Operator, IsHighPriority: req.IsHighPriority,
	})
	if errors.Is(err, repository.ErrConflict) {
		writeError(w, http.StatusConflict, "country operator already exists")
		return
	}
	if err != nil {
		s.log.Printf("create country operator: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, co)
}

func (s *Server) handleUpdateOperator(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req countryOperatorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	co := &models.CountryOperator{ID: id, Country: req.Country, Operator: req.Operator, IsHighPriority: req.IsHighPriority}
	switch err := s.Operators.Update(r.Context(), co); {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "country operator not found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "country operator already exists")
	case err != nil:
		s.log.Printf("update country operator %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, co)
	}
}

func (s *Server) handleDeleteOperator(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	switch err := s.Operators.Delete(r.Context(), id); {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "country operator not found")
	case err != nil:
		s.log.Printf("delete country operator %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"detail": "Country operator deleted"})
	}
}

// handleSession starts or stops sending for a registered pair. It touches the
// counters table only; the registry is never modified.
func (s *Server) handleSession(start bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		country, err1 := url.PathUnescape(vars["country"])
		operator, err2 := url.PathUnescape(vars["operator"])
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "invalid path")
			return
		}
		co, err := s.Operators.GetByPair(r.Context(), country, operator)
		if err != nil {
			s.log.Printf("get country operator: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if co == nil {
			writeError(w, http.StatusNotFound, "country operator not found")
			return
		}
		if err := s.Metrics.SetActive(r.Context(), country, operator, start); err != nil {
			s.log.Printf("set session active=%t for %s: %v", start, co.Label(), err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		verb := "stopped"
		if start {
			verb = "started"
		}
		writeJSON(w, http.StatusOK, map[string]string{"detail": "Session " + verb + " for " + co.Label()})
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}
	return id, true
}
