package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"smsDashboard/internal/dashboard"
	"smsDashboard/models"
)

// stateView is the JSON and template shape of a dashboard.State.
type stateView struct {
	User          *models.User             `json:"user"`
	Authenticated bool                     `json:"authenticated"`
	Tab           dashboard.Tab            `json:"tab"`
	LoginForm     models.Credentials       `json:"-"`
	SignupForm    models.Credentials       `json:"-"`
	Metrics       []models.Metric          `json:"metrics"`
	Registry      []models.CountryOperator `json:"registry"`
	AddForm       models.CountryOperator   `json:"add_form"`
	Editing       *models.CountryOperator  `json:"editing"`
}

func newStateView(st dashboard.State) stateView {
	v := stateView{
		User:          st.User,
		Authenticated: st.Authenticated(),
		Tab:           st.Tab,
		LoginForm:     st.LoginForm,
		SignupForm:    st.SignupForm,
		Metrics:       st.Metrics,
		Registry:      st.Registry,
		AddForm:       st.AddForm,
	}
	if rec, ok := st.EditTarget(); ok {
		v.Editing = &rec
	}
	return v
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, newStateView(s.ctrl.State())); err != nil {
		s.log.Printf("render index: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.ctrl.Chart())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, newStateView(s.ctrl.State()))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if creds, ok := credentialsForm(r); ok {
		_ = s.ctrl.Login(r.Context(), creds)
	}
	backToIndex(w, r)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if creds, ok := credentialsForm(r); ok {
		_ = s.ctrl.Signup(r.Context(), creds)
	}
	backToIndex(w, r)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_ = s.ctrl.Logout(r.Context())
	backToIndex(w, r)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	s.ctrl.SelectTab(dashboard.ParseTab(mux.Vars(r)["tab"]))
	backToIndex(w, r)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if co, ok := operatorForm(r); ok {
		_ = s.ctrl.Create(r.Context(), co)
	}
	backToIndex(w, r)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r); ok {
		s.ctrl.Edit(id)
	}
	backToIndex(w, r)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.ctrl.CancelEdit()
	backToIndex(w, r)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	co, formOK := operatorForm(r)
	if ok && formOK {
		co.ID = id
		_ = s.ctrl.Update(r.Context(), co)
	}
	backToIndex(w, r)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(r); ok {
		_ = s.ctrl.Delete(r.Context(), id)
	}
	backToIndex(w, r)
}

func (s *Server) handleSession(start bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.log.Printf("parse session form: %v", err)
			backToIndex(w, r)
			return
		}
		country, operator := r.PostForm.Get("country"), r.PostForm.Get("operator")
		if start {
			_ = s.ctrl.StartSession(r.Context(), country, operator)
		} else {
			_ = s.ctrl.StopSession(r.Context(), country, operator)
		}
		backToIndex(w, r)
	}
}

func credentialsForm(r *http.Request) (models.Credentials, bool) {
	if err := r.ParseForm(); err != nil {
		return models.Credentials{}, false
	}
	return models.Credentials{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}, true
}

func operatorForm(r *http.Request) (models.CountryOperator, bool) {
	if err := r.ParseForm(); err != nil {
		return models.CountryOperator{}, false
	}
	return models.CountryOperator{
		Country:        strings.TrimSpace(r.PostForm.Get("country")),
		Operator:       strings.TrimSpace(r.PostForm.Get("operator")),
		IsHighPriority: checkbox(r.PostForm.Get("is_high_priority")),
	}, true
}

// checkbox accepts the browser's "on" as well as explicit booleans.
func checkbox(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func backToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
