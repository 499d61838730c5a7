package devapi

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"smsDashboard/internal/auth"
	"smsDashboard/models"
	"smsDashboard/repository"
)

// tokenResponse is the /token body: the user plus the bearer token for
// clients that prefer headers over the session cookie.
type tokenResponse struct {
	models.User
	models.Token
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Printf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	u, err := s.Users.Create(r.Context(), req.Username, req.Email, string(hash))
	if errors.Is(err, repository.ErrConflict) {
		writeError(w, http.StatusConflict, "username already registered")
		return
	}
	if err != nil {
		s.log.Printf("create user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid form body")
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		writeError(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	u, hash, err := s.Users.GetCredentials(r.Context(), username)
	if err != nil {
		s.log.Printf("get user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		writeError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	iss, err := auth.IssueToken(s.secret, u.Username, auth.KindUser, s.sessionTTL)
	if err != nil {
		s.log.Printf("issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.Sessions.Create(r.Context(), iss.SessionID, u.ID, iss.ExpiresAt); err != nil {
		s.log.Printf("record session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    iss.Token,
		Path:     "/",
		Expires:  iss.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, tokenResponse{User: *u, Token: models.Token{AccessToken: iss.Token, TokenType: "bearer"}})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	u, err := s.Users.GetByUsername(r.Context(), p.Name)
	if err != nil {
		s.log.Printf("get user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	p, err := auth.RequirePrincipal(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err := s.Sessions.Revoke(r.Context(), p.SessionID); err != nil {
		s.log.Printf("revoke session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out"})
}
