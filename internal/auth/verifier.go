package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// CookieName is the cookie carrying the session token.
const CookieName = "session_token"

var (
	// ErrUnauthenticated is returned when no valid credential was presented.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrSessionRevoked is returned for a well-formed token whose session was
	// logged out or has expired server side.
	ErrSessionRevoked = errors.New("session revoked")
)

// SessionChecker reports whether a session id is still valid.
type SessionChecker interface {
	IsActive(ctx context.Context, id string) (bool, error)
}

// Verifier validates session tokens and, when a SessionChecker is set, that
// their session has not been revoked.
type Verifier struct {
	secret   string
	sessions SessionChecker
}

func NewVerifier(secret string, sessions SessionChecker) *Verifier {
	return &Verifier{secret: secret, sessions: sessions}
}

// Verify parses tokenStr and checks its session.
func (v *Verifier) Verify(ctx context.Context, tokenStr string) (*Principal, error) {
	p, err := parseJWT(tokenStr, v.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if v.sessions == nil {
		return p, nil
	}
	if p.SessionID == "" {
		return nil, fmt.Errorf("%w: token has no session id", ErrUnauthenticated)
	}
	ok, err := v.sessions.IsActive(ctx, p.SessionID)
	if err != nil {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if !ok {
		return nil, ErrSessionRevoked
	}
	return p, nil
}

// TokenFromRequest returns the session cookie, or else the bearer token.
func TokenFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errors.New("missing credentials")
	}
	return splitBearer(h)
}

// FromRequest authenticates an HTTP request.
func (v *Verifier) FromRequest(r *http.Request) (*Principal, error) {
	tok, err := TokenFromRequest(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return v.Verify(r.Context(), tok)
}

// Middleware rejects unauthenticated requests with 401 and injects the
// Principal into the request context otherwise.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := v.FromRequest(r)
		if err != nil {
			status := http.StatusUnauthorized
			if !errors.Is(err, ErrUnauthenticated) && !errors.Is(err, ErrSessionRevoked) {
				status = http.StatusInternalServerError
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// RequirePrincipal ensures a principal is present in context.
func RequirePrincipal(ctx context.Context) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok || p == nil {
		return nil, ErrUnauthenticated
	}
	return p, nil
}
