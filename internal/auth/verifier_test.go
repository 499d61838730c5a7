package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smsDashboard/internal/testutil"
	"smsDashboard/repository"
)

func TestVerifier_SessionRevocation(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "authverifier")
	users := repository.NewUserRepository(d)
	sessions := repository.NewSessionRepository(d)
	ctx := context.Background()

	u, err := users.Create(ctx, "alice", "", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	iss, err := IssueToken(testSecret, u.Username, KindUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	v := NewVerifier(testSecret, sessions)

	// Not yet recorded -> rejected.
	if _, err := v.Verify(ctx, iss.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("unrecorded session: %v", err)
	}
	if err := sessions.Create(ctx, iss.SessionID, u.ID, iss.ExpiresAt); err != nil {
		t.Fatalf("record session: %v", err)
	}
	if p, err := v.Verify(ctx, iss.Token); err != nil || p.Name != "alice" {
		t.Fatalf("active session: %v %+v", err, p)
	}
	if err := sessions.Revoke(ctx, iss.SessionID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := v.Verify(ctx, iss.Token); !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("revoked session: %v", err)
	}

	// Tokens without jti are refused when sessions are tracked.
	noSID := testutil.GenerateJWTHS256(t, testSecret, "alice", KindUser, "")
	if _, err := v.Verify(ctx, noSID); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("token without session id: %v", err)
	}
}

func TestMiddleware_CookieAndBearer(t *testing.T) {
	v := NewVerifier(testSecret, nil)
	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := RequirePrincipal(r.Context())
		if err != nil {
			t.Errorf("principal missing behind middleware: %v", err)
		}
		_, _ = w.Write([]byte(p.Name))
	}))
	tok := testutil.GenerateJWTHS256(t, testSecret, "bob", KindUser, "sid")

	// No credentials.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", rec.Code)
	}

	// Cookie.
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "bob" {
		t.Fatalf("cookie auth: %d %q", rec.Code, rec.Body.String())
	}

	// Bearer.
	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer auth: %d", rec.Code)
	}

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", rec.Code)
	}
}
