package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndParseToken(t *testing.T) {
	tok, err := SignToken("u1", "jane@example.com", "Admin", time.Hour)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}
	c, err := ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if c.UID != "u1" || c.Email != "jane@example.com" || c.Role != "Admin" {
		t.Fatalf("unexpected claims: %+v", c)
	}
}

func TestParseExpiredToken(t *testing.T) {
	tok, err := SignToken("u1", "jane@example.com", "User", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}
	if _, err := ParseToken(tok); err == nil {
		t.Fatalf("expected expired token to fail parsing")
	}
}

func TestWithAuthFromCookie(t *testing.T) {
	tok, err := SignToken("u1", "jane@example.com", "User", time.Hour)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}

	var got *Claims
	h := WithAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.UID != "u1" {
		t.Fatalf("claims not attached from cookie: %+v", got)
	}

	// Bearer fallback.
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Email != "jane@example.com" {
		t.Fatalf("claims not attached from bearer header: %+v", got)
	}

	// Garbage stays anonymous instead of failing.
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != nil {
		t.Fatalf("expected anonymous request, got %+v", got)
	}
}

func TestRequireAuth(t *testing.T) {
	h := WithAuth(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous request, got %d", rec.Code)
	}

	tok, _ := SignToken("u1", "jane@example.com", "User", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid session, got %d", rec.Code)
	}
}
