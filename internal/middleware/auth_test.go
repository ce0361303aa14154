package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := GetIdentityFromContext(r.Context())
		if id.UserID != wantUser {
			t.Errorf("user = %q; want %q", id.UserID, wantUser)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_ValidToken(t *testing.T) {
	h := BearerAuth("s3cret")(authedHandler(t, "u1"))

	req := httptest.NewRequest(http.MethodGet, "/api/clipboard/latest", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-Org-ID", "org1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
}

func TestBearerAuth_RejectsBadToken(t *testing.T) {
	h := BearerAuth("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with bad token")
	}))

	for _, header := range []string{"", "Bearer wrong", "Basic s3cret"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d; want 401", header, rec.Code)
		}
	}
}

func TestBearerAuth_RequiresUserHeader(t *testing.T) {
	h := BearerAuth("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without user identity")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}
