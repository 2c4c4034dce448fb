// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"relato/internal/session"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func withSession(r *http.Request, data *session.Data) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKey, data)
	return r.WithContext(ctx)
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(okHandler())

	t.Run("anonymous gets 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/account", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("authenticated passes", func(t *testing.T) {
		req := withSession(httptest.NewRequest("GET", "/account", nil), &session.Data{UserID: 1})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRequireAdminHidesRoutes(t *testing.T) {
	handler := RequireAdmin(okHandler())

	tests := []struct {
		name string
		sess *session.Data
		want int
	}{
		{"anonymous", nil, http.StatusNotFound},
		{"regular user", &session.Data{UserID: 2, TwoFADone: true}, http.StatusNotFound},
		{"admin pending 2fa", &session.Data{UserID: 1, IsAdmin: true}, http.StatusNotFound},
		{"admin", &session.Data{UserID: 1, IsAdmin: true, TwoFADone: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/posts", nil)
			if tt.sess != nil {
				req = withSession(req, tt.sess)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLocale(t *testing.T) {
	r := chi.NewRouter()
	r.With(Locale).Get("/{lang}/posts", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(LocaleFromCtx(req.Context())))
	})

	t.Run("supported locale passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/es/posts", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Body.String(); got != "es" {
			t.Errorf("locale = %q, want %q", got, "es")
		}
	})

	t.Run("unknown locale 404s", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", "/fr/posts", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestLocaleFromCtxDefault(t *testing.T) {
	if got := LocaleFromCtx(context.Background()); got != "en" {
		t.Errorf("default locale = %q, want %q", got, "en")
	}
}

func TestCSRF(t *testing.T) {
	handler := CSRF(okHandler())

	t.Run("GET issues token cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == CSRFCookieName && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("no CSRF cookie issued")
		}
	})

	t.Run("POST without token rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc123"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("POST with matching header passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", nil)
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc123"})
		req.Header.Set(CSRFHeaderName, "abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	handler := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/comments", nil)
		req.RemoteAddr = "10.0.0.1:4444"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest("POST", "/comments", nil)
	req.RemoteAddr = "10.0.0.1:4444"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over-limit status = %d, want 429", rec.Code)
	}

	// Another IP is unaffected.
	req = httptest.NewRequest("POST", "/comments", nil)
	req.RemoteAddr = "10.0.0.2:4444"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", rec.Code)
	}
}

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	handler := Logger(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID header set")
	}
}

func TestRecovererCatchesPanic(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
