package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func ok(c echo.Context) error { return c.String(http.StatusOK, GetCSRFToken(c)) }

func csrfEcho() *echo.Echo {
	e := echo.New()
	e.Use(CSRF())
	e.GET("/", ok)
	e.POST("/", ok)
	return e
}

func csrfCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			return c
		}
	}
	return nil
}

func TestCSRF_IssuesCookieOnSafeRequest(t *testing.T) {
	e := csrfEcho()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	c := csrfCookie(rec)
	if c == nil || len(c.Value) != csrfTokenLength*2 {
		t.Fatalf("expected CSRF cookie, got %+v", c)
	}
	if rec.Body.String() != c.Value {
		t.Error("expected token in context to match the cookie")
	}
}

func TestCSRF_MutatingRequests(t *testing.T) {
	const token = "abc123"

	tests := []struct {
		name   string
		cookie string
		form   string
		header string
		want   int
	}{
		{"form field matches", token, token, "", http.StatusOK},
		{"header matches", token, "", token, http.StatusOK},
		{"mismatch", token, "other", "", http.StatusForbidden},
		{"missing token", token, "", "", http.StatusForbidden},
		{"no cookie", "", token, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := csrfEcho()
			form := url.Values{}
			if tt.form != "" {
				form.Set(csrfFormField, tt.form)
			}
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrfHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestIPLimiters_PerIPBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newIPLimiters(2, 2)
	l.now = func() time.Time { return now }

	if !l.allow("1.1.1.1") || !l.allow("1.1.1.1") {
		t.Fatal("expected burst of 2 to pass")
	}
	if l.allow("1.1.1.1") {
		t.Error("expected third request to be limited")
	}
	if !l.allow("2.2.2.2") {
		t.Error("other IPs have their own bucket")
	}

	// Two per minute refills one token every 30s.
	now = now.Add(31 * time.Second)
	if !l.allow("1.1.1.1") {
		t.Error("expected refill after 30s")
	}

	now = now.Add(limiterIdleTTL + time.Second)
	l.allow("3.3.3.3")
	if len(l.entries) != 1 {
		t.Errorf("expected idle entries to be swept, have %d", len(l.entries))
	}
}

func TestIPLimiters_SweepIsThrottled(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newIPLimiters(60, 5)
	l.now = func() time.Time { return now }

	l.allow("1.1.1.1")
	swept := l.lastSweep
	if !swept.Equal(now) {
		t.Fatalf("expected first call to sweep, last sweep %v", swept)
	}

	now = now.Add(limiterSweepInterval / 2)
	l.allow("2.2.2.2")
	if !l.lastSweep.Equal(swept) {
		t.Error("expected no sweep inside the interval")
	}

	now = now.Add(limiterSweepInterval)
	l.allow("2.2.2.2")
	if l.lastSweep.Equal(swept) {
		t.Error("expected a sweep once the interval passed")
	}
	if len(l.entries) != 2 {
		t.Errorf("recent entries must survive a sweep, have %d", len(l.entries))
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	e := echo.New()
	e.POST("/login", ok, RateLimit(1))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))

	if first.Code != http.StatusOK {
		t.Errorf("expected first request to pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests || second.Header().Get("Retry-After") == "" {
		t.Errorf("expected 429 with Retry-After, got %d", second.Code)
	}
}

func TestIPExtractor(t *testing.T) {
	extract := buildIPExtractor([]string{"10.0.0.0/8", "not-a-cidr"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:4321"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.5")
	if got := extract(req); got != "203.0.113.9" {
		t.Errorf("expected forwarded client, got %q", got)
	}

	req.Header.Set("X-Real-IP", "198.51.100.7")
	if got := extract(req); got != "198.51.100.7" {
		t.Errorf("expected X-Real-IP to win, got %q", got)
	}

	req.RemoteAddr = "203.0.113.50:1000"
	if got := extract(req); got != "203.0.113.50" {
		t.Errorf("untrusted peers must not set their IP, got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, GetRequestID(c)) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(rec.Body.String()); err != nil {
		t.Errorf("expected generated uuid, got %q", rec.Body.String())
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, incoming)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Header().Get(echo.HeaderXRequestID) != incoming {
		t.Error("expected incoming request id to be reused")
	}

	req.Header.Set(echo.HeaderXRequestID, "<script>")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Body.String() == "<script>" {
		t.Error("malformed ids must be replaced")
	}
}

func TestRecovery(t *testing.T) {
	e := echo.New()
	e.Use(Recovery())
	e.GET("/", func(echo.Context) error { panic(errors.New("boom")) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	e.GET("/", ok)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

func TestFlash_RoundTrip(t *testing.T) {
	e := echo.New()
	e.Use(Flash())
	e.POST("/logout", func(c echo.Context) error {
		SetFlash(c, FlashSuccess, "Você saiu da sua conta.")
		return c.Redirect(http.StatusSeeOther, "/")
	})
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetFlash(c, FlashSuccess)+"|"+GetFlash(c, FlashError))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one flash cookie, got %d", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Body.String() != "Você saiu da sua conta.|" {
		t.Errorf("unexpected flash %q", rec.Body.String())
	}
	expired := rec.Result().Cookies()
	if len(expired) != 1 || expired[0].MaxAge >= 0 {
		t.Error("expected flash cookie to be expired after display")
	}
}
