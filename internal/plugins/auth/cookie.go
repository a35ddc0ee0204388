package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/hkdf"
)

// sessionCookieName is the HTTP cookie that carries the signed session claims.
const sessionCookieName = "storefront_session"

// cookieKeyInfo separates the cookie signing key from other uses of SECRET_KEY.
const cookieKeyInfo = "storefront session cookie v1"

// sessionClaims is the payload of the session cookie. It identifies the
// server-side record; backend tokens are never placed in it.
type sessionClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// CookieSigner issues and verifies session cookies.
type CookieSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCookieSigner derives an HS256 key from secret with HKDF-SHA256.
func NewCookieSigner(secret string, ttl time.Duration) (*CookieSigner, error) {
	if secret == "" {
		return nil, errors.New("cookie secret is empty")
	}

	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(cookieKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving cookie key: %w", err)
	}

	return &CookieSigner{key: key, ttl: ttl, now: time.Now}, nil
}

// Sign returns a compact JWT naming session sid for rec's user.
func (s *CookieSigner) Sign(sid string, rec *SessionRecord) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Roles: rec.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   rec.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the session id.
func (s *CookieSigner) Verify(value string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("verifying session cookie: %w", err)
	}
	if claims.ID == "" {
		return "", errors.New("session cookie has no session id")
	}
	return claims.ID, nil
}

// --- Cookie helpers ---

// getSessionCookie reads the raw session cookie value.
func getSessionCookie(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. HttpOnly,
// Secure behind TLS, SameSite=Lax.
func setSessionCookie(c echo.Context, value string, ttl time.Duration) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// clearSessionCookie removes the session cookie.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
