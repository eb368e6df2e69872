package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/realestate/internal/common"
)

// TokenFromRequest finds the identity token on r. The Authorization bearer
// header wins over the access_token cookie; a non-bearer or empty header is
// ignored.
func TokenFromRequest(r *http.Request) (string, bool) {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		token = strings.TrimSpace(token)
		if ok && strings.EqualFold(scheme, common.BearerScheme) && token != "" {
			return token, true
		}
	}

	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}

	return "", false
}

// CookieIssuer writes and clears the session cookie.
type CookieIssuer struct {
	Secure bool
	MaxAge time.Duration
	now    func() time.Time
}

func NewCookieIssuer(secure bool, maxAge time.Duration) *CookieIssuer {
	return &CookieIssuer{Secure: secure, MaxAge: maxAge, now: time.Now}
}

// Set attaches token as an HTTP-only, SameSite=Strict cookie that lives as
// long as the token itself.
func (ci *CookieIssuer) Set(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   ci.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(ci.MaxAge.Seconds()),
		Expires:  ci.now().Add(ci.MaxAge),
	})
}

// Clear expires the session cookie on the client.
func (ci *CookieIssuer) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   ci.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
