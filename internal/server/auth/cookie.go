package auth

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
)

// SetSessionCookie writes the auth-token cookie. secure is false only in
// development, where the UI is served over plain HTTP.
func SetSessionCookie(w http.ResponseWriter, token string, validity time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(validity.Seconds()),
		Expires:  time.Now().Add(validity),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the auth-token cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest returns the raw auth-token cookie value, or "".
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
