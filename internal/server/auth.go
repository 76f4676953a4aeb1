package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

const (
	tokenCookieName = "pb_token"
	tokenCookieTTL  = 24 * time.Hour
	bearerPrefix    = "Bearer "
)

// validToken compares candidate with the server token in constant time.
func (s *Server) validToken(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.token)) == 1
}

// requestToken returns the token presented by the session cookie or an
// Authorization bearer header, in that order.
func requestToken(r *http.Request) string {
	if c, err := r.Cookie(tokenCookieName); err == nil {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimPrefix(h, bearerPrefix)
	}
	return ""
}

// authMiddleware guards the dashboard. A ?token= link is exchanged for a
// session cookie and a redirect to the same URL without the token; after
// that the cookie (or a bearer header, for scripts) must match.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("token") {
			if !s.validToken(q.Get("token")) {
				s.logger.Warn("rejected dashboard token", "path", r.URL.Path, "remote", r.RemoteAddr)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			setTokenCookie(w, s.token, tokenCookieTTL)

			q.Del("token")
			target := *r.URL
			target.RawQuery = q.Encode()
			http.Redirect(w, r, target.String(), http.StatusFound)
			return
		}

		if !s.validToken(requestToken(r)) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="paceboot"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// setTokenCookie stores token for ttl; a non-positive ttl clears it.
func setTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	maxAge := int(ttl / time.Second)
	if ttl <= 0 {
		token, maxAge = "", -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}
