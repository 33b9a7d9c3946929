package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	sessionCookie = "session_id"
)

type sessionKey struct{}

// SessionMiddleware scopes each request to a browsing session. The id comes
// from the X-Session-ID header or the session_id cookie; a new one is minted
// when neither holds a valid UUID. The id is echoed in both places.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sessionFromRequest(r)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(SessionHeader, id)
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionFromRequest(r *http.Request) string {
	if id, err := uuid.Parse(r.Header.Get(SessionHeader)); err == nil {
		return id.String()
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	return ""
}

// SessionID returns the session bound by SessionMiddleware, "" outside it.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
