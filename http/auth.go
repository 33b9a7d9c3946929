package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const RoleAdmin = "admin"

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type claimsKey struct{}

// GenerateAdminToken signs an HS256 token carrying the admin role.
func GenerateAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func parseAdminToken(secret, token string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// AdminAuth admits only requests bearing a valid admin token.
func AdminAuth(secret string, log zerolog.Logger) func(http.Handler) http.Handler {
	log = log.With().Str("component", "admin_auth").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
				return
			}

			claims, err := parseAdminToken(secret, strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token expired"
				}
				log.Debug().Err(err).Msg("Rejected admin token")
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msg})
				return
			}
			if claims.Role != RoleAdmin {
				writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required"})
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
		})
	}
}

// adminSubject is the authenticated admin's subject claim.
func adminSubject(ctx context.Context) string {
	if c, ok := ctx.Value(claimsKey{}).(*AdminClaims); ok {
		return c.Subject
	}
	return ""
}
