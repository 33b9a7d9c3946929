package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"loan-aggregator/domain"
)

// UserSyncer forwards identity-provider profiles to the backend.
type UserSyncer interface {
	SyncUser(ctx context.Context, profile domain.UserSyncRequest) (domain.User, error)
}

type AuthHandler struct {
	users UserSyncer
	log   zerolog.Logger
}

func NewAuthHandler(users UserSyncer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users: users,
		log:   log.With().Str("handler", "auth").Logger(),
	}
}

func (h *AuthHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserSyncRequest
	if err := decodeJSON(w, r, &profile); err != nil {
		writeDecodeError(w, err)
		return
	}

	var errs domain.ValidationErrors
	if strings.TrimSpace(profile.IDToken) == "" {
		errs = append(errs, &domain.ValidationError{Field: "idToken", Message: "is required"})
	}
	if strings.TrimSpace(profile.Email) == "" {
		errs = append(errs, &domain.ValidationError{Field: "email", Message: "is required"})
	}
	if len(errs) > 0 {
		writeError(w, h.log, errs)
		return
	}

	user, err := h.users.SyncUser(r.Context(), profile)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
