package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "applicantdesk/internal/delivery/http/helpers"
	"applicantdesk/internal/domain"
)

type contextKey string

const organizerKey contextKey = "organizer"

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadScheme     = errors.New("invalid authorization format")
	errEmptyToken    = errors.New("missing token")
)

// WithOrganizer returns a context carrying the signed-in organizer's name.
func WithOrganizer(ctx context.Context, organizer string) context.Context {
	return context.WithValue(ctx, organizerKey, organizer)
}

// OrganizerFromContext returns the organizer set by RequireAuth, if present.
func OrganizerFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(organizerKey).(string)
	return name, ok && name != ""
}

// RequireAuth gates a handler on a valid organizer bearer token. The
// organizer named by the token is available to next via OrganizerFromContext.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, err.Error())
				return
			}
			organizer, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "rejected bearer token", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(WithOrganizer(r.Context(), organizer)))
		}
	}
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errBadScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}
