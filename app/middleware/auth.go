// Package middleware contains the HTTP middleware of the API.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pokegroups/pokegroups-api/app/api"
	"github.com/pokegroups/pokegroups-api/models"
)

type ContextKey string

const UserKey ContextKey = "user"

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgInvalidToken  = "Invalid token."
)

// TokenResolver finds the owner of an API token.
type TokenResolver interface {
	UserByKey(ctx context.Context, key string) (*models.User, error)
}

// Auth rejects requests without a valid "Token <key>" or "Bearer <key>"
// Authorization header and stores the authenticated user in the context.
func Auth(tokens TokenResolver, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				api.WriteError(w, http.StatusUnauthorized, msgNoCredentials)
				return
			}

			scheme, key, ok := strings.Cut(header, " ")
			if !ok || (!strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer")) {
				api.WriteError(w, http.StatusUnauthorized, msgNoCredentials)
				return
			}
			key = strings.TrimSpace(key)
			if key == "" || strings.Contains(key, " ") {
				api.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			user, err := tokens.UserByKey(r.Context(), key)
			if errors.Is(err, models.ErrTokenNotFound) {
				api.WriteError(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}
			if err != nil {
				log.WithError(err).Error("failed to resolve token")
				api.WriteError(w, http.StatusInternalServerError, "internal error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFromContext returns the user stored by Auth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}
