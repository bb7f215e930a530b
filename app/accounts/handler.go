// Package accounts serves token login and the current user's profile.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pokegroups/pokegroups-api/app/api"
	"github.com/pokegroups/pokegroups-api/app/middleware"
	"github.com/pokegroups/pokegroups-api/models"
)

const msgInvalidCredentials = "Unable to log in with provided credentials."

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type TypeGroup struct {
	Name string `json:"name"`
}

type MeResponse struct {
	ID         uint        `json:"id"`
	Username   string      `json:"username"`
	TypeGroups []TypeGroup `json:"type_groups"`
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type TokenProvider interface {
	GetOrCreate(ctx context.Context, user *models.User) (*models.Token, error)
}

type SubscriptionLister interface {
	TypeGroupsForUser(ctx context.Context, userID uint) ([]models.TypeGroup, error)
}

type AccountHandler struct {
	users  UserProvider
	tokens TokenProvider
	subs   SubscriptionLister
	log    logrus.FieldLogger
}

func NewAccountHandler(users UserProvider, tokens TokenProvider, subs SubscriptionLister, log logrus.FieldLogger) *AccountHandler {
	return &AccountHandler{
		users:  users,
		tokens: tokens,
		subs:   subs,
		log:    log,
	}
}

// HandleLogin exchanges a username and password, sent as JSON or as a form,
// for the user's API token.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	input, err := decodeLogin(r)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Username == "" || input.Password == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing username or password")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), input.Username)
	if errors.Is(err, models.ErrUserNotFound) {
		api.WriteError(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to load user")
		api.WriteError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	if err := VerifyPassword(user.PasswordHash, input.Password); err != nil {
		api.WriteError(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	token, err := h.tokens.GetOrCreate(r.Context(), user)
	if err != nil {
		h.log.WithError(err).WithField("user", user.Username).Error("failed to issue token")
		api.WriteError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	api.WriteJSON(w, http.StatusOK, LoginResponse{Token: token.Key})
}

// HandleMe returns the authenticated user and the type groups they follow.
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	groups, err := h.subs.TypeGroupsForUser(r.Context(), user.ID)
	if err != nil {
		h.log.WithError(err).WithField("user", user.Username).Error("failed to list type groups")
		api.WriteError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	response := MeResponse{
		ID:         user.ID,
		Username:   user.Username,
		TypeGroups: make([]TypeGroup, len(groups)),
	}
	for i, g := range groups {
		response.TypeGroups[i] = TypeGroup{Name: g.Name}
	}
	api.WriteJSON(w, http.StatusOK, response)
}

func decodeLogin(r *http.Request) (LoginRequest, error) {
	var input LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return input, err
		}
		input.Username = r.PostForm.Get("username")
		input.Password = r.PostForm.Get("password")
		return input, nil
	default:
		err := json.NewDecoder(r.Body).Decode(&input)
		return input, err
	}
}
