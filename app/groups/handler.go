package groups

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pokegroups/pokegroups-api/app/api"
	"github.com/pokegroups/pokegroups-api/app/middleware"
	"github.com/pokegroups/pokegroups-api/models"
)

type UserResponse struct {
	Username string `json:"username"`
}

type TypeGroupResponse struct {
	Name string `json:"name"`
}

// SubscriptionResponse is returned for both a new and an existing
// subscription; only the status code tells them apart.
type SubscriptionResponse struct {
	User      UserResponse      `json:"user"`
	TypeGroup TypeGroupResponse `json:"type_group"`
}

type TypeGroupFinder interface {
	GetAll(ctx context.Context) ([]models.TypeGroup, error)
	FindByName(ctx context.Context, name string) (*models.TypeGroup, error)
}

type SubscriptionProvider interface {
	Subscribe(ctx context.Context, user *models.User, group *models.TypeGroup) (*models.UserType, bool, error)
	FindForUser(ctx context.Context, userID uint, typeName string) (*models.UserType, error)
	Delete(ctx context.Context, ut *models.UserType) error
}

type GroupHandler struct {
	groups TypeGroupFinder
	subs   SubscriptionProvider
	log    logrus.FieldLogger
}

func NewGroupHandler(groups TypeGroupFinder, subs SubscriptionProvider, log logrus.FieldLogger) *GroupHandler {
	return &GroupHandler{
		groups: groups,
		subs:   subs,
		log:    log,
	}
}

// HandleList returns every known type group, ordered by name.
func (h *GroupHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.groups.GetAll(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list type groups")
		api.WriteError(w, http.StatusInternalServerError, "failed to list type groups")
		return
	}

	resp := make([]TypeGroupResponse, len(all))
	for i, g := range all {
		resp[i] = TypeGroupResponse{Name: g.Name}
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// HandleAdd subscribes the user to a type group: 201 when created, 304 when
// the subscription already existed.
func (h *GroupHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	name := strings.ToLower(r.PathValue("type_name"))

	group, err := h.groups.FindByName(r.Context(), name)
	if errors.Is(err, models.ErrTypeGroupNotFound) {
		api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Type '%s' invalid", name))
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("type", name).Error("failed to look up type group")
		api.WriteError(w, http.StatusInternalServerError, "failed to add type group")
		return
	}

	ut, created, err := h.subs.Subscribe(r.Context(), user, group)
	if err != nil {
		h.log.WithError(err).WithField("type", name).Error("failed to subscribe")
		api.WriteError(w, http.StatusInternalServerError, "failed to add type group")
		return
	}

	status := http.StatusNotModified
	if created {
		status = http.StatusCreated
	}

	api.WriteJSON(w, status, SubscriptionResponse{
		User:      UserResponse{Username: ut.User.Username},
		TypeGroup: TypeGroupResponse{Name: ut.TypeGroup.Name},
	})
}

// HandleRemove deletes the user's own subscription to a type group.
func (h *GroupHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	name := strings.ToLower(r.PathValue("type_name"))

	ut, err := h.subs.FindForUser(r.Context(), user.ID, name)
	if errors.Is(err, models.ErrUserTypeNotFound) {
		api.WriteError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("type", name).Error("failed to look up subscription")
		api.WriteError(w, http.StatusInternalServerError, "failed to remove type group")
		return
	}

	if err := h.subs.Delete(r.Context(), ut); err != nil {
		if errors.Is(err, models.ErrUserTypeNotFound) {
			api.WriteError(w, http.StatusNotFound, "Not found.")
			return
		}
		h.log.WithError(err).WithField("type", name).Error("failed to delete subscription")
		api.WriteError(w, http.StatusInternalServerError, "failed to remove type group")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"removed": ut.TypeGroup.Name})
}
