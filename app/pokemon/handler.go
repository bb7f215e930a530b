package pokemon

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/pokegroups/pokegroups-api/app/api"
	"github.com/pokegroups/pokegroups-api/app/middleware"
	"github.com/pokegroups/pokegroups-api/models"
)

type Pokemon struct {
	Number uint     `json:"number"`
	Name   string   `json:"name"`
	Types  []string `json:"types"`
}

// Detail adds the measurements, in metres and kilograms.
type Detail struct {
	Pokemon
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type PokemonProvider interface {
	ListVisible(ctx context.Context, userID uint) ([]models.Pokemon, error)
	GetVisible(ctx context.Context, userID uint, id models.Identifier) (*models.Pokemon, error)
}

type PokemonHandler struct {
	repo PokemonProvider
	log  logrus.FieldLogger
}

func NewPokemonHandler(r PokemonProvider, log logrus.FieldLogger) *PokemonHandler {
	return &PokemonHandler{
		repo: r,
		log:  log,
	}
}

// HandleList returns every Pokémon of a type the user subscribes to.
func (h *PokemonHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	res, err := h.repo.ListVisible(r.Context(), user.ID)
	if err != nil {
		h.log.WithError(err).Error("failed to list pokemon")
		api.WriteError(w, http.StatusInternalServerError, "failed to fetch pokemon")
		return
	}

	response := make([]Pokemon, len(res))
	for i := range res {
		response[i] = toPokemon(&res[i])
	}
	api.WriteJSON(w, http.StatusOK, response)
}

// HandleGet returns one visible Pokémon by number or by name.
func (h *PokemonHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	id := models.ParseIdentifier(r.PathValue("identifier"))

	p, err := h.repo.GetVisible(r.Context(), user.ID, id)
	if errors.Is(err, models.ErrPokemonNotFound) {
		api.WriteError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("identifier", id.String()).Error("failed to get pokemon")
		api.WriteError(w, http.StatusInternalServerError, "failed to fetch pokemon")
		return
	}

	api.WriteJSON(w, http.StatusOK, Detail{
		Pokemon: toPokemon(p),
		Height:  p.Height.InexactFloat64(),
		Weight:  p.Weight.InexactFloat64(),
	})
}

func toPokemon(p *models.Pokemon) Pokemon {
	return Pokemon{
		Number: p.Number,
		Name:   p.Name,
		Types:  p.TypeNames(),
	}
}
