package pokemon

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/pokegroups/pokegroups-api/app/middleware"
	"github.com/pokegroups/pokegroups-api/models"
)

// --- Mock Repository ---

type MockPokemonRepo struct {
	Pokemon []models.Pokemon
	Err     error

	LastUserID     uint
	LastIdentifier models.Identifier
}

func (m *MockPokemonRepo) ListVisible(ctx context.Context, userID uint) ([]models.Pokemon, error) {
	m.LastUserID = userID
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Pokemon, nil
}

func (m *MockPokemonRepo) GetVisible(ctx context.Context, userID uint, id models.Identifier) (*models.Pokemon, error) {
	m.LastUserID = userID
	m.LastIdentifier = id
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Pokemon {
		p := &m.Pokemon[i]
		if id.Kind == models.ByNumber && p.Number == id.Number {
			return p, nil
		}
		if id.Kind == models.ByName && p.Name == id.Name {
			return p, nil
		}
	}
	return nil, models.ErrPokemonNotFound
}

func withTypes(number uint, name string, types ...string) models.Pokemon {
	p := models.Pokemon{Number: number, Name: name}
	for _, t := range types {
		p.Types = append(p.Types, models.PokemonType{TypeGroup: models.TypeGroup{Name: t}})
	}
	return p
}

var ash = &models.User{ID: 1, Username: "ash"}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), ash))
}

func newGetRequest(identifier string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/pokemon/"+identifier+"/", nil)
	req.SetPathValue("identifier", identifier)
	return authed(req)
}
