package pokesync

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pokegroups/pokegroups-api/app/pokeapi"
)

// fakeSource serves a fixed PokeAPI snapshot. Pages are keyed by offset.
type fakeSource struct {
	types    []string
	typesErr error

	pages      map[int]*pokeapi.Page
	pageErrs   map[int]error
	pageCalls  []int
	details    map[string]*pokeapi.PokemonDetail
	detailErrs map[string]error
}

func (f *fakeSource) ListTypes(ctx context.Context) ([]string, error) {
	if f.typesErr != nil {
		return nil, f.typesErr
	}
	return f.types, nil
}

func (f *fakeSource) ListPokemon(ctx context.Context, offset, limit int) (*pokeapi.Page, error) {
	f.pageCalls = append(f.pageCalls, offset)
	if err := f.pageErrs[offset]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[offset]; ok {
		return page, nil
	}
	return &pokeapi.Page{}, nil
}

func (f *fakeSource) GetPokemon(ctx context.Context, name string) (*pokeapi.PokemonDetail, error) {
	if err := f.detailErrs[name]; err != nil {
		return nil, err
	}
	d, ok := f.details[name]
	if !ok {
		return nil, &pokeapi.StatusError{StatusCode: http.StatusNotFound, URL: fmt.Sprintf("/pokemon/%s/", name)}
	}
	return d, nil
}
