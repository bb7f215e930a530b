// Package pokeapi is a small read-only client for the PokeAPI v2 REST API.
package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	defaultTimeout = 30 * time.Second

	// typesLimit is large enough to return every type in a single page.
	typesLimit = 100
)

// ErrInvalidResponse is returned when a 2xx body is not the expected JSON document.
var ErrInvalidResponse = errors.New("invalid response body")

// StatusError reports a non-2xx answer from PokeAPI.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pokeapi: %s returned status %d", e.URL, e.StatusCode)
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond caps outbound calls; zero or less disables the limit.
	RequestsPerSecond float64
}

// Page is one page of the Pokémon list endpoint.
type Page struct {
	Names []string
	Next  string
}

func (p *Page) HasNext() bool {
	return p.Next != ""
}

// PokemonDetail holds the fields of /pokemon/{name}/ the service stores.
// Height is in decimetres and Weight in hectograms, as PokeAPI reports them.
type PokemonDetail struct {
	ID     int
	Name   string
	Height int
	Weight int
	Types  []string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// ListTypes returns the names of every type, in the order PokeAPI lists them.
// Entries without a name are returned as empty strings.
func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, "/type/", url.Values{"limit": {strconv.Itoa(typesLimit)}})
	if err != nil {
		return nil, err
	}
	return resultNames(body), nil
}

// ListPokemon returns one page of the Pokémon list starting at offset.
func (c *Client) ListPokemon(ctx context.Context, offset, limit int) (*Page, error) {
	body, err := c.get(ctx, "/pokemon/", url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, err
	}

	return &Page{
		Names: resultNames(body),
		Next:  gjson.GetBytes(body, "next").String(),
	}, nil
}

// GetPokemon fetches the detail document of a single Pokémon by name.
func (c *Client) GetPokemon(ctx context.Context, name string) (*PokemonDetail, error) {
	body, err := c.get(ctx, "/pokemon/"+url.PathEscape(name)+"/", nil)
	if err != nil {
		return nil, err
	}

	id := gjson.GetBytes(body, "id")
	if !id.Exists() || id.Int() <= 0 {
		return nil, fmt.Errorf("pokemon %q: missing id: %w", name, ErrInvalidResponse)
	}

	detail := &PokemonDetail{
		ID:     int(id.Int()),
		Name:   gjson.GetBytes(body, "name").String(),
		Height: int(gjson.GetBytes(body, "height").Int()),
		Weight: int(gjson.GetBytes(body, "weight").Int()),
	}
	for _, t := range gjson.GetBytes(body, "types.#.type.name").Array() {
		detail.Types = append(detail.Types, t.String())
	}
	return detail, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w", u, ErrInvalidResponse)
	}
	return body, nil
}

func resultNames(body []byte) []string {
	results := gjson.GetBytes(body, "results").Array()
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Get("name").String())
	}
	return names
}
