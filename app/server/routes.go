// Package server wires handlers, middleware and routes into one http.Handler.
package server

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pokegroups/pokegroups-api/app/accounts"
	"github.com/pokegroups/pokegroups-api/app/api"
	"github.com/pokegroups/pokegroups-api/app/groups"
	"github.com/pokegroups/pokegroups-api/app/metrics"
	"github.com/pokegroups/pokegroups-api/app/middleware"
	"github.com/pokegroups/pokegroups-api/app/pokemon"
	"github.com/pokegroups/pokegroups-api/models"
)

type Dependencies struct {
	Tokens   middleware.TokenResolver
	Groups   *groups.GroupHandler
	Pokemon  *pokemon.PokemonHandler
	Accounts *accounts.AccountHandler
	Log      logrus.FieldLogger
}

// NewDependencies builds the repositories and handlers on top of db.
func NewDependencies(db *gorm.DB, log logrus.FieldLogger) *Dependencies {
	typeGroups := models.NewTypeGroupsRepository(db)
	userTypes := models.NewUserTypesRepository(db)
	tokens := models.NewTokensRepository(db)

	return &Dependencies{
		Tokens:   tokens,
		Groups:   groups.NewGroupHandler(typeGroups, userTypes, log),
		Pokemon:  pokemon.NewPokemonHandler(models.NewPokemonRepository(db), log),
		Accounts: accounts.NewAccountHandler(models.NewUsersRepository(db), tokens, userTypes, log),
		Log:      log,
	}
}

// NewRouter registers every route. Everything under /api requires a token
// except login.
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HandleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/login/{$}", deps.Accounts.HandleLogin)

	authed := middleware.Auth(deps.Tokens, deps.Log)
	mux.Handle("GET /api/user/me/{$}", authed(http.HandlerFunc(deps.Accounts.HandleMe)))
	mux.Handle("GET /api/group/{$}", authed(http.HandlerFunc(deps.Groups.HandleList)))
	mux.Handle("POST /api/group/{type_name}/add/{$}", authed(http.HandlerFunc(deps.Groups.HandleAdd)))
	mux.Handle("DELETE /api/group/{type_name}/remove/{$}", authed(http.HandlerFunc(deps.Groups.HandleRemove)))
	mux.Handle("GET /api/pokemon/{$}", authed(http.HandlerFunc(deps.Pokemon.HandleList)))
	mux.Handle("GET /api/pokemon/{identifier}/{$}", authed(http.HandlerFunc(deps.Pokemon.HandleGet)))

	return middleware.Chain(mux,
		middleware.Logging(deps.Log),
		metrics.InstrumentHandler,
	)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
