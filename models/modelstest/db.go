// Package modelstest provides an in-memory database for repository and sync tests.
package modelstest

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pokegroups/pokegroups-api/models"
)

var seq atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, seq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), models.NewGormConfig(log))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.TypeGroup{},
		&models.Pokemon{},
		&models.PokemonType{},
		&models.UserType{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Seed holds the fixture used across packages: ash subscribes to fire and
// water; charmander is fire, squirtle is water, bulbasaur is grass.
type Seed struct {
	Ash        models.User
	Misty      models.User
	Fire       models.TypeGroup
	Water      models.TypeGroup
	Grass      models.TypeGroup
	Charmander models.Pokemon
	Squirtle   models.Pokemon
	Bulbasaur  models.Pokemon
}

func SeedPokedex(t *testing.T, db *gorm.DB) *Seed {
	t.Helper()

	s := &Seed{
		Ash:        models.User{Username: "ash", PasswordHash: "x"},
		Misty:      models.User{Username: "misty", PasswordHash: "x"},
		Fire:       models.TypeGroup{Name: "fire"},
		Water:      models.TypeGroup{Name: "water"},
		Grass:      models.TypeGroup{Name: "grass"},
		Charmander: models.Pokemon{Number: 4, Name: "charmander"},
		Squirtle:   models.Pokemon{Number: 7, Name: "squirtle"},
		Bulbasaur:  models.Pokemon{Number: 1, Name: "bulbasaur"},
	}

	mustCreate(t, db, &s.Ash)
	mustCreate(t, db, &s.Misty)
	mustCreate(t, db, &s.Fire)
	mustCreate(t, db, &s.Water)
	mustCreate(t, db, &s.Grass)
	mustCreate(t, db, &s.Charmander)
	mustCreate(t, db, &s.Squirtle)
	mustCreate(t, db, &s.Bulbasaur)

	mustCreate(t, db, &models.UserType{UserID: s.Ash.ID, TypeGroupID: s.Fire.ID})
	mustCreate(t, db, &models.UserType{UserID: s.Ash.ID, TypeGroupID: s.Water.ID})
	mustCreate(t, db, &models.PokemonType{PokemonID: s.Charmander.ID, TypeGroupID: s.Fire.ID})
	mustCreate(t, db, &models.PokemonType{PokemonID: s.Squirtle.ID, TypeGroupID: s.Water.ID})
	mustCreate(t, db, &models.PokemonType{PokemonID: s.Bulbasaur.ID, TypeGroupID: s.Grass.ID})

	return s
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Omit("User", "TypeGroup").Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}
