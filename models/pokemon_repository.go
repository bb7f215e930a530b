package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type PokemonRepository struct {
	db *gorm.DB
}

func NewPokemonRepository(db *gorm.DB) *PokemonRepository {
	return &PokemonRepository{
		db: db,
	}
}

// All returns every stored Pokémon ordered by number, without types.
func (r *PokemonRepository) All(ctx context.Context) ([]Pokemon, error) {
	var pokemons []Pokemon
	if err := r.db.WithContext(ctx).Order("number").Find(&pokemons).Error; err != nil {
		return nil, err
	}
	return pokemons, nil
}

// Upsert creates the Pokémon or refreshes the stored row with the same number.
// It reports whether a new row was created.
func (r *PokemonRepository) Upsert(ctx context.Context, p *Pokemon) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Pokemon
		err := tx.Where("number = ?", p.Number).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created = true
			return tx.Create(p).Error
		}
		if err != nil {
			return err
		}

		p.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]any{
			"name":   p.Name,
			"height": p.Height,
			"weight": p.Weight,
		}).Error
	})
	if err != nil {
		return false, translate(err, ErrPokemonNotFound)
	}
	return created, nil
}

// ListVisible returns the Pokémon linked to at least one type the user
// subscribes to. Each Pokémon carries all of its types, not only the
// subscribed ones.
func (r *PokemonRepository) ListVisible(ctx context.Context, userID uint) ([]Pokemon, error) {
	var pokemons []Pokemon
	if err := r.visibleTo(ctx, userID).
		Order("pokemons.number").
		Find(&pokemons).Error; err != nil {
		return nil, err
	}
	return pokemons, nil
}

// GetVisible resolves a single Pokémon by number or case-insensitive name,
// restricted to what ListVisible would return for the same user. Missing and
// invisible Pokémon both yield ErrPokemonNotFound.
func (r *PokemonRepository) GetVisible(ctx context.Context, userID uint, id Identifier) (*Pokemon, error) {
	query := r.visibleTo(ctx, userID)
	switch id.Kind {
	case ByNumber:
		if id.Number == 0 {
			return nil, ErrPokemonNotFound
		}
		query = query.Where("pokemons.number = ?", id.Number)
	default:
		query = query.Where("LOWER(pokemons.name) = LOWER(?)", id.Name)
	}

	var pokemon Pokemon
	if err := query.First(&pokemon).Error; err != nil {
		return nil, translate(err, ErrPokemonNotFound)
	}
	return &pokemon, nil
}

func (r *PokemonRepository) visibleTo(ctx context.Context, userID uint) *gorm.DB {
	subscribed := r.db.Model(&PokemonType{}).
		Select("pokemon_types.pokemon_id").
		Joins("JOIN user_types ON user_types.type_group_id = pokemon_types.type_group_id").
		Where("user_types.user_id = ?", userID)

	return r.db.WithContext(ctx).
		Where("pokemons.id IN (?)", subscribed).
		Preload("Types", func(db *gorm.DB) *gorm.DB {
			return db.Order("pokemon_types.type_group_id")
		}).
		Preload("Types.TypeGroup")
}
