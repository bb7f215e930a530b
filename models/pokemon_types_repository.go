package models

import (
	"context"

	"gorm.io/gorm"
)

type PokemonTypesRepository struct {
	db *gorm.DB
}

func NewPokemonTypesRepository(db *gorm.DB) *PokemonTypesRepository {
	return &PokemonTypesRepository{db: db}
}

// TypeIDs returns the ids of the type groups currently linked to the Pokémon.
func (r *PokemonTypesRepository) TypeIDs(ctx context.Context, pokemonID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&PokemonType{}).
		Where("pokemon_id = ?", pokemonID).
		Order("type_group_id").
		Pluck("type_group_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Apply deletes and creates links of a single Pokémon in one transaction.
// Both statements are scoped to pokemonID. It returns the number of rows
// deleted and created.
func (r *PokemonTypesRepository) Apply(ctx context.Context, pokemonID uint, remove, add []uint) (int64, int64, error) {
	var deleted, created int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(remove) > 0 {
			res := tx.Where("pokemon_id = ? AND type_group_id IN ?", pokemonID, remove).
				Delete(&PokemonType{})
			if res.Error != nil {
				return res.Error
			}
			deleted = res.RowsAffected
		}

		if len(add) > 0 {
			links := make([]PokemonType, len(add))
			for i, id := range add {
				links[i] = PokemonType{PokemonID: pokemonID, TypeGroupID: id}
			}
			res := tx.Omit("TypeGroup").Create(&links)
			if res.Error != nil {
				return res.Error
			}
			created = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, 0, translate(err, nil)
	}
	return deleted, created, nil
}
