package models

import (
	"github.com/shopspring/decimal"
)

// Pokemon represents a catalog entry synchronized from PokeAPI.
// Number is the stable remote identifier; Name is refreshed on every sync.
type Pokemon struct {
	ID     uint            `gorm:"primaryKey"`
	Number uint            `gorm:"uniqueIndex;not null"`
	Name   string          `gorm:"size:255;uniqueIndex;not null"`
	Height decimal.Decimal `gorm:"type:decimal(6,1);not null;default:0"`
	Weight decimal.Decimal `gorm:"type:decimal(7,1);not null;default:0"`
	Types  []PokemonType   `gorm:"foreignKey:PokemonID"`
}

func (p *Pokemon) TableName() string {
	return "pokemons"
}

// TypeNames returns the names of every type group linked to the Pokémon.
// Types must have been preloaded together with their TypeGroup.
func (p *Pokemon) TypeNames() []string {
	names := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		names = append(names, t.TypeGroup.Name)
	}
	return names
}

// PokemonType links a Pokémon to one of its type groups. Rows are owned by
// the link synchronization job.
type PokemonType struct {
	ID          uint      `gorm:"primaryKey"`
	PokemonID   uint      `gorm:"uniqueIndex:unique_pokemon_type;not null"`
	TypeGroupID uint      `gorm:"uniqueIndex:unique_pokemon_type;not null"`
	TypeGroup   TypeGroup `gorm:"foreignKey:TypeGroupID;constraint:OnDelete:CASCADE"`
}

func (p *PokemonType) TableName() string {
	return "pokemon_types"
}
