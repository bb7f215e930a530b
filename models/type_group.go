package models

// TypeGroup represents a Pokémon elemental type ("fire", "water", ...).
// Names are stored exactly as PokeAPI reports them and are unique.
type TypeGroup struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;uniqueIndex;not null"`
}

func (t *TypeGroup) TableName() string {
	return "type_groups"
}

// UserType is a user's subscription to a type group.
type UserType struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"uniqueIndex:unique_user_type_group;not null"`
	TypeGroupID uint      `gorm:"uniqueIndex:unique_user_type_group;not null"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TypeGroup   TypeGroup `gorm:"foreignKey:TypeGroupID;constraint:OnDelete:CASCADE"`
}

func (u *UserType) TableName() string {
	return "user_types"
}
