package models

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrTypeGroupNotFound is returned when no type group matches a name.
	ErrTypeGroupNotFound = errors.New("type group not found")
	// ErrPokemonNotFound is returned when a Pokémon does not exist or is not
	// visible to the requesting user.
	ErrPokemonNotFound = errors.New("pokemon not found")
	// ErrUserTypeNotFound is returned when the user has no subscription to the type.
	ErrUserTypeNotFound = errors.New("user type not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrTokenNotFound    = errors.New("token not found")
	// ErrAlreadyExists is returned when a write violates a uniqueness constraint.
	ErrAlreadyExists = errors.New("already exists")
)

// translate maps gorm errors onto the package sentinels. notFound is used
// for gorm.ErrRecordNotFound.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyExists
	}
	return err
}
