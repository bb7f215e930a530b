package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserTypesRepository struct {
	db *gorm.DB
}

func NewUserTypesRepository(db *gorm.DB) *UserTypesRepository {
	return &UserTypesRepository{db: db}
}

// Subscribe get-or-creates the subscription of user to group. The boolean
// reports whether it was created by this call.
func (r *UserTypesRepository) Subscribe(ctx context.Context, user *User, group *TypeGroup) (*UserType, bool, error) {
	db := r.db.WithContext(ctx)

	find := func() (*UserType, error) {
		var ut UserType
		err := db.Where("user_id = ? AND type_group_id = ?", user.ID, group.ID).First(&ut).Error
		if err != nil {
			return nil, err
		}
		ut.User = *user
		ut.TypeGroup = *group
		return &ut, nil
	}

	ut, err := find()
	if err == nil {
		return ut, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := UserType{UserID: user.ID, TypeGroupID: group.ID}
	if err := db.Omit("User", "TypeGroup").Create(&created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ut, err := find()
			if err != nil {
				return nil, false, translate(err, ErrUserTypeNotFound)
			}
			return ut, false, nil
		}
		return nil, false, err
	}
	created.User = *user
	created.TypeGroup = *group
	return &created, true, nil
}

// FindForUser returns the user's own subscription to the named type, matching
// the name case-insensitively. Other users' subscriptions are never returned.
func (r *UserTypesRepository) FindForUser(ctx context.Context, userID uint, typeName string) (*UserType, error) {
	var ut UserType
	if err := r.db.WithContext(ctx).
		Joins("JOIN type_groups ON type_groups.id = user_types.type_group_id").
		Preload("TypeGroup").
		Where("user_types.user_id = ?", userID).
		Where("LOWER(type_groups.name) = LOWER(?)", typeName).
		First(&ut).Error; err != nil {
		return nil, translate(err, ErrUserTypeNotFound)
	}
	return &ut, nil
}

func (r *UserTypesRepository) Delete(ctx context.Context, ut *UserType) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", ut.ID, ut.UserID).
		Delete(&UserType{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserTypeNotFound
	}
	return nil
}

// TypeGroupsForUser lists the type groups the user subscribes to, by name.
func (r *UserTypesRepository) TypeGroupsForUser(ctx context.Context, userID uint) ([]TypeGroup, error) {
	var groups []TypeGroup
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_types ON user_types.type_group_id = type_groups.id").
		Where("user_types.user_id = ?", userID).
		Order("type_groups.name").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
