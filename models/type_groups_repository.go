package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type TypeGroupsRepository struct {
	db *gorm.DB
}

func NewTypeGroupsRepository(db *gorm.DB) *TypeGroupsRepository {
	return &TypeGroupsRepository{db: db}
}

func (r *TypeGroupsRepository) GetAll(ctx context.Context) ([]TypeGroup, error) {
	var groups []TypeGroup
	if err := r.db.WithContext(ctx).Order("name").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// GetOrCreate returns the type group with exactly this name, creating it when
// missing. The boolean reports whether a row was created.
func (r *TypeGroupsRepository) GetOrCreate(ctx context.Context, name string) (*TypeGroup, bool, error) {
	db := r.db.WithContext(ctx)

	var group TypeGroup
	err := db.Where("name = ?", name).First(&group).Error
	if err == nil {
		return &group, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	group = TypeGroup{Name: name}
	if err := db.Create(&group).Error; err != nil {
		// Lost a race against a concurrent sync; the row is there now.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("name = ?", name).First(&group).Error; err != nil {
				return nil, false, translate(err, ErrTypeGroupNotFound)
			}
			return &group, false, nil
		}
		return nil, false, err
	}
	return &group, true, nil
}

// FindByName looks a type group up ignoring case.
func (r *TypeGroupsRepository) FindByName(ctx context.Context, name string) (*TypeGroup, error) {
	var group TypeGroup
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&group).Error; err != nil {
		return nil, translate(err, ErrTypeGroupNotFound)
	}
	return &group, nil
}

// IDsByNames maps exact names to type group ids. Unknown names are absent
// from the result.
func (r *TypeGroupsRepository) IDsByNames(ctx context.Context, names []string) (map[string]uint, error) {
	ids := make(map[string]uint, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	var groups []TypeGroup
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&groups).Error; err != nil {
		return nil, err
	}
	for _, g := range groups {
		ids[g.Name] = g.ID
	}
	return ids, nil
}
