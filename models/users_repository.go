package models

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (r *UsersRepository) Create(ctx context.Context, username, passwordHash string) (*User, error) {
	user := User{Username: username, PasswordHash: passwordHash}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &user, nil
}

type TokensRepository struct {
	db *gorm.DB
}

func NewTokensRepository(db *gorm.DB) *TokensRepository {
	return &TokensRepository{db: db}
}

// GetOrCreate returns the user's token, issuing a new one on first use.
func (r *TokensRepository) GetOrCreate(ctx context.Context, user *User) (*Token, error) {
	db := r.db.WithContext(ctx)

	var token Token
	err := db.Where("user_id = ?", user.ID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key, err := generateKey()
	if err != nil {
		return nil, err
	}
	token = Token{Key: key, UserID: user.ID, CreatedAt: time.Now().UTC()}
	if err := db.Omit("User").Create(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.Where("user_id = ?", user.ID).First(&token).Error; err != nil {
				return nil, translate(err, ErrTokenNotFound)
			}
			return &token, nil
		}
		return nil, err
	}
	return &token, nil
}

// UserByKey resolves the owner of a token key.
func (r *TokensRepository) UserByKey(ctx context.Context, key string) (*User, error) {
	if key == "" {
		return nil, ErrTokenNotFound
	}

	var token Token
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where(&Token{Key: key}).
		First(&token).Error; err != nil {
		return nil, translate(err, ErrTokenNotFound)
	}
	return &token.User, nil
}

// generateKey returns 20 random bytes hex encoded.
func generateKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
