package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todo-calendar/internal/model"
)

// Profile is the Telegram identity of a user.
type Profile struct {
	TelegramID int64
	FirstName  string
	LastName   string
	Username   string
}

// UserRepository stores users keyed by Telegram ID.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates the user on first contact and refreshes the profile fields
// afterwards.
func (r *UserRepository) Upsert(ctx context.Context, p Profile) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where(model.User{TelegramID: p.TelegramID}).
		Assign(model.User{FirstName: p.FirstName, LastName: p.LastName, Username: p.Username}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user %d: %w", p.TelegramID, err)
	}
	return &user, nil
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
