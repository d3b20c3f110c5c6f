package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/resident_hub/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account store: %w", err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account store: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new account after checking the unique fields. The DB
// constraints remain the backstop for concurrent registrations.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", u.Email)
	if u.Phone != nil {
		q = q.Or("phone = ?", *u.Phone)
	}
	if u.CCCDHash != nil {
		q = q.Or("cccd_hash = ?", *u.CCCDHash)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("account store: %w", err)
	}
	if count > 0 {
		return ErrConflict
	}

	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("account store: %w", err)
	}
	return nil
}

// EnsureAdmin seeds the platform admin account. A no-op when an account with
// that email already exists.
func (r *GormRepo) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	now := time.Now().UTC()
	admin := models.User{
		Name:         "System Admin",
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "admin",
		IsActive:     true,
		IsApproved:   true,
		ApprovedAt:   &now,
	}
	return r.DB.WithContext(ctx).Where("email = ?", email).FirstOrCreate(&admin).Error
}
