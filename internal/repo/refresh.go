package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/resident_hub/internal/models"
	"gorm.io/gorm"
)

// ErrRefreshUnusable means the presented refresh token's jti is unknown,
// already consumed by a previous rotation, revoked by logout, or past its
// recorded expiry. All four reject the exchange the same way.
var ErrRefreshUnusable = errors.New("refresh token is unknown, consumed or expired")

func (r *GormRepo) AddRefresh(ctx context.Context, rawToken, jti string, userID uint, expiresAt time.Time) error {
	record := models.RefreshToken{
		Token:     tokenDigest(rawToken),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: expiresAt.Unix(),
	}
	if err := r.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("refresh store: %w", err)
	}
	return nil
}

func (r *GormRepo) refreshUsable(db *gorm.DB, jti string) error {
	var record models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRefreshUnusable
		}
		return fmt.Errorf("refresh store: %w", err)
	}
	if record.Revoked || record.ExpiresAt < time.Now().Unix() {
		return ErrRefreshUnusable
	}
	return nil
}

func (r *GormRepo) RefreshUsable(ctx context.Context, jti string) error {
	return r.refreshUsable(r.DB.WithContext(ctx), jti)
}

// RotateRefresh consumes the old token and persists the new one atomically,
// so a replayed exchange of the same jti loses the race inside the
// transaction rather than minting a second pair.
func (r *GormRepo) RotateRefresh(ctx context.Context, oldJTI string, rawToken, jti string, userID uint, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.refreshUsable(tx, oldJTI); err != nil {
			return err
		}

		if err := tx.Model(&models.RefreshToken{}).
			Where("jti = ?", oldJTI).
			Update("revoked", true).Error; err != nil {
			return fmt.Errorf("refresh store: %w", err)
		}

		record := models.RefreshToken{
			Token:     tokenDigest(rawToken),
			UserID:    userID,
			JTI:       jti,
			ExpiresAt: expiresAt.Unix(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("refresh store: %w", err)
		}
		return nil
	})
}

// RevokeRefresh marks the record matching the raw token as revoked. Unknown
// tokens are ignored so logout stays idempotent.
func (r *GormRepo) RevokeRefresh(ctx context.Context, rawToken string) error {
	result := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokenDigest(rawToken)).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("refresh store: %w", result.Error)
	}
	return nil
}
