package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/resident_hub/internal/events"
	"github.com/Skotchmaster/resident_hub/internal/models"
	"github.com/Skotchmaster/resident_hub/internal/repo"
	pkg_hash "github.com/Skotchmaster/resident_hub/pkg/hash"
	"github.com/Skotchmaster/resident_hub/pkg/logging"
)

type RegisterInput struct {
	Name          string
	Email         string
	Phone         string
	Password      string
	ApartmentCode string
	CCCD          string
}

func (in *RegisterInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case len(in.Name) > 100:
		return fmt.Errorf("%w: name must be at most 100 characters", ErrValidation)
	case strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	case len(in.Email) > 255:
		return fmt.Errorf("%w: email must be at most 255 characters", ErrValidation)
	case len(in.Phone) > 20:
		return fmt.Errorf("%w: phone must be at most 20 characters", ErrValidation)
	case len(in.Password) < 8:
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	case len(in.ApartmentCode) > 50:
		return fmt.Errorf("%w: apartment code must be at most 50 characters", ErrValidation)
	}
	if in.CCCD != "" {
		if len(in.CCCD) != 12 {
			return fmt.Errorf("%w: citizen id must be exactly 12 digits", ErrValidation)
		}
		for _, r := range in.CCCD {
			if r < '0' || r > '9' {
				return fmt.Errorf("%w: citizen id must be exactly 12 digits", ErrValidation)
			}
		}
	}
	return nil
}

// maskCCCD keeps the first and last three digits visible, matching what the
// platform shows back to residents.
func maskCCCD(cccd string) string {
	return cccd[:3] + "******" + cccd[len(cccd)-3:]
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Register creates a resident account. New accounts are active but wait for
// admin approval before they can log in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "email", in.Email)

	if err := in.validate(); err != nil {
		l.Warn("register rejected", "reason", err.Error())
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		l.Error("password hash failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	user := models.User{
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		PasswordHash:  pwHash,
		ApartmentCode: in.ApartmentCode,
		Role:          "resident",
		IsActive:      true,
		IsApproved:    false,
	}
	if in.Phone != "" {
		phone := in.Phone
		user.Phone = &phone
	}
	if in.CCCD != "" {
		cccdHash := sha1Hex(in.CCCD)
		user.CCCDHash = &cccdHash
		user.CCCDMasked = maskCCCD(in.CCCD)
	}

	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("register rejected", "reason", "account already exists")
			return nil, ErrConflict
		}
		l.Error("register failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	s.publishEvent(ctx, user.ID, map[string]interface{}{
		"type":    events.TypeUserRegistered,
		"user_id": user.ID,
		"email":   user.Email,
	})
	l.Info("register successful", "user_id", user.ID)

	return &user, nil
}
