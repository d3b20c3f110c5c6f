package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/resident_hub/internal/audit"
	"github.com/Skotchmaster/resident_hub/internal/events"
	"github.com/Skotchmaster/resident_hub/internal/models"
	"github.com/Skotchmaster/resident_hub/internal/repo"
	pkg_hash "github.com/Skotchmaster/resident_hub/pkg/hash"
	"github.com/Skotchmaster/resident_hub/pkg/logging"
	"github.com/Skotchmaster/resident_hub/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Producer      *events.Producer
	Audit         *audit.Indexer
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

// Authenticate is the credential gate. The checks run in a fixed order and
// each rejection is terminal: lookup, active, approved, password.
// Account-state rejections deliberately come before the bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoSuchAccount
		}
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	if !user.IsApproved {
		return nil, ErrPendingApproval
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

func (s *AuthService) issueAccessToken(user *models.User, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.AccessTTL)
	claims := &tokens.Claims{
		TokenType: tokens.TypeAccess,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := tokens.Encode(claims, s.AccessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (s *AuthService) issueRefreshToken(user *models.User, now time.Time) (string, string, time.Time, error) {
	exp := now.Add(s.RefreshTTL)
	jti := tokens.NewJTI()
	claims := &tokens.Claims{
		TokenType: tokens.TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := tokens.Encode(claims, s.RefreshSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, jti, exp, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		s.recordAudit(ctx, events.TypeUserLoggedIn, email, 0, err.Error())
		l.Warn("login rejected", "reason", err.Error())
		return nil, err
	}

	now := time.Now().UTC()
	accessToken, accessExp, err := s.issueAccessToken(user, now)
	if err != nil {
		l.Error("access token issue failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	refreshToken, jti, refreshExp, err := s.issueRefreshToken(user, now)
	if err != nil {
		l.Error("refresh token issue failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	if err := s.Repo.AddRefresh(ctx, refreshToken, jti, user.ID, refreshExp); err != nil {
		l.Error("refresh token persist failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	s.recordAudit(ctx, events.TypeUserLoggedIn, email, user.ID, "granted")
	s.publishEvent(ctx, user.ID, map[string]interface{}{
		"type":    events.TypeUserLoggedIn,
		"user_id": user.ID,
		"email":   user.Email,
	})
	l.Info("login successful", "user_id", user.ID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. The old
// token's jti is consumed in the same transaction that persists the new one,
// so replaying a rotated token fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.Validate(refreshToken, tokens.TypeRefresh, s.RefreshSecret, time.Now().UTC())
	if err != nil {
		l.Warn("refresh rejected", "reason", err.Error())
		return nil, ErrInvalidRefreshToken
	}

	if err := s.Repo.RefreshUsable(ctx, claims.ID); err != nil {
		if errors.Is(err, repo.ErrRefreshUnusable) {
			s.recordAudit(ctx, events.TypeTokenRefreshed, "", 0, "replayed_or_revoked")
			l.Warn("refresh rejected", "reason", "jti not usable")
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	userID, err := parseSubject(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh rejected", "reason", "subject not found", "user_id", userID)
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	now := time.Now().UTC()
	accessToken, accessExp, err := s.issueAccessToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	newRefresh, newJTI, refreshExp, err := s.issueRefreshToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	if err := s.Repo.RotateRefresh(ctx, claims.ID, newRefresh, newJTI, user.ID, refreshExp); err != nil {
		if errors.Is(err, repo.ErrRefreshUnusable) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	s.recordAudit(ctx, events.TypeTokenRefreshed, user.Email, user.ID, "rotated")
	s.publishEvent(ctx, user.ID, map[string]interface{}{
		"type":    events.TypeTokenRefreshed,
		"user_id": user.ID,
	})
	l.Info("refresh rotated", "user_id", user.ID)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, subject string) (*models.User, error) {
	userID, err := parseSubject(subject)
	if err != nil {
		return nil, ErrNoSuchAccount
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoSuchAccount
		}
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return user, nil
}

// Logout revokes the presented refresh token. Unknown or already revoked
// tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.Repo.RevokeRefresh(ctx, refreshToken); err != nil {
		return fmt.Errorf("%w: %v", ErrDependency, err)
	}
	s.recordAudit(ctx, events.TypeUserLoggedOut, "", 0, "revoked")
	return nil
}

func parseSubject(subject string) (uint, error) {
	id, err := strconv.ParseUint(subject, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (s *AuthService) recordAudit(ctx context.Context, event, email string, userID uint, outcome string) {
	if err := s.Audit.Record(ctx, audit.Entry{
		Event:   event,
		Email:   email,
		UserID:  userID,
		Outcome: outcome,
	}); err != nil {
		logging.FromContext(ctx).Error("audit record failed", "error", err)
	}
}

func (s *AuthService) publishEvent(ctx context.Context, userID uint, event map[string]interface{}) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, strconv.FormatUint(uint64(userID), 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "error", err)
	}
}
