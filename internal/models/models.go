package models

import "time"

type User struct {
	ID            uint       `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name          string     `gorm:"size:100;not null"         json:"name"`
	Email         string     `gorm:"uniqueIndex;not null"      json:"email"`
	Phone         *string    `gorm:"size:20;uniqueIndex"       json:"phone,omitempty"`
	PasswordHash  string     `gorm:"not null"                  json:"-"`
	ApartmentCode string     `gorm:"size:50"                   json:"apartment_code,omitempty"`
	CCCDHash      *string    `gorm:"uniqueIndex"               json:"-"`
	CCCDMasked    string     `json:"cccd_masked,omitempty"`
	Role          string     `gorm:"not null;default:resident" json:"role"`
	IsActive      bool       `gorm:"not null;default:true"     json:"is_active"`
	IsApproved    bool       `gorm:"not null;default:false"    json:"is_approved"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	ApprovedBy    *uint      `json:"approved_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RefreshToken is the persisted side of an issued refresh token. Token holds
// a sha256 digest of the raw token string, never the token itself.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"             json:"id"`
	Token     string `gorm:"uniqueIndex;not null"   json:"-"`
	UserID    uint   `gorm:"index;not null"         json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null"   json:"jti"`
	ExpiresAt int64  `gorm:"not null"               json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false" json:"revoked"`
}
