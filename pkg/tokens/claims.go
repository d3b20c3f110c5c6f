package tokens

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType separates the two token classes the auth service issues. A token
// minted for one purpose must never be accepted where the other is required.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// Claims is the signed payload of every token. Access tokens carry a role
// snapshot taken at issuance; refresh tokens carry a unique ID (jti) instead.
type Claims struct {
	TokenType TokenType `json:"typ"`
	Role      string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func NewJTI() string { return uuid.NewString() }
