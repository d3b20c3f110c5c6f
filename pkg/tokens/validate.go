package tokens

import "time"

// Validate decodes a presented token and enforces type and expiry, in that
// order. No store lookup happens here, which is what lets sibling services
// verify access tokens with nothing but the shared secret.
func Validate(tokenStr string, required TokenType, secret []byte, now time.Time) (*Claims, error) {
	claims, err := Decode(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != required {
		return nil, ErrWrongType
	}
	if claims.ExpiresAt == nil || !now.Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}
	return claims, nil
}
