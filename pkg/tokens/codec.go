package tokens

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed covers a bad signature, a truncated or garbled token
	// and an unexpected signing algorithm alike.
	ErrMalformed = errors.New("token is malformed or has an invalid signature")
	ErrWrongType = errors.New("unexpected token type")
	ErrExpired   = errors.New("token has expired")
)

func Encode(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Decode verifies the signature and returns the claims. It deliberately does
// not check expiry or token type, those are policy and belong to Validate.
func Decode(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil || !tkn.Valid {
		return nil, ErrMalformed
	}
	return &claims, nil
}
