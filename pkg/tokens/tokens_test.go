package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-token-secret")

func newAccessClaims(exp time.Time) *Claims {
	return &Claims{
		TokenType: TypeAccess,
		Role:      "resident",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func newRefreshClaims(exp time.Time) *Claims {
	return &Claims{
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	claims := newAccessClaims(time.Now().Add(15 * time.Minute))
	token, err := Encode(claims, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := Decode(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, claims.TokenType, decoded.TokenType)
	assert.Equal(t, claims.Role, decoded.Role)
	assert.Equal(t, claims.Subject, decoded.Subject)
	require.NotNil(t, decoded.ExpiresAt)
	assert.WithinDuration(t, claims.ExpiresAt.Time, decoded.ExpiresAt.Time, time.Second)
}

func TestDecode_WrongKeyFails(t *testing.T) {
	t.Parallel()

	token, err := Encode(newAccessClaims(time.Now().Add(time.Hour)), testSecret)
	require.NoError(t, err)

	decoded, err := Decode(token, []byte("a-different-secret"))
	assert.Nil(t, decoded)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "not-a-valid-jwt"},
		{name: "two segments", token: "aaaa.bbbb"},
		{name: "garbage segments", token: "aaaa.bbbb.cccc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decoded, err := Decode(tt.token, testSecret)
			assert.Nil(t, decoded)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_RejectsUnexpectedAlg(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, newAccessClaims(time.Now().Add(time.Hour)))
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	decoded, err := Decode(token, testSecret)
	assert.Nil(t, decoded)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestValidate_TypeIsolation(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	access, err := Encode(newAccessClaims(exp), testSecret)
	require.NoError(t, err)
	refresh, err := Encode(newRefreshClaims(exp), testSecret)
	require.NoError(t, err)

	_, err = Validate(access, TypeRefresh, testSecret, time.Now())
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = Validate(refresh, TypeAccess, testSecret, time.Now())
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	exp := time.Now().UTC().Truncate(time.Second)
	token, err := Encode(newAccessClaims(exp), testSecret)
	require.NoError(t, err)

	claims, err := Validate(token, TypeAccess, testSecret, exp.Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)

	_, err = Validate(token, TypeAccess, testSecret, exp)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = Validate(token, TypeAccess, testSecret, exp.Add(time.Hour))
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidate_MissingExpiry(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		TokenType:        TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	}
	token, err := Encode(claims, testSecret)
	require.NoError(t, err)

	_, err = Validate(token, TypeAccess, testSecret, time.Now())
	assert.ErrorIs(t, err, ErrExpired)
}

func TestNewJTI_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		jti := NewJTI()
		require.NotEmpty(t, jti)
		_, dup := seen[jti]
		require.False(t, dup)
		seen[jti] = struct{}{}
	}
}
