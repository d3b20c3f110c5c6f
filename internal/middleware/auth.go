package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resident_hub/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type Guard struct {
	AccessSecret []byte
}

func NewGuard(secret []byte) *Guard {
	return &Guard{AccessSecret: secret}
}

// extractToken prefers the Authorization header; the cookie fallback keeps
// browser sessions working without a JS token store.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAccessToken guards protected routes. Only access tokens pass, a
// refresh token presented here is rejected the same as a forged one.
func (g *Guard) RequireAccessToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.Validate(tokenStr, tokens.TypeAccess, g.AccessSecret, time.Now())
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if claims.Subject == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)

		return next(c)
	}
}
