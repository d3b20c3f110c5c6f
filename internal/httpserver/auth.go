package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/resident_hub/internal/middleware"
	"github.com/Skotchmaster/resident_hub/internal/service"
	"github.com/Skotchmaster/resident_hub/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		Password      string `json:"password"`
		ApartmentCode string `json:"apartment_code"`
		CCCD          string `json:"cccd"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, service.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		ApartmentCode: req.ApartmentCode,
		CCCD:          req.CCCD,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registered successfully",
		"user":    user,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	setTokenCookies(c, res)
	return c.JSON(http.StatusOK, tokenResponse(res))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.RefreshToken == "" {
		if cookie, err := c.Cookie("refreshToken"); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return httpError(err)
	}

	setTokenCookies(c, res)
	return c.JSON(http.StatusOK, tokenResponse(res))
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	subject, _ := c.Get(middleware.CtxUserID).(string)
	user, err := h.Svc.Me(ctx, subject)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Get me successfully",
		"user":    user,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	var refreshToken string
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.Svc.Logout(ctx, refreshToken); err != nil {
		l.Error("logout_failed", "error", err)
		c.SetCookie(deleteCookie("accessToken", "/"))
		c.SetCookie(deleteCookie("refreshToken", "/"))
		return httpError(err)
	}

	c.SetCookie(deleteCookie("accessToken", "/"))
	c.SetCookie(deleteCookie("refreshToken", "/"))
	l.Info("logout successful")

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out",
	})
}

func setTokenCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(createCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(createCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))
}

func tokenResponse(res *service.LoginResult) echo.Map {
	return echo.Map{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"token_type":    "bearer",
		"expires_in":    int64(time.Until(res.AccessExp).Seconds()),
		"user": echo.Map{
			"id":    res.User.ID,
			"name":  res.User.Name,
			"email": res.User.Email,
			"phone": res.User.Phone,
			"role":  res.User.Role,
		},
	}
}

// httpError maps service sentinels onto the caller-visible categories. Note
// that a missing account and a bad password come back identical.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "account already exists")
	case errors.Is(err, service.ErrNoSuchAccount), errors.Is(err, service.ErrInvalidPassword):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrAccountDeactivated):
		return echo.NewHTTPError(http.StatusForbidden, "your account has been deactivated")
	case errors.Is(err, service.ErrPendingApproval):
		return echo.NewHTTPError(http.StatusForbidden, "your account is pending approval")
	case errors.Is(err, service.ErrInvalidRefreshToken), errors.Is(err, service.ErrSubjectNotFound):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired refresh token")
	case errors.Is(err, service.ErrDependency):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
