package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/yogeshtripathi1231/library/model"
	authsvc "github.com/yogeshtripathi1231/library/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /api/auth/register
func (h *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	u, toks, err := h.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "register", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "User registered successfully",
		"user":         u,
		"accessToken":  toks.Access,
		"refreshToken": toks.Refresh,
	})
}

// POST /api/auth/login
func (h *Controller) Login(c echo.Context) error {
	return h.login(c, false)
}

// POST /api/admin/login
func (h *Controller) LoginAdmin(c echo.Context) error {
	return h.login(c, true)
}

func (h *Controller) login(c echo.Context, admin bool) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	var (
		u    *model.User
		toks authsvc.Tokens
		err  error
	)
	if admin {
		u, toks, err = h.Svc.LoginAdmin(c.Request().Context(), req)
	} else {
		u, toks, err = h.Svc.Login(c.Request().Context(), req)
	}
	if err != nil {
		return h.fail(c, "login", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Login successful",
		"user":         u,
		"accessToken":  toks.Access,
		"refreshToken": toks.Refresh,
	})
}

// POST /api/auth/refresh-token
func (h *Controller) Refresh(c echo.Context) error {
	var req model.RefreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Refresh token required"})
	}

	access, err := h.Svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return h.fail(c, "refresh", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": access})
}

// POST /api/admin/register
func (h *Controller) RegisterAdmin(c echo.Context) error {
	var req model.AdminRegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	u, toks, err := h.Svc.RegisterAdmin(c.Request().Context(), req, c.Request().Header.Get("x-admin-secret"))
	if err != nil {
		return h.fail(c, "admin register", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Admin registered successfully",
		"user":         u,
		"accessToken":  toks.Access,
		"refreshToken": toks.Refresh,
	})
}

// POST /api/admin/create  (admin)
func (h *Controller) CreateAdmin(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	u, err := h.Svc.CreateAdmin(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "admin create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Admin created successfully",
		"user":    u,
	})
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch authsvc.Code(err) {
	case authsvc.ErrEmailTaken:
		return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists"})
	case authsvc.ErrBadInput:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
	case authsvc.ErrInvalidCreds:
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	case authsvc.ErrInvalidToken:
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid refresh token"})
	case authsvc.ErrNotAdmin:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied. Admin only."})
	case authsvc.ErrBadSecret, authsvc.ErrNoAdminSecret:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid admin secret"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
