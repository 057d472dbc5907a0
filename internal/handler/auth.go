package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleetease-rental/internal/middleware"
	"github.com/iliyamo/fleetease-rental/internal/model"
	"github.com/iliyamo/fleetease-rental/internal/service"
)

// AuthHandler serves registration, login, external login, the current user
// and logout.
type AuthHandler struct {
	Auth *service.AuthService
	Log  *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{Auth: auth, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"required"`
	Password   string  `json:"password" validate:"required"`
	NationalID *string `json:"tc_kimlik"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type externalReq struct {
	SessionID string `json:"session_id"`
}

type authResp struct {
	User         *model.User `json:"user"`
	SessionToken string      `json:"session_token"`
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	res, err := h.Auth.Register(ctx, service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		NationalID: req.NationalID,
	})
	if err != nil {
		return err
	}
	h.Log.Info("user registered", "user_id", res.User.ID)
	return h.startSession(c, res)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return h.startSession(c, res)
}

// ExternalCallback exchanges the provider's session_id for a local session.
func (h *AuthHandler) ExternalCallback(c echo.Context) error {
	var req externalReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id required")
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	res, err := h.Auth.ExchangeExternal(ctx, req.SessionID)
	if err != nil {
		return err
	}
	return h.startSession(c, res)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// Logout destroys the caller's session, if any, and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := opCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, middleware.SessionToken(c)); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (h *AuthHandler) startSession(c echo.Context, res *service.AuthResult) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(h.Auth.SessionTTL() / time.Second),
	})
	return c.JSON(http.StatusOK, authResp{User: res.User, SessionToken: res.Token})
}
