package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmp/beacon-platform/internal/service"
)

// AuthHandler exposes the credential endpoints: login, access-token refresh
// and logout.
type AuthHandler struct {
	Service *service.UserService
}

func NewAuthHandler(svc *service.UserService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

// ----- DTOs -----

type loginReq struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type identityPart struct {
	ID      uint64 `json:"id"`
	LoginID string `json:"login_id"`
	Role    string `json:"role"`
}
type authResp struct {
	Identity identityPart `json:"identity"`
	Access   tokenPart    `json:"access"`
	Refresh  tokenPart    `json:"refresh"`
}

// Login verifies credentials and returns a fresh access/refresh token pair.
// The refresh token replaces any previous live session for the identity.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.LoginID = strings.TrimSpace(req.LoginID)
	if req.LoginID == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login_id/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Service.Authenticate(ctx, req.LoginID, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, authResp{
		Identity: identityPart{ID: res.Identity.ID, LoginID: res.Identity.LoginID, Role: string(res.Identity.Role)},
		Access:   tokenPart{Token: res.Access.Value, Expires: res.Access.Exp},
		Refresh:  tokenPart{Token: res.Refresh.Value, Expires: res.Refresh.Exp},
	})
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, err := h.Service.RefreshAccessToken(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Value, Expires: access.Exp},
	})
}

// Logout invalidates the presented refresh token's session.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Logout(ctx, strings.TrimSpace(req.RefreshToken)); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
