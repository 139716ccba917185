package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mmp/beacon-platform/internal/middleware"
	"github.com/mmp/beacon-platform/internal/model"
	"github.com/mmp/beacon-platform/internal/service"
)

// UserHandler exposes the identity lifecycle endpoints. Every handler first
// resolves the acting identity from the authenticated principal and passes
// it into the service explicitly.
type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// actor resolves the full identity record behind the request's principal.
func (h *UserHandler) actor(ctx context.Context, c echo.Context) (*model.Identity, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return nil, service.ErrUnauthenticated
	}
	return h.Service.ResolveActor(ctx, p.LoginID)
}

// Register creates a USER account, optionally assigning beacons to it.
func (h *UserHandler) Register(c echo.Context) error {
	var req service.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return writeServiceError(c, err)
	}
	if err := h.Service.Register(ctx, actor, req); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"login_id": req.LoginID})
}

// RegisterAdmin creates an ADMIN account.
func (h *UserHandler) RegisterAdmin(c echo.Context) error {
	var req service.CreateAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return writeServiceError(c, err)
	}
	if err := h.Service.RegisterAdmin(ctx, actor, req); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"login_id": req.LoginID})
}

// GetProfile returns the role-shaped projection of one identity, subject to
// the visibility policy.
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return writeServiceError(c, err)
	}
	profile, err := h.Service.GetProfile(ctx, actor, c.Param("login_id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateProfile replaces a user's beacon set and applies profile changes.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req service.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return writeServiceError(c, err)
	}
	if err := h.Service.UpdateProfile(ctx, actor, c.Param("login_id"), req); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete soft-deletes an identity and releases its beacons.
func (h *UserHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return writeServiceError(c, err)
	}
	if err := h.Service.DeleteUser(ctx, actor, c.Param("login_id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAdmins returns a page of admins, searchable by login id.
func (h *UserHandler) ListAdmins(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return writeServiceError(c, err)
	}
	page, err := h.Service.ListAdmins(ctx, actor, listRequest(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListUsers returns a page of users, searchable by login id or name.
func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	actor, err := h.actor(ctx, c)
	if err != nil {
		return writeServiceError(c, err)
	}
	page, err := h.Service.ListUsers(ctx, actor, listRequest(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func listRequest(c echo.Context) service.ListRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return service.ListRequest{
		Page:     page,
		Size:     size,
		Search:   c.QueryParam("search"),
		SearchBy: c.QueryParam("search_by"),
	}
}
