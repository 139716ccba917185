// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mmp/beacon-platform/internal/config"
	"github.com/mmp/beacon-platform/internal/handler"
	"github.com/mmp/beacon-platform/internal/middleware"
	"github.com/mmp/beacon-platform/internal/model"
	"github.com/mmp/beacon-platform/internal/utils"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints under /v1/auth. The group
// is rate limited because login is the natural brute-force target.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth")
	g.Use(middleware.RateLimit(rlCfg, rdb))
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterUsers registers the identity lifecycle endpoints under /v1. All of
// them require a valid access token; target-dependent authorization happens
// inside the service via the policy package.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, issuer *utils.TokenIssuer) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(issuer))
	g.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleAdmin, model.RoleUser))

	g.POST("/users", u.Register)
	g.POST("/admins", u.RegisterAdmin)
	g.GET("/users", u.ListUsers)
	g.GET("/admins", u.ListAdmins)
	g.GET("/users/:login_id", u.GetProfile)
	g.PUT("/users/:login_id", u.UpdateProfile)
	g.DELETE("/users/:login_id", u.Delete)
}
