package middleware // middleware contains reusable HTTP middleware for protected routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mmp/beacon-platform/internal/model"
	"github.com/mmp/beacon-platform/internal/utils"
)

const principalKey = "principal"

// Principal is the validated caller extracted from a bearer access token.
// It carries only what the token encodes; handlers that need the full
// identity record resolve it through the lifecycle service.
type Principal struct {
	UserID  uint64
	LoginID string
	Role    model.Role
}

// JWTAuth returns middleware that validates the Authorization bearer token
// and stores the resulting Principal in the request context. Handlers read
// it back via CurrentPrincipal. Requests without a valid token are rejected
// with 401 before any handler runs.
func JWTAuth(issuer *utils.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := issuer.Parse(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(principalKey, Principal{
				UserID:  claims.UserID,
				LoginID: claims.Subject,
				Role:    claims.Role,
			})
			return next(c)
		}
	}
}

// CurrentPrincipal returns the authenticated principal set by JWTAuth, or
// ok=false when the request carries no authenticated caller.
func CurrentPrincipal(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
