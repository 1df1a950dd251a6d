package helpers

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/profile"
)

// AuthMiddleware requires a valid JWT and injects the authenticated identity
// into the request context for the resolvers downstream.
func AuthMiddleware(conf *core.Config) echo.MiddlewareFunc {
	jwtmw := middleware.JWTWithConfig(JWTConfig(conf))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtmw(setIdentityContext(next))
	}
}

// OptionalAuthMiddleware authenticates a request only when it carries an
// Authorization header; anonymous requests pass through untouched. Anonymous
// check-ins are valid, attribution is best-effort.
func OptionalAuthMiddleware(conf *core.Config) echo.MiddlewareFunc {
	jwtmw := middleware.JWTWithConfig(JWTConfig(conf))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		authed := jwtmw(setIdentityContext(next))
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			return authed(c)
		}
	}
}

func setIdentityContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := getContextClaims(c); err == nil {
			req := c.Request()
			c.SetRequest(req.WithContext(profile.NewContext(req.Context(), claims.Subject)))
		}
		return next(c)
	}
}
