package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const userIDContextKey = "userID"

// requireAuth validates the Bearer token and stores the user id in the
// request context for handlers.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return errorJSON(c, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		}

		claims, err := s.authService.ValidateToken(token)
		if err != nil {
			return errorJSON(c, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
		}

		c.Set(userIDContextKey, claims.UserID)
		return next(c)
	}
}

// userID returns the authenticated user id set by requireAuth.
func userID(c echo.Context) string {
	id, _ := c.Get(userIDContextKey).(string)
	return id
}
