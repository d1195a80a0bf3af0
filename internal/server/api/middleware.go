package api

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/auth"
)

const userIDKey = "userID"

// JWTAuth requires a valid "Authorization: Bearer <token>" header and
// stores the token's user ID in the echo context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(common.AuthorizationHeaderName)
			if !strings.HasPrefix(header, common.BearerPrefix) {
				return NewUnauthorizedError("missing token")
			}

			userID, err := auth.GetUserIDFromToken(strings.TrimPrefix(header, common.BearerPrefix), secret)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return NewUnauthorizedError("token expired")
				}
				return NewUnauthorizedError("invalid token")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
