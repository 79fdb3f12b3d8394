package middleware

import (
	"context"
	"errors"
	"net/http"

	"phonebook/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (service.Identity, error)
}

type AuthMiddleware struct {
	Auth   Authenticator
	Logger logrus.FieldLogger
}

// RequireAuth rejects the request with 401 unless the Authorization header
// carries the caller's current session token.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.Auth == nil {
			return unauthorized(c)
		}
		identity, err := m.Auth.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return unauthorized(c)
			}
			if m.Logger != nil {
				m.Logger.WithError(err).Error("authenticate request")
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		}
		SetIdentity(c, identity)
		return next(c)
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
}
