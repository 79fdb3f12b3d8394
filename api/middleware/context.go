package middleware

import (
	"phonebook/internal/service"

	"github.com/labstack/echo/v4"
)

const contextIdentityKey = "auth_identity"

func SetIdentity(c echo.Context, identity service.Identity) {
	c.Set(contextIdentityKey, identity)
}

func IdentityFromContext(c echo.Context) (service.Identity, bool) {
	value := c.Get(contextIdentityKey)
	identity, ok := value.(service.Identity)
	return identity, ok
}
