package httpapi

import (
	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/server/auth"
)

const identityKey = "identity"

// Authenticator verifies a raw token.
type Authenticator interface {
	Authenticate(token string) (*auth.Identity, error)
}

// Guard rejects requests without a token (401) or with a token that does not
// verify (403). Otherwise the identity is available to handlers through
// IdentityFrom.
func Guard(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := TokenFromRequest(c.Request())
			if !ok {
				return common.ErrUnauthenticated
			}

			id, err := a.Authenticate(token)
			if err != nil {
				return err
			}

			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity Guard attached, or nil.
func IdentityFrom(c echo.Context) *auth.Identity {
	id, _ := c.Get(identityKey).(*auth.Identity)
	return id
}
