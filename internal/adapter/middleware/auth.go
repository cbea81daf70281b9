package middleware

import (
	"strings"

	"creditbureau-backend/internal/domain/access"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const principalKey = "principal"

// HeaderAuthToken is the legacy token header accepted next to Authorization: Bearer.
const HeaderAuthToken = "x-auth-token"

type PrincipalResolver interface {
	Principal(token string) (*access.Principal, error)
}

// Authenticate attaches the caller to the context when a valid token is present.
// It never rejects: handlers and the access policy decide what an anonymous caller may do.
func Authenticate(res PrincipalResolver, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := bearerToken(c)
			if tok == "" {
				return next(c)
			}
			p, err := res.Principal(tok)
			if err != nil {
				log.WithError(err).WithField("path", c.Path()).Debug("rejected auth token")
				return next(c)
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(c.Request().Header.Get(HeaderAuthToken))
}

// PrincipalFrom returns the authenticated caller, or nil.
func PrincipalFrom(c echo.Context) *access.Principal {
	p, _ := c.Get(principalKey).(*access.Principal)
	return p
}

// WithPrincipal is used by tests and internal callers that already resolved the caller.
func WithPrincipal(c echo.Context, p *access.Principal) { c.Set(principalKey, p) }
