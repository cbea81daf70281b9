package http

import (
	"net/http"

	"creditbureau-backend/internal/adapter/middleware"
	"creditbureau-backend/internal/domain/access"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type Routes struct {
	Health *Handler
	Auth   *AuthHandler
	Users  *UserHandler
	Credit *CreditHandler

	// Idempotency wraps the mutating credit routes; nil disables it.
	Idempotency echo.MiddlewareFunc
	Metrics     http.Handler
	Log         logrus.FieldLogger
}

// guard rejects callers whose role can never perform op before idempotency
// or body binding run, so an anonymous or wrong-role caller never sees
// validation details. It is the only role gate on these routes; handlers
// read the principal with middleware.PrincipalFrom.
func (r Routes) guard(op access.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := access.Permits(middleware.PrincipalFrom(c), op); err != nil {
				return writeError(c, r.Log, err)
			}
			return next(c)
		}
	}
}

func (r Routes) mutating(op access.Operation) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{r.guard(op)}
	if r.Idempotency != nil {
		mw = append(mw, r.Idempotency)
	}
	return mw
}

func RegisterRoutes(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", r.Auth.Register)
	auth.POST("/login", r.Auth.Login)
	auth.GET("/me", r.Auth.Me)

	users := api.Group("/users")
	users.GET("", r.Users.List)
	users.GET("/stats", r.Users.Stats)
	users.GET("/pending", r.Users.Pending)
	users.GET("/search", r.Users.Search)
	users.PUT("/approve/:id", r.Users.Approve)
	users.DELETE("/:id", r.Users.Delete)

	credit := api.Group("/credit")
	credit.POST("", r.Credit.CreateRecord, r.mutating(access.OpCreateRecord)...)
	credit.GET("/consumer/:id", r.Credit.ListForConsumer)
	credit.GET("/lender", r.Credit.ListForLender)
	credit.PUT("/:id/status", r.Credit.UpdateStatus, r.mutating(access.OpUpdateStatus)...)
	credit.GET("/score/:id", r.Credit.Score)
}
