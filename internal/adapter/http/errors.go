package http

import (
	"errors"
	"net/http"

	"creditbureau-backend/internal/domain/access"
	"creditbureau-backend/internal/domain/credit"
	"creditbureau-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// statusFor maps use-case errors onto HTTP codes. Forbidden and not-found stay apart.
// The second return says whether err's text is safe to show the client.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, access.ErrNotAuthenticated), errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, true
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, credit.ErrNotFound), errors.Is(err, credit.ErrConsumerNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, credit.ErrValidation), errors.Is(err, user.ErrValidation), errors.Is(err, user.ErrNotLender):
		return http.StatusBadRequest, true
	case errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict, true
	default:
		return http.StatusInternalServerError, false
	}
}

func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
	code, public := statusFor(err)
	msg := err.Error()
	if !public {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"route":  c.Path(),
		}).Error("request failed")
		msg = "internal server error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}

// bindValid binds and validates req, writing 400/422 itself on failure.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
