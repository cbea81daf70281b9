package http

import (
	"net/http"

	"creditbureau-backend/internal/adapter/middleware"
	"creditbureau-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	uc  *user.Usecase
	log logrus.FieldLogger
}

func NewUserHandler(uc *user.Usecase, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{uc: uc, log: log}
}

func (h *UserHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Pending(c echo.Context) error {
	out, err := h.uc.PendingLenders(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Approve(c echo.Context) error {
	out, err := h.uc.ApproveLender(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user removed"})
}

// Search handles GET /api/users/search?email=&role=.
func (h *UserHandler) Search(c echo.Context) error {
	out, err := h.uc.Search(c.Request().Context(), middleware.PrincipalFrom(c), user.SearchInput{
		Email: c.QueryParam("email"),
		Role:  c.QueryParam("role"),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
