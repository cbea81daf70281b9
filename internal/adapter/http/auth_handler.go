package http

import (
	"net/http"

	"creditbureau-backend/internal/adapter/middleware"
	"creditbureau-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	uc  *auth.Usecase
	log logrus.FieldLogger
}

func NewAuthHandler(uc *auth.Usecase, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

type registerReq struct {
	Name     string `json:"name"      validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	IDNumber string `json:"id_number" validate:"required"`
	Role     string `json:"role"      validate:"required,oneof=consumer lender"`
}

type loginReq struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s, err := h.uc.Register(c.Request().Context(), auth.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s, err := h.uc.Login(c.Request().Context(), auth.LoginInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *AuthHandler) Me(c echo.Context) error {
	me, err := h.uc.Me(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, me)
}
