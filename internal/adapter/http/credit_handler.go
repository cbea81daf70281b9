package http

import (
	"net/http"
	"time"

	"creditbureau-backend/internal/adapter/middleware"
	"creditbureau-backend/internal/usecase/credit"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type CreditHandler struct {
	uc  *credit.Usecase
	log logrus.FieldLogger
}

func NewCreditHandler(uc *credit.Usecase, log logrus.FieldLogger) *CreditHandler {
	return &CreditHandler{uc: uc, log: log}
}

type createRecordReq struct {
	ConsumerID string  `json:"consumer_id" validate:"required,hex32"`
	LoanType   string  `json:"loan_type"   validate:"required,loantype"`
	Amount     float64 `json:"amount"      validate:"required,gt=0,lt=10000000000000000,dec2"`
	// Accept canonical date `YYYY-MM-DD`
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type updateStatusReq struct {
	PaymentStatus string  `json:"payment_status" validate:"required,paystatus"`
	PaymentAmount float64 `json:"payment_amount" validate:"gte=0,lt=10000000000000000,dec2"`
}

// CreateRecord sits behind the route guard for access.OpCreateRecord.
func (h *CreditHandler) CreateRecord(c echo.Context) error {
	var req createRecordReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	due, _ := time.Parse("2006-01-02", req.DueDate)
	dto, err := h.uc.CreateRecord(c.Request().Context(), middleware.PrincipalFrom(c), credit.CreateRecordInput{
		ConsumerID: req.ConsumerID,
		LoanType:   req.LoanType,
		Amount:     req.Amount,
		DueDate:    due,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CreditHandler) ListForConsumer(c echo.Context) error {
	consumerID := c.Param("id")
	if consumerID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	out, err := h.uc.ListForConsumer(c.Request().Context(), middleware.PrincipalFrom(c), consumerID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CreditHandler) ListForLender(c echo.Context) error {
	out, err := h.uc.ListForLender(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus sits behind the route guard for access.OpUpdateStatus; ownership
// is checked by the use case once the record is locked.
func (h *CreditHandler) UpdateStatus(c echo.Context) error {
	recordID := c.Param("id")
	if recordID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	var req updateStatusReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.UpdateStatus(c.Request().Context(), middleware.PrincipalFrom(c), credit.UpdateStatusInput{
		RecordID:      recordID,
		PaymentStatus: req.PaymentStatus,
		Amount:        req.PaymentAmount,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CreditHandler) Score(c echo.Context) error {
	consumerID := c.Param("id")
	if consumerID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing id path param"})
	}
	res, err := h.uc.ComputeScore(c.Request().Context(), middleware.PrincipalFrom(c), consumerID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
