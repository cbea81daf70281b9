package credit

import (
	"time"

	"creditbureau-backend/internal/domain/credit"
)

type CreateRecordInput struct {
	ConsumerID string
	LoanType   string
	Amount     float64
	DueDate    time.Time
}

type UpdateStatusInput struct {
	RecordID      string
	PaymentStatus string
	Amount        float64
}

// Party is the other side of a record as shown in listings.
type Party struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	IDNumber string `json:"id_number,omitempty"`
}

type PaymentDTO struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
	Amount float64   `json:"amount"`
}

type RecordDTO struct {
	ID             string       `json:"id"`
	ConsumerID     string       `json:"consumer_id"`
	Consumer       *Party       `json:"consumer,omitempty"`
	LenderID       string       `json:"lender_id"`
	Lender         *Party       `json:"lender,omitempty"`
	LoanType       string       `json:"loan_type"`
	Amount         float64      `json:"amount"`
	DueDate        time.Time    `json:"due_date"`
	PaymentStatus  string       `json:"payment_status"`
	PaymentHistory []PaymentDTO `json:"payment_history"`
	CreatedAt      time.Time    `json:"created_at"`
}

func toRecordDTO(r *credit.CreditRecord) RecordDTO {
	hist := make([]PaymentDTO, 0, len(r.PaymentHistory))
	for _, e := range r.PaymentHistory {
		hist = append(hist, PaymentDTO{Date: e.Date, Status: string(e.Status), Amount: e.Amount})
	}
	return RecordDTO{
		ID:             r.RecordID,
		ConsumerID:     r.ConsumerID,
		LenderID:       r.LenderID,
		LoanType:       string(r.LoanType),
		Amount:         r.Amount,
		DueDate:        r.DueDate,
		PaymentStatus:  string(r.PaymentStatus),
		PaymentHistory: hist,
		CreatedAt:      r.CreatedAt,
	}
}
