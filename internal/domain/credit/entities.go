package credit

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("credit record not found")
	ErrConsumerNotFound = errors.New("consumer not found")
	ErrValidation       = errors.New("invalid credit record input")
)

type LoanType string

const (
	LoanPersonal   LoanType = "Personal"
	LoanHome       LoanType = "Home"
	LoanAuto       LoanType = "Auto"
	LoanEducation  LoanType = "Education"
	LoanCreditCard LoanType = "Credit Card"
	LoanBusiness   LoanType = "Business"
	LoanOther      LoanType = "Other"
)

var LoanTypes = []LoanType{LoanPersonal, LoanHome, LoanAuto, LoanEducation, LoanCreditCard, LoanBusiness, LoanOther}

func ParseLoanType(s string) (LoanType, error) {
	for _, lt := range LoanTypes {
		if string(lt) == s {
			return lt, nil
		}
	}
	return "", ErrValidation
}

type PaymentStatus string

const (
	StatusOutstanding PaymentStatus = "Outstanding"
	StatusPaid        PaymentStatus = "Paid"
	StatusLate        PaymentStatus = "Late"
	StatusDefaulted   PaymentStatus = "Defaulted"
)

var PaymentStatuses = []PaymentStatus{StatusOutstanding, StatusPaid, StatusLate, StatusDefaulted}

// MaxAmount is the exclusive upper bound for amounts; decimal(18,2) holds at most 16 integer digits.
const MaxAmount = 1e16

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for _, ps := range PaymentStatuses {
		if string(ps) == s {
			return ps, nil
		}
	}
	return "", ErrValidation
}

// Table: credit_records. PaymentHistory lives in payment_entries and is ordered by id.
type CreditRecord struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	RecordID       string         `gorm:"size:32;uniqueIndex:ux_credit_records_record_id" json:"id"`
	ConsumerID     string         `gorm:"size:32;index:idx_credit_records_consumer" json:"consumer_id"`
	LenderID       string         `gorm:"size:32;index:idx_credit_records_lender" json:"lender_id"`
	LoanType       LoanType       `gorm:"size:32;not null" json:"loan_type"`
	Amount         float64        `gorm:"type:decimal(18,2);not null" json:"amount"`
	DueDate        time.Time      `gorm:"not null" json:"due_date"`
	PaymentStatus  PaymentStatus  `gorm:"size:16;not null" json:"payment_status"`
	PaymentHistory []PaymentEntry `gorm:"foreignKey:RecordID;references:ID" json:"payment_history"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"-"`
}

func (CreditRecord) TableName() string { return "credit_records" }

// Table: payment_entries. Rows are only ever inserted.
type PaymentEntry struct {
	ID       uint64        `gorm:"primaryKey;column:id" json:"-"`
	RecordID uint64        `gorm:"not null;index:idx_payment_entries_record" json:"-"`
	Date     time.Time     `gorm:"not null" json:"date"`
	Status   PaymentStatus `gorm:"size:16;not null" json:"status"`
	Amount   float64       `gorm:"type:decimal(18,2)" json:"amount"`
}

func (PaymentEntry) TableName() string { return "payment_entries" }

// NewRecord builds a record in its initial state: Outstanding, with one zero-amount history entry.
func NewRecord(recordID, consumerID, lenderID string, lt LoanType, amount float64, due, now time.Time) *CreditRecord {
	return &CreditRecord{
		RecordID:      recordID,
		ConsumerID:    consumerID,
		LenderID:      lenderID,
		LoanType:      lt,
		Amount:        amount,
		DueDate:       due.UTC(),
		PaymentStatus: StatusOutstanding,
		PaymentHistory: []PaymentEntry{
			{Date: now.UTC(), Status: StatusOutstanding, Amount: 0},
		},
		CreatedAt: now.UTC(),
	}
}

// ApplyStatus appends a history entry and moves PaymentStatus to it.
// Callers persist both through Repository.AppendPayment.
func (r *CreditRecord) ApplyStatus(status PaymentStatus, amount float64, at time.Time) *PaymentEntry {
	r.PaymentHistory = append(r.PaymentHistory, PaymentEntry{
		RecordID: r.ID,
		Date:     at.UTC(),
		Status:   status,
		Amount:   amount,
	})
	r.PaymentStatus = status
	return &r.PaymentHistory[len(r.PaymentHistory)-1]
}
