package mysql

import (
	"context"
	"errors"

	creditDomain "creditbureau-backend/internal/domain/credit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreditRepository struct{ db *gorm.DB }

func NewCreditRepository(db *gorm.DB) *CreditRepository { return &CreditRepository{db: db} }

func historyInOrder(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

// Create inserts the record and its history rows in one statement batch.
func (r *CreditRepository) Create(ctx context.Context, rec *creditDomain.CreditRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *CreditRepository) GetByRecordID(ctx context.Context, recordID string) (*creditDomain.CreditRecord, error) {
	var out creditDomain.CreditRecord
	res := r.db.WithContext(ctx).
		Preload("PaymentHistory", historyInOrder).
		Where("record_id = ?", recordID).
		First(&out)
	return &out, res.Error
}

func (r *CreditRepository) GetByRecordIDForUpdate(ctx context.Context, recordID string) (*creditDomain.CreditRecord, error) {
	var out creditDomain.CreditRecord
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("PaymentHistory", historyInOrder).
		Where("record_id = ?", recordID).
		First(&out)
	return &out, res.Error
}

func (r *CreditRepository) ListByConsumer(ctx context.Context, consumerID string) ([]creditDomain.CreditRecord, error) {
	var out []creditDomain.CreditRecord
	res := r.db.WithContext(ctx).
		Preload("PaymentHistory", historyInOrder).
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *CreditRepository) ListByLender(ctx context.Context, lenderID string) ([]creditDomain.CreditRecord, error) {
	var out []creditDomain.CreditRecord
	res := r.db.WithContext(ctx).
		Preload("PaymentHistory", historyInOrder).
		Where("lender_id = ?", lenderID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// AppendPayment inserts the newest history entry and overwrites payment_status.
// Both writes share a transaction (a savepoint when already inside a UoW).
func (r *CreditRepository) AppendPayment(ctx context.Context, rec *creditDomain.CreditRecord) error {
	if rec.ID == 0 || len(rec.PaymentHistory) == 0 {
		return errors.New("append payment: record is not persisted or has no history")
	}
	last := &rec.PaymentHistory[len(rec.PaymentHistory)-1]
	if last.Status != rec.PaymentStatus {
		return errors.New("append payment: current status does not match last history entry")
	}
	last.RecordID = rec.ID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(last).Error; err != nil {
			return err
		}
		return tx.Model(&creditDomain.CreditRecord{}).
			Where("id = ?", rec.ID).
			Update("payment_status", rec.PaymentStatus).Error
	})
}
