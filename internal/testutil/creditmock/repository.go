package creditmock

import (
	"context"
	"errors"

	domain "creditbureau-backend/internal/domain/credit"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("creditmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers succeed silently; unset readers return errUnimplemented.
type Repo struct {
	CreateFn                 func(ctx context.Context, r *domain.CreditRecord) error
	GetByRecordIDFn          func(ctx context.Context, recordID string) (*domain.CreditRecord, error)
	GetByRecordIDForUpdateFn func(ctx context.Context, recordID string) (*domain.CreditRecord, error)
	ListByConsumerFn         func(ctx context.Context, consumerID string) ([]domain.CreditRecord, error)
	ListByLenderFn           func(ctx context.Context, lenderID string) ([]domain.CreditRecord, error)
	AppendPaymentFn          func(ctx context.Context, r *domain.CreditRecord) error
}

func (m *Repo) Create(ctx context.Context, r *domain.CreditRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRecordID(ctx context.Context, recordID string) (*domain.CreditRecord, error) {
	if m.GetByRecordIDFn != nil {
		return m.GetByRecordIDFn(ctx, recordID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByRecordIDForUpdate(ctx context.Context, recordID string) (*domain.CreditRecord, error) {
	if m.GetByRecordIDForUpdateFn != nil {
		return m.GetByRecordIDForUpdateFn(ctx, recordID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByConsumer(ctx context.Context, consumerID string) ([]domain.CreditRecord, error) {
	if m.ListByConsumerFn != nil {
		return m.ListByConsumerFn(ctx, consumerID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListByLender(ctx context.Context, lenderID string) ([]domain.CreditRecord, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, lenderID)
	}
	return nil, errUnimplemented
}

func (m *Repo) AppendPayment(ctx context.Context, r *domain.CreditRecord) error {
	if m.AppendPaymentFn != nil {
		return m.AppendPaymentFn(ctx, r)
	}
	return nil
}
