package uowmock

import (
	"context"
	"errors"

	"creditbureau-backend/internal/domain/credit"
	"creditbureau-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinRecordTxFn func(ctx context.Context, recordID string, fn func(r uow.Repos, rec *credit.CreditRecord) error) error
}

// Passthrough runs every callback directly against repos, as a committed tx would.
// WithinRecordTx loads the record through repos.Credits.GetByRecordIDForUpdate.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinRecordTxFn: func(ctx context.Context, recordID string, fn func(uow.Repos, *credit.CreditRecord) error) error {
			rec, err := repos.Credits.GetByRecordIDForUpdate(ctx, recordID)
			if err != nil {
				return err
			}
			return fn(repos, rec)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinRecordTx(ctx context.Context, recordID string, fn func(r uow.Repos, rec *credit.CreditRecord) error) error {
	if m.WithinRecordTxFn != nil {
		return m.WithinRecordTxFn(ctx, recordID, fn)
	}
	return errUnimplemented
}
