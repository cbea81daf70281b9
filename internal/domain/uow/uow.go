package uow

import (
	"context"

	"creditbureau-backend/internal/domain/credit"
	"creditbureau-backend/internal/domain/user"
)

type Repos struct {
	Users   user.Repository
	Credits credit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the credit record first, then pass it in
	WithinRecordTx(ctx context.Context, recordID string, fn func(r Repos, rec *credit.CreditRecord) error) error
}
