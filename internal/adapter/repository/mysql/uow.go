package mysql

import (
	"context"

	"creditbureau-backend/internal/domain/credit"
	"creditbureau-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:   &UserRepository{db: tx},
		Credits: &CreditRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinRecordTx(ctx context.Context, recordID string, fn func(r uow.Repos, rec *credit.CreditRecord) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the record row up-front so concurrent status updates serialize
		rec, err := r.Credits.GetByRecordIDForUpdate(ctx, recordID)
		if err != nil {
			return err
		}
		return fn(r, rec)
	})
}
