package credit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"creditbureau-backend/internal/domain/access"
	"creditbureau-backend/internal/domain/credit"
	"creditbureau-backend/internal/domain/score"
	"creditbureau-backend/internal/domain/uow"
	"creditbureau-backend/internal/domain/user"
	"creditbureau-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ScoreCache stores computed scores per consumer. Get returns a nil result on a
// miss together with the generation the caller must hand back to Set; Invalidate
// moves the consumer to a new generation so older entries are never served.
type ScoreCache interface {
	Get(ctx context.Context, consumerID string) (*score.Result, int64, error)
	Set(ctx context.Context, consumerID string, gen int64, res score.Result) error
	Invalidate(ctx context.Context, consumerID string) error
}

type ScoreObserver interface {
	ObserveScore(res score.Result, cached bool)
}

type Usecase struct {
	credits credit.Repository
	users   user.Repository
	uow     uow.UnitOfWork
	cache   ScoreCache
	obs     ScoreObserver
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewUsecase(credits credit.Repository, users user.Repository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	return &Usecase{credits: credits, users: users, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithScoreCache(c ScoreCache) *Usecase { u.cache = c; return u }

func (u *Usecase) WithObserver(o ScoreObserver) *Usecase { u.obs = o; return u }

func validAmount(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (u *Usecase) CreateRecord(ctx context.Context, p *access.Principal, in CreateRecordInput) (*RecordDTO, error) {
	if err := access.Authorize(p, access.OpCreateRecord, access.Target{ConsumerID: in.ConsumerID}); err != nil {
		return nil, err
	}
	lt, err := credit.ParseLoanType(in.LoanType)
	if err != nil {
		return nil, fmt.Errorf("%w: loan type %q", err, in.LoanType)
	}
	if !validAmount(in.Amount) || in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", credit.ErrValidation)
	}
	if in.Amount >= credit.MaxAmount {
		return nil, fmt.Errorf("%w: amount must be less than %.0f", credit.ErrValidation, credit.MaxAmount)
	}
	if in.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", credit.ErrValidation)
	}

	rec := credit.NewRecord(id.NewID32(), in.ConsumerID, p.ID, lt, in.Amount, in.DueDate, u.now())
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Users.GetByUserID(ctx, in.ConsumerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return credit.ErrConsumerNotFound
			}
			return err
		}
		if c.Role != user.RoleConsumer {
			return credit.ErrConsumerNotFound
		}
		return r.Credits.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	u.invalidateScore(ctx, rec.ConsumerID)

	u.log.WithFields(logrus.Fields{
		"record_id":   rec.RecordID,
		"consumer_id": rec.ConsumerID,
		"lender_id":   rec.LenderID,
		"loan_type":   rec.LoanType,
	}).Info("credit record created")

	dto := toRecordDTO(rec)
	return &dto, nil
}

// ListForConsumer returns the consumer's records newest first, each with its lender's name.
func (u *Usecase) ListForConsumer(ctx context.Context, p *access.Principal, consumerID string) ([]RecordDTO, error) {
	if err := access.Authorize(p, access.OpReadConsumerRecords, access.Target{ConsumerID: consumerID}); err != nil {
		return nil, err
	}
	recs, err := u.credits.ListByConsumer(ctx, consumerID)
	if err != nil {
		return nil, err
	}
	parties, err := u.parties(ctx, recs, func(r credit.CreditRecord) string { return r.LenderID })
	if err != nil {
		return nil, err
	}
	out := make([]RecordDTO, 0, len(recs))
	for i := range recs {
		dto := toRecordDTO(&recs[i])
		if l, ok := parties[recs[i].LenderID]; ok {
			dto.Lender = &Party{ID: l.UserID, Name: l.Name}
		}
		out = append(out, dto)
	}
	return out, nil
}

// ListForLender returns the records the calling lender created, each with consumer details.
func (u *Usecase) ListForLender(ctx context.Context, p *access.Principal) ([]RecordDTO, error) {
	if err := access.Authorize(p, access.OpReadLenderRecords, access.Target{}); err != nil {
		return nil, err
	}
	recs, err := u.credits.ListByLender(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	parties, err := u.parties(ctx, recs, func(r credit.CreditRecord) string { return r.ConsumerID })
	if err != nil {
		return nil, err
	}
	out := make([]RecordDTO, 0, len(recs))
	for i := range recs {
		dto := toRecordDTO(&recs[i])
		if c, ok := parties[recs[i].ConsumerID]; ok {
			dto.Consumer = &Party{ID: c.UserID, Name: c.Name, Email: c.Email, IDNumber: c.IDNumber}
		}
		out = append(out, dto)
	}
	return out, nil
}

// UpdateStatus appends a history entry and overwrites the current status in one
// transaction holding the record's row lock. Only the creating lender may do it.
func (u *Usecase) UpdateStatus(ctx context.Context, p *access.Principal, in UpdateStatusInput) (*RecordDTO, error) {
	if err := access.Permits(p, access.OpUpdateStatus); err != nil {
		return nil, err
	}
	status, err := credit.ParsePaymentStatus(in.PaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: payment status %q", err, in.PaymentStatus)
	}
	if !validAmount(in.Amount) || in.Amount < 0 {
		return nil, fmt.Errorf("%w: payment amount must not be negative", credit.ErrValidation)
	}
	if in.Amount >= credit.MaxAmount {
		return nil, fmt.Errorf("%w: payment amount must be less than %.0f", credit.ErrValidation, credit.MaxAmount)
	}

	var updated *credit.CreditRecord
	err = u.uow.WithinRecordTx(ctx, in.RecordID, func(r uow.Repos, rec *credit.CreditRecord) error {
		t := access.Target{ConsumerID: rec.ConsumerID, RecordLender: rec.LenderID}
		if err := access.Authorize(p, access.OpUpdateStatus, t); err != nil {
			return err
		}
		rec.ApplyStatus(status, in.Amount, u.now())
		if err := r.Credits.AppendPayment(ctx, rec); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credit.ErrNotFound
		}
		return nil, err
	}
	u.invalidateScore(ctx, updated.ConsumerID)

	u.log.WithFields(logrus.Fields{
		"record_id": updated.RecordID,
		"lender_id": p.ID,
		"status":    status,
	}).Info("payment status updated")

	dto := toRecordDTO(updated)
	return &dto, nil
}

func (u *Usecase) ComputeScore(ctx context.Context, p *access.Principal, consumerID string) (*score.Result, error) {
	if err := access.Authorize(p, access.OpReadScore, access.Target{ConsumerID: consumerID}); err != nil {
		return nil, err
	}

	var gen int64
	if u.cache != nil {
		cached, g, err := u.cache.Get(ctx, consumerID)
		switch {
		case err != nil:
			u.log.WithError(err).WithField("consumer_id", consumerID).Warn("score cache read failed")
		case cached != nil:
			u.observe(*cached, true)
			return cached, nil
		default:
			gen = g
		}
	}

	recs, err := u.credits.ListByConsumer(ctx, consumerID)
	if err != nil {
		return nil, err
	}
	res := score.Compute(recs)

	if u.cache != nil {
		if err := u.cache.Set(ctx, consumerID, gen, res); err != nil {
			u.log.WithError(err).WithField("consumer_id", consumerID).Warn("score cache write failed")
		}
	}
	u.observe(res, false)
	return &res, nil
}

func (u *Usecase) observe(res score.Result, cached bool) {
	if u.obs != nil {
		u.obs.ObserveScore(res, cached)
	}
}

func (u *Usecase) invalidateScore(ctx context.Context, consumerID string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Invalidate(ctx, consumerID); err != nil {
		u.log.WithError(err).WithField("consumer_id", consumerID).Warn("score cache invalidation failed")
	}
}

// parties loads the users referenced by key(record) in one query.
func (u *Usecase) parties(ctx context.Context, recs []credit.CreditRecord, key func(credit.CreditRecord) string) (map[string]user.User, error) {
	seen := make(map[string]struct{}, len(recs))
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		ids = append(ids, k)
	}
	found, err := u.users.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]user.User, len(found))
	for _, usr := range found {
		out[usr.UserID] = usr
	}
	return out, nil
}
