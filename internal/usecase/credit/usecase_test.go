package credit

import (
	"context"
	"errors"
	"testing"
	"time"

	"creditbureau-backend/internal/domain/access"
	"creditbureau-backend/internal/domain/credit"
	"creditbureau-backend/internal/domain/score"
	"creditbureau-backend/internal/domain/uow"
	"creditbureau-backend/internal/domain/user"
	"creditbureau-backend/internal/testutil/creditmock"
	"creditbureau-backend/internal/testutil/uowmock"
	"creditbureau-backend/internal/testutil/usermock"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

const (
	consumerID = "cccccccccccccccccccccccccccccccc"
	lenderID   = "11111111111111111111111111111111"
	lender2ID  = "22222222222222222222222222222222"
	adminID    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
)

var (
	consumerP = &access.Principal{ID: consumerID, Role: user.RoleConsumer}
	lenderP   = &access.Principal{ID: lenderID, Role: user.RoleLender}
	lender2P  = &access.Principal{ID: lender2ID, Role: user.RoleLender}
	adminP    = &access.Principal{ID: adminID, Role: user.RoleAdmin}
	fixedNow  = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func newTestUsecase(credits *creditmock.Repo, users *usermock.Repo) *Usecase {
	logger, _ := logtest.NewNullLogger()
	uc := NewUsecase(credits, users, uowmock.Passthrough(uow.Repos{Users: users, Credits: credits}), logger)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func consumerLookup(role user.Role) func(context.Context, string) (*user.User, error) {
	return func(_ context.Context, id string) (*user.User, error) {
		if id != consumerID {
			return nil, gorm.ErrRecordNotFound
		}
		return &user.User{UserID: consumerID, Role: role, Name: "Casey"}, nil
	}
}

func validCreate() CreateRecordInput {
	return CreateRecordInput{
		ConsumerID: consumerID,
		LoanType:   "Credit Card",
		Amount:     2500,
		DueDate:    fixedNow.AddDate(0, 3, 0),
	}
}

// ----- CreateRecord -----

func TestCreateRecord_Success(t *testing.T) {
	var saved *credit.CreditRecord
	credits := &creditmock.Repo{CreateFn: func(_ context.Context, r *credit.CreditRecord) error {
		saved = r
		return nil
	}}
	users := &usermock.Repo{GetByUserIDFn: consumerLookup(user.RoleConsumer)}
	uc := newTestUsecase(credits, users)

	dto, err := uc.CreateRecord(context.Background(), lenderP, validCreate())
	if err != nil {
		t.Fatalf("CreateRecord err: %v", err)
	}
	if saved == nil {
		t.Fatal("record was not persisted")
	}
	if saved.LenderID != lenderID || saved.ConsumerID != consumerID {
		t.Fatalf("wrong parties: %+v", saved)
	}
	if dto.PaymentStatus != "Outstanding" || len(dto.PaymentHistory) != 1 {
		t.Fatalf("unexpected initial state: %+v", dto)
	}
	if h := dto.PaymentHistory[0]; h.Status != "Outstanding" || h.Amount != 0 || !h.Date.Equal(fixedNow) {
		t.Fatalf("unexpected initial entry: %+v", h)
	}
	if len(dto.ID) != 32 || dto.LoanType != "Credit Card" {
		t.Fatalf("dto = %+v", dto)
	}
}

func TestCreateRecord_Errors(t *testing.T) {
	tests := []struct {
		name    string
		p       *access.Principal
		mutate  func(*CreateRecordInput)
		role    user.Role
		wantErr error
	}{
		{"unauthenticated", nil, nil, user.RoleConsumer, access.ErrNotAuthenticated},
		{"consumer cannot create", consumerP, nil, user.RoleConsumer, access.ErrForbidden},
		{"admin cannot create", adminP, nil, user.RoleConsumer, access.ErrForbidden},
		{"unknown loan type", lenderP, func(in *CreateRecordInput) { in.LoanType = "Yacht" }, user.RoleConsumer, credit.ErrValidation},
		{"zero amount", lenderP, func(in *CreateRecordInput) { in.Amount = 0 }, user.RoleConsumer, credit.ErrValidation},
		{"negative amount", lenderP, func(in *CreateRecordInput) { in.Amount = -5 }, user.RoleConsumer, credit.ErrValidation},
		{"amount too large for storage", lenderP, func(in *CreateRecordInput) { in.Amount = credit.MaxAmount }, user.RoleConsumer, credit.ErrValidation},
		{"missing due date", lenderP, func(in *CreateRecordInput) { in.DueDate = time.Time{} }, user.RoleConsumer, credit.ErrValidation},
		{"consumer missing", lenderP, func(in *CreateRecordInput) { in.ConsumerID = "ffffffffffffffffffffffffffffffff" }, user.RoleConsumer, credit.ErrConsumerNotFound},
		{"target is a lender", lenderP, nil, user.RoleLender, credit.ErrConsumerNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			credits := &creditmock.Repo{CreateFn: func(context.Context, *credit.CreditRecord) error {
				t.Fatal("Create must not be called")
				return nil
			}}
			users := &usermock.Repo{GetByUserIDFn: consumerLookup(tt.role)}
			uc := newTestUsecase(credits, users)

			in := validCreate()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			_, err := uc.CreateRecord(context.Background(), tt.p, in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// ----- listings -----

func TestListForConsumer_AccessAndLenderNames(t *testing.T) {
	recs := []credit.CreditRecord{
		*credit.NewRecord("r1", consumerID, lenderID, credit.LoanAuto, 100, fixedNow, fixedNow),
		*credit.NewRecord("r2", consumerID, lender2ID, credit.LoanHome, 200, fixedNow, fixedNow),
	}
	credits := &creditmock.Repo{ListByConsumerFn: func(_ context.Context, id string) ([]credit.CreditRecord, error) {
		if id != consumerID {
			t.Fatalf("unexpected consumer %q", id)
		}
		return recs, nil
	}}
	users := &usermock.Repo{GetByUserIDsFn: func(_ context.Context, ids []string) ([]user.User, error) {
		if len(ids) != 2 {
			t.Fatalf("want 2 distinct lender ids, got %v", ids)
		}
		return []user.User{{UserID: lenderID, Name: "First Bank"}}, nil
	}}
	uc := newTestUsecase(credits, users)

	for _, p := range []*access.Principal{consumerP, lenderP, lender2P, adminP} {
		out, err := uc.ListForConsumer(context.Background(), p, consumerID)
		if err != nil {
			t.Fatalf("%s: %v", p.Role, err)
		}
		if len(out) != 2 {
			t.Fatalf("%s: rows = %d", p.Role, len(out))
		}
		if out[0].Lender == nil || out[0].Lender.Name != "First Bank" {
			t.Fatalf("lender name missing: %+v", out[0].Lender)
		}
		if out[1].Lender != nil {
			t.Fatalf("unknown lender should stay nil, got %+v", out[1].Lender)
		}
	}

	other := &access.Principal{ID: "dddddddddddddddddddddddddddddddd", Role: user.RoleConsumer}
	if _, err := uc.ListForConsumer(context.Background(), other, consumerID); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("other consumer: want ErrForbidden, got %v", err)
	}
	if _, err := uc.ListForConsumer(context.Background(), nil, consumerID); !errors.Is(err, access.ErrNotAuthenticated) {
		t.Fatalf("anonymous: want ErrNotAuthenticated, got %v", err)
	}
}

func TestListForLender_ScopedToCaller(t *testing.T) {
	credits := &creditmock.Repo{ListByLenderFn: func(_ context.Context, id string) ([]credit.CreditRecord, error) {
		if id != lenderID {
			t.Fatalf("listing must be scoped to the caller, got %q", id)
		}
		return []credit.CreditRecord{*credit.NewRecord("r1", consumerID, lenderID, credit.LoanOther, 10, fixedNow, fixedNow)}, nil
	}}
	users := &usermock.Repo{GetByUserIDsFn: func(context.Context, []string) ([]user.User, error) {
		return []user.User{{UserID: consumerID, Name: "Casey", Email: "casey@x.test", IDNumber: "ID-9"}}, nil
	}}
	uc := newTestUsecase(credits, users)

	out, err := uc.ListForLender(context.Background(), lenderP)
	if err != nil {
		t.Fatalf("ListForLender: %v", err)
	}
	if len(out) != 1 || out[0].Consumer == nil || out[0].Consumer.Email != "casey@x.test" || out[0].Consumer.IDNumber != "ID-9" {
		t.Fatalf("unexpected rows: %+v", out)
	}

	for _, p := range []*access.Principal{consumerP, adminP} {
		if _, err := uc.ListForLender(context.Background(), p); !errors.Is(err, access.ErrForbidden) {
			t.Fatalf("%s: want ErrForbidden, got %v", p.Role, err)
		}
	}
	if _, err := uc.ListForLender(context.Background(), nil); !errors.Is(err, access.ErrNotAuthenticated) {
		t.Fatalf("anonymous: want ErrNotAuthenticated, got %v", err)
	}
}

// ----- UpdateStatus -----

func recordOwnedBy(lender string) func(context.Context, string) (*credit.CreditRecord, error) {
	return func(_ context.Context, id string) (*credit.CreditRecord, error) {
		if id != "rec-1" {
			return nil, gorm.ErrRecordNotFound
		}
		r := credit.NewRecord("rec-1", consumerID, lender, credit.LoanPersonal, 900, fixedNow, fixedNow.Add(-time.Hour))
		r.ID = 42
		return r, nil
	}
}

func TestUpdateStatus_OwnerAppendsHistory(t *testing.T) {
	appended := false
	credits := &creditmock.Repo{
		GetByRecordIDForUpdateFn: recordOwnedBy(lenderID),
		AppendPaymentFn: func(_ context.Context, r *credit.CreditRecord) error {
			appended = true
			last := r.PaymentHistory[len(r.PaymentHistory)-1]
			if r.PaymentStatus != credit.StatusLate || last.Status != credit.StatusLate || last.Amount != 50 {
				t.Fatalf("status/history out of sync: %s %+v", r.PaymentStatus, last)
			}
			return nil
		},
	}
	uc := newTestUsecase(credits, &usermock.Repo{})

	dto, err := uc.UpdateStatus(context.Background(), lenderP, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Late", Amount: 50})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !appended {
		t.Fatal("AppendPayment not called")
	}
	if dto.PaymentStatus != "Late" || len(dto.PaymentHistory) != 2 {
		t.Fatalf("dto = %+v", dto)
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name    string
		p       *access.Principal
		in      UpdateStatusInput
		wantErr error
	}{
		{"unauthenticated", nil, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Paid"}, access.ErrNotAuthenticated},
		{"consumer", consumerP, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Paid"}, access.ErrForbidden},
		{"admin", adminP, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Paid"}, access.ErrForbidden},
		{"other lender", lender2P, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Paid"}, access.ErrForbidden},
		{"missing record", lenderP, UpdateStatusInput{RecordID: "nope", PaymentStatus: "Paid"}, credit.ErrNotFound},
		{"missing record for non-owner", lender2P, UpdateStatusInput{RecordID: "nope", PaymentStatus: "Paid"}, credit.ErrNotFound},
		{"bad status", lenderP, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Settled"}, credit.ErrValidation},
		{"negative amount", lenderP, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Paid", Amount: -1}, credit.ErrValidation},
		{"amount too large", lenderP, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Paid", Amount: 9.3e21}, credit.ErrValidation},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			credits := &creditmock.Repo{
				GetByRecordIDForUpdateFn: recordOwnedBy(lenderID),
				AppendPaymentFn: func(context.Context, *credit.CreditRecord) error {
					t.Fatal("AppendPayment must not be called")
					return nil
				},
			}
			uc := newTestUsecase(credits, &usermock.Repo{})
			_, err := uc.UpdateStatus(context.Background(), tt.p, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// ----- ComputeScore -----

type fakeCache struct {
	gen     int64
	entries map[int64]score.Result
	sets    int
	invals  int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[int64]score.Result{}} }

func (f *fakeCache) Get(_ context.Context, _ string) (*score.Result, int64, error) {
	if r, ok := f.entries[f.gen]; ok {
		return &r, f.gen, nil
	}
	return nil, f.gen, nil
}

func (f *fakeCache) Set(_ context.Context, _ string, gen int64, res score.Result) error {
	f.sets++
	f.entries[gen] = res
	return nil
}

func (f *fakeCache) Invalidate(context.Context, string) error {
	f.invals++
	f.gen++
	return nil
}

type countingObserver struct{ fresh, cached int }

func (o *countingObserver) ObserveScore(_ score.Result, cached bool) {
	if cached {
		o.cached++
	} else {
		o.fresh++
	}
}

func TestComputeScore_ScenarioAndAccess(t *testing.T) {
	outstanding := credit.NewRecord("r1", consumerID, lenderID, credit.LoanHome, 5000, fixedNow, fixedNow)
	paid := credit.NewRecord("r2", consumerID, lenderID, credit.LoanAuto, 2000, fixedNow, fixedNow)
	paid.ApplyStatus(credit.StatusLate, 0, fixedNow)
	paid.ApplyStatus(credit.StatusPaid, 2000, fixedNow)

	credits := &creditmock.Repo{ListByConsumerFn: func(context.Context, string) ([]credit.CreditRecord, error) {
		return []credit.CreditRecord{*outstanding, *paid}, nil
	}}
	uc := newTestUsecase(credits, &usermock.Repo{})

	for _, p := range []*access.Principal{consumerP, lenderP, adminP} {
		res, err := uc.ComputeScore(context.Background(), p, consumerID)
		if err != nil {
			t.Fatalf("%s: %v", p.Role, err)
		}
		if res.Score != 685 || res.Rating != score.RatingGood {
			t.Fatalf("%s: got %+v", p.Role, res)
		}
		want := score.Factors{LatePayments: 1, Defaults: 0, OutstandingDebt: 5000, TotalRecords: 2}
		if res.Factors == nil || *res.Factors != want {
			t.Fatalf("factors = %+v", res.Factors)
		}
	}

	other := &access.Principal{ID: "dddddddddddddddddddddddddddddddd", Role: user.RoleConsumer}
	if _, err := uc.ComputeScore(context.Background(), other, consumerID); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if _, err := uc.ComputeScore(context.Background(), nil, consumerID); !errors.Is(err, access.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestComputeScore_NoHistory(t *testing.T) {
	credits := &creditmock.Repo{ListByConsumerFn: func(context.Context, string) ([]credit.CreditRecord, error) {
		return nil, nil
	}}
	uc := newTestUsecase(credits, &usermock.Repo{})

	res, err := uc.ComputeScore(context.Background(), consumerP, consumerID)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if res.Score != 700 || res.Factors != nil || res.Message != score.NoHistoryMessage {
		t.Fatalf("got %+v", res)
	}
}

func TestComputeScore_CacheHitAndInvalidationOnWrite(t *testing.T) {
	lists := 0
	credits := &creditmock.Repo{
		ListByConsumerFn: func(context.Context, string) ([]credit.CreditRecord, error) {
			lists++
			return []credit.CreditRecord{*credit.NewRecord("r1", consumerID, lenderID, credit.LoanHome, 3000, fixedNow, fixedNow)}, nil
		},
		GetByRecordIDForUpdateFn: recordOwnedBy(lenderID),
	}
	cache := newFakeCache()
	obs := &countingObserver{}
	uc := newTestUsecase(credits, &usermock.Repo{}).WithScoreCache(cache).WithObserver(obs)
	ctx := context.Background()

	first, err := uc.ComputeScore(ctx, consumerP, consumerID)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := uc.ComputeScore(ctx, consumerP, consumerID)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if lists != 1 || first.Score != second.Score {
		t.Fatalf("second call should be served from cache: lists=%d %d/%d", lists, first.Score, second.Score)
	}
	if obs.fresh != 1 || obs.cached != 1 {
		t.Fatalf("observer counts fresh=%d cached=%d", obs.fresh, obs.cached)
	}

	if _, err := uc.UpdateStatus(ctx, lenderP, UpdateStatusInput{RecordID: "rec-1", PaymentStatus: "Paid"}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if cache.invals != 1 {
		t.Fatalf("write must invalidate the score cache, invals=%d", cache.invals)
	}
	if _, err := uc.ComputeScore(ctx, consumerP, consumerID); err != nil {
		t.Fatalf("third: %v", err)
	}
	if lists != 2 {
		t.Fatalf("score after a write must be recomputed, lists=%d", lists)
	}
}
