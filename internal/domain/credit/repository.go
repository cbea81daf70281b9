package credit

import "context"

type Repository interface {
	// Create inserts the record together with its initial history.
	Create(ctx context.Context, r *CreditRecord) error
	GetByRecordID(ctx context.Context, recordID string) (*CreditRecord, error)
	// Row-locking read, only meaningful inside a unit of work.
	GetByRecordIDForUpdate(ctx context.Context, recordID string) (*CreditRecord, error)
	// Newest first, history preloaded.
	ListByConsumer(ctx context.Context, consumerID string) ([]CreditRecord, error)
	ListByLender(ctx context.Context, lenderID string) ([]CreditRecord, error)
	// AppendPayment persists the last history entry and the current status together.
	AppendPayment(ctx context.Context, r *CreditRecord) error
}
