package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// GetByUserIDs is used to attach party names to credit listings; missing ids are skipped.
	GetByUserIDs(ctx context.Context, userIDs []string) ([]User, error)
	// role == "" matches any role
	GetByEmail(ctx context.Context, email string, role Role) (*User, error)
	GetFirstByRole(ctx context.Context, role Role) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListPendingLenders(ctx context.Context) ([]User, error)
	Stats(ctx context.Context) (*Stats, error)
	Delete(ctx context.Context, userID string) error
}
