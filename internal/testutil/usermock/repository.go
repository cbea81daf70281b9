package usermock

import (
	"context"
	"errors"

	domain "creditbureau-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("usermock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers succeed silently; unset readers return errUnimplemented.
type Repo struct {
	CreateFn             func(ctx context.Context, u *domain.User) error
	SaveFn               func(ctx context.Context, u *domain.User) error
	GetByUserIDFn        func(ctx context.Context, userID string) (*domain.User, error)
	GetByUserIDsFn       func(ctx context.Context, userIDs []string) ([]domain.User, error)
	GetByEmailFn         func(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	GetFirstByRoleFn     func(ctx context.Context, role domain.Role) (*domain.User, error)
	ListFn               func(ctx context.Context) ([]domain.User, error)
	ListPendingLendersFn func(ctx context.Context) ([]domain.User, error)
	StatsFn              func(ctx context.Context) (*domain.Stats, error)
	DeleteFn             func(ctx context.Context, userID string) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, errUnimplemented
}

// Unset GetByUserIDs returns no users, so listings simply lack party names.
func (m *Repo) GetByUserIDs(ctx context.Context, userIDs []string) ([]domain.User, error) {
	if m.GetByUserIDsFn != nil {
		return m.GetByUserIDsFn(ctx, userIDs)
	}
	return nil, nil
}

func (m *Repo) GetByEmail(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email, role)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetFirstByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	if m.GetFirstByRoleFn != nil {
		return m.GetFirstByRoleFn(ctx, role)
	}
	return nil, errUnimplemented
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) ListPendingLenders(ctx context.Context) ([]domain.User, error) {
	if m.ListPendingLendersFn != nil {
		return m.ListPendingLendersFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}
	return nil, errUnimplemented
}

func (m *Repo) Delete(ctx context.Context, userID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID)
	}
	return nil
}
