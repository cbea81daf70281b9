package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"creditbureau-backend/internal/domain/access"
	"creditbureau-backend/internal/domain/user"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Usecase holds the account administration operations.
type Usecase struct {
	users user.Repository
	log   logrus.FieldLogger
}

func NewUsecase(users user.Repository, log logrus.FieldLogger) *Usecase {
	return &Usecase{users: users, log: log}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.ErrNotFound
	}
	return err
}

func (u *Usecase) List(ctx context.Context, p *access.Principal) ([]UserDTO, error) {
	if err := access.Authorize(p, access.OpListUsers, access.Target{}); err != nil {
		return nil, err
	}
	us, err := u.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(us), nil
}

func (u *Usecase) Stats(ctx context.Context, p *access.Principal) (*user.Stats, error) {
	if err := access.Authorize(p, access.OpUserStats, access.Target{}); err != nil {
		return nil, err
	}
	return u.users.Stats(ctx)
}

func (u *Usecase) PendingLenders(ctx context.Context, p *access.Principal) ([]UserDTO, error) {
	if err := access.Authorize(p, access.OpPendingLenders, access.Target{}); err != nil {
		return nil, err
	}
	us, err := u.users.ListPendingLenders(ctx)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(us), nil
}

// ApproveLender marks a lender account approved. Approving twice is a no-op.
func (u *Usecase) ApproveLender(ctx context.Context, p *access.Principal, userID string) (*UserDTO, error) {
	if err := access.Authorize(p, access.OpApproveLender, access.Target{}); err != nil {
		return nil, err
	}
	target, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	if target.Role != user.RoleLender {
		return nil, user.ErrNotLender
	}
	if !target.IsApproved {
		target.IsApproved = true
		if err := u.users.Save(ctx, target); err != nil {
			return nil, err
		}
		u.log.WithFields(logrus.Fields{"user_id": target.UserID, "admin_id": p.ID}).Info("lender approved")
	}
	dto := ToUserDTO(target)
	return &dto, nil
}

func (u *Usecase) Delete(ctx context.Context, p *access.Principal, userID string) error {
	if err := access.Authorize(p, access.OpDeleteUser, access.Target{}); err != nil {
		return err
	}
	if err := u.users.Delete(ctx, userID); err != nil {
		return notFound(err)
	}
	u.log.WithFields(logrus.Fields{"user_id": userID, "admin_id": p.ID}).Info("user deleted")
	return nil
}

// Search finds one user by exact email, optionally restricted to a role.
// Lenders use it to look up a consumer before creating a record.
func (u *Usecase) Search(ctx context.Context, p *access.Principal, in SearchInput) (*UserDTO, error) {
	if err := access.Authorize(p, access.OpSearchUser, access.Target{}); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", user.ErrValidation)
	}
	var role user.Role
	if in.Role != "" {
		r, err := user.ParseRole(in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: role %q", err, in.Role)
		}
		role = r
	}
	found, err := u.users.GetByEmail(ctx, email, role)
	if err != nil {
		return nil, notFound(err)
	}
	dto := ToUserDTO(found)
	return &dto, nil
}
