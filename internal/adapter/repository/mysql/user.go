package mysql

import (
	"context"

	userDomain "creditbureau-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByUserIDs(ctx context.Context, userIDs []string) ([]userDomain.User, error) {
	var out []userDomain.User
	if len(userIDs) == 0 {
		return out, nil
	}
	res := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&out)
	return out, res.Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, role userDomain.Role) (*userDomain.User, error) {
	var out userDomain.User
	q := r.db.WithContext(ctx).Where("email = ?", email)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	res := q.First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetFirstByRole(ctx context.Context, role userDomain.Role) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").First(&out)
	return &out, res.Error
}

func (r *UserRepository) List(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	res := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

func (r *UserRepository) ListPendingLenders(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	res := r.db.WithContext(ctx).
		Where("role = ? AND is_approved = ?", userDomain.RoleLender, false).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *UserRepository) Stats(ctx context.Context) (*userDomain.Stats, error) {
	var s userDomain.Stats
	m := func() *gorm.DB { return r.db.WithContext(ctx).Model(&userDomain.User{}) }
	if err := m().Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := m().Where("role = ?", userDomain.RoleConsumer).Count(&s.TotalConsumers).Error; err != nil {
		return nil, err
	}
	if err := m().Where("role = ?", userDomain.RoleLender).Count(&s.TotalLenders).Error; err != nil {
		return nil, err
	}
	if err := m().Where("role = ? AND is_approved = ?", userDomain.RoleLender, false).Count(&s.PendingApprovals).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete soft-deletes; returns gorm.ErrRecordNotFound when nothing matched.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&userDomain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
