package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"creditbureau-backend/internal/domain/access"
	"creditbureau-backend/internal/domain/user"
	userUC "creditbureau-backend/internal/usecase/user"
	"creditbureau-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MinPasswordLen = 6

type TokenIssuer interface {
	Mint(userID string, role user.Role) (string, error)
}

type Usecase struct {
	users      user.Repository
	tokens     TokenIssuer
	bcryptCost int
	log        logrus.FieldLogger
}

func NewUsecase(users user.Repository, tokens TokenIssuer, bcryptCost int, log logrus.FieldLogger) *Usecase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Usecase{users: users, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// HashPassword is shared with the admin seeding command.
func HashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Register creates a consumer or lender account and signs it in.
// Lender accounts start unapproved; admin accounts are only created by seeding.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	role, err := user.ParseRole(in.Role)
	if err != nil || role == user.RoleAdmin {
		return nil, fmt.Errorf("%w: role must be consumer or lender", user.ErrValidation)
	}
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	idNumber := strings.TrimSpace(in.IDNumber)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", user.ErrValidation)
	case email == "":
		return nil, fmt.Errorf("%w: email is required", user.ErrValidation)
	case idNumber == "":
		return nil, fmt.Errorf("%w: id number is required", user.ErrValidation)
	case len(in.Password) < MinPasswordLen:
		return nil, fmt.Errorf("%w: password must be at least %d characters", user.ErrValidation, MinPasswordLen)
	}

	if _, err := u.users.GetByEmail(ctx, email, ""); err == nil {
		return nil, user.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password, u.bcryptCost)
	if err != nil {
		return nil, err
	}
	nu := &user.User{
		UserID:       id.NewID32(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IDNumber:     idNumber,
		Role:         role,
		IsApproved:   user.DefaultApproval(role),
	}
	if err := u.users.Create(ctx, nu); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, user.ErrEmailTaken
		}
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"user_id": nu.UserID, "role": role}).Info("user registered")
	return u.session(nu)
}

func (u *Usecase) Login(ctx context.Context, in LoginInput) (*Session, error) {
	found, err := u.users.GetByEmail(ctx, NormalizeEmail(in.Email), "")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(in.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}
	return u.session(found)
}

// Me returns the caller's own account.
func (u *Usecase) Me(ctx context.Context, p *access.Principal) (*userUC.UserDTO, error) {
	if p == nil || p.ID == "" {
		return nil, access.ErrNotAuthenticated
	}
	found, err := u.users.GetByUserID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// token outlived its account
			return nil, access.ErrNotAuthenticated
		}
		return nil, err
	}
	dto := userUC.ToUserDTO(found)
	return &dto, nil
}

func (u *Usecase) session(usr *user.User) (*Session, error) {
	tok, err := u.tokens.Mint(usr.UserID, usr.Role)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	return &Session{Token: tok, User: userUC.ToUserDTO(usr)}, nil
}
