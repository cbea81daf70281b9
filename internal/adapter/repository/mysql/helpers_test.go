package mysql

import (
	"testing"
	"time"

	creditDomain "creditbureau-backend/internal/domain/credit"
	userDomain "creditbureau-backend/internal/domain/user"
	"creditbureau-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the domain schema.
// The domain models carry no MySQL-only column types, so they migrate as-is.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every pooled connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&userDomain.User{}, &creditDomain.CreditRecord{}, &creditDomain.PaymentEntry{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeUser(role userDomain.Role, email string) *userDomain.User {
	return &userDomain.User{
		UserID:       id.NewID32(),
		Name:         "User " + email,
		Email:        email,
		PasswordHash: "hash",
		IDNumber:     "ID-" + email,
		Role:         role,
		IsApproved:   userDomain.DefaultApproval(role),
	}
}

func makeRecord(consumerID, lenderID string, amount float64, created time.Time) *creditDomain.CreditRecord {
	return creditDomain.NewRecord(id.NewID32(), consumerID, lenderID, creditDomain.LoanPersonal, amount, created.AddDate(1, 0, 0), created)
}
