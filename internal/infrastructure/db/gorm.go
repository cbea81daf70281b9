package db

import (
	"fmt"
	"strings"
	"time"

	creditDomain "creditbureau-backend/internal/domain/credit"
	userDomain "creditbureau-backend/internal/domain/user"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Dialector picks the gorm driver for DB_DRIVER.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func OpenGorm(driver, dsn, logLevel string, log logrus.FieldLogger) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := OpenGormWithDialector(dial, gormLogger(logLevel, log))
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY under load
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.WithField("driver", driver).Info("gorm: connected")
	return db, nil
}

// OpenGormWithDialector opens the pool, tunes it and pings once.
// A nil logger silences gorm.
func OpenGormWithDialector(dial gorm.Dialector, lg ...logger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               logger.Discard,
		TranslateError:       true,
		DisableAutomaticPing: true,
	}
	if len(lg) > 0 && lg[0] != nil {
		cfg.Logger = lg[0]
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userDomain.User{}, &creditDomain.CreditRecord{}, &creditDomain.PaymentEntry{})
}

func gormLogger(level string, log logrus.FieldLogger) logger.Interface {
	var lvl logger.LogLevel
	switch strings.ToLower(level) {
	case "debug", "trace":
		lvl = logger.Info
	case "info", "warn", "warning":
		lvl = logger.Warn
	case "error":
		lvl = logger.Error
	default:
		lvl = logger.Silent
	}
	return logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}
