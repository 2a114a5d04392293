package postgres

import (
	"time"

	"github.com/dementia-care/backend/internal/domain"
	"github.com/dementia-care/backend/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by this service in migration order.
var Models = []interface{}{
	&domain.Account{},
	&domain.PatientRecord{},
	&domain.BlacklistedToken{},
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Auto-migrate tables
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

// NewRepositories wires the gorm-backed store. The blacklist defaults to
// the blacklisted_tokens table; callers may swap in another backend.
func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Account:   NewAccountRepository(db),
		Patient:   NewPatientRecordRepository(db),
		Blacklist: NewTokenBlacklistRepository(db),
		Tx:        NewTransactor(db),
	}
}
