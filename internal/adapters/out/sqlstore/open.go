package sqlstore

import (
	"fmt"
	"strings"

	"dispatch/internal/adapters/out/sqlstore/orderrepo"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values of the driver argument to Open.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Open connects to the database behind dsn with the dialector for driver
// and migrates the order schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables used by the order store.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&orderrepo.OrderDTO{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// NewOrderReader returns a repository outside any unit of work for query handlers.
func NewOrderReader(db *gorm.DB) *orderrepo.GormOrderRepository {
	return orderrepo.NewGormOrderRepository(db, nil)
}
