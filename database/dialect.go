package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DialectorFunc builds a dialector for a DSN.
type DialectorFunc func(dsn string) gorm.Dialector

// Dialector returns the GORM dialector for a configured driver name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres, "postgresql", "pgx":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
