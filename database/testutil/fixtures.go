package testutil

import (
	"fmt"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoadFixture inserts rows into a table. Each map is one row.
func LoadFixture(db *gorm.DB, table string, rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := db.Table(table).Create(row).Error; err != nil {
			return fmt.Errorf("failed to insert fixture row into %s: %w", table, err)
		}
	}
	return nil
}

// MustLoadFixture loads rows and fails the test on error.
func MustLoadFixture(t testing.TB, db *gorm.DB, table string, rows []map[string]interface{}) {
	t.Helper()
	if err := LoadFixture(db, table, rows); err != nil {
		t.Fatalf("LoadFixture failed: %v", err)
	}
}

// MustCreate persists records and fails the test on error.
func MustCreate(t testing.TB, db *gorm.DB, records ...interface{}) {
	t.Helper()
	for _, r := range records {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("create %T failed: %v", r, err)
		}
	}
}

// TruncateTable removes all rows from a table.
func TruncateTable(db *gorm.DB, table string) error {
	return db.Exec("DELETE FROM ?", clause.Table{Name: table}).Error
}

// TruncateAllTables removes all rows from all tables in the database.
func TruncateAllTables(db *gorm.DB) error {
	tables, err := GetTableNames(db)
	if err != nil {
		return err
	}
	for _, table := range tables {
		if err := TruncateTable(db, table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// GetTableNames returns all non-system SQLite tables.
func GetTableNames(db *gorm.DB) ([]string, error) {
	var tables []string
	err := db.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").
		Scan(&tables).Error
	return tables, err
}

// CountRows returns the number of rows in a table.
func CountRows(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Table(table).Count(&count).Error
	return count, err
}

// AssertRowCount fails the test if the table doesn't have the expected row count.
func AssertRowCount(t testing.TB, db *gorm.DB, table string, expected int64) {
	t.Helper()
	count, err := CountRows(db, table)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("table %s row count = %d, want %d", table, count, expected)
	}
}
