package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DB is the database used by the backend.
var DB *gorm.DB

type MBContext string

const (
	DBContextURL   MBContext = "mb-backend-url"
	DBContextOwner MBContext = "mb-owner-id"
)

// Connect opens the SQLite database, migrates the schema and configures the connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	// Migration runs with foreign keys disabled. sqlite does not support
	// ALTER COLUMN, so gorm copies changed tables to a temporary table
	// and recreates them, which would trigger cascades otherwise.
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Reconnect with foreign keys enabled
	db, err = gorm.Open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection serializes writers and prevents SQLITE_BUSY
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func registerCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().After("*").Register("mirrorbank:after_query", classify); err != nil {
		return err
	}

	if err := db.Callback().Row().After("*").Register("mirrorbank:after_row", classify); err != nil {
		return err
	}

	if err := db.Callback().Create().After("*").Register("mirrorbank:after_create", classify); err != nil {
		return err
	}

	if err := db.Callback().Update().After("*").Register("mirrorbank:after_update", classify); err != nil {
		return err
	}

	return db.Callback().Delete().After("*").Register("mirrorbank:after_delete", classify)
}

var pluralIes = regexp.MustCompile("ies$")

// resourceName derives a human readable resource name from a table name.
func resourceName(table string) string {
	name := strings.ReplaceAll(table, "_", " ")
	name = pluralIes.ReplaceAllString(name, "y")
	return strings.TrimSuffix(name, "s")
}

// classify replaces errors returned by the database with errors of
// one of the package's error kinds.
func classify(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// Already classified, e.g. by a hook
	var k kindError
	if errors.As(db.Error, &k) {
		return
	}

	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, resourceName(db.Statement.Table))
		return
	}

	msg := db.Error.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: budgets."):
		db.Error = ErrBudgetNotUnique
		return
	case strings.Contains(msg, "UNIQUE constraint failed: category_rules."):
		db.Error = ErrCategoryRuleNotUnique
		return
	case strings.Contains(msg, "CHECK constraint failed"):
		db.Error = ErrCheckFailed
		return
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		db.Error = ErrReferenceMissing
		return
	}

	// "sql: database is closed" is hard-coded in database/sql
	var sqliteErr *go_sqlite.Error
	if msg == "sql: database is closed" || errors.As(db.Error, &sqliteErr) {
		log.Error().Msgf("%T: %v", db.Error, msg)
		db.Error = ErrGeneral
		return
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(Account{}, Goal{}, Transaction{}, Budget{}, BudgetAlert{}, Recommendation{}, CategoryRule{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
