package database

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/digit-health/dtoquery/config"
	"github.com/digit-health/dtoquery/database/oracle"
	"github.com/digit-health/dtoquery/database/postgresql"
	"github.com/digit-health/dtoquery/logger"
)

var (
	openPostgreSQL = postgresql.Open
	openOracle     = oracle.Open
)

// Open creates a connection pool according to cfg. The driver is selected by
// cfg.Type (supported: "postgresql", "oracle"). A configuration without any
// database settings returns an error satisfying config.IsNotConfigured.
func Open(cfg *config.DatabaseConfig, log logger.Logger) (*sql.DB, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg == nil || !config.IsDatabaseConfigured(cfg) {
		return nil, config.NewNotConfiguredError("database", "database.type")
	}

	switch cfg.Type {
	case PostgreSQL:
		return openPostgreSQL(cfg, log)
	case Oracle:
		return openOracle(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database type: %s (supported: postgresql, oracle)", cfg.Type)
	}
}

// OpenTemplate opens the configured database and returns a NamedTemplate over it.
// The caller owns the returned *sql.DB.
func OpenTemplate(cfg *config.Config, log logger.Logger, opts ...TemplateOption) (*NamedTemplate, *sql.DB, error) {
	db, err := Open(&cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	return NewNamedTemplateFromConfig(db, cfg, log, opts...), db, nil
}

// ValidateDatabaseType returns nil if dbType is one of the supported database types.
func ValidateDatabaseType(dbType string) error {
	supportedTypes := GetSupportedDatabaseTypes()
	if !slices.Contains(supportedTypes, dbType) {
		return fmt.Errorf("unsupported database type: %s (supported: %v)", dbType, supportedTypes)
	}
	return nil
}

// GetSupportedDatabaseTypes returns a list of supported database types
func GetSupportedDatabaseTypes() []string {
	return []string{PostgreSQL, Oracle}
}
