package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digit-health/dtoquery/config"
	"github.com/digit-health/dtoquery/logger"
)

func stubOpen(t *testing.T, pingErr error) (*pgx.ConnConfig, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	origOpen, origPing := openPostgresDB, pingPostgresDB
	t.Cleanup(func() {
		openPostgresDB, pingPostgresDB = origOpen, origPing
	})

	captured := &pgx.ConnConfig{}
	openPostgresDB = func(cfg *pgx.ConnConfig) *sql.DB {
		*captured = *cfg
		return db
	}
	pingPostgresDB = func(context.Context, *sql.DB) error {
		return pingErr
	}
	return captured, mock
}

func TestQuoteDSN(t *testing.T) {
	assert.Equal(t, "''", quoteDSN(""))
	assert.Equal(t, "plain_value-1.2", quoteDSN("plain_value-1.2"))
	assert.Equal(t, `'with space'`, quoteDSN("with space"))
	assert.Equal(t, `'it\'s'`, quoteDSN("it's"))
	assert.Equal(t, `'back\\slash'`, quoteDSN(`back\slash`))
}

func TestBuildDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		Username: "app",
		Password: "p@ss word",
		Database: "orders",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db.local port=5432 user=app password='p@ss word' dbname=orders sslmode=disable", BuildDSN(cfg))

	cfg.ConnectionString = "postgres://app@db.local/orders"
	assert.Equal(t, "postgres://app@db.local/orders", BuildDSN(cfg))
}

func TestOpenSuccess(t *testing.T) {
	captured, _ := stubOpen(t, nil)

	db, err := Open(&config.DatabaseConfig{Host: "db.local", Port: 5433, Database: "orders", Username: "app"}, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	assert.Equal(t, "db.local", captured.Host)
	assert.Equal(t, uint16(5433), captured.Port)
	assert.Equal(t, "orders", captured.Database)
}

func TestOpenPingFailureClosesDB(t *testing.T) {
	_, mock := stubOpen(t, errors.New("connection refused"))
	mock.ExpectClose()

	db, err := Open(&config.DatabaseConfig{Host: "db.local", Port: 5432, Database: "orders"}, logger.Nop())
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping PostgreSQL database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenInvalidDSN(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{ConnectionString: "postgres://%zz"}, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse PostgreSQL config")
}
