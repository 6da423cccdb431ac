package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digit-health/dtoquery/config"
	"github.com/digit-health/dtoquery/logger"
)

func stubOpeners(t *testing.T) (*sql.DB, *[]string) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	var calls []string
	origPG, origOra := openPostgreSQL, openOracle
	openPostgreSQL = func(*config.DatabaseConfig, logger.Logger) (*sql.DB, error) {
		calls = append(calls, PostgreSQL)
		return db, nil
	}
	openOracle = func(*config.DatabaseConfig, logger.Logger) (*sql.DB, error) {
		calls = append(calls, Oracle)
		return db, nil
	}

	t.Cleanup(func() {
		openPostgreSQL, openOracle = origPG, origOra
		mock.ExpectClose()
		_ = db.Close()
	})
	return db, &calls
}

func TestOpenDispatchesByType(t *testing.T) {
	db, calls := stubOpeners(t)

	got, err := Open(&config.DatabaseConfig{Type: PostgreSQL, Host: "localhost", Port: 5432, Database: "d"}, nil)
	require.NoError(t, err)
	assert.Same(t, db, got)

	_, err = Open(&config.DatabaseConfig{Type: Oracle, Host: "localhost", Port: 1521, ServiceName: "XE"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{PostgreSQL, Oracle}, *calls)
}

func TestOpenNotConfigured(t *testing.T) {
	_, calls := stubOpeners(t)

	_, err := Open(nil, nil)
	assert.True(t, config.IsNotConfigured(err))

	_, err = Open(&config.DatabaseConfig{}, nil)
	assert.True(t, config.IsNotConfigured(err))
	assert.Contains(t, err.Error(), "DTOQUERY_DATABASE_TYPE")

	assert.Empty(t, *calls)
}

func TestOpenUnsupportedType(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Type: "mysql", Host: "localhost"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type: mysql")
	assert.False(t, config.IsNotConfigured(err))
}

func TestOpenPropagatesDriverError(t *testing.T) {
	orig := openPostgreSQL
	t.Cleanup(func() { openPostgreSQL = orig })
	boom := errors.New("connection refused")
	openPostgreSQL = func(*config.DatabaseConfig, logger.Logger) (*sql.DB, error) { return nil, boom }

	_, err := Open(&config.DatabaseConfig{Type: PostgreSQL, Host: "localhost", Port: 5432, Database: "d"}, nil)

	assert.ErrorIs(t, err, boom)
}

func TestOpenTemplate(t *testing.T) {
	db, _ := stubOpeners(t)
	cfg := &config.Config{
		Query:    config.QueryConfig{Update: config.UpdateConfig{Unguarded: true}},
		Database: config.DatabaseConfig{Type: Oracle, Host: "db", Port: 1521, SID: "ORCL"},
	}

	tmpl, got, err := OpenTemplate(cfg, nil)

	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, Oracle, tmpl.Builder().Vendor())

	query, err := tmpl.Builder().Update(&household{Name: ptr("Doe")})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE household SET name=:name", query)
}

func TestOpenTemplateNotConfigured(t *testing.T) {
	tmpl, db, err := OpenTemplate(&config.Config{}, nil)

	assert.Nil(t, tmpl)
	assert.Nil(t, db)
	assert.True(t, config.IsNotConfigured(err))
}

func TestValidateDatabaseType(t *testing.T) {
	assert.NoError(t, ValidateDatabaseType(PostgreSQL))
	assert.NoError(t, ValidateDatabaseType(Oracle))
	assert.ErrorContains(t, ValidateDatabaseType("mongodb"), "unsupported database type: mongodb")
	assert.Equal(t, []string{"postgresql", "oracle"}, GetSupportedDatabaseTypes())
}
