// Package repomanager provides a concrete RepositoryManager for the SQL
// backends, wiring together repository constructors and database migrations
// (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/cahierdeveille/internal/dbx"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/migrations"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/cahiers"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/communications"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/indicatifs"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/users"
)

// SQLRepositoryManager vends repository implementations bound to a DBTX and
// runs the migrations matching its dialect.
type SQLRepositoryManager struct {
	dialect string
	dir     string
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// Profiles returns a profiles.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewSQLRepository(db)
}

// Cahiers returns a cahiers.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Cahiers(db dbx.DBTX) cahiers.Repository {
	return cahiers.NewSQLRepository(db)
}

// Communications returns a communications.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Communications(db dbx.DBTX) communications.Repository {
	return communications.NewSQLRepository(db)
}

// Indicatifs returns an indicatifs.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Indicatifs(db dbx.DBTX) indicatifs.Repository {
	return indicatifs.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, m.dir); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for a dbx driver name.
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverPostgres:
		return &SQLRepositoryManager{dialect: "pgx", dir: migrations.PostgresDir}, nil
	case dbx.DriverSQLite:
		return &SQLRepositoryManager{dialect: "sqlite3", dir: migrations.SQLiteDir}, nil
	default:
		return nil, fmt.Errorf("no repository manager for driver %q", driver)
	}
}
