package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/akarpovs/filedepot/internal/server/migrations"
	"github.com/akarpovs/filedepot/internal/server/repositories/nodes"
	"github.com/akarpovs/filedepot/internal/server/repositories/users"
)

// PostgresManager owns the database handle and the repositories built on it.
type PostgresManager struct {
	db    *sql.DB
	users users.Repository
	nodes nodes.Repository
}

func (m *PostgresManager) Users() users.Repository { return m.users }
func (m *PostgresManager) Nodes() nodes.Repository { return m.nodes }
func (m *PostgresManager) Close() error            { return m.db.Close() }

func (m *PostgresManager) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

// NewPostgresManager opens the database, runs the embedded migrations, and
// builds the repositories.
func NewPostgresManager(ctx context.Context, dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{
		db:    db,
		users: users.NewPostgresRepository(db),
		nodes: nodes.NewPostgresRepository(db),
	}

	if err := m.runMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}
