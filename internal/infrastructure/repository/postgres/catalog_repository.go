package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
	"github.com/kirillkom/portfolio-feed/internal/infrastructure/resilience"
)

const catalogLockID int64 = 2026101701

type CatalogRepository struct {
	db       *sql.DB
	executor *resilience.Executor
}

func NewCatalogRepository(db *sql.DB, executor *resilience.Executor) *CatalogRepository {
	return &CatalogRepository{db: db, executor: executor}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CatalogRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, catalogLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS portfolio_projects (
	source_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	category TEXT NOT NULL,
	location TEXT NOT NULL,
	position INTEGER NOT NULL,
	refreshed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_portfolio_projects_category ON portfolio_projects(category);
CREATE INDEX IF NOT EXISTS idx_portfolio_projects_position ON portfolio_projects(position);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// ReplaceCatalog swaps the whole snapshot in one transaction, keeping the
// loader's order in the position column.
func (r *CatalogRepository) ReplaceCatalog(ctx context.Context, projects []domain.ProjectRecord) error {
	call := func(ctx context.Context) error {
		return r.replaceCatalog(ctx, projects)
	}

	var err error
	if r.executor != nil {
		err = r.executor.Execute(ctx, "postgres.replace_catalog", call, classifyPostgresError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

func (r *CatalogRepository) replaceCatalog(ctx context.Context, projects []domain.ProjectRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, catalogLockID); err != nil {
		return fmt.Errorf("acquire catalog lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM portfolio_projects`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	now := time.Now().UTC()
	for i, p := range projects {
		_, err := tx.ExecContext(ctx, `
INSERT INTO portfolio_projects (source_id, title, category, location, position, refreshed_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, p.SourceID, p.Title, p.Category, p.Location, i, now)
		if err != nil {
			return fmt.Errorf("insert project %s: %w", p.SourceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog tx: %w", err)
	}
	return nil
}

func (r *CatalogRepository) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.ProjectRecord, error) {
	query := `
SELECT source_id, title, category, location
FROM portfolio_projects
`
	args := []any{}
	if filter.Category != "" {
		query += "WHERE category = $1\n"
		args = append(args, filter.Category)
	}
	query += "ORDER BY position ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]domain.ProjectRecord, 0)
	for rows.Next() {
		var p domain.ProjectRecord
		if err := rows.Scan(&p.SourceID, &p.Title, &p.Category, &p.Location); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}
