package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evanschultz/dragboard/internal/app"
	"github.com/evanschultz/dragboard/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores one board session in SQLite.
type Repository struct {
	db *sql.DB
}

// OpenInMemory opens a private in-memory board store. The board lives until Close.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection to :memory: would get its own empty database.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS board_columns (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			column_name TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_id ON items(id);`,
		`CREATE INDEX IF NOT EXISTS idx_items_column ON items(column_name, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateColumn creates column.
func (r *Repository) CreateColumn(ctx context.Context, c domain.Column) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO board_columns(name, position, created_at)
		VALUES (?, ?, ?)
	`, c.Name, c.Position, ts(c.CreatedAt))
	return err
}

// ListColumns lists columns by position, then creation order.
func (r *Repository) ListColumns(ctx context.Context) ([]domain.Column, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, position, created_at
		FROM board_columns
		ORDER BY position ASC, seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Column{}
	for rows.Next() {
		var (
			c          domain.Column
			createdRaw string
		)
		if err := rows.Scan(&c.Name, &c.Position, &createdRaw); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTS(createdRaw)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateItem appends one item row. Duplicate ids are stored as separate rows.
func (r *Repository) CreateItem(ctx context.Context, item domain.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items(id, column_name, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, item.ID, item.Column, item.Content, ts(item.CreatedAt), ts(item.UpdatedAt))
	return err
}

// MoveItems reassigns every row carrying id. Rows keep their content and sequence.
func (r *Repository) MoveItems(ctx context.Context, id, column string, at time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET column_name = ?, updated_at = ?
		WHERE id = ?
	`, column, ts(at), id)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// ListItems lists every item in insertion order.
func (r *Repository) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, column_name, content, created_at, updated_at
		FROM items
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListItemsByColumn lists the items filed under name in insertion order.
func (r *Repository) ListItemsByColumn(ctx context.Context, name string) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, column_name, content, created_at, updated_at
		FROM items
		WHERE column_name = ?
		ORDER BY seq ASC
	`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanItems(rows)
}

// scanItems drains rows into items.
func scanItems(rows *sql.Rows) ([]domain.Item, error) {
	out := []domain.Item{}
	for rows.Next() {
		var (
			item       domain.Item
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(&item.ID, &item.Column, &item.Content, &createdRaw, &updatedRaw); err != nil {
			return nil, err
		}
		item.CreatedAt = parseTS(createdRaw)
		item.UpdatedAt = parseTS(updatedRaw)
		out = append(out, item)
	}
	return out, rows.Err()
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses a stored timestamp, returning the zero time on malformed input.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

var _ app.Repository = (*Repository)(nil)
