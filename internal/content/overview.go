package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// OverviewItem is one career milestone on the overview timeline, tagged
// with the year it happened.
type OverviewItem struct {
	ID        string    `json:"id"`
	Year      int       `json:"year"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the item's stable identity for tabular browsing.
func (o OverviewItem) Key() string { return o.ID }

// OverviewRepository provides access to overview timeline items.
type OverviewRepository interface {
	Get(ctx context.Context, id string) (*OverviewItem, error)

	// List returns all items newest year first.
	List(ctx context.Context) ([]OverviewItem, error)

	Create(ctx context.Context, o *OverviewItem) error
	Update(ctx context.Context, o *OverviewItem) error
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ OverviewRepository = (*SQLiteOverviewRepository)(nil)

// SQLiteOverviewRepository implements OverviewRepository using SQLite.
type SQLiteOverviewRepository struct {
	db *sql.DB
}

// NewSQLiteOverviewRepository creates an OverviewRepository and runs its
// migrations.
func NewSQLiteOverviewRepository(ctx context.Context, st *store.Store) (*SQLiteOverviewRepository, error) {
	if err := st.Migrate(ctx, "content.overview", overviewMigrations); err != nil {
		return nil, fmt.Errorf("overview migrations: %w", err)
	}
	return &SQLiteOverviewRepository{db: st.DB()}, nil
}

const overviewColumns = `id, year, title, body, created_at`

func (r *SQLiteOverviewRepository) Get(ctx context.Context, id string) (*OverviewItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+overviewColumns+` FROM overview_items WHERE id = ?`, id)
	o, err := scanOverviewItem(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get overview item %q: %w", id, err)
	}
	return o, nil
}

func (r *SQLiteOverviewRepository) List(ctx context.Context) ([]OverviewItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+overviewColumns+` FROM overview_items ORDER BY year DESC, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list overview items: %w", err)
	}
	defer rows.Close()

	var items []OverviewItem
	for rows.Next() {
		o, err := scanOverviewItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan overview item row: %w", err)
		}
		items = append(items, *o)
	}
	return items, rows.Err()
}

func (r *SQLiteOverviewRepository) Create(ctx context.Context, o *OverviewItem) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO overview_items (id, year, title, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Year, o.Title, nullString(o.Body), o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create overview item: %w", err)
	}
	return nil
}

func (r *SQLiteOverviewRepository) Update(ctx context.Context, o *OverviewItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE overview_items SET year = ?, title = ?, body = ? WHERE id = ?`,
		o.Year, o.Title, nullString(o.Body), o.ID,
	)
	if err != nil {
		return fmt.Errorf("update overview item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteOverviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM overview_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete overview item: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOverviewItem(scan func(dest ...any) error) (*OverviewItem, error) {
	var o OverviewItem
	var body sql.NullString

	err := scan(&o.ID, &o.Year, &o.Title, &body, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if body.Valid {
		o.Body = body.String
	}
	return &o, nil
}

var overviewMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create overview_items table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE overview_items (
					id         TEXT PRIMARY KEY,
					year       INTEGER NOT NULL,
					title      TEXT NOT NULL,
					body       TEXT,
					created_at DATETIME NOT NULL
				)`)
			return err
		},
	},
}
