package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// NewsPost is one dated announcement shown on the public news page.
type NewsPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Key returns the post's stable identity for tabular browsing.
func (p NewsPost) Key() string { return p.ID }

// NewsRepository provides access to news posts.
type NewsRepository interface {
	// Get returns a single post by ID.
	Get(ctx context.Context, id string) (*NewsPost, error)

	// List returns posts, newest first by default.
	List(ctx context.Context, opts ListOptions) (ListResult[NewsPost], error)

	// Create inserts a new post. If post.ID is empty, a UUID is generated.
	Create(ctx context.Context, post *NewsPost) error

	// Update modifies a post's title, body, image, and publish date.
	Update(ctx context.Context, post *NewsPost) error

	// Delete removes a post by ID.
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ NewsRepository = (*SQLiteNewsRepository)(nil)

// SQLiteNewsRepository implements NewsRepository using SQLite.
type SQLiteNewsRepository struct {
	db *sql.DB
}

// NewSQLiteNewsRepository creates a NewsRepository and runs its migrations.
func NewSQLiteNewsRepository(ctx context.Context, st *store.Store) (*SQLiteNewsRepository, error) {
	if err := st.Migrate(ctx, "content.news", newsMigrations); err != nil {
		return nil, fmt.Errorf("news migrations: %w", err)
	}
	return &SQLiteNewsRepository{db: st.DB()}, nil
}

const newsColumns = `id, title, body, image_url, published_at, created_at, updated_at`

var newsSortable = map[string]string{
	"title":        "title",
	"published_at": "published_at",
	"created_at":   "created_at",
}

func (r *SQLiteNewsRepository) Get(ctx context.Context, id string) (*NewsPost, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+newsColumns+` FROM news_posts WHERE id = ?`, id)
	p, err := scanNewsPost(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get news post %q: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteNewsRepository) List(ctx context.Context, opts ListOptions) (ListResult[NewsPost], error) {
	var result ListResult[NewsPost]
	opts = normalizeListOptions(opts, newsSortable, "published_at")

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news_posts`).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("count news posts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM news_posts ORDER BY %s %s LIMIT ? OFFSET ?`,
		newsColumns, opts.SortBy, opts.SortOrder)
	rows, err := r.db.QueryContext(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return result, fmt.Errorf("list news posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanNewsPost(rows.Scan)
		if err != nil {
			return result, fmt.Errorf("scan news post row: %w", err)
		}
		result.Items = append(result.Items, *p)
	}
	return result, rows.Err()
}

func (r *SQLiteNewsRepository) Create(ctx context.Context, post *NewsPost) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.PublishedAt.IsZero() {
		post.PublishedAt = now
	}
	post.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO news_posts (id, title, body, image_url, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Body, nullString(post.ImageURL),
		post.PublishedAt, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create news post: %w", err)
	}
	return nil
}

func (r *SQLiteNewsRepository) Update(ctx context.Context, post *NewsPost) error {
	post.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE news_posts SET title = ?, body = ?, image_url = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		post.Title, post.Body, nullString(post.ImageURL), post.PublishedAt, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return fmt.Errorf("update news post: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteNewsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM news_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete news post: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanNewsPost scans one row using the given scan function, which lets it
// serve both *sql.Row and *sql.Rows.
func scanNewsPost(scan func(dest ...any) error) (*NewsPost, error) {
	var p NewsPost
	var imageURL sql.NullString

	err := scan(&p.ID, &p.Title, &p.Body, &imageURL, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		p.ImageURL = imageURL.String
	}
	return &p, nil
}

// nullString maps "" to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var newsMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create news_posts table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE news_posts (
					id           TEXT PRIMARY KEY,
					title        TEXT NOT NULL,
					body         TEXT NOT NULL,
					image_url    TEXT,
					published_at DATETIME NOT NULL,
					created_at   DATETIME NOT NULL,
					updated_at   DATETIME NOT NULL
				)`)
			return err
		},
	},
	{
		Version:     2,
		Description: "index news_posts on published_at",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX idx_news_published ON news_posts (published_at DESC)`)
			return err
		},
	},
}
