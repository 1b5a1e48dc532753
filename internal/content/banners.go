package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// Banner is one rotating hero banner on the public home page. Only
// banners with Active set appear on the site; the admin sees all of them.
type Banner struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle,omitempty"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url,omitempty"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the banner's stable identity for tabular browsing.
func (b Banner) Key() string { return b.ID }

// BannerRepository provides access to home page banners.
type BannerRepository interface {
	Get(ctx context.Context, id string) (*Banner, error)

	// List returns all banners ordered by position, then creation time.
	List(ctx context.Context) ([]Banner, error)

	// ListActive returns only active banners, in display order.
	ListActive(ctx context.Context) ([]Banner, error)

	Create(ctx context.Context, b *Banner) error
	Update(ctx context.Context, b *Banner) error
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ BannerRepository = (*SQLiteBannerRepository)(nil)

// SQLiteBannerRepository implements BannerRepository using SQLite.
type SQLiteBannerRepository struct {
	db *sql.DB
}

// NewSQLiteBannerRepository creates a BannerRepository and runs its
// migrations.
func NewSQLiteBannerRepository(ctx context.Context, st *store.Store) (*SQLiteBannerRepository, error) {
	if err := st.Migrate(ctx, "content.banners", bannerMigrations); err != nil {
		return nil, fmt.Errorf("banner migrations: %w", err)
	}
	return &SQLiteBannerRepository{db: st.DB()}, nil
}

const bannerColumns = `id, title, subtitle, image_url, link_url, position, active, created_at`

func (r *SQLiteBannerRepository) Get(ctx context.Context, id string) (*Banner, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bannerColumns+` FROM banners WHERE id = ?`, id)
	b, err := scanBanner(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get banner %q: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteBannerRepository) List(ctx context.Context) ([]Banner, error) {
	return r.list(ctx,
		`SELECT `+bannerColumns+` FROM banners ORDER BY position, created_at`)
}

func (r *SQLiteBannerRepository) ListActive(ctx context.Context) ([]Banner, error) {
	return r.list(ctx,
		`SELECT `+bannerColumns+` FROM banners WHERE active = 1 ORDER BY position, created_at`)
}

func (r *SQLiteBannerRepository) list(ctx context.Context, query string) ([]Banner, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var banners []Banner
	for rows.Next() {
		b, err := scanBanner(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan banner row: %w", err)
		}
		banners = append(banners, *b)
	}
	return banners, rows.Err()
}

func (r *SQLiteBannerRepository) Create(ctx context.Context, b *Banner) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO banners (id, title, subtitle, image_url, link_url, position, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, nullString(b.Subtitle), b.ImageURL, nullString(b.LinkURL),
		b.Position, b.Active, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create banner: %w", err)
	}
	return nil
}

func (r *SQLiteBannerRepository) Update(ctx context.Context, b *Banner) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE banners SET title = ?, subtitle = ?, image_url = ?, link_url = ?, position = ?, active = ?
		WHERE id = ?`,
		b.Title, nullString(b.Subtitle), b.ImageURL, nullString(b.LinkURL),
		b.Position, b.Active, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update banner: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteBannerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM banners WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBanner(scan func(dest ...any) error) (*Banner, error) {
	var b Banner
	var subtitle, linkURL sql.NullString

	err := scan(&b.ID, &b.Title, &subtitle, &b.ImageURL, &linkURL, &b.Position, &b.Active, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if subtitle.Valid {
		b.Subtitle = subtitle.String
	}
	if linkURL.Valid {
		b.LinkURL = linkURL.String
	}
	return &b, nil
}

var bannerMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create banners table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE banners (
					id         TEXT PRIMARY KEY,
					title      TEXT NOT NULL,
					subtitle   TEXT,
					image_url  TEXT NOT NULL,
					link_url   TEXT,
					position   INTEGER NOT NULL DEFAULT 0,
					active     BOOLEAN NOT NULL DEFAULT 1,
					created_at DATETIME NOT NULL
				)`)
			return err
		},
	},
}
