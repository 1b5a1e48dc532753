package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// GalleryImage is one photo in the public gallery, ordered by Position.
type GalleryImage struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	ImageURL  string    `json:"image_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the image's stable identity for tabular browsing.
func (g GalleryImage) Key() string { return g.ID }

// GalleryRepository provides access to gallery images.
type GalleryRepository interface {
	Get(ctx context.Context, id string) (*GalleryImage, error)

	// List returns all images ordered by position, then creation time.
	List(ctx context.Context) ([]GalleryImage, error)

	Create(ctx context.Context, img *GalleryImage) error
	Update(ctx context.Context, img *GalleryImage) error
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ GalleryRepository = (*SQLiteGalleryRepository)(nil)

// SQLiteGalleryRepository implements GalleryRepository using SQLite.
type SQLiteGalleryRepository struct {
	db *sql.DB
}

// NewSQLiteGalleryRepository creates a GalleryRepository and runs its
// migrations.
func NewSQLiteGalleryRepository(ctx context.Context, st *store.Store) (*SQLiteGalleryRepository, error) {
	if err := st.Migrate(ctx, "content.gallery", galleryMigrations); err != nil {
		return nil, fmt.Errorf("gallery migrations: %w", err)
	}
	return &SQLiteGalleryRepository{db: st.DB()}, nil
}

const galleryColumns = `id, title, image_url, position, created_at`

func (r *SQLiteGalleryRepository) Get(ctx context.Context, id string) (*GalleryImage, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE id = ?`, id)
	g, err := scanGalleryImage(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get gallery image %q: %w", id, err)
	}
	return g, nil
}

func (r *SQLiteGalleryRepository) List(ctx context.Context) ([]GalleryImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+galleryColumns+` FROM gallery_images ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var images []GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image row: %w", err)
		}
		images = append(images, *g)
	}
	return images, rows.Err()
}

func (r *SQLiteGalleryRepository) Create(ctx context.Context, img *GalleryImage) error {
	if img.ID == "" {
		img.ID = uuid.New().String()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO gallery_images (id, title, image_url, position, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		img.ID, nullString(img.Title), img.ImageURL, img.Position, img.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create gallery image: %w", err)
	}
	return nil
}

func (r *SQLiteGalleryRepository) Update(ctx context.Context, img *GalleryImage) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE gallery_images SET title = ?, image_url = ?, position = ? WHERE id = ?`,
		nullString(img.Title), img.ImageURL, img.Position, img.ID,
	)
	if err != nil {
		return fmt.Errorf("update gallery image: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteGalleryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM gallery_images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanGalleryImage(scan func(dest ...any) error) (*GalleryImage, error) {
	var g GalleryImage
	var title sql.NullString

	err := scan(&g.ID, &title, &g.ImageURL, &g.Position, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	if title.Valid {
		g.Title = title.String
	}
	return &g, nil
}

var galleryMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create gallery_images table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE gallery_images (
					id         TEXT PRIMARY KEY,
					title      TEXT,
					image_url  TEXT NOT NULL,
					position   INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`)
			return err
		},
	},
}
