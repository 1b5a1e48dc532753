package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// Video is one embedded video on the public videos page.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

// Key returns the video's stable identity for tabular browsing.
func (v Video) Key() string { return v.ID }

// VideoRepository provides access to videos.
type VideoRepository interface {
	Get(ctx context.Context, id string) (*Video, error)

	// List returns all videos ordered by position, then creation time.
	List(ctx context.Context) ([]Video, error)

	Create(ctx context.Context, v *Video) error
	Update(ctx context.Context, v *Video) error
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ VideoRepository = (*SQLiteVideoRepository)(nil)

// SQLiteVideoRepository implements VideoRepository using SQLite.
type SQLiteVideoRepository struct {
	db *sql.DB
}

// NewSQLiteVideoRepository creates a VideoRepository and runs its migrations.
func NewSQLiteVideoRepository(ctx context.Context, st *store.Store) (*SQLiteVideoRepository, error) {
	if err := st.Migrate(ctx, "content.videos", videoMigrations); err != nil {
		return nil, fmt.Errorf("video migrations: %w", err)
	}
	return &SQLiteVideoRepository{db: st.DB()}, nil
}

const videoColumns = `id, title, video_url, thumbnail_url, position, created_at`

func (r *SQLiteVideoRepository) Get(ctx context.Context, id string) (*Video, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	v, err := scanVideo(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get video %q: %w", id, err)
	}
	return v, nil
}

func (r *SQLiteVideoRepository) List(ctx context.Context) ([]Video, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+videoColumns+` FROM videos ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []Video
	for rows.Next() {
		v, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

func (r *SQLiteVideoRepository) Create(ctx context.Context, v *Video) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO videos (id, title, video_url, thumbnail_url, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Title, v.VideoURL, nullString(v.ThumbnailURL), v.Position, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

func (r *SQLiteVideoRepository) Update(ctx context.Context, v *Video) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE videos SET title = ?, video_url = ?, thumbnail_url = ?, position = ? WHERE id = ?`,
		v.Title, v.VideoURL, nullString(v.ThumbnailURL), v.Position, v.ID,
	)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteVideoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanVideo(scan func(dest ...any) error) (*Video, error) {
	var v Video
	var thumb sql.NullString

	err := scan(&v.ID, &v.Title, &v.VideoURL, &thumb, &v.Position, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if thumb.Valid {
		v.ThumbnailURL = thumb.String
	}
	return &v, nil
}

var videoMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create videos table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE videos (
					id            TEXT PRIMARY KEY,
					title         TEXT NOT NULL,
					video_url     TEXT NOT NULL,
					thumbnail_url TEXT,
					position      INTEGER NOT NULL DEFAULT 0,
					created_at    DATETIME NOT NULL
				)`)
			return err
		},
	},
}
