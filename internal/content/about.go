package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// AboutSection is one block of biography text on the about page. Sections
// render in Position order and each may carry an illustration.
type AboutSection struct {
	ID        string    `json:"id"`
	Heading   string    `json:"heading"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url,omitempty"`
	Position  int       `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the section's stable identity for tabular browsing.
func (s AboutSection) Key() string { return s.ID }

// AboutRepository provides access to about page sections.
type AboutRepository interface {
	Get(ctx context.Context, id string) (*AboutSection, error)

	// List returns all sections in display order.
	List(ctx context.Context) ([]AboutSection, error)

	Create(ctx context.Context, s *AboutSection) error
	Update(ctx context.Context, s *AboutSection) error
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ AboutRepository = (*SQLiteAboutRepository)(nil)

// SQLiteAboutRepository implements AboutRepository using SQLite.
type SQLiteAboutRepository struct {
	db *sql.DB
}

// NewSQLiteAboutRepository creates an AboutRepository and runs its
// migrations.
func NewSQLiteAboutRepository(ctx context.Context, st *store.Store) (*SQLiteAboutRepository, error) {
	if err := st.Migrate(ctx, "content.about", aboutMigrations); err != nil {
		return nil, fmt.Errorf("about migrations: %w", err)
	}
	return &SQLiteAboutRepository{db: st.DB()}, nil
}

const aboutColumns = `id, heading, body, image_url, position, updated_at`

func (r *SQLiteAboutRepository) Get(ctx context.Context, id string) (*AboutSection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+aboutColumns+` FROM about_sections WHERE id = ?`, id)
	s, err := scanAboutSection(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get about section %q: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteAboutRepository) List(ctx context.Context) ([]AboutSection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+aboutColumns+` FROM about_sections ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list about sections: %w", err)
	}
	defer rows.Close()

	var sections []AboutSection
	for rows.Next() {
		s, err := scanAboutSection(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan about section row: %w", err)
		}
		sections = append(sections, *s)
	}
	return sections, rows.Err()
}

func (r *SQLiteAboutRepository) Create(ctx context.Context, s *AboutSection) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO about_sections (id, heading, body, image_url, position, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Heading, s.Body, nullString(s.ImageURL), s.Position, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create about section: %w", err)
	}
	return nil
}

func (r *SQLiteAboutRepository) Update(ctx context.Context, s *AboutSection) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE about_sections SET heading = ?, body = ?, image_url = ?, position = ?, updated_at = ?
		WHERE id = ?`,
		s.Heading, s.Body, nullString(s.ImageURL), s.Position, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update about section: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteAboutRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM about_sections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete about section: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAboutSection(scan func(dest ...any) error) (*AboutSection, error) {
	var s AboutSection
	var imageURL sql.NullString

	err := scan(&s.ID, &s.Heading, &s.Body, &imageURL, &s.Position, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		s.ImageURL = imageURL.String
	}
	return &s, nil
}

var aboutMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create about_sections table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE about_sections (
					id         TEXT PRIMARY KEY,
					heading    TEXT NOT NULL,
					body       TEXT NOT NULL,
					image_url  TEXT,
					position   INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME NOT NULL
				)`)
			return err
		},
	},
}
