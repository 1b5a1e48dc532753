package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// Service is one offering listed on the public services page.
type Service struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key returns the service's stable identity for tabular browsing.
func (s Service) Key() string { return s.ID }

// ServiceRepository provides access to service listings.
type ServiceRepository interface {
	Get(ctx context.Context, id string) (*Service, error)

	// List returns all services in display order.
	List(ctx context.Context) ([]Service, error)

	Create(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ ServiceRepository = (*SQLiteServiceRepository)(nil)

// SQLiteServiceRepository implements ServiceRepository using SQLite.
type SQLiteServiceRepository struct {
	db *sql.DB
}

// NewSQLiteServiceRepository creates a ServiceRepository and runs its
// migrations.
func NewSQLiteServiceRepository(ctx context.Context, st *store.Store) (*SQLiteServiceRepository, error) {
	if err := st.Migrate(ctx, "content.services", serviceMigrations); err != nil {
		return nil, fmt.Errorf("service migrations: %w", err)
	}
	return &SQLiteServiceRepository{db: st.DB()}, nil
}

const serviceColumns = `id, title, description, image_url, position, created_at`

func (r *SQLiteServiceRepository) Get(ctx context.Context, id string) (*Service, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service %q: %w", id, err)
	}
	return s, nil
}

func (r *SQLiteServiceRepository) List(ctx context.Context) ([]Service, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		s, err := scanService(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

func (r *SQLiteServiceRepository) Create(ctx context.Context, s *Service) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO services (id, title, description, image_url, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Title, s.Description, nullString(s.ImageURL), s.Position, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

func (r *SQLiteServiceRepository) Update(ctx context.Context, s *Service) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services SET title = ?, description = ?, image_url = ?, position = ? WHERE id = ?`,
		s.Title, s.Description, nullString(s.ImageURL), s.Position, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteServiceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanService(scan func(dest ...any) error) (*Service, error) {
	var s Service
	var imageURL sql.NullString

	err := scan(&s.ID, &s.Title, &s.Description, &imageURL, &s.Position, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		s.ImageURL = imageURL.String
	}
	return &s, nil
}

var serviceMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create services table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE services (
					id          TEXT PRIMARY KEY,
					title       TEXT NOT NULL,
					description TEXT NOT NULL,
					image_url   TEXT,
					position    INTEGER NOT NULL DEFAULT 0,
					created_at  DATETIME NOT NULL
				)`)
			return err
		},
	},
}
