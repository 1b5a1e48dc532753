package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/limelightcms/limelight/internal/store"
)

// Certificate is one award or diploma shown on the certificates page.
type Certificate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	IssuedBy  string    `json:"issued_by,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the certificate's stable identity for tabular browsing.
func (c Certificate) Key() string { return c.ID }

// CertificateRepository provides access to certificates.
type CertificateRepository interface {
	Get(ctx context.Context, id string) (*Certificate, error)
	List(ctx context.Context, opts ListOptions) (ListResult[Certificate], error)
	Create(ctx context.Context, cert *Certificate) error
	Update(ctx context.Context, cert *Certificate) error
	Delete(ctx context.Context, id string) error
}

// Compile-time interface guard.
var _ CertificateRepository = (*SQLiteCertificateRepository)(nil)

// SQLiteCertificateRepository implements CertificateRepository using SQLite.
type SQLiteCertificateRepository struct {
	db *sql.DB
}

// NewSQLiteCertificateRepository creates a CertificateRepository and runs
// its migrations.
func NewSQLiteCertificateRepository(ctx context.Context, st *store.Store) (*SQLiteCertificateRepository, error) {
	if err := st.Migrate(ctx, "content.certificates", certificateMigrations); err != nil {
		return nil, fmt.Errorf("certificate migrations: %w", err)
	}
	return &SQLiteCertificateRepository{db: st.DB()}, nil
}

const certificateColumns = `id, title, image_url, issued_by, issued_at, created_at`

var certificateSortable = map[string]string{
	"title":     "title",
	"issued_at": "issued_at",
}

func (r *SQLiteCertificateRepository) Get(ctx context.Context, id string) (*Certificate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE id = ?`, id)
	c, err := scanCertificate(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get certificate %q: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteCertificateRepository) List(ctx context.Context, opts ListOptions) (ListResult[Certificate], error) {
	var result ListResult[Certificate]
	opts = normalizeListOptions(opts, certificateSortable, "issued_at")

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM certificates`).Scan(&result.Total); err != nil {
		return result, fmt.Errorf("count certificates: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM certificates ORDER BY %s %s LIMIT ? OFFSET ?`,
		certificateColumns, opts.SortBy, opts.SortOrder)
	rows, err := r.db.QueryContext(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return result, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCertificate(rows.Scan)
		if err != nil {
			return result, fmt.Errorf("scan certificate row: %w", err)
		}
		result.Items = append(result.Items, *c)
	}
	return result, rows.Err()
}

func (r *SQLiteCertificateRepository) Create(ctx context.Context, cert *Certificate) error {
	if cert.ID == "" {
		cert.ID = uuid.New().String()
	}
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = time.Now().UTC()
	}
	if cert.IssuedAt.IsZero() {
		cert.IssuedAt = cert.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO certificates (id, title, image_url, issued_by, issued_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cert.ID, cert.Title, cert.ImageURL, nullString(cert.IssuedBy), cert.IssuedAt, cert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create certificate: %w", err)
	}
	return nil
}

func (r *SQLiteCertificateRepository) Update(ctx context.Context, cert *Certificate) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE certificates SET title = ?, image_url = ?, issued_by = ?, issued_at = ?
		WHERE id = ?`,
		cert.Title, cert.ImageURL, nullString(cert.IssuedBy), cert.IssuedAt, cert.ID,
	)
	if err != nil {
		return fmt.Errorf("update certificate: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteCertificateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM certificates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCertificate(scan func(dest ...any) error) (*Certificate, error) {
	var c Certificate
	var issuedBy sql.NullString

	err := scan(&c.ID, &c.Title, &c.ImageURL, &issuedBy, &c.IssuedAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if issuedBy.Valid {
		c.IssuedBy = issuedBy.String
	}
	return &c, nil
}

var certificateMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create certificates table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE certificates (
					id         TEXT PRIMARY KEY,
					title      TEXT NOT NULL,
					image_url  TEXT NOT NULL,
					issued_by  TEXT,
					issued_at  DATETIME NOT NULL,
					created_at DATETIME NOT NULL
				)`)
			return err
		},
	},
}
