// Package auth provides admin account storage, password hashing, JWT
// sessions, login rate limiting, and optional TOTP second factors for the
// back office.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/limelightcms/limelight/internal/store"
)

// Sentinel errors returned by the auth layer.
var (
	ErrNotFound           = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTOTPRequired       = errors.New("totp code required")
)

// Account is an admin back-office user.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialized to JSON.
	Role         string    `json:"role"`
	TOTPSecret   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login,omitempty"`
	Disabled     bool      `json:"disabled"`
}

// AccountRepository provides access to admin accounts.
type AccountRepository interface {
	Get(ctx context.Context, id string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateTOTPSecret(ctx context.Context, id, secret string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Compile-time interface guard.
var _ AccountRepository = (*SQLiteAccountRepository)(nil)

// SQLiteAccountRepository implements AccountRepository using SQLite.
type SQLiteAccountRepository struct {
	db *sql.DB
}

// NewSQLiteAccountRepository creates an AccountRepository and runs its
// migrations.
func NewSQLiteAccountRepository(ctx context.Context, st *store.Store) (*SQLiteAccountRepository, error) {
	if err := st.Migrate(ctx, "auth", accountMigrations); err != nil {
		return nil, fmt.Errorf("auth migrations: %w", err)
	}
	return &SQLiteAccountRepository{db: st.DB()}, nil
}

const accountColumns = `id, username, email, password_hash, role, totp_secret,
	created_at, last_login, disabled`

func (r *SQLiteAccountRepository) Get(ctx context.Context, id string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM auth_accounts WHERE id = ?`, id)
	a, err := scanAccount(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account %q: %w", id, err)
	}
	return a, nil
}

func (r *SQLiteAccountRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM auth_accounts WHERE username = ?`, username)
	a, err := scanAccount(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account by username %q: %w", username, err)
	}
	return a, nil
}

func (r *SQLiteAccountRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM auth_accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteAccountRepository) Create(ctx context.Context, a *Account) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.Role == "" {
		a.Role = "editor"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_accounts (id, username, email, password_hash, role, totp_secret, created_at, disabled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.PasswordHash, a.Role,
		nullableString(a.TOTPSecret), a.CreatedAt, a.Disabled,
	)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *SQLiteAccountRepository) Update(ctx context.Context, a *Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE auth_accounts SET email = ?, role = ?, disabled = ? WHERE id = ?`,
		a.Email, a.Role, a.Disabled, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth_accounts SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteAccountRepository) UpdateTOTPSecret(ctx context.Context, id, secret string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE auth_accounts SET totp_secret = ? WHERE id = ?`,
		nullableString(secret), id,
	)
	if err != nil {
		return fmt.Errorf("update totp secret: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteAccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auth_accounts SET last_login = ? WHERE id = ?`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *SQLiteAccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteAccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auth_accounts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func scanAccount(scan func(dest ...any) error) (*Account, error) {
	var a Account
	var totpSecret sql.NullString
	var lastLogin sql.NullTime

	err := scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
		&totpSecret, &a.CreatedAt, &lastLogin, &a.Disabled)
	if err != nil {
		return nil, err
	}
	if totpSecret.Valid {
		a.TOTPSecret = totpSecret.String
	}
	if lastLogin.Valid {
		a.LastLogin = lastLogin.Time
	}
	return &a, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// HashPassword hashes a plaintext password with bcrypt at default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var accountMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create auth_accounts table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE auth_accounts (
					id            TEXT PRIMARY KEY,
					username      TEXT NOT NULL UNIQUE,
					email         TEXT NOT NULL,
					password_hash TEXT NOT NULL,
					role          TEXT NOT NULL DEFAULT 'editor',
					totp_secret   TEXT,
					created_at    DATETIME NOT NULL,
					last_login    DATETIME,
					disabled      BOOLEAN NOT NULL DEFAULT 0
				)`)
			return err
		},
	},
}
