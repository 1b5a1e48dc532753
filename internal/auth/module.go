package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/limelightcms/limelight/internal/config"
	"github.com/limelightcms/limelight/internal/module"
	"github.com/limelightcms/limelight/internal/server"
	"github.com/limelightcms/limelight/internal/store"
)

// Compile-time interface checks.
var (
	_ module.Module         = (*Auth)(nil)
	_ module.EventPublisher = (*Auth)(nil)
	_ SessionProvider       = (*Auth)(nil)
)

// Auth is the authentication module. It owns the account table, issues
// sessions for the admin back office, and publishes auth.* events.
type Auth struct {
	store    *store.Store
	logger   *zap.Logger
	bus      module.EventBus
	accounts AccountRepository
	sessions SessionProvider
	limiter  *LoginLimiter
	issuer   string
}

// New creates the auth module backed by the given store.
func New(st *store.Store) *Auth {
	return &Auth{store: st}
}

func (a *Auth) Name() string    { return "auth" }
func (a *Auth) Version() string { return "1.0.0" }

// SetBus wires the event bus before Init.
func (a *Auth) SetBus(bus module.EventBus) { a.bus = bus }

// Sessions exposes the session provider for other modules' route guards.
func (a *Auth) Sessions() SessionProvider { return a.sessions }

// Accounts exposes the account repository for the bootstrap path that
// creates the first admin user.
func (a *Auth) Accounts() AccountRepository { return a.accounts }

// Auth also implements SessionProvider by delegating to the provider
// created during Init. This lets other modules be constructed with the
// auth module before any Init has run.

func (a *Auth) Issue(account *Account) (string, error) {
	if a.sessions == nil {
		return "", errors.New("auth module not initialized")
	}
	return a.sessions.Issue(account)
}

func (a *Auth) Verify(token string) (*Session, error) {
	if a.sessions == nil {
		return nil, ErrTokenInvalid
	}
	return a.sessions.Verify(token)
}

func (a *Auth) Subscribe(fn func(*Session)) func() {
	if a.sessions == nil {
		return func() {}
	}
	return a.sessions.Subscribe(fn)
}

func (a *Auth) Init(cfg *config.Config, logger *zap.Logger) error {
	a.logger = logger

	secret := cfg.GetString("modules.auth.session_secret")
	if secret == "" {
		return errors.New("modules.auth.session_secret is required")
	}
	ttl := cfg.GetDuration("modules.auth.session_ttl")
	a.sessions = NewJWTSessionProvider(secret, ttl)

	perSecond := 0.5
	burst := 5
	if cfg.IsSet("modules.auth.login_rate") {
		perSecond = float64(cfg.GetInt("modules.auth.login_rate"))
	}
	if cfg.IsSet("modules.auth.login_burst") {
		burst = cfg.GetInt("modules.auth.login_burst")
	}
	a.limiter = NewLoginLimiter(perSecond, burst)

	a.issuer = cfg.GetString("modules.auth.totp_issuer")
	if a.issuer == "" {
		a.issuer = "Limelight"
	}

	repo, err := NewSQLiteAccountRepository(context.Background(), a.store)
	if err != nil {
		return fmt.Errorf("init auth repository: %w", err)
	}
	a.accounts = repo

	a.logger.Info("auth module initialized")
	return nil
}

func (a *Auth) Start(ctx context.Context) error { return nil }
func (a *Auth) Stop() error                     { return nil }

func (a *Auth) Routes() []module.Route {
	return []module.Route{
		{Method: "POST", Path: "/login", Handler: a.handleLogin},
		{Method: "POST", Path: "/logout", Handler: RequireSession(a.sessions, a.handleLogout)},
		{Method: "GET", Path: "/session", Handler: RequireSession(a.sessions, a.handleSession)},
		{Method: "POST", Path: "/totp/enroll", Handler: RequireSession(a.sessions, a.handleTOTPEnroll)},
		{Method: "POST", Path: "/totp/confirm", Handler: RequireSession(a.sessions, a.handleTOTPConfirm)},
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

type loginResponse struct {
	Token   string   `json:"token"`
	Session *Session `json:"session"`
}

func (a *Auth) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !a.limiter.Allow(clientIP(r)) {
		server.RateLimited(w, "too many login attempts, slow down", r.URL.Path)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if req.Username == "" || req.Password == "" {
		server.BadRequest(w, "username and password are required", r.URL.Path)
		return
	}

	account, err := a.authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrTOTPRequired):
			server.Unauthorized(w, "totp code required", r.URL.Path)
		case errors.Is(err, ErrAccountDisabled):
			server.Unauthorized(w, "account disabled", r.URL.Path)
		default:
			// Same response for unknown user and wrong password.
			server.Unauthorized(w, "invalid credentials", r.URL.Path)
		}
		return
	}

	token, err := a.sessions.Issue(account)
	if err != nil {
		a.logger.Error("issue session", zap.Error(err))
		server.InternalError(w, "failed to create session", r.URL.Path)
		return
	}

	now := time.Now().UTC()
	if err := a.accounts.TouchLastLogin(r.Context(), account.ID, now); err != nil {
		a.logger.Warn("touch last login", zap.Error(err))
	}
	if a.bus != nil {
		a.bus.PublishAsync(r.Context(), module.Event{
			Topic:     "auth.login",
			Source:    a.Name(),
			Timestamp: now,
			Payload:   map[string]string{"username": account.Username},
		})
	}

	session, _ := a.sessions.Verify(token)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Session: session})
}

func (a *Auth) authenticate(ctx context.Context, req loginRequest) (*Account, error) {
	account, err := a.accounts.GetByUsername(ctx, req.Username)
	if err != nil {
		// Burn comparable time so missing users are not distinguishable
		// from wrong passwords.
		CheckPassword("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", req.Password)
		return nil, ErrInvalidCredentials
	}
	if account.Disabled {
		return nil, ErrAccountDisabled
	}
	if !CheckPassword(account.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if account.TOTPSecret != "" {
		if req.TOTPCode == "" {
			return nil, ErrTOTPRequired
		}
		if !ValidateTOTP(req.TOTPCode, account.TOTPSecret) {
			return nil, ErrInvalidCredentials
		}
	}
	return account, nil
}

func (a *Auth) handleLogout(w http.ResponseWriter, r *http.Request) {
	if p, ok := a.sessions.(*JWTSessionProvider); ok {
		p.Invalidate()
	}
	session := SessionFromContext(r.Context())
	if a.bus != nil && session != nil {
		a.bus.PublishAsync(r.Context(), module.Event{
			Topic:     "auth.logout",
			Source:    a.Name(),
			Timestamp: time.Now().UTC(),
			Payload:   map[string]string{"username": session.Username},
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *Auth) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionFromContext(r.Context()))
}

type totpEnrollResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

// handleTOTPEnroll generates a new TOTP secret for the current account.
// The secret only takes effect after confirmation with a valid code.
func (a *Auth) handleTOTPEnroll(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	key, err := GenerateTOTPSecret(a.issuer, session.Username)
	if err != nil {
		a.logger.Error("generate totp secret", zap.Error(err))
		server.InternalError(w, "failed to generate secret", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, totpEnrollResponse{Secret: key.Secret(), URL: key.URL()})
}

type totpConfirmRequest struct {
	Secret string `json:"secret"`
	Code   string `json:"code"`
}

func (a *Auth) handleTOTPConfirm(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	var req totpConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}
	if !ValidateTOTP(req.Code, req.Secret) {
		server.BadRequest(w, "code does not match secret", r.URL.Path)
		return
	}
	if err := a.accounts.UpdateTOTPSecret(r.Context(), session.AccountID, req.Secret); err != nil {
		a.logger.Error("store totp secret", zap.Error(err))
		server.InternalError(w, "failed to enable totp", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
