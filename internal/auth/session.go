package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session describes an authenticated admin session as seen by the rest of
// the application.
type Session struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionProvider issues and verifies session tokens, and notifies
// subscribers when the current session changes. The admin UI subscribes to
// redraw its chrome on login and logout.
type SessionProvider interface {
	// Issue creates a signed token for the account.
	Issue(account *Account) (string, error)

	// Verify parses and validates a token, returning the session it encodes.
	Verify(token string) (*Session, error)

	// Subscribe registers a callback invoked on session change events.
	// The returned function unsubscribes the callback.
	Subscribe(fn func(*Session)) func()
}

// ErrTokenInvalid is returned by Verify for expired, malformed, or
// tampered tokens.
var ErrTokenInvalid = errors.New("invalid session token")

// Compile-time interface guard.
var _ SessionProvider = (*JWTSessionProvider)(nil)

// JWTSessionProvider implements SessionProvider with HS256 JWTs.
type JWTSessionProvider struct {
	secret []byte
	ttl    time.Duration

	mu      sync.Mutex
	nextID  int
	subs    map[int]func(*Session)
	nowFunc func() time.Time
}

// sessionClaims is the JWT claim set carried by issued tokens.
type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTSessionProvider creates a provider signing with the given secret.
// A non-positive ttl defaults to 24 hours.
func NewJWTSessionProvider(secret string, ttl time.Duration) *JWTSessionProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTSessionProvider{
		secret:  []byte(secret),
		ttl:     ttl,
		subs:    make(map[int]func(*Session)),
		nowFunc: time.Now,
	}
}

func (p *JWTSessionProvider) Issue(account *Account) (string, error) {
	now := p.nowFunc().UTC()
	claims := sessionClaims{
		Username: account.Username,
		Role:     account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	p.notify(&Session{
		AccountID: account.ID,
		Username:  account.Username,
		Role:      account.Role,
		ExpiresAt: now.Add(p.ttl),
	})
	return signed, nil
}

func (p *JWTSessionProvider) Verify(tokenString string) (*Session, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.nowFunc))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &Session{
		AccountID: claims.Subject,
		Username:  claims.Username,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (p *JWTSessionProvider) Subscribe(fn func(*Session)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Invalidate notifies subscribers that the session ended. Tokens remain
// cryptographically valid until expiry; callers should also clear the
// client-side token.
func (p *JWTSessionProvider) Invalidate() {
	p.notify(nil)
}

func (p *JWTSessionProvider) notify(s *Session) {
	p.mu.Lock()
	fns := make([]func(*Session), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
