package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"resume-tailor/internal/shared/util"
)

// ErrTokenInvalid covers unknown, expired and already used login tokens.
var ErrTokenInvalid = errors.New("login token invalid or expired")

// LoginToken is a stored single-use sign-in token. Only the hash is kept.
type LoginToken struct {
	Hash      string
	Email     string
	ExpiresAt time.Time
}

type TokenStore interface {
	Save(ctx context.Context, tok LoginToken) error
	// Consume marks the token used and returns its email. It succeeds at most
	// once per token and only before expiry.
	Consume(ctx context.Context, hash string, now time.Time) (string, error)
}

func newRawToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

func hashToken(raw string) string {
	return util.HashKey(raw)
}

type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
}

type memoryToken struct {
	LoginToken
	consumed bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken)}
}

func (s *MemoryTokenStore) Save(ctx context.Context, tok LoginToken) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok.Hash] = memoryToken{LoginToken: tok}
	return nil
}

func (s *MemoryTokenStore) Consume(ctx context.Context, hash string, now time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[hash]
	if !ok || tok.consumed || !now.Before(tok.ExpiresAt) {
		return "", ErrTokenInvalid
	}
	tok.consumed = true
	s.tokens[hash] = tok
	return tok.Email, nil
}

type PGTokenStore struct {
	DB *sql.DB
}

func (s *PGTokenStore) Save(ctx context.Context, tok LoginToken) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO login_tokens (token_hash, email, expires_at, created_at)
VALUES ($1, $2, $3, now())`, tok.Hash, tok.Email, tok.ExpiresAt)
	return err
}

func (s *PGTokenStore) Consume(ctx context.Context, hash string, now time.Time) (string, error) {
	var email string
	err := s.DB.QueryRowContext(ctx, `
UPDATE login_tokens SET consumed_at = $2
WHERE token_hash = $1 AND consumed_at IS NULL AND expires_at > $2
RETURNING email`, hash, now).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	return email, nil
}
