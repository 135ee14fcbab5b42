// Package sessions keeps the catalog API token and the signed-in user per
// browser session.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"lafelle.com/app/internal/catalogapi"
)

var ErrNotFound = errors.New("session not found")

// Session is one signed-in admin.
type Session struct {
	ID         string    `gorm:"primaryKey;type:char(36)"`
	Token      string    `gorm:"type:text;not null"`
	UserJSON   string    `gorm:"column:user_json;type:text;not null"`
	ExpiresAt  time.Time `gorm:"type:datetime(3);not null;index:ix_admin_sessions_expires_at"`
	CreatedAt  time.Time `gorm:"type:datetime(3);not null"`
	LastSeenAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Session) TableName() string { return "admin_sessions" }

// CreateTableSQL is the DDL for Session on MySQL.
const CreateTableSQL = `
CREATE TABLE IF NOT EXISTS admin_sessions (
  id CHAR(36) NOT NULL,
  token TEXT NOT NULL,
  user_json TEXT NOT NULL,
  expires_at DATETIME(3) NOT NULL,
  created_at DATETIME(3) NOT NULL,
  last_seen_at DATETIME(3) NOT NULL,
  PRIMARY KEY (id),
  KEY ix_admin_sessions_expires_at (expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

// User decodes the stored user.
func (s *Session) User() (catalogapi.User, error) {
	var u catalogapi.User
	if err := json.Unmarshal([]byte(s.UserJSON), &u); err != nil {
		return catalogapi.User{}, err
	}
	return u, nil
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Implementations are safe for concurrent use.
type Store interface {
	Create(ctx context.Context, token string, user catalogapi.User, ttl time.Duration) (*Session, error)
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

func newSession(token string, user catalogapi.User, ttl time.Duration, now time.Time) (*Session, error) {
	b, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:         uuid.NewString(),
		Token:      token,
		UserJSON:   string(b),
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		LastSeenAt: now,
	}, nil
}
