package session

import (
	"context"
	"net/http"
	"time"
)

// Session is the server-side auth context a bearer token resolves to. UserID
// and Role travel with every authenticated request.
type Session struct {
	ID        string
	UserID    int64
	Role      string
	StartTime time.Time
	EndTime   time.Time
}

//go:generate mockgen -source=internal/session/session.go -destination=internal/mocks/mock_session_repo.go -package=mocks
type SessionRepo interface {
	// CreateSession stores a new session in Redis and returns it together
	// with the signed JWT. Shaping the HTTP response is the caller's job.
	CreateSession(ctx context.Context, userID int64, email, role string) (*Session, string, error)
	// CheckSession validates the bearer token and resolves the session it
	// references, rejecting expired ones.
	CheckSession(r *http.Request) (*Session, error)
	// ExtendSession pushes the session expiry forward for active users.
	ExtendSession(ctx context.Context, sessionID string) error
}
