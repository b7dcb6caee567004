package middleware

import (
	"context"
	"errors"
	"net/http"

	"campusmarket/internal/session"
	myErr "campusmarket/internal/types/errors"

	"go.uber.org/zap"
)

type sessKey string

var sessionKey sessKey = "sessionKey"

// Auth validates the bearer token on every request and injects the resolved
// session (the auth context) into the request context.
func Auth(sm session.SessionRepo, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sm.CheckSession(r)
			if err != nil {
				if errors.Is(err, myErr.ErrSessionIsExpired) {
					myErr.SendErrorTo(w, err, http.StatusUnauthorized, logger)
					return
				}
				myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, logger)
				return
			}

			ctx := ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok
}
