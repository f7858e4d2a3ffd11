package middleware

import (
	"net/http"
	"time"

	"desynflow-backend/internal/cache"
	"desynflow-backend/internal/timeutil"
)

// StatusLoginTimeout is the non-standard status for expired sessions.
// Clients treat it as "re-authenticate", distinct from 401 bad credentials.
const StatusLoginTimeout = 440

// SessionMiddleware enforces an inactivity timeout on top of JWT auth. Each
// authenticated request refreshes the user's last-activity stamp; a gap
// longer than the timeout expires the session even if the token is still
// valid.
type SessionMiddleware struct {
	store   cache.ActivityStore
	timeout time.Duration
	now     func() time.Time
}

func NewSessionMiddleware(store cache.ActivityStore, timeoutMinutes int) *SessionMiddleware {
	return &SessionMiddleware{
		store:   store,
		timeout: time.Duration(timeoutMinutes) * time.Minute,
		now:     timeutil.Now,
	}
}

// Track must run after Authenticate so the user ID is in context.
func (m *SessionMiddleware) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		now := m.now()
		if last, seen := m.store.LastActivity(r.Context(), userID); seen {
			if now.Sub(last) > m.timeout {
				m.store.Clear(r.Context(), userID)
				http.Error(w, "Session expired due to inactivity", StatusLoginTimeout)
				return
			}
		}

		m.store.Touch(r.Context(), userID, now)
		next.ServeHTTP(w, r)
	})
}

// Start stamps a fresh session, called on login.
func (m *SessionMiddleware) Start(r *http.Request, userID int) {
	m.store.Touch(r.Context(), userID, m.now())
}

// End clears the session stamp, called on logout.
func (m *SessionMiddleware) End(r *http.Request, userID int) {
	m.store.Clear(r.Context(), userID)
}
