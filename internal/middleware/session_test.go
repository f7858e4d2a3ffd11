package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"desynflow-backend/internal/cache"
)

func sessionRequest(userID int) *http.Request {
	r := httptest.NewRequest("GET", "/api/inspection-requests", nil)
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	return r.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionWithinTimeout(t *testing.T) {
	store := cache.NewMemoryActivityStore()
	m := NewSessionMiddleware(store, 30)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store.Touch(context.Background(), 7, base)

	m.now = func() time.Time { return base.Add(29 * time.Minute) }

	rec := httptest.NewRecorder()
	m.Track(okHandler()).ServeHTTP(rec, sessionRequest(7))

	if rec.Code != http.StatusOK {
		t.Errorf("request at 29 minutes: got %d, want 200", rec.Code)
	}
}

func TestSessionExpiredAfterTimeout(t *testing.T) {
	store := cache.NewMemoryActivityStore()
	m := NewSessionMiddleware(store, 30)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store.Touch(context.Background(), 7, base)

	m.now = func() time.Time { return base.Add(31 * time.Minute) }

	rec := httptest.NewRecorder()
	m.Track(okHandler()).ServeHTTP(rec, sessionRequest(7))

	if rec.Code != StatusLoginTimeout {
		t.Errorf("request at 31 minutes: got %d, want %d", rec.Code, StatusLoginTimeout)
	}

	// The stamp is cleared, so the next request starts a fresh session.
	if _, seen := store.LastActivity(context.Background(), 7); seen {
		t.Error("expired session stamp should be cleared")
	}
}

func TestSessionActivityRefreshesWindow(t *testing.T) {
	store := cache.NewMemoryActivityStore()
	m := NewSessionMiddleware(store, 30)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store.Touch(context.Background(), 7, base)

	// 20 minutes in: still active, stamp refreshed.
	m.now = func() time.Time { return base.Add(20 * time.Minute) }
	rec := httptest.NewRecorder()
	m.Track(okHandler()).ServeHTTP(rec, sessionRequest(7))
	if rec.Code != http.StatusOK {
		t.Fatalf("request at 20 minutes: got %d, want 200", rec.Code)
	}

	// 45 minutes after the original login, but only 25 after the last
	// activity, so the session is still alive.
	m.now = func() time.Time { return base.Add(45 * time.Minute) }
	rec = httptest.NewRecorder()
	m.Track(okHandler()).ServeHTTP(rec, sessionRequest(7))
	if rec.Code != http.StatusOK {
		t.Errorf("request 25 minutes after last activity: got %d, want 200", rec.Code)
	}
}

func TestSessionUnauthenticatedPassThrough(t *testing.T) {
	m := NewSessionMiddleware(cache.NewMemoryActivityStore(), 30)
	rec := httptest.NewRecorder()
	m.Track(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("unauthenticated request: got %d, want 200", rec.Code)
	}
}
