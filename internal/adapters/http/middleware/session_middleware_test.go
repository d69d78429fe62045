package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/application"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/infrastructure/auth"
)

type fakeSessionStore struct {
	sessions map[string]domain.Session
	users    map[string]domain.User
	deleted  []string
}

func (f *fakeSessionStore) Create(_ context.Context, session domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) FindWithUser(_ context.Context, sessionID string) (domain.Session, domain.User, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.Expired() {
		return domain.Session{}, domain.User{}, domain.ErrSessionNotFound
	}
	user, ok := f.users[session.UserID]
	if !ok {
		return domain.Session{}, domain.User{}, domain.ErrSessionOrphaned
	}
	return session, user, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	delete(f.sessions, sessionID)
	return nil
}

func newSessionFixture(t *testing.T) (*application.SessionService, *auth.SessionCookie, *fakeSessionStore) {
	t.Helper()
	store := &fakeSessionStore{
		sessions: map[string]domain.Session{},
		users:    map[string]domain.User{},
	}
	svc := application.NewSessionService(nil, nil, store, &mockLogger{})
	return svc, auth.NewSessionCookie("test-secret"), store
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, cookie *http.Cookie, target string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rec, c
}

func TestRequireSession_AnonymousRedirectsToLogin(t *testing.T) {
	svc, cookies, _ := newSessionFixture(t)

	rec, _ := doRequest(t, RequireSession(svc, cookies), nil, "/dashboard/42?tab=leads")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	location := rec.Header().Get("Location")
	if location != "/login?redirectTo=%2Fdashboard%2F42%3Ftab%3Dleads" {
		t.Fatalf("unexpected redirect target: %s", location)
	}
}

func TestRequireSession_InvalidCookieClearedAndRedirected(t *testing.T) {
	svc, cookies, _ := newSessionFixture(t)

	bad := &http.Cookie{Name: auth.CookieName, Value: "not-a-token"}
	rec, _ := doRequest(t, RequireSession(svc, cookies), bad, "/dashboard")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestRequireSession_OrphanedSessionDestroyedAndRedirectedHome(t *testing.T) {
	svc, cookies, store := newSessionFixture(t)
	store.sessions["s1"] = domain.Session{
		ID:             "s1",
		UserID:         "gone",
		AccessToken:    "abc",
		ExpirationDate: time.Now().Add(time.Hour),
	}

	cookie, err := cookies.Issue("s1", time.Now().Add(time.Hour), true)
	if err != nil {
		t.Fatalf("issue cookie: %v", err)
	}
	rec, _ := doRequest(t, RequireSession(svc, cookies), cookie, "/dashboard")

	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to root, got %s", rec.Header().Get("Location"))
	}
	if len(store.deleted) != 1 || store.deleted[0] != "s1" {
		t.Fatalf("expected orphaned session to be deleted, got %v", store.deleted)
	}
}

func TestRequireSession_ValidSessionPassesThrough(t *testing.T) {
	svc, cookies, store := newSessionFixture(t)
	store.sessions["s1"] = domain.Session{
		ID:             "s1",
		UserID:         "u1",
		AccessToken:    "abc",
		ExpirationDate: time.Now().Add(time.Hour),
	}
	store.users["u1"] = domain.User{ID: "u1"}

	cookie, err := cookies.Issue("s1", time.Now().Add(time.Hour), true)
	if err != nil {
		t.Fatalf("issue cookie: %v", err)
	}
	rec, c := doRequest(t, RequireSession(svc, cookies), cookie, "/dashboard")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
	data := SessionData(c)
	if data.UserID != "u1" || data.AccessToken != "abc" {
		t.Fatalf("unexpected session data: %+v", data)
	}
}

func TestRequireAnonymous_LoggedInRedirectsToDashboard(t *testing.T) {
	svc, cookies, store := newSessionFixture(t)
	store.sessions["s1"] = domain.Session{
		ID:             "s1",
		UserID:         "u1",
		AccessToken:    "abc",
		ExpirationDate: time.Now().Add(time.Hour),
	}
	store.users["u1"] = domain.User{ID: "u1"}

	cookie, err := cookies.Issue("s1", time.Now().Add(time.Hour), true)
	if err != nil {
		t.Fatalf("issue cookie: %v", err)
	}
	rec, _ := doRequest(t, RequireAnonymous(svc, cookies), cookie, "/login")

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireAnonymous_AnonymousPassesThrough(t *testing.T) {
	svc, cookies, _ := newSessionFixture(t)

	rec, _ := doRequest(t, RequireAnonymous(svc, cookies), nil, "/login")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
