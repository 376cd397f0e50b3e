package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"planclan/internal/auth"
	"planclan/internal/common/errors"
	"planclan/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// MockStorage mocks the parts of the storage interface auth uses.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ValidateUser(username, password string) (*models.User, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) CreateUser(username, password string) (*models.User, error) {
	return nil, nil
}
func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) { return nil, nil }
func (m *MockStorage) GetUserCount() (int, error)                              { return 0, nil }
func (m *MockStorage) Close() error                                            { return nil }
func (m *MockStorage) Health() error                                           { return nil }
func (m *MockStorage) CreateEvent(event *models.Event) error                   { return nil }
func (m *MockStorage) GetEvent(id, ownerID string) (*models.Event, error)      { return nil, nil }
func (m *MockStorage) ListEventsByOwner(ownerID string) ([]*models.Event, error) {
	return nil, nil
}
func (m *MockStorage) SetEventCompleted(id, ownerID string, completed bool) error { return nil }
func (m *MockStorage) ListMembers() ([]*models.Member, error)                     { return nil, nil }
func (m *MockStorage) GetSetting(userID, key string) (string, error)              { return "", nil }
func (m *MockStorage) SetSetting(userID, key, value string) error                 { return nil }
func (m *MockStorage) CreateSuggestionLog(log *models.SuggestionLog) error        { return nil }
func (m *MockStorage) ListSuggestionLogsWithCount(userID string, limit, offset int) ([]*models.SuggestionLog, int, error) {
	return nil, 0, nil
}
func (m *MockStorage) DeleteSuggestionLogsBefore(before time.Time) (int64, error) { return 0, nil }

func validUser() *models.User {
	return &models.User{ID: "u1", Username: "james"}
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials create a session", func(t *testing.T) {
		store := new(MockStorage)
		store.On("ValidateUser", "james", "secret").Return(validUser(), nil)

		a := auth.New(store, testSecret)
		sessionID, session, err := a.Login("james", "secret")

		require.NoError(t, err)
		assert.NotEmpty(t, sessionID)
		assert.Equal(t, "u1", session.UserID)
		assert.Equal(t, "james", session.Username)

		got, valid := a.ValidateSession(sessionID)
		assert.True(t, valid)
		assert.Equal(t, session, got)
	})

	t.Run("invalid credentials are rejected", func(t *testing.T) {
		store := new(MockStorage)
		store.On("ValidateUser", "james", "wrong").Return(nil, errors.AuthError("invalid credentials"))

		a := auth.New(store, testSecret)
		_, _, err := a.Login("james", "wrong")

		assert.True(t, errors.IsType(err, errors.ErrTypeAuth))
	})
}

func TestLogout(t *testing.T) {
	store := new(MockStorage)
	store.On("ValidateUser", "james", "secret").Return(validUser(), nil)

	a := auth.New(store, testSecret)
	sessionID, _, err := a.Login("james", "secret")
	require.NoError(t, err)

	a.Logout(sessionID)

	_, valid := a.ValidateSession(sessionID)
	assert.False(t, valid)
}

func TestTokens(t *testing.T) {
	store := new(MockStorage)
	store.On("ValidateUser", "james", "secret").Return(validUser(), nil)

	a := auth.New(store, testSecret)

	t.Run("round trip", func(t *testing.T) {
		token, err := a.IssueToken("james", "secret")
		require.NoError(t, err)

		session, err := a.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", session.UserID)
		assert.Equal(t, "james", session.Username)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := a.ValidateToken("not.a.token")
		assert.True(t, errors.IsType(err, errors.ErrTypeAuth))
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		other := auth.New(store, "another-secret-another-secret-32")
		token, err := other.IssueToken("james", "secret")
		require.NoError(t, err)

		_, err = a.ValidateToken(token)
		assert.True(t, errors.IsType(err, errors.ErrTypeAuth))
	})
}

func TestRequireAuth(t *testing.T) {
	store := new(MockStorage)
	store.On("ValidateUser", "james", "secret").Return(validUser(), nil)

	a := auth.New(store, testSecret)

	var sawUserID string
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawUserID = r.Header.Get("X-User-ID")
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("session cookie accepted", func(t *testing.T) {
		sessionID, _, err := a.Login("james", "secret")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u1", sawUserID)
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		token, err := a.IssueToken("james", "secret")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing credentials on API path returns 401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing credentials on page path redirects to login", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/dashboard", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/login", rr.Header().Get("Location"))
	})

	t.Run("client-supplied identity headers are stripped", func(t *testing.T) {
		token, err := a.IssueToken("james", "secret")
		require.NoError(t, err)

		var sawIsDefault, sawForgedID string
		wrapped := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawIsDefault = r.Header.Get("X-Is-Default")
			sawForgedID = r.Header.Get("X-User-ID")
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/api/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Is-Default", "true")
		req.Header.Set("X-User-ID", "someone-else")
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, sawIsDefault, "non-default session must not carry the flag")
		assert.Equal(t, "u1", sawForgedID)
	})

	t.Run("stale session cookie rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/events", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "expired-or-bogus"})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestCleanupExpiredSessions(t *testing.T) {
	store := new(MockStorage)
	a := auth.New(store, testSecret)

	// Nothing expired yet.
	assert.Equal(t, 0, a.CleanupExpiredSessions())
}
