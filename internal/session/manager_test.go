package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakamoto-negai/oshare-style-linkers/api"
	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
)

func registerData(username string) domain.RegisterData {
	return domain.RegisterData{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	}
}

// memStore is an in-memory Store so tests exercise persistence without a
// database file.
type memStore struct {
	mu     sync.Mutex
	token  string
	saves  int
	clears int
}

func (s *memStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.saves++
	return nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.clears++
	return nil
}

func (s *memStore) stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

const userJSON = `{"id":1,"username":"hanako","email":"hanako@example.com","points":120}`

func newTestManager(t *testing.T, handler http.Handler) (*Manager, *memStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := &memStore{}
	gw, err := gateway.New(srv.URL+"/api", store, gateway.Options{})
	require.NoError(t, err)
	return NewManager(gw, store, nil), store
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestLoginSuccessPersistsToken(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/login/", r.URL.Path)
		jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`,"token":"tok-1","message":"welcome back"}`)
	}))

	result := m.Login(context.Background(), "hanako", "secret")
	require.True(t, result.Success)
	assert.Equal(t, "welcome back", result.Message)

	assert.Equal(t, Authenticated, m.State())
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "tok-1", m.Token())
	assert.Equal(t, "tok-1", store.stored())
	require.NotNil(t, m.User())
	assert.Equal(t, "hanako", m.User().Username)
}

func TestInitializeRestoresPersistedSession(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/me/", r.URL.Path)
		require.Equal(t, "Token tok-1", r.Header.Get("Authorization"))
		jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`}`)
	}))
	store.token = "tok-1"

	state := m.Initialize(context.Background())
	assert.Equal(t, Authenticated, state)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "hanako", m.User().Username)
}

func TestInitializeWithoutTokenSkipsBackend(t *testing.T) {
	calls := 0
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	state := m.Initialize(context.Background())
	assert.Equal(t, Unauthenticated, state)
	assert.Zero(t, calls)
}

func TestInitializeClearsRejectedToken(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusUnauthorized, `{"detail":"Invalid token."}`)
	}))
	store.token = "stale"

	state := m.Initialize(context.Background())
	assert.Equal(t, Unauthenticated, state)
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())
	assert.Empty(t, store.stored())
	assert.NotZero(t, store.clears)
}

func TestInitializeUnreachableDiscardsSession(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := &memStore{token: "tok-1"}
	gw, err := gateway.New(url+"/api", store, gateway.Options{})
	require.NoError(t, err)
	m := NewManager(gw, store, nil)

	state := m.Initialize(context.Background())
	assert.Equal(t, Unauthenticated, state)
	assert.Empty(t, m.Token())
}

func TestLoginUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := &memStore{}
	gw, err := gateway.New(url+"/api", store, gateway.Options{})
	require.NoError(t, err)
	m := NewManager(gw, store, nil)

	result := m.Login(context.Background(), "hanako", "secret")
	require.False(t, result.Success)
	assert.Equal(t, msgUnreachable, result.Message)
	assert.Equal(t, Unauthenticated, m.State())
}

func TestLoginNonJSONResponse(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))

	result := m.Login(context.Background(), "hanako", "secret")
	require.False(t, result.Success)
	assert.Equal(t, msgUnexpectedResponse, result.Message)
	assert.False(t, m.IsAuthenticated())
}

func TestLoginErrorFieldWins(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusBadRequest, `{"error":"invalid username or password"}`)
	}))

	result := m.Login(context.Background(), "hanako", "wrong")
	require.False(t, result.Success)
	assert.Equal(t, "invalid username or password", result.Message)
}

func TestRegisterFieldErrorsConcatenated(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/register/", r.URL.Path)
		jsonResponse(w, http.StatusBadRequest,
			`{"username":["already taken"],"email":["enter a valid address","required"]}`)
	}))

	result := m.Register(context.Background(), registerData("hanako"))
	require.False(t, result.Success)
	assert.Equal(t, "email: enter a valid address, required\nusername: already taken", result.Message)
}

func TestLoginMalformedSuccessPayload(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"message":"ok"}`)
	}))

	result := m.Login(context.Background(), "hanako", "secret")
	require.False(t, result.Success)
	assert.Equal(t, msgUnexpectedResponse, result.Message)
}

func TestLogoutClearsSessionEvenWhenBackendFails(t *testing.T) {
	logoutCalls := 0
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/accounts/login/":
			jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`,"token":"tok-1"}`)
		case "/api/accounts/logout/":
			logoutCalls++
			jsonResponse(w, http.StatusInternalServerError, `{"error":"boom"}`)
		}
	}))

	require.True(t, m.Login(context.Background(), "hanako", "secret").Success)
	m.Logout(context.Background())

	assert.Equal(t, 1, logoutCalls)
	assert.Equal(t, Unauthenticated, m.State())
	assert.Empty(t, m.Token())
	assert.Empty(t, store.stored())
}

func TestLogoutRevokesPersistedTokenWithoutInitialize(t *testing.T) {
	logoutCalls := 0
	var gotAuth string
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/logout/", r.URL.Path)
		logoutCalls++
		gotAuth = r.Header.Get("Authorization")
		jsonResponse(w, http.StatusOK, `{"message":"logged out"}`)
	}))
	store.token = "persisted-token"

	// A fresh process goes straight to logout; the token lives only in the
	// store, never in memory.
	m.Logout(context.Background())

	assert.Equal(t, 1, logoutCalls, "backend revoke must still happen")
	assert.Equal(t, "Token persisted-token", gotAuth)
	assert.Equal(t, Unauthenticated, m.State())
	assert.Empty(t, store.stored())
}

func TestLogoutWithoutTokenSkipsBackend(t *testing.T) {
	calls := 0
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	m.Logout(context.Background())
	assert.Zero(t, calls)
	assert.Equal(t, Unauthenticated, m.State())
}

func TestRevokedTokenDropsSessionMidFlight(t *testing.T) {
	revoked := false
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/accounts/login/":
			jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`,"token":"tok-1"}`)
		default:
			if revoked {
				jsonResponse(w, http.StatusUnauthorized, `{"detail":"Invalid token."}`)
				return
			}
			jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`}`)
		}
	}))

	require.True(t, m.Login(context.Background(), "hanako", "secret").Success)
	revoked = true

	// Any authenticated request after revocation downgrades the session.
	resp, err := m.gw.Do(context.Background(), "CurrentUser", http.MethodGet, "/accounts/me/", nil, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	assert.Equal(t, Unauthenticated, m.State())
	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, store.stored())
}

func TestConcurrentReadsDuringLogin(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`,"token":"tok-1"}`)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Token()
				m.User()
				m.IsAuthenticated()
				m.State()
			}
		}()
	}
	result := m.Login(context.Background(), "hanako", "secret")
	wg.Wait()

	require.True(t, result.Success)
	assert.Equal(t, "tok-1", m.Token())
}

func TestConcurrentVotesKeepSessionIntact(t *testing.T) {
	m, store := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/accounts/login/":
			jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`,"token":"tok-1"}`)
		case strings.HasPrefix(r.URL.Path, "/api/accounts/answers/"):
			require.Equal(t, "Token tok-1", r.Header.Get("Authorization"))
			id, err := strconv.Atoi(strings.Split(r.URL.Path, "/")[4])
			require.NoError(t, err)
			jsonResponse(w, http.StatusOK,
				fmt.Sprintf(`{"success":true,"message":"voted","helpful_votes":%d}`, id*10))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	require.True(t, m.Login(context.Background(), "hanako", "secret").Success)

	accounts := api.NewAccounts(m.gw)
	results := make([]*api.VoteResult, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = accounts.Vote(context.Background(), i+1, true)
		}(i)
	}
	wg.Wait()

	// Each call gets its own response, and neither touches the session.
	for i := 0; i < 2; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, (i+1)*10, results[i].HelpfulVotes)
	}
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "tok-1", m.Token())
	assert.Equal(t, "tok-1", store.stored())
}

func TestUserReturnsCopy(t *testing.T) {
	m, _ := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"user":`+userJSON+`,"token":"tok-1"}`)
	}))
	require.True(t, m.Login(context.Background(), "hanako", "secret").Success)

	first := m.User()
	first.Username = "mutated"
	assert.Equal(t, "hanako", m.User().Username)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
	assert.Equal(t, "validating", Validating.String())
	assert.Equal(t, "authenticated", Authenticated.String())
}

func TestFailureMessageFallbacks(t *testing.T) {
	assert.Equal(t, "fallback", failureMessage(nil, "fallback"))
	assert.Equal(t, "fallback", failureMessage([]byte(`not json`), "fallback"))
	assert.Equal(t, "fallback", failureMessage([]byte(`{}`), "fallback"))
	assert.Equal(t, "try later", failureMessage([]byte(`{"message":"try later"}`), "fallback"))
	assert.Equal(t, "password: too short", failureMessage([]byte(`{"password":["too short"]}`), "fallback"))
}
