package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
)

// State tracks where the session is in its lifecycle.
type State int

const (
	Unauthenticated State = iota
	Validating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Result is the outcome of a login or register attempt. Failures are data,
// not errors: nothing in this package panics or propagates an exception to
// the caller.
type Result struct {
	Success bool
	Message string
}

// Store is the durable home of the bearer token.
type Store interface {
	Token() (string, error)
	Save(token string) error
	Clear() error
}

const (
	msgUnreachable        = "cannot reach server; check that the backend is running"
	msgUnexpectedResponse = "unexpected response from server"
	msgLoginFailed        = "login failed"
	msgRegisterFailed     = "registration failed"
)

// Manager is the single source of truth for who is logged in and which
// credential authorizes requests. It is the sole mutator of the session
// state; everything else reads through its accessors.
type Manager struct {
	gw     *gateway.Client
	store  Store
	logger *zap.Logger

	mu    sync.RWMutex
	user  *domain.User
	token string
	state State
}

// NewManager wires the manager to the gateway and the token store, and
// registers itself as the gateway's 401 handler: a token the backend revokes
// mid-session downgrades the client to unauthenticated.
func NewManager(gw *gateway.Client, store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		gw:     gw,
		store:  store,
		logger: logger,
		state:  Unauthenticated,
	}
	gw.SetUnauthorizedHook(m.HandleUnauthorized)
	return m
}

type authResponse struct {
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

type currentUserResponse struct {
	User *domain.User `json:"user"`
}

// Initialize loads the persisted token and validates it against the backend.
// A missing token leaves the session unauthenticated; an invalid or
// unverifiable one is cleared from memory and storage. This is the only
// automatic transition; everything else is caller-initiated.
func (m *Manager) Initialize(ctx context.Context) State {
	token, err := m.store.Token()
	if err != nil {
		m.logger.Warn("token load failed", zap.Error(err))
	}
	if token == "" {
		m.setUnauthenticated()
		return Unauthenticated
	}

	m.mu.Lock()
	m.token = token
	m.state = Validating
	m.mu.Unlock()

	resp, err := m.gw.Do(ctx, "CurrentUser", http.MethodGet, "/accounts/me/", nil, "")
	if err != nil {
		m.logger.Warn("token validation unreachable", zap.Error(err))
		m.discard()
		return Unauthenticated
	}
	if !resp.OK() {
		m.logger.Info("persisted token rejected", zap.Int("status", resp.Status))
		m.discard()
		return Unauthenticated
	}

	var payload currentUserResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.User == nil {
		m.logger.Warn("current user payload malformed", zap.Error(err))
		m.discard()
		return Unauthenticated
	}

	m.mu.Lock()
	m.user = payload.User
	m.state = Authenticated
	m.mu.Unlock()
	m.logger.Info("session restored", zap.String("username", payload.User.Username))
	return Authenticated
}

// Login exchanges credentials for a token and stores the identity on success.
func (m *Manager) Login(ctx context.Context, username, password string) Result {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Success: false, Message: msgLoginFailed}
	}
	resp, err := m.gw.Do(ctx, "Login", http.MethodPost, "/accounts/login/", body, "application/json")
	if err != nil {
		m.logger.Warn("login request failed", zap.Error(err))
		return Result{Success: false, Message: msgUnreachable}
	}
	return m.consumeAuth(resp, msgLoginFailed)
}

// Register creates an account; the contract mirrors Login.
func (m *Manager) Register(ctx context.Context, data domain.RegisterData) Result {
	body, err := json.Marshal(data)
	if err != nil {
		return Result{Success: false, Message: msgRegisterFailed}
	}
	resp, err := m.gw.Do(ctx, "Register", http.MethodPost, "/accounts/register/", body, "application/json")
	if err != nil {
		m.logger.Warn("register request failed", zap.Error(err))
		return Result{Success: false, Message: msgUnreachable}
	}
	return m.consumeAuth(resp, msgRegisterFailed)
}

// Logout tells the backend to revoke the token, best effort, then clears the
// session unconditionally. It cannot fail from the caller's perspective.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.RLock()
	hasToken := m.token != ""
	m.mu.RUnlock()

	if !hasToken {
		// A fresh process holds the credential only in storage. The gateway
		// reads the store per call, so the revoke request still carries it.
		if stored, err := m.store.Token(); err == nil && stored != "" {
			hasToken = true
		}
	}

	if hasToken {
		if _, err := m.gw.Do(ctx, "Logout", http.MethodPost, "/accounts/logout/", []byte("{}"), "application/json"); err != nil {
			m.logger.Warn("logout request failed", zap.Error(err))
		}
	}
	m.discard()
	m.logger.Info("session cleared")
}

// HandleUnauthorized drops the session when the gateway reports a 401 on an
// authenticated request. It touches local state only, so a rejected logout
// call cannot recurse.
func (m *Manager) HandleUnauthorized() {
	m.mu.RLock()
	hasToken := m.token != ""
	m.mu.RUnlock()
	if !hasToken {
		return
	}
	m.logger.Info("token rejected by backend, dropping session")
	m.discard()
}

// User returns a copy of the authenticated user, or nil.
func (m *Manager) User() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

// Token returns the in-memory bearer token, "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated is true iff both user and token are present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.token != ""
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) consumeAuth(resp *gateway.Response, fallback string) Result {
	// A proxy or misconfigured backend answering with HTML must not be
	// mistaken for a protocol response.
	if !resp.IsJSON() {
		m.logger.Warn("non-JSON auth response", zap.Int("status", resp.Status), zap.String("content_type", resp.ContentType))
		return Result{Success: false, Message: msgUnexpectedResponse}
	}

	if resp.OK() {
		var payload authResponse
		if err := json.Unmarshal(resp.Body, &payload); err != nil || payload.User == nil || payload.Token == "" {
			m.logger.Warn("auth payload malformed", zap.Error(err))
			return Result{Success: false, Message: msgUnexpectedResponse}
		}
		m.mu.Lock()
		m.user = payload.User
		m.token = payload.Token
		m.state = Authenticated
		m.mu.Unlock()
		if err := m.store.Save(payload.Token); err != nil {
			m.logger.Warn("token persist failed", zap.Error(err))
		}
		m.logger.Info("authenticated", zap.String("username", payload.User.Username))
		return Result{Success: true, Message: payload.Message}
	}

	return Result{Success: false, Message: failureMessage(resp.Body, fallback)}
}

// failureMessage shapes a structured error body into one human-readable
// string: a top-level error field wins, then per-field validation messages,
// then the fallback.
func failureMessage(body []byte, fallback string) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return fallback
	}

	if msg, ok := fields["error"].(string); ok && msg != "" {
		return msg
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if name == "message" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, flattenMessages(fields[name])))
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n")
	}

	if msg, ok := fields["message"].(string); ok && msg != "" {
		return msg
	}
	return fallback
}

func flattenMessages(value any) string {
	switch v := value.(type) {
	case []any:
		parts := make([]string, 0, len(v))
		for _, entry := range v {
			parts = append(parts, fmt.Sprint(entry))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

func (m *Manager) setUnauthenticated() {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.state = Unauthenticated
	m.mu.Unlock()
}

// discard clears memory and storage together; user and token always move as
// a pair.
func (m *Manager) discard() {
	m.setUnauthenticated()
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("token clear failed", zap.Error(err))
	}
}
