package state

import (
	"sync"
	"time"

	"expensebot/core/logger"
	tghelpers "expensebot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	handlers map[State]tele.HandlerFunc
}

// NewMemoryManager constructs an in-memory Manager implementation.
// Sessions live for the duration of the process; there is no expiry
// beyond an explicit SignOut.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

func (m *memoryManager) session(userID int64) *Session {
	sess, ok := m.sessions[userID]
	if !ok {
		sess = &Session{State: StateIdle, Scratch: make(map[string]interface{})}
		m.sessions[userID] = sess
	}
	return sess
}

// SignIn binds a domain account to the chat session, replacing any
// previous identity and leftover flow state.
func (m *memoryManager) SignIn(userID int64, accountID string, admin bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.session(userID)
	sess.AccountID = accountID
	sess.Admin = admin
	sess.State = StateIdle
	sess.Scratch = make(map[string]interface{})
}

// SignOut removes the entire session for a user.
func (m *memoryManager) SignOut(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Identity returns the signed-in account for the chat, if any.
func (m *memoryManager) Identity(userID int64) (string, bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok || sess.AccountID == "" {
		return "", false, false
	}
	return sess.AccountID, sess.Admin, true
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).State = st
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// ClearState resets the FSM state to idle without touching identity or scratch.
func (m *memoryManager) ClearState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.State = StateIdle
	}
}

// InProgress reports whether the user currently has an active flow.
func (m *memoryManager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.State != StateIdle
}

// SetScratch stores a scratch key/value pair, overwriting silently.
func (m *memoryManager) SetScratch(userID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).Scratch[key] = value
}

// GetScratch retrieves a scratch value by key.
func (m *memoryManager) GetScratch(userID int64, key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	val, ok := sess.Scratch[key]
	return val, ok
}

// GetScratchString retrieves a scratch value and asserts it as string.
func (m *memoryManager) GetScratchString(userID int64, key string) (string, bool) {
	val, found := m.GetScratch(userID, key)
	if !found {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// GetScratchFloat64 retrieves a scratch value and asserts it as float64.
func (m *memoryManager) GetScratchFloat64(userID int64, key string) (float64, bool) {
	val, found := m.GetScratch(userID, key)
	if !found {
		return 0, false
	}
	f, ok := val.(float64)
	return f, ok
}

// GetScratchTime retrieves a scratch value and asserts it as time.Time.
func (m *memoryManager) GetScratchTime(userID int64, key string) (time.Time, bool) {
	val, found := m.GetScratch(userID, key)
	if !found {
		return time.Time{}, false
	}
	t, ok := val.(time.Time)
	return t, ok
}

// ClearScratch discards all scratch fields for the user, keeping identity.
func (m *memoryManager) ClearScratch(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.Scratch = make(map[string]interface{})
	}
}

// RegisterHandler associates a state with its input handler.
func (m *memoryManager) RegisterHandler(st State, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[st] = h
}

// Dispatch executes the handler registered for the user's current state, if any.
func (m *memoryManager) Dispatch(c tele.Context) error {
	userID := c.Sender().ID
	current := m.GetState(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.dispatch",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	m.mu.RLock()
	handler, ok := m.handlers[current]
	m.mu.RUnlock()
	if ok {
		return handler(c)
	}
	return nil
}
