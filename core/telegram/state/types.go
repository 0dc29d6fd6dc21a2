package state

import (
	"time"

	tele "gopkg.in/telebot.v4"
)

// State identifies a finite-state-machine step used in conversations.
// Each non-idle state awaits exactly one kind of user input.
type State string

const (
	// StateIdle indicates there is no active conversation flow with the user.
	StateIdle State = "idle"
)

// Session stores the signed-in identity, the active flow state and
// transient scratch data for a single chat.
type Session struct {
	State     State
	AccountID string
	Admin     bool
	Scratch   map[string]interface{}
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	// Identity lifecycle. SignOut wipes the whole session.
	SignIn(userID int64, accountID string, admin bool)
	SignOut(userID int64)
	Identity(userID int64) (accountID string, admin bool, ok bool)

	// Flow state.
	SetState(userID int64, st State)
	GetState(userID int64) State
	ClearState(userID int64)
	InProgress(userID int64) bool

	// Scratch fields captured mid-flow. Set overwrites silently;
	// ClearScratch discards all of them but keeps the identity.
	SetScratch(userID int64, key string, value interface{})
	GetScratch(userID int64, key string) (interface{}, bool)
	GetScratchString(userID int64, key string) (string, bool)
	GetScratchFloat64(userID int64, key string) (float64, bool)
	GetScratchTime(userID int64, key string) (time.Time, bool)
	ClearScratch(userID int64)

	// Handler table: one handler per text-awaiting state.
	RegisterHandler(st State, h tele.HandlerFunc)
	Dispatch(c tele.Context) error
}
