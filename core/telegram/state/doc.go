// Package state provides a lightweight FSM/session manager for Telegram bots.
// Sessions carry both the signed-in identity and per-flow scratch data, and
// the manager owns the state-to-handler table so routing stays instance-scoped.
package state
