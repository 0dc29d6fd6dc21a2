package bot

import (
	"context"

	"log/slog"

	"expensebot/core/logger"
	"expensebot/core/telegram/state"
	"expensebot/internal/auth"
	"expensebot/internal/config"
	"expensebot/internal/domain"
	"expensebot/internal/expense"
	"expensebot/internal/group"
	"expensebot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// pickerLimit caps inline pickers and dashboard listings.
const pickerLimit = 10

// App holds the conversational expense tracker. Flow methods are plain
// functions of (identity, input) returning replies, so they are testable
// without a live Telegram connection; the thin glue in telegram.go adapts
// them to telebot handlers.
type App struct {
	cfg      *config.Config
	sessions state.Manager
	auth     *auth.Service
	expenses *expense.Service
	groups   *group.Service
}

// New assembles the application on top of a storage backend.
func New(cfg *config.Config, store storage.Storage) *App {
	admin := auth.Credentials{}
	if cfg != nil {
		admin = auth.Credentials{Email: cfg.Admin.Email, Password: cfg.Admin.Password}
	}
	return &App{
		cfg:      cfg,
		sessions: state.NewMemoryManager(),
		auth:     auth.NewService(store, admin),
		expenses: expense.NewService(store),
		groups:   group.NewService(store),
	}
}

// Sessions exposes the session manager for router wiring.
func (a *App) Sessions() state.Manager {
	return a.sessions
}

// reply is one outgoing message. A non-nil file turns it into a document
// upload; otherwise text is sent as Markdown with the optional keyboard.
type reply struct {
	text   string
	markup *tele.ReplyMarkup
	file   *reportFile
}

type reportFile struct {
	name    string
	caption string
	data    []byte
}

func text(s string) reply {
	return reply{text: s}
}

func menu(s string, m *tele.ReplyMarkup) reply {
	return reply{text: s, markup: m}
}

func one(r reply) []reply {
	return []reply{r}
}

// account resolves the signed-in account for a chat. The second value is
// false when the chat has no session.
func (a *App) account(userID int64) (domain.UserID, bool) {
	id, _, ok := a.sessions.Identity(userID)
	if !ok {
		return "", false
	}
	return domain.UserID(id), true
}

func (a *App) isAdmin(userID int64) bool {
	_, admin, ok := a.sessions.Identity(userID)
	return ok && admin
}

// endFlow returns the session to idle and discards collected scratch data.
func (a *App) endFlow(userID int64) {
	a.sessions.ClearState(userID)
	a.sessions.ClearScratch(userID)
}

func notSignedIn() []reply {
	return one(menu(msgNotSignedIn, welcomeKeyboard()))
}

func internalError() []reply {
	return one(text(msgInternalError))
}

func logFlowError(ctx context.Context, component, event string, userID int64, err error) {
	logger.Error(ctx, component, event,
		slog.String("status", "fail"),
		slog.Int64("user_id", userID),
		slog.String("err", err.Error()),
	)
}
