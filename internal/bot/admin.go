package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log/slog"

	"expensebot/core/logger"
	"expensebot/core/telegram/keyboard"
	"expensebot/internal/domain"
	"expensebot/internal/storage"
)

// adminPanel lists registered users with spending totals and a clear action
// per user. Only an admin session may open it.
func (a *App) adminPanel(ctx context.Context, userID int64) ([]reply, error) {
	if !a.isAdmin(userID) {
		return one(text(msgAdminOnly)), nil
	}

	users, err := a.auth.ListUsers(ctx)
	if err != nil {
		logFlowError(ctx, "service.auth", "admin.list_users", userID, err)
		return internalError(), err
	}
	if len(users) == 0 {
		return one(menu(msgAdminNoUsers, adminMenuKeyboard())), nil
	}

	var b strings.Builder
	b.WriteString("👥 *Registered Users*\n\n")
	buttons := make([]keyboard.InlineBtn, 0, len(users)+1)
	for _, u := range users {
		total, count, err := a.expenses.Totals(ctx, u.ID)
		if err != nil {
			logFlowError(ctx, "service.auth", "admin.totals", userID, err)
			return internalError(), err
		}
		fmt.Fprintf(&b, "• %s - %s across %d expense(s)\n", mdEscape(u.Email), fmtMoney(total), count)
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   "🗑 Clear: " + truncate(u.Email, 24),
			Unique: cbClearUser,
			Data:   string(u.ID),
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: "🔙 Back", Unique: cbAdminBack})
	return one(menu(b.String(), keyboard.InlineButtons(buttons))), nil
}

// clearUser wipes every expense of one user and re-renders the panel.
func (a *App) clearUser(ctx context.Context, userID int64, payload string) ([]reply, error) {
	if !a.isAdmin(userID) {
		return one(text(msgAdminOnly)), nil
	}

	target := domain.UserID(payload)
	n, err := a.expenses.ClearUser(ctx, target)
	if err != nil {
		logFlowError(ctx, "service.auth", "admin.clear_user", userID, err)
		return internalError(), err
	}

	label := payload
	if u, err := a.auth.UserByID(ctx, target); err == nil {
		label = u.Email
	} else if !errors.Is(err, storage.ErrNotFound) {
		logFlowError(ctx, "service.auth", "admin.clear_user.lookup", userID, err)
	}
	logger.SVCAuth.Info("user expenses cleared",
		slog.String("event", "admin.clear_user"),
		slog.String("status", "ok"),
		slog.String("account_id", payload),
		slog.Int64("deleted", n),
	)

	confirmation := fmt.Sprintf("✅ Cleared %d expense(s) for *%s*.", n, mdEscape(label))
	followUp, err := a.adminPanel(ctx, userID)
	if err != nil {
		return one(text(confirmation)), nil
	}
	return append([]reply{text(confirmation)}, followUp...), nil
}

func (a *App) adminBack(userID int64) []reply {
	if !a.isAdmin(userID) {
		return one(text(msgAdminOnly))
	}
	return one(menu(msgAdminMenuTitle, adminMenuKeyboard()))
}
