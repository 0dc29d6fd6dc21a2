package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"log/slog"

	"expensebot/core/logger"
	tghelpers "expensebot/core/telegram/helpers"
	"expensebot/internal/domain"
	"expensebot/internal/storage"
)

func (a *App) beginAdd(userID int64) []reply {
	if _, ok := a.account(userID); !ok {
		return notSignedIn()
	}
	a.sessions.ClearScratch(userID)
	a.sessions.SetState(userID, stAddAmount)
	return one(text(msgAddAmount))
}

func (a *App) onAddAmount(_ context.Context, userID int64, input string) ([]reply, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		// Invalid input re-prompts without leaving the state.
		return one(text(msgBadAmount)), nil
	}
	a.sessions.SetScratch(userID, scrAmount, amount)
	a.sessions.SetState(userID, stAddReason)
	return one(text(msgAddReason)), nil
}

func (a *App) onAddReason(_ context.Context, userID int64, input string) ([]reply, error) {
	reason := strings.TrimSpace(input)
	if reason == msgSkipReasonMarker {
		reason = ""
	}
	a.sessions.SetScratch(userID, scrReason, reason)
	a.sessions.SetState(userID, stAddDate)
	return one(text(msgAddDate)), nil
}

func (a *App) onAddDate(ctx context.Context, userID int64, input string) ([]reply, error) {
	date, ok := tghelpers.ParseDateOrToday(input)
	if !ok {
		return one(text(msgBadDate)), nil
	}
	a.sessions.SetScratch(userID, scrDate, date)

	account, signedIn := a.account(userID)
	if !signedIn {
		a.endFlow(userID)
		return notSignedIn(), nil
	}
	groups, err := a.groups.ListPlain(ctx, account)
	if err != nil {
		logFlowError(ctx, "service.expenses", "add.list_groups", userID, err)
		a.endFlow(userID)
		return internalError(), err
	}
	a.sessions.SetState(userID, stAddGroup)
	return one(menu(msgPickGroup, groupPickKeyboard(groups, cbSelectGroup, cbSkipGroup))), nil
}

// finishAdd completes the add flow from the group-selection buttons.
// An empty groupID means the skip button.
func (a *App) finishAdd(ctx context.Context, userID int64, groupID string) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		a.endFlow(userID)
		return notSignedIn(), nil
	}

	amount, okAmount := a.sessions.GetScratchFloat64(userID, scrAmount)
	reason, okReason := a.sessions.GetScratchString(userID, scrReason)
	date, okDate := a.sessions.GetScratchTime(userID, scrDate)
	a.endFlow(userID)
	if !okAmount || !okReason || !okDate {
		return one(menu(msgFlowStateLost, backToMenuKeyboard())), nil
	}

	e, err := a.expenses.Add(ctx, account, amount, reason, date, domain.GroupID(groupID))
	if err != nil {
		logFlowError(ctx, "service.expenses", "add", userID, err)
		return internalError(), err
	}
	logger.SVCExpenses.Info("expense added",
		slog.String("event", "add"),
		slog.String("status", "ok"),
		slog.String("account_id", string(account)),
		slog.String("expense_id", string(e.ID)),
	)

	suffix := ""
	if groupID != "" {
		if g, err := a.groups.Get(ctx, account, e.GroupID); err == nil {
			suffix = fmt.Sprintf(" in *%s*", mdEscape(g.Name))
		}
	}
	confirmation := fmt.Sprintf("✅ Expense added: %s for _%s_ on %s%s",
		fmtMoney(e.Amount), mdEscape(e.Reason), fmtDay(e.Date), suffix)
	return []reply{text(confirmation), menu(msgMainMenuTitle, mainMenuKeyboard())}, nil
}

// dashboard summarises the full history and lists the latest entries.
func (a *App) dashboard(ctx context.Context, userID int64) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}

	expenses, err := a.expenses.Recent(ctx, account, pickerLimit)
	if err != nil {
		logFlowError(ctx, "service.expenses", "dashboard", userID, err)
		return internalError(), err
	}
	if len(expenses) == 0 {
		return one(menu(msgNoExpenses, backToMenuKeyboard())), nil
	}

	total, count, err := a.expenses.Totals(ctx, account)
	if err != nil {
		logFlowError(ctx, "service.expenses", "dashboard.totals", userID, err)
		return internalError(), err
	}
	names, err := a.groups.NameMap(ctx, account)
	if err != nil {
		logFlowError(ctx, "service.expenses", "dashboard.groups", userID, err)
		return internalError(), err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Dashboard*\n\nTotal spent: *%s* across %d expenses.\n\nRecent:\n", fmtMoney(total), count)
	for _, e := range expenses {
		line := fmt.Sprintf("• %s - %s, _%s_", fmtDay(e.Date), fmtMoney(e.Amount), mdEscape(e.Reason))
		if e.GroupID != "" {
			if name, found := names[e.GroupID]; found {
				line += fmt.Sprintf(" (%s)", mdEscape(name))
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return one(menu(b.String(), backToMenuKeyboard())), nil
}

func (a *App) beginEdit(ctx context.Context, userID int64) ([]reply, error) {
	return a.expensePicker(ctx, userID, msgPickEdit, cbPickEdit)
}

func (a *App) beginDelete(ctx context.Context, userID int64) ([]reply, error) {
	return a.expensePicker(ctx, userID, msgPickDelete, cbPickDelete)
}

func (a *App) expensePicker(ctx context.Context, userID int64, title, pickKey string) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}
	expenses, err := a.expenses.Recent(ctx, account, pickerLimit)
	if err != nil {
		logFlowError(ctx, "service.expenses", "picker", userID, err)
		return internalError(), err
	}
	if len(expenses) == 0 {
		return one(menu(msgNoExpenses, backToMenuKeyboard())), nil
	}
	return one(menu(title, expensePickKeyboard(expenses, pickKey))), nil
}

func (a *App) pickEdit(ctx context.Context, userID int64, payload string) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}
	e, err := a.expenses.Get(ctx, domain.ExpenseID(payload))
	if errors.Is(err, storage.ErrNotFound) || (err == nil && e.UserID != account) {
		return one(menu(msgExpenseNotFound, backToMenuKeyboard())), nil
	}
	if err != nil {
		logFlowError(ctx, "service.expenses", "edit.pick", userID, err)
		return internalError(), err
	}
	a.sessions.ClearScratch(userID)
	a.sessions.SetScratch(userID, scrEditID, payload)
	a.sessions.SetState(userID, stEditAmount)
	prompt := fmt.Sprintf("✏️ Editing %s from %s.\n\n%s", fmtMoney(e.Amount), fmtDay(e.Date), msgEditAmount)
	return one(text(prompt)), nil
}

func (a *App) onEditAmount(_ context.Context, userID int64, input string) ([]reply, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return one(text(msgBadAmount)), nil
	}
	a.sessions.SetScratch(userID, scrAmount, amount)
	a.sessions.SetState(userID, stEditReason)
	return one(text(msgEditReason)), nil
}

func (a *App) onEditReason(_ context.Context, userID int64, input string) ([]reply, error) {
	reason := strings.TrimSpace(input)
	if reason == msgSkipReasonMarker {
		reason = ""
	}
	a.sessions.SetScratch(userID, scrReason, reason)
	a.sessions.SetState(userID, stEditDate)
	return one(text(msgEditDate)), nil
}

func (a *App) onEditDate(ctx context.Context, userID int64, input string) ([]reply, error) {
	date, ok := tghelpers.ParseDate(input)
	if !ok {
		return one(text(msgBadDate)), nil
	}
	a.sessions.SetScratch(userID, scrDate, date)

	account, signedIn := a.account(userID)
	if !signedIn {
		a.endFlow(userID)
		return notSignedIn(), nil
	}
	groups, err := a.groups.ListPlain(ctx, account)
	if err != nil {
		logFlowError(ctx, "service.expenses", "edit.list_groups", userID, err)
		a.endFlow(userID)
		return internalError(), err
	}
	a.sessions.SetState(userID, stEditGroup)
	return one(menu(msgPickGroup, groupPickKeyboard(groups, cbEditSelGrp, cbEditSkipGroup))), nil
}

// finishEdit applies the collected patch in a single update.
func (a *App) finishEdit(ctx context.Context, userID int64, groupID string) ([]reply, error) {
	if _, ok := a.account(userID); !ok {
		a.endFlow(userID)
		return notSignedIn(), nil
	}

	id, okID := a.sessions.GetScratchString(userID, scrEditID)
	amount, okAmount := a.sessions.GetScratchFloat64(userID, scrAmount)
	reason, okReason := a.sessions.GetScratchString(userID, scrReason)
	date, okDate := a.sessions.GetScratchTime(userID, scrDate)
	a.endFlow(userID)
	if !okID || !okAmount || !okReason || !okDate {
		return one(menu(msgFlowStateLost, backToMenuKeyboard())), nil
	}

	patch := domain.ExpensePatch{Amount: amount, Reason: reason, Date: date, GroupID: domain.GroupID(groupID)}
	err := a.expenses.Edit(ctx, domain.ExpenseID(id), patch)
	if errors.Is(err, storage.ErrNotFound) {
		return one(menu(msgExpenseNotFound, backToMenuKeyboard())), nil
	}
	if err != nil {
		logFlowError(ctx, "service.expenses", "edit", userID, err)
		return internalError(), err
	}
	logger.SVCExpenses.Info("expense updated",
		slog.String("event", "edit"),
		slog.String("status", "ok"),
		slog.String("expense_id", id),
	)
	return []reply{text(msgExpenseUpdated), menu(msgMainMenuTitle, mainMenuKeyboard())}, nil
}

func (a *App) pickDelete(ctx context.Context, userID int64, payload string) ([]reply, error) {
	if _, ok := a.account(userID); !ok {
		return notSignedIn(), nil
	}
	// Deletion is idempotent; pressing a stale button still confirms.
	if err := a.expenses.Delete(ctx, domain.ExpenseID(payload)); err != nil {
		logFlowError(ctx, "service.expenses", "delete", userID, err)
		return internalError(), err
	}
	logger.SVCExpenses.Info("expense deleted",
		slog.String("event", "delete"),
		slog.String("status", "ok"),
		slog.String("expense_id", payload),
	)
	return []reply{text(msgExpenseDeleted), menu(msgMainMenuTitle, mainMenuKeyboard())}, nil
}

func (a *App) beginDeleteRange(userID int64) []reply {
	if _, ok := a.account(userID); !ok {
		return notSignedIn()
	}
	a.sessions.ClearScratch(userID)
	a.sessions.SetState(userID, stDeleteStart)
	return one(text(msgRangeStart))
}

func (a *App) onDeleteStart(_ context.Context, userID int64, input string) ([]reply, error) {
	date, ok := tghelpers.ParseDate(input)
	if !ok {
		return one(text(msgBadDate)), nil
	}
	a.sessions.SetScratch(userID, scrStartDate, date)
	a.sessions.SetState(userID, stDeleteEnd)
	return one(text(msgRangeEnd)), nil
}

func (a *App) onDeleteEnd(ctx context.Context, userID int64, input string) ([]reply, error) {
	end, ok := tghelpers.ParseDate(input)
	if !ok {
		return one(text(msgBadDate)), nil
	}
	start, okStart := a.sessions.GetScratchTime(userID, scrStartDate)
	a.endFlow(userID)
	if !okStart {
		return one(text(msgFlowStateLost)), nil
	}
	account, signedIn := a.account(userID)
	if !signedIn {
		return notSignedIn(), nil
	}

	n, err := a.expenses.DeleteRange(ctx, account, start, end)
	if err != nil {
		logFlowError(ctx, "service.expenses", "delete_range", userID, err)
		return internalError(), err
	}
	logger.SVCExpenses.Info("range deleted",
		slog.String("event", "delete_range"),
		slog.String("status", "ok"),
		slog.String("account_id", string(account)),
		slog.Int64("deleted", n),
	)
	confirmation := fmt.Sprintf("✅ Deleted %d expense(s) between %s and %s.", n, fmtDay(start), fmtDay(end))
	return []reply{text(confirmation), menu(msgMainMenuTitle, mainMenuKeyboard())}, nil
}
