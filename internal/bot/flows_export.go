package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"expensebot/core/logger"
	tghelpers "expensebot/core/telegram/helpers"
	"expensebot/internal/domain"
	"expensebot/internal/report"
	"expensebot/internal/storage"
)

func (a *App) exportMenu(userID int64) []reply {
	if _, ok := a.account(userID); !ok {
		return notSignedIn()
	}
	return one(menu(msgExportMenuTitle, exportMenuKeyboard()))
}

// exportPeriod renders the user's expenses for the period as a spreadsheet.
// Empty periods answer with a notice instead of an empty workbook.
func (a *App) exportPeriod(ctx context.Context, userID int64, p report.Period) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}

	var (
		expenses []domain.Expense
		err      error
	)
	switch {
	case p.All:
		expenses, err = a.expenses.All(ctx, account)
	case !p.To.IsZero():
		expenses, err = a.expenses.InRange(ctx, account, p.From, p.To)
	default:
		expenses, err = a.expenses.Since(ctx, account, p.From)
	}
	if err != nil {
		logFlowError(ctx, "service.reports", "export", userID, err)
		return internalError(), err
	}
	if len(expenses) == 0 {
		return one(menu(msgNothingToExport, exportMenuKeyboard())), nil
	}

	names, err := a.groups.NameMap(ctx, account)
	if err != nil {
		logFlowError(ctx, "service.reports", "export.groups", userID, err)
		return internalError(), err
	}

	return a.renderReport(ctx, userID, account, expenses, names, p.Filename(time.Now()))
}

func (a *App) renderReport(ctx context.Context, userID int64, account domain.UserID, expenses []domain.Expense, names map[domain.GroupID]string, filename string) ([]reply, error) {
	data, err := report.Render(report.BuildRows(expenses, names))
	if err != nil {
		logFlowError(ctx, "service.reports", "export.render", userID, err)
		return internalError(), err
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	logger.SVCReports.Info("report rendered",
		slog.String("event", "export"),
		slog.String("status", "ok"),
		slog.String("account_id", string(account)),
		slog.Int("expenses", len(expenses)),
	)

	caption := fmt.Sprintf("📊 %d expense(s), total %s", len(expenses), fmtMoney(total))
	return []reply{
		{file: &reportFile{name: filename, caption: caption, data: data}},
		menu(msgMainMenuTitle, mainMenuKeyboard()),
	}, nil
}

func (a *App) beginExportCustom(userID int64) []reply {
	if _, ok := a.account(userID); !ok {
		return notSignedIn()
	}
	a.sessions.ClearScratch(userID)
	a.sessions.SetState(userID, stExportStart)
	return one(text(msgExportStart))
}

func (a *App) onExportStart(_ context.Context, userID int64, input string) ([]reply, error) {
	date, ok := tghelpers.ParseDate(input)
	if !ok {
		return one(text(msgBadDate)), nil
	}
	a.sessions.SetScratch(userID, scrStartDate, date)
	a.sessions.SetState(userID, stExportEnd)
	return one(text(msgExportEnd)), nil
}

func (a *App) onExportEnd(ctx context.Context, userID int64, input string) ([]reply, error) {
	end, ok := tghelpers.ParseDate(input)
	if !ok {
		return one(text(msgBadDate)), nil
	}
	start, okStart := a.sessions.GetScratchTime(userID, scrStartDate)
	a.endFlow(userID)
	if !okStart {
		return one(text(msgFlowStateLost)), nil
	}
	return a.exportPeriod(ctx, userID, report.Custom(start, end))
}

// exportGroup renders a single group's expenses as a spreadsheet.
func (a *App) exportGroup(ctx context.Context, userID int64, payload string) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}

	g, err := a.groups.Get(ctx, account, domain.GroupID(payload))
	if errors.Is(err, storage.ErrNotFound) {
		return one(menu(msgGroupNotFound, backToGroupsKeyboard())), nil
	}
	if err != nil {
		logFlowError(ctx, "service.reports", "export.group", userID, err)
		return internalError(), err
	}

	details, err := a.groups.Details(ctx, account, g.ID)
	if err != nil {
		logFlowError(ctx, "service.reports", "export.group", userID, err)
		return internalError(), err
	}
	if len(details.Expenses) == 0 {
		return one(menu(msgNothingToExport, backToGroupsKeyboard())), nil
	}

	names := map[domain.GroupID]string{g.ID: g.Name}
	filename := fmt.Sprintf("expenses_group_%s.xlsx", time.Now().Format("2006-01-02"))
	return a.renderReport(ctx, userID, account, details.Expenses, names, filename)
}
