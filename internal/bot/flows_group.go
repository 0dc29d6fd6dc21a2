package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log/slog"

	"expensebot/core/logger"
	"expensebot/internal/domain"
	"expensebot/internal/group"
	"expensebot/internal/storage"
)

func (a *App) groupsMenu(userID int64) []reply {
	if _, ok := a.account(userID); !ok {
		return notSignedIn()
	}
	return one(menu(msgGroupsMenuTitle, groupsMenuKeyboard()))
}

func (a *App) beginCreateGroup(userID int64) []reply {
	if _, ok := a.account(userID); !ok {
		return notSignedIn()
	}
	a.sessions.ClearScratch(userID)
	a.sessions.SetState(userID, stCreateGroupName)
	return one(text(msgGroupName))
}

func (a *App) onCreateGroupName(ctx context.Context, userID int64, input string) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		a.endFlow(userID)
		return notSignedIn(), nil
	}

	g, err := a.groups.Create(ctx, account, input)
	if errors.Is(err, group.ErrEmptyName) {
		// Stay in the flow until a usable name arrives.
		return one(text(msgGroupNameEmpty)), nil
	}
	if err != nil {
		logFlowError(ctx, "service.groups", "create", userID, err)
		a.endFlow(userID)
		return internalError(), err
	}
	a.endFlow(userID)
	logger.SVCGroups.Info("group created",
		slog.String("event", "create"),
		slog.String("status", "ok"),
		slog.String("account_id", string(account)),
		slog.String("group_id", string(g.ID)),
	)
	confirmation := fmt.Sprintf("✅ Group *%s* created successfully!", mdEscape(g.Name))
	return []reply{text(confirmation), menu(msgMainMenuTitle, mainMenuKeyboard())}, nil
}

// viewGroups lists the user's groups with per-group totals.
func (a *App) viewGroups(ctx context.Context, userID int64) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}

	summaries, err := a.groups.List(ctx, account)
	if err != nil {
		logFlowError(ctx, "service.groups", "list", userID, err)
		return internalError(), err
	}
	if len(summaries) == 0 {
		return one(menu(msgNoGroups, groupsMenuKeyboard())), nil
	}

	var b strings.Builder
	b.WriteString("📂 *Your Groups*\n\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "• *%s*: %s (%d expense(s))\n", mdEscape(s.Group.Name), fmtMoney(s.Total), s.Count)
	}
	return one(menu(b.String(), groupListKeyboard(summaries))), nil
}

func (a *App) viewGroup(ctx context.Context, userID int64, payload string) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}

	details, err := a.groups.Details(ctx, account, domain.GroupID(payload))
	if errors.Is(err, storage.ErrNotFound) {
		return one(menu(msgGroupNotFound, backToGroupsKeyboard())), nil
	}
	if err != nil {
		logFlowError(ctx, "service.groups", "details", userID, err)
		return internalError(), err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📁 *%s*\n\nTotal: *%s* across %d expense(s).\n",
		mdEscape(details.Group.Name), fmtMoney(details.Total), len(details.Expenses))
	if len(details.Expenses) > 0 {
		b.WriteString("\nRecent:\n")
		for i, e := range details.Expenses {
			if i >= pickerLimit {
				break
			}
			fmt.Fprintf(&b, "• %s - %s, _%s_\n", fmtDay(e.Date), fmtMoney(e.Amount), mdEscape(e.Reason))
		}
	}
	return one(menu(b.String(), backToGroupsKeyboard())), nil
}

// deleteGroup removes the group and re-renders the list. The group's
// expenses stay in history without a group tag.
func (a *App) deleteGroup(ctx context.Context, userID int64, payload string) ([]reply, error) {
	account, ok := a.account(userID)
	if !ok {
		return notSignedIn(), nil
	}

	deleted, err := a.groups.Delete(ctx, account, domain.GroupID(payload))
	if errors.Is(err, storage.ErrNotFound) {
		return one(menu(msgGroupNotFound, backToGroupsKeyboard())), nil
	}
	if err != nil {
		logFlowError(ctx, "service.groups", "delete", userID, err)
		return internalError(), err
	}
	logger.SVCGroups.Info("group deleted",
		slog.String("event", "delete"),
		slog.String("status", "ok"),
		slog.String("account_id", string(account)),
		slog.String("group_id", payload),
	)

	confirmation := fmt.Sprintf("✅ Group *%s* deleted. Its expenses kept their history.", mdEscape(deleted.Name))
	followUp, err := a.viewGroups(ctx, userID)
	if err != nil {
		return one(text(confirmation)), nil
	}
	return append([]reply{text(confirmation)}, followUp...), nil
}
