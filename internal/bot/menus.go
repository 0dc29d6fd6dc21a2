package bot

import (
	"fmt"

	"expensebot/core/telegram/keyboard"
	"expensebot/internal/domain"
	"expensebot/internal/group"

	tele "gopkg.in/telebot.v4"
)

func welcomeKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🔑 Sign In", Unique: cbSignin},
			{Text: "📝 Sign Up", Unique: cbSignup},
		},
	)
}

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "➕ Add Expense", Unique: cbAddExpense},
			{Text: "📊 Dashboard", Unique: cbViewDashboard},
		},
		[]keyboard.InlineBtn{
			{Text: "✏️ Edit", Unique: cbEditExpense},
			{Text: "🗑 Delete", Unique: cbDeleteExpense},
		},
		[]keyboard.InlineBtn{
			{Text: "🧹 Delete by Date Range", Unique: cbDeleteRange},
		},
		[]keyboard.InlineBtn{
			{Text: "📁 Groups", Unique: cbManageGroups},
			{Text: "📤 Export", Unique: cbExportMenu},
		},
		[]keyboard.InlineBtn{
			{Text: "🚪 Logout", Unique: cbLogout},
		},
	)
}

func adminMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "👥 Manage Users", Unique: cbAdminPanel},
		},
		[]keyboard.InlineBtn{
			{Text: "🚪 Logout", Unique: cbLogout},
		},
	)
}

func groupsMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "➕ Create Group", Unique: cbCreateGroup},
			{Text: "📂 View Groups", Unique: cbViewGroups},
		},
		[]keyboard.InlineBtn{
			{Text: "🔙 Back", Unique: cbMainMenu},
		},
	)
}

func exportMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "🗓 This Month", Unique: cbExportMonthly},
			{Text: "🗓 This Quarter", Unique: cbExportQuarter},
		},
		[]keyboard.InlineBtn{
			{Text: "🗓 This Year", Unique: cbExportYearly},
			{Text: "🗓 Custom Range", Unique: cbExportCustom},
		},
		[]keyboard.InlineBtn{
			{Text: "🗂 Everything", Unique: cbExportAll},
		},
		[]keyboard.InlineBtn{
			{Text: "🔙 Back", Unique: cbMainMenu},
		},
	)
}

func backToMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🔙 Main Menu", Unique: cbMainMenu}},
	)
}

func backToGroupsKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🔙 Groups", Unique: cbViewGroups}},
	)
}

// groupPickKeyboard offers the user's groups plus a skip button for the
// group-selection step of the add and edit flows. Groups are laid out two
// per row to keep long lists compact.
func groupPickKeyboard(groups []domain.Group, selectKey, skipKey string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(groups)+1)
	buttons = append(buttons, keyboard.InlineBtn{Text: "⏭ No group", Unique: skipKey})
	for i, g := range groups {
		if i >= pickerLimit {
			break
		}
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   "📁 " + g.Name,
			Unique: selectKey,
			Data:   string(g.ID),
		})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

// expensePickKeyboard labels each recent expense for the edit and delete pickers.
func expensePickKeyboard(expenses []domain.Expense, pickKey string) *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(expenses)+1)
	for i, e := range expenses {
		if i >= pickerLimit {
			break
		}
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   fmt.Sprintf("%s: %s - %s", fmtDay(e.Date), fmtMoney(e.Amount), truncate(e.Reason, 20)),
			Unique: pickKey,
			Data:   string(e.ID),
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: "🔙 Main Menu", Unique: cbMainMenu})
	return keyboard.InlineButtons(buttons)
}

// groupListKeyboard renders view/export/delete actions for each group.
func groupListKeyboard(groups []group.Summary) *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, 0, len(groups)+1)
	for _, s := range groups {
		id := string(s.Group.ID)
		rows = append(rows, []keyboard.InlineBtn{
			{Text: "👁 " + truncate(s.Group.Name, 14), Unique: cbViewGroup, Data: id},
			{Text: "📤", Unique: cbExportGroup, Data: id},
			{Text: "🗑", Unique: cbDelGroup, Data: id},
		})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "🔙 Back", Unique: cbManageGroups}})
	return keyboard.InlineButtonsRows(rows...)
}
