package bot

import (
	"fmt"
	"time"

	"expensebot/core/telegram/format"
	tghelpers "expensebot/core/telegram/helpers"
)

const (
	msgWelcome = "💰 *Welcome to Expense Tracker Bot!*\n\n" +
		"Track your spending, organize it into groups and export\n" +
		"spreadsheet reports, all from this chat."
	msgLoggedOut     = "👋 *Logged out successfully!*\n\nSee you next time!"
	msgNotSignedIn   = "🔒 Please sign in first. Use /start to open the menu."
	msgAdminOnly     = "⛔ This section is for the administrator only."
	msgCancelled     = "❌ Operation cancelled. Use /start to open the menu."
	msgInternalError = "⚠️ Something went wrong. Please try again later."
	msgUnknownText   = "🤔 I didn't get that. Use /start to open the menu."

	msgSigninEmail      = "📧 Please enter your email:"
	msgSigninPassword   = "🔒 Please enter your password:"
	msgSigninFailed     = "❌ Invalid email or password. Use /start to try again."
	msgSignupEmail      = "📧 Please enter an email to register:"
	msgSignupPassword   = "🔒 Now create a password:"
	msgEmailTaken       = "❌ This email is already registered. Use /start to sign in."
	msgSignupDone       = "✅ *Registration successful!*"
	msgAdminSignedIn    = "✅ *Admin login successful!*"
	msgMainMenuTitle    = "📋 *Main Menu*\n\nWhat would you like to do?"
	msgAdminMenuTitle   = "🛠 *Admin Menu*"
	msgGroupsMenuTitle  = "📁 *Group Management*"
	msgExportMenuTitle  = "📊 *Export Expenses*\n\nPick a period:"
	msgAddAmount        = "💵 Enter the amount spent:"
	msgBadAmount        = "❌ Invalid amount. Please enter a number:"
	msgAddReason        = "📝 Enter the reason for spending (or send a dash to skip):"
	msgAddDate          = "📅 Enter the date (YYYY-MM-DD) or type \"today\":"
	msgBadDate          = "❌ Invalid date. Use the YYYY-MM-DD format:"
	msgPickGroup        = "📁 Select a group for this expense (optional):"
	msgFlowStateLost    = "⚠️ This flow has expired. Use /start to begin again."
	msgNoExpenses       = "📭 You have no expenses yet."
	msgExpenseNotFound  = "❌ Expense not found. It may have been deleted already."
	msgExpenseDeleted   = "✅ Expense deleted successfully!"
	msgExpenseUpdated   = "✅ Expense updated successfully!"
	msgPickEdit         = "✏️ Pick an expense to edit:"
	msgPickDelete       = "🗑 Pick an expense to delete:"
	msgEditAmount       = "💵 Enter the new amount:"
	msgEditReason       = "📝 Enter the new reason:"
	msgEditDate         = "📅 Enter the new date (YYYY-MM-DD):"
	msgRangeStart       = "📅 Enter the start date (YYYY-MM-DD):"
	msgRangeEnd         = "📅 Enter the end date (YYYY-MM-DD):"
	msgGroupName        = "📝 Enter a group name (e.g. Goa Trip, Office, Gym):"
	msgGroupNameEmpty   = "❌ Group name cannot be empty. Try another name:"
	msgNoGroups         = "📂 No groups created yet. Create one first!"
	msgGroupNotFound    = "❌ Group not found. It may have been deleted already."
	msgNothingToExport  = "📭 No expenses found for this period."
	msgExportStart      = "📅 Enter the export start date (YYYY-MM-DD):"
	msgExportEnd        = "📅 Enter the export end date (YYYY-MM-DD):"
	msgAdminNoUsers     = "👥 No registered users yet."
	msgSkipReasonMarker = "-"
)

func mdEscape(s string) string {
	out, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return out
}

func fmtMoney(v float64) string {
	return fmt.Sprintf("₹%.2f", v)
}

func fmtDay(t time.Time) string {
	return tghelpers.FormatDate(t)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
