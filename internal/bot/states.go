package bot

import "expensebot/core/telegram/state"

// Conversation states. Each one awaits exactly one text input except the
// group-selection steps, which accept only inline button presses.
const (
	stSigninEmail    state.State = "signin_email"
	stSigninPassword state.State = "signin_password"
	stSignupEmail    state.State = "signup_email"
	stSignupPassword state.State = "signup_password"

	stAddAmount state.State = "add_amount"
	stAddReason state.State = "add_reason"
	stAddDate   state.State = "add_date"
	stAddGroup  state.State = "add_group"

	stEditAmount state.State = "edit_amount"
	stEditReason state.State = "edit_reason"
	stEditDate   state.State = "edit_date"
	stEditGroup  state.State = "edit_group"

	stDeleteStart state.State = "delete_start_date"
	stDeleteEnd   state.State = "delete_end_date"

	stCreateGroupName state.State = "create_group_name"

	stExportStart state.State = "export_start_date"
	stExportEnd   state.State = "export_end_date"
)

// Scratch keys for data collected mid-flow.
const (
	scrEmail     = "email"
	scrAmount    = "amount"
	scrReason    = "reason"
	scrDate      = "date"
	scrEditID    = "edit_id"
	scrStartDate = "start_date"
)

// Callback keys. Payload-carrying keys receive an entity id after the
// separator; the rest are plain menu buttons.
const (
	cbSignin        = "signin"
	cbSignup        = "signup"
	cbMainMenu      = "main_menu"
	cbAddExpense    = "add_expense"
	cbViewDashboard = "view_dashboard"
	cbEditExpense   = "edit_expense"
	cbDeleteExpense = "delete_expense"
	cbDeleteRange   = "delete_range"
	cbManageGroups  = "manage_groups"
	cbCreateGroup   = "create_group"
	cbViewGroups    = "view_groups"
	cbExportMenu    = "export_menu"
	cbExportMonthly = "export_monthly"
	cbExportQuarter = "export_quarterly"
	cbExportYearly  = "export_yearly"
	cbExportCustom  = "export_custom"
	cbExportAll     = "export_all"
	cbLogout        = "logout"
	cbAdminPanel    = "admin_panel"
	cbAdminBack     = "admin_back"
	cbSkipGroup     = "skipgroup"
	cbEditSkipGroup = "editskipgroup"

	cbPickEdit    = "edit"
	cbPickDelete  = "del"
	cbSelectGroup = "selectgroup"
	cbEditSelGrp  = "editselgroup"
	cbViewGroup   = "viewgroup"
	cbDelGroup    = "delgroup"
	cbExportGroup = "exportgroup"
	cbClearUser   = "clearuser"
)
