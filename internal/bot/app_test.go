package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensebot/internal/config"
	"expensebot/internal/domain"
	"expensebot/internal/storage"
)

const chatID int64 = 42

func newTestApp() (*App, *storage.Memory) {
	store := storage.NewMemory()
	cfg := &config.Config{}
	cfg.Admin = config.AdminConfig{Email: "admin@example.com", Password: "root"}
	return New(cfg, store), store
}

func signUp(t *testing.T, a *App, userID int64, email, password string) domain.UserID {
	t.Helper()
	ctx := context.Background()

	rs := a.beginSignup(userID)
	require.Len(t, rs, 1)

	rs, err := a.onSignupEmail(ctx, userID, email)
	require.NoError(t, err)
	assert.Equal(t, msgSignupPassword, rs[0].text)

	rs, err = a.onSignupPassword(ctx, userID, password)
	require.NoError(t, err)
	assert.Equal(t, msgSignupDone, rs[0].text)

	account, ok := a.account(userID)
	require.True(t, ok)
	return account
}

func addExpense(t *testing.T, a *App, userID int64, amount, reason, date, groupID string) {
	t.Helper()
	ctx := context.Background()

	rs := a.beginAdd(userID)
	require.Equal(t, msgAddAmount, rs[0].text)

	rs, err := a.onAddAmount(ctx, userID, amount)
	require.NoError(t, err)
	require.Equal(t, msgAddReason, rs[0].text)

	_, err = a.onAddReason(ctx, userID, reason)
	require.NoError(t, err)

	rs, err = a.onAddDate(ctx, userID, date)
	require.NoError(t, err)
	require.Equal(t, msgPickGroup, rs[0].text)

	rs, err = a.finishAdd(ctx, userID, groupID)
	require.NoError(t, err)
	require.Contains(t, rs[0].text, "Expense added")
}

func TestStartBeforeAndAfterSignIn(t *testing.T) {
	a, _ := newTestApp()

	rs := a.start(chatID)
	assert.Equal(t, msgWelcome, rs[0].text)
	require.NotNil(t, rs[0].markup)

	signUp(t, a, chatID, "alice@example.com", "pw")
	rs = a.start(chatID)
	assert.Equal(t, msgMainMenuTitle, rs[0].text)
}

func TestRegisterAddDashboard(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")
	addExpense(t, a, chatID, "250.5", "Groceries", "2026-08-10", "")
	addExpense(t, a, chatID, "100", "-", "today", "")

	rs, err := a.dashboard(ctx, chatID)
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "₹350.50")
	assert.Contains(t, rs[0].text, "Groceries")
	assert.Contains(t, rs[0].text, domain.NoReason)
}

func TestInvalidInputRepromptsSameState(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")
	a.beginAdd(chatID)

	for i := 0; i < 3; i++ {
		rs, err := a.onAddAmount(ctx, chatID, "not-a-number")
		require.NoError(t, err)
		assert.Equal(t, msgBadAmount, rs[0].text)
		assert.Equal(t, stAddAmount, a.sessions.GetState(chatID))
	}

	rs, err := a.onAddAmount(ctx, chatID, "75")
	require.NoError(t, err)
	assert.Equal(t, msgAddReason, rs[0].text)
	assert.Equal(t, stAddReason, a.sessions.GetState(chatID))

	_, err = a.onAddReason(ctx, chatID, "Taxi")
	require.NoError(t, err)
	rs, err = a.onAddDate(ctx, chatID, "31-08-2026")
	require.NoError(t, err)
	assert.Equal(t, msgBadDate, rs[0].text)
	assert.Equal(t, stAddDate, a.sessions.GetState(chatID))

	// Scratch survives the re-prompt.
	amount, ok := a.sessions.GetScratchFloat64(chatID, scrAmount)
	require.True(t, ok)
	assert.Equal(t, 75.0, amount)
}

func TestSigninWrongPassword(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")
	a.logout(chatID)

	a.beginSignin(chatID)
	_, err := a.onSigninEmail(ctx, chatID, "alice@example.com")
	require.NoError(t, err)
	rs, err := a.onSigninPassword(ctx, chatID, "wrong")
	require.NoError(t, err)
	assert.Equal(t, msgSigninFailed, rs[0].text)

	_, ok := a.account(chatID)
	assert.False(t, ok)
}

func TestAdminElevationAndGating(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	// A normal user cannot open the panel.
	signUp(t, a, chatID, "alice@example.com", "pw")
	rs, err := a.adminPanel(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, msgAdminOnly, rs[0].text)
	a.logout(chatID)

	a.beginSignin(chatID)
	_, err = a.onSigninEmail(ctx, chatID, "admin@example.com")
	require.NoError(t, err)
	rs, err = a.onSigninPassword(ctx, chatID, "root")
	require.NoError(t, err)
	assert.Equal(t, msgAdminSignedIn, rs[0].text)
	assert.True(t, a.isAdmin(chatID))

	rs, err = a.adminPanel(ctx, chatID)
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "alice@example.com")
}

func TestAdminClearUser(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	account := signUp(t, a, chatID, "alice@example.com", "pw")
	addExpense(t, a, chatID, "10", "a", "2026-08-01", "")
	addExpense(t, a, chatID, "20", "b", "2026-08-02", "")

	const adminChat int64 = 77
	a.beginSignin(adminChat)
	_, err := a.onSigninEmail(ctx, adminChat, "admin@example.com")
	require.NoError(t, err)
	_, err = a.onSigninPassword(ctx, adminChat, "root")
	require.NoError(t, err)

	rs, err := a.clearUser(ctx, adminChat, string(account))
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "Cleared 2 expense(s)")

	rs, err = a.dashboard(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, msgNoExpenses, rs[0].text)
}

func TestAdminBackReturnsAdminMenu(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")
	rs := a.adminBack(chatID)
	assert.Equal(t, msgAdminOnly, rs[0].text)
	a.logout(chatID)

	a.beginSignin(chatID)
	_, err := a.onSigninEmail(ctx, chatID, "admin@example.com")
	require.NoError(t, err)
	_, err = a.onSigninPassword(ctx, chatID, "root")
	require.NoError(t, err)

	rs = a.adminBack(chatID)
	assert.Equal(t, msgAdminMenuTitle, rs[0].text)
	require.NotNil(t, rs[0].markup)
}

func TestGroupLifecyclePreservesExpenses(t *testing.T) {
	a, store := newTestApp()
	ctx := context.Background()

	account := signUp(t, a, chatID, "alice@example.com", "pw")

	a.beginCreateGroup(chatID)
	rs, err := a.onCreateGroupName(ctx, chatID, "   ")
	require.NoError(t, err)
	assert.Equal(t, msgGroupNameEmpty, rs[0].text)
	assert.Equal(t, stCreateGroupName, a.sessions.GetState(chatID))

	rs, err = a.onCreateGroupName(ctx, chatID, "Goa Trip")
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "created successfully")

	groups, err := store.ListGroups(ctx, account)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	groupID := string(groups[0].ID)

	addExpense(t, a, chatID, "500", "Hotel", "2026-08-10", groupID)
	addExpense(t, a, chatID, "150", "Food", "2026-08-11", groupID)

	rs, err = a.viewGroups(ctx, chatID)
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "Goa Trip")
	assert.Contains(t, rs[0].text, "₹650.00")

	rs, err = a.deleteGroup(ctx, chatID, groupID)
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "deleted")

	// Expenses survive without their group tag.
	expenses, err := store.ListExpenses(ctx, account)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	for _, e := range expenses {
		assert.Empty(t, e.GroupID)
	}

	rs, err = a.deleteGroup(ctx, chatID, groupID)
	require.NoError(t, err)
	assert.Equal(t, msgGroupNotFound, rs[0].text)
}

func TestEditFlow(t *testing.T) {
	a, store := newTestApp()
	ctx := context.Background()

	account := signUp(t, a, chatID, "alice@example.com", "pw")
	addExpense(t, a, chatID, "10", "Coffee", "2026-08-01", "")

	expenses, err := store.ListExpenses(ctx, account)
	require.NoError(t, err)
	id := string(expenses[0].ID)

	rs, err := a.pickEdit(ctx, chatID, id)
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, msgEditAmount)

	_, err = a.onEditAmount(ctx, chatID, "12.5")
	require.NoError(t, err)
	_, err = a.onEditReason(ctx, chatID, "Espresso")
	require.NoError(t, err)
	_, err = a.onEditDate(ctx, chatID, "2026-08-02")
	require.NoError(t, err)

	rs, err = a.finishEdit(ctx, chatID, "")
	require.NoError(t, err)
	assert.Equal(t, msgExpenseUpdated, rs[0].text)

	got, err := store.ExpenseByID(ctx, domain.ExpenseID(id))
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Amount)
	assert.Equal(t, "Espresso", got.Reason)

	rs, err = a.pickEdit(ctx, chatID, "stale-id")
	require.NoError(t, err)
	assert.Equal(t, msgExpenseNotFound, rs[0].text)
}

func TestDeleteRangeFlow(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")
	addExpense(t, a, chatID, "10", "a", "2026-08-01", "")
	addExpense(t, a, chatID, "20", "b", "2026-08-15", "")
	addExpense(t, a, chatID, "30", "c", "2026-09-01", "")

	a.beginDeleteRange(chatID)
	_, err := a.onDeleteStart(ctx, chatID, "2026-08-01")
	require.NoError(t, err)
	rs, err := a.onDeleteEnd(ctx, chatID, "2026-08-31")
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "Deleted 2 expense(s)")

	rs, err = a.dashboard(ctx, chatID)
	require.NoError(t, err)
	assert.Contains(t, rs[0].text, "₹30.00")
}

func TestExportFlows(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")

	// Nothing to export yet.
	a.beginExportCustom(chatID)
	_, err := a.onExportStart(ctx, chatID, "2026-01-01")
	require.NoError(t, err)
	rs, err := a.onExportEnd(ctx, chatID, "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, msgNothingToExport, rs[0].text)

	addExpense(t, a, chatID, "10", "a", "2026-01-10", "")

	a.beginExportCustom(chatID)
	_, err = a.onExportStart(ctx, chatID, "2026-01-01")
	require.NoError(t, err)
	rs, err = a.onExportEnd(ctx, chatID, "2026-01-31")
	require.NoError(t, err)
	require.NotNil(t, rs[0].file)
	assert.NotEmpty(t, rs[0].file.data)
	assert.Contains(t, rs[0].file.name, "expenses_custom_")
	assert.Contains(t, rs[0].file.caption, "₹10.00")
}

func TestLogoutEndsSession(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")
	rs := a.logout(chatID)
	assert.Equal(t, msgLoggedOut, rs[0].text)

	rs = a.beginAdd(chatID)
	assert.Equal(t, msgNotSignedIn, rs[0].text)

	got, err := a.dashboard(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, msgNotSignedIn, got[0].text)
}

func TestDuplicateSignupEmail(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")
	a.logout(chatID)

	a.beginSignup(chatID)
	rs, err := a.onSignupEmail(ctx, chatID, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, msgEmailTaken, rs[0].text)
	assert.False(t, a.sessions.InProgress(chatID))
}

func TestFlowStateLostOnMissingScratch(t *testing.T) {
	a, _ := newTestApp()
	ctx := context.Background()

	signUp(t, a, chatID, "alice@example.com", "pw")

	// Pressing a stale group button without a live add flow.
	rs, err := a.finishAdd(ctx, chatID, "whatever")
	require.NoError(t, err)
	assert.Equal(t, msgFlowStateLost, rs[0].text)
}
