package bot

import (
	"bytes"
	"context"

	coretelegram "expensebot/core/telegram"
	"expensebot/core/telegram/callbacks"
	"expensebot/core/telegram/commands"
	tghelpers "expensebot/core/telegram/helpers"
	"expensebot/core/telegram/middleware"
	"expensebot/core/telegram/router"
	"expensebot/core/telegram/state"
	"expensebot/internal/report"

	tele "gopkg.in/telebot.v4"
)

// TelegramRunOptions assembles the registry, routes and middlewares for the
// core runtime. This is the only place flows touch telebot directly.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	a.registerCallbacks(reg)
	a.registerStates()
	reg.SetTextFallback(func(c tele.Context) error {
		return tghelpers.SendMD(c, msgUnknownText)
	})

	routeOpts := router.CommandRouteOptions{
		Sessions: a.sessions,
		OnAdminReject: func(c tele.Context) error {
			return tghelpers.SendMD(c, msgAdminOnly)
		},
	}

	var routes []coretelegram.Route
	routes = append(routes, router.CommandRoutes(reg, routeOpts)...)
	routes = append(routes, router.TextRoute(a.sessions, reg, router.TextOptions{}))
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	cfg := a.cfg.CoreConfig()
	return coretelegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
	}, nil
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Open the menu",
		Aliases:     []string{"help"},
		Handler:     a.plain(a.start),
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Description: "Cancel the current operation",
		Handler:     a.plain(a.cancel),
	})
	reg.RegisterCommand("/users", commands.Command{
		Description: "List registered users",
		AdminOnly:   true,
		Hidden:      true,
		Handler:     a.action(a.adminPanel),
	})
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) {
	// Menu navigation.
	_ = reg.RegisterCallback(cbMainMenu, a.plainEdit(a.mainMenu))
	_ = reg.RegisterCallback(cbSignin, a.plainEdit(a.beginSignin))
	_ = reg.RegisterCallback(cbSignup, a.plainEdit(a.beginSignup))
	_ = reg.RegisterCallback(cbLogout, a.plainEdit(a.logout))

	// Expenses.
	_ = reg.RegisterCallback(cbAddExpense, a.plainEdit(a.beginAdd))
	_ = reg.RegisterCallback(cbViewDashboard, a.actionEdit(a.dashboard))
	_ = reg.RegisterCallback(cbEditExpense, a.actionEdit(a.beginEdit))
	_ = reg.RegisterCallback(cbDeleteExpense, a.actionEdit(a.beginDelete))
	_ = reg.RegisterCallback(cbDeleteRange, a.plainEdit(a.beginDeleteRange))
	_ = reg.RegisterCallback(cbPickEdit, a.payload(a.pickEdit))
	_ = reg.RegisterCallback(cbPickDelete, a.payload(a.pickDelete))
	_ = reg.RegisterCallback(cbSelectGroup, a.payload(a.finishAdd))
	_ = reg.RegisterCallback(cbSkipGroup, a.payload(a.finishAdd))
	_ = reg.RegisterCallback(cbEditSelGrp, a.payload(a.finishEdit))
	_ = reg.RegisterCallback(cbEditSkipGroup, a.payload(a.finishEdit))

	// Groups.
	_ = reg.RegisterCallback(cbManageGroups, a.plainEdit(a.groupsMenu))
	_ = reg.RegisterCallback(cbCreateGroup, a.plainEdit(a.beginCreateGroup))
	_ = reg.RegisterCallback(cbViewGroups, a.actionEdit(a.viewGroups))
	_ = reg.RegisterCallback(cbViewGroup, a.payload(a.viewGroup))
	_ = reg.RegisterCallback(cbDelGroup, a.payload(a.deleteGroup))
	_ = reg.RegisterCallback(cbExportGroup, a.payload(a.exportGroup))

	// Exports.
	_ = reg.RegisterCallback(cbExportMenu, a.plainEdit(a.exportMenu))
	_ = reg.RegisterCallback(cbExportMonthly, a.exportPreset(report.Monthly))
	_ = reg.RegisterCallback(cbExportQuarter, a.exportPreset(report.Quarterly))
	_ = reg.RegisterCallback(cbExportYearly, a.exportPreset(report.Yearly))
	_ = reg.RegisterCallback(cbExportAll, a.exportPreset(report.Everything))
	_ = reg.RegisterCallback(cbExportCustom, a.plainEdit(a.beginExportCustom))

	// Admin, gated on the session flag in addition to in-method checks.
	adminOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		Sessions: a.sessions,
		OnReject: func(c tele.Context) error {
			return tghelpers.SendMD(c, msgAdminOnly)
		},
	})
	_ = reg.RegisterCallback(cbAdminPanel, adminOnly(a.actionEdit(a.adminPanel)))
	_ = reg.RegisterCallback(cbAdminBack, adminOnly(a.plainEdit(a.adminBack)))
	_ = reg.RegisterCallback(cbClearUser, adminOnly(a.payload(a.clearUser)))
}

func (a *App) registerStates() {
	handlers := map[state.State]func(context.Context, int64, string) ([]reply, error){
		stSigninEmail:     a.onSigninEmail,
		stSigninPassword:  a.onSigninPassword,
		stSignupEmail:     a.onSignupEmail,
		stSignupPassword:  a.onSignupPassword,
		stAddAmount:       a.onAddAmount,
		stAddReason:       a.onAddReason,
		stAddDate:         a.onAddDate,
		stEditAmount:      a.onEditAmount,
		stEditReason:      a.onEditReason,
		stEditDate:        a.onEditDate,
		stDeleteStart:     a.onDeleteStart,
		stDeleteEnd:       a.onDeleteEnd,
		stCreateGroupName: a.onCreateGroupName,
		stExportStart:     a.onExportStart,
		stExportEnd:       a.onExportEnd,
	}
	for st, fn := range handlers {
		a.sessions.RegisterHandler(st, a.textInput(fn))
	}
	// stAddGroup and stEditGroup accept only button presses; free text in
	// those states nudges the user back to the keyboard.
	groupNudge := func(c tele.Context) error {
		return tghelpers.SendMD(c, msgPickGroup)
	}
	a.sessions.RegisterHandler(stAddGroup, groupNudge)
	a.sessions.RegisterHandler(stEditGroup, groupNudge)
}

// plain adapts a no-error flow method to a command handler. Commands and
// buttons are valid from any state: an in-progress text flow is abandoned,
// its scratch left behind to be overwritten by the next flow.
func (a *App) plain(fn func(int64) []reply) tele.HandlerFunc {
	return func(c tele.Context) error {
		a.sessions.ClearState(c.Sender().ID)
		return a.deliver(c, fn(c.Sender().ID), false)
	}
}

// plainEdit is like plain but edits the triggering menu message in place.
func (a *App) plainEdit(fn func(int64) []reply) tele.HandlerFunc {
	return func(c tele.Context) error {
		a.sessions.ClearState(c.Sender().ID)
		return a.deliver(c, fn(c.Sender().ID), true)
	}
}

// action adapts a context-taking flow method to a command handler.
func (a *App) action(fn func(context.Context, int64) ([]reply, error)) tele.HandlerFunc {
	return a.actionWith(fn, false)
}

func (a *App) actionEdit(fn func(context.Context, int64) ([]reply, error)) tele.HandlerFunc {
	return a.actionWith(fn, true)
}

func (a *App) actionWith(fn func(context.Context, int64) ([]reply, error), edit bool) tele.HandlerFunc {
	return func(c tele.Context) error {
		a.sessions.ClearState(c.Sender().ID)
		replies, err := fn(tghelpers.BuildContext(c), c.Sender().ID)
		if sendErr := a.deliver(c, replies, edit); sendErr != nil {
			return sendErr
		}
		return err
	}
}

// payload adapts a callback method that consumes the button payload.
// Scratch is not touched here: finishAdd and finishEdit still need it.
func (a *App) payload(fn func(context.Context, int64, string) ([]reply, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		a.sessions.ClearState(c.Sender().ID)
		data := callbacks.CallbackPayload(c)
		replies, err := fn(tghelpers.BuildContext(c), c.Sender().ID, data)
		if sendErr := a.deliver(c, replies, true); sendErr != nil {
			return sendErr
		}
		return err
	}
}

// textInput adapts an FSM step handler that consumes the message text.
func (a *App) textInput(fn func(context.Context, int64, string) ([]reply, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		replies, err := fn(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
		if sendErr := a.deliver(c, replies, false); sendErr != nil {
			return sendErr
		}
		return err
	}
}

func (a *App) exportPreset(period func() report.Period) tele.HandlerFunc {
	return a.actionEdit(func(ctx context.Context, userID int64) ([]reply, error) {
		return a.exportPeriod(ctx, userID, period())
	})
}

// deliver sends replies in order. When edit is set the first text reply
// replaces the message that carried the pressed button.
func (a *App) deliver(c tele.Context, replies []reply, edit bool) error {
	for i, r := range replies {
		if r.file != nil {
			doc := &tele.Document{
				File:     tele.FromReader(bytes.NewReader(r.file.data)),
				FileName: r.file.name,
				Caption:  r.file.caption,
				MIME:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			}
			if err := c.Send(doc); err != nil {
				return err
			}
			continue
		}
		var err error
		if i == 0 && edit {
			err = tghelpers.EditOrSendMD(c, r.text, r.markup)
		} else {
			err = tghelpers.SendMD(c, r.text, r.markup)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
