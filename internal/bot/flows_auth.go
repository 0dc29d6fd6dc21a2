package bot

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"expensebot/core/logger"
	"expensebot/internal/auth"
	"expensebot/internal/storage"
)

// start greets the chat. A signed-in user lands straight in their menu so
// /start doubles as "show the menu".
func (a *App) start(userID int64) []reply {
	if _, admin, ok := a.sessions.Identity(userID); ok {
		if admin {
			return one(menu(msgAdminMenuTitle, adminMenuKeyboard()))
		}
		return one(menu(msgMainMenuTitle, mainMenuKeyboard()))
	}
	return one(menu(msgWelcome, welcomeKeyboard()))
}

func (a *App) mainMenu(userID int64) []reply {
	if a.isAdmin(userID) {
		return one(menu(msgAdminMenuTitle, adminMenuKeyboard()))
	}
	if _, ok := a.account(userID); !ok {
		return notSignedIn()
	}
	return one(menu(msgMainMenuTitle, mainMenuKeyboard()))
}

func (a *App) cancel(userID int64) []reply {
	a.endFlow(userID)
	return one(text(msgCancelled))
}

func (a *App) beginSignin(userID int64) []reply {
	a.sessions.ClearScratch(userID)
	a.sessions.SetState(userID, stSigninEmail)
	return one(text(msgSigninEmail))
}

func (a *App) onSigninEmail(_ context.Context, userID int64, input string) ([]reply, error) {
	a.sessions.SetScratch(userID, scrEmail, auth.NormalizeEmail(input))
	a.sessions.SetState(userID, stSigninPassword)
	return one(text(msgSigninPassword)), nil
}

func (a *App) onSigninPassword(ctx context.Context, userID int64, input string) ([]reply, error) {
	email, ok := a.sessions.GetScratchString(userID, scrEmail)
	if !ok {
		a.endFlow(userID)
		return one(text(msgFlowStateLost)), nil
	}
	a.endFlow(userID)

	accountID, admin, err := a.auth.SignIn(ctx, email, input)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		logger.SVCAuth.Warn("signin rejected",
			slog.String("event", "signin"),
			slog.String("status", "rejected"),
			slog.Int64("user_id", userID),
		)
		return one(menu(msgSigninFailed, welcomeKeyboard())), nil
	}
	if err != nil {
		logFlowError(ctx, "service.auth", "signin", userID, err)
		return internalError(), err
	}

	a.sessions.SignIn(userID, accountID, admin)
	logger.SVCAuth.Info("signin ok",
		slog.String("event", "signin"),
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.Bool("admin", admin),
	)
	if admin {
		return []reply{text(msgAdminSignedIn), menu(msgAdminMenuTitle, adminMenuKeyboard())}, nil
	}
	welcome := fmt.Sprintf("✅ Welcome back, *%s*!", mdEscape(email))
	return []reply{text(welcome), menu(msgMainMenuTitle, mainMenuKeyboard())}, nil
}

func (a *App) beginSignup(userID int64) []reply {
	a.sessions.ClearScratch(userID)
	a.sessions.SetState(userID, stSignupEmail)
	return one(text(msgSignupEmail))
}

func (a *App) onSignupEmail(ctx context.Context, userID int64, input string) ([]reply, error) {
	email := auth.NormalizeEmail(input)
	taken, err := a.auth.EmailTaken(ctx, email)
	if err != nil {
		logFlowError(ctx, "service.auth", "signup.email_check", userID, err)
		a.endFlow(userID)
		return internalError(), err
	}
	if taken {
		a.endFlow(userID)
		return one(menu(msgEmailTaken, welcomeKeyboard())), nil
	}
	a.sessions.SetScratch(userID, scrEmail, email)
	a.sessions.SetState(userID, stSignupPassword)
	return one(text(msgSignupPassword)), nil
}

func (a *App) onSignupPassword(ctx context.Context, userID int64, input string) ([]reply, error) {
	email, ok := a.sessions.GetScratchString(userID, scrEmail)
	if !ok {
		a.endFlow(userID)
		return one(text(msgFlowStateLost)), nil
	}
	a.endFlow(userID)

	user, err := a.auth.SignUp(ctx, email, input)
	if errors.Is(err, storage.ErrEmailTaken) {
		return one(menu(msgEmailTaken, welcomeKeyboard())), nil
	}
	if err != nil {
		logFlowError(ctx, "service.auth", "signup", userID, err)
		return internalError(), err
	}

	a.sessions.SignIn(userID, string(user.ID), false)
	logger.SVCAuth.Info("signup ok",
		slog.String("event", "signup"),
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("account_id", string(user.ID)),
	)
	return []reply{text(msgSignupDone), menu(msgMainMenuTitle, mainMenuKeyboard())}, nil
}

func (a *App) logout(userID int64) []reply {
	a.sessions.SignOut(userID)
	return one(menu(msgLoggedOut, welcomeKeyboard()))
}
