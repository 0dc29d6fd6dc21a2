package middleware

import tele "gopkg.in/telebot.v4"

// SessionIdentity resolves the signed-in identity bound to a chat.
type SessionIdentity interface {
	Identity(userID int64) (accountID string, admin bool, ok bool)
}

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	Sessions SessionIdentity
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only a chat with an admin session can
// invoke downstream handlers. Admin status comes from the credential pair
// checked at sign-in, never from a Telegram user id.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Sessions == nil {
				return next(c)
			}
			if _, admin, ok := opts.Sessions.Identity(c.Sender().ID); !ok || !admin {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
