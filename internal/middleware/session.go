package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleetease-rental/internal/model"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_token"

const (
	ctxUser   = "user"
	ctxUserID = "user_id"
)

// SessionResolver maps a raw token to its user.
type SessionResolver interface {
	Resolve(ctx context.Context, rawToken string) (*model.User, error)
}

// RequireSession rejects the request unless it carries a usable session.
// The resolver's error is returned as is for the central error handler.
func RequireSession(r SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := SessionToken(c)
			u, err := r.Resolve(c.Request().Context(), raw)
			if err != nil {
				return err
			}
			setUser(c, u)
			return next(c)
		}
	}
}

// SessionToken reads the token from the session cookie, then from an
// "Authorization: Bearer" header. It returns "" when neither is present.
func SessionToken(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func setUser(c echo.Context, u *model.User) {
	c.Set(ctxUser, u)
	c.Set(ctxUserID, u.ID)
}

// CurrentUser returns the user set by RequireSession, or nil.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ctxUser).(*model.User)
	return u
}

// CurrentUserID returns the authenticated user's id, or "".
func CurrentUserID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}
