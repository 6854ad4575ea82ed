package cleanblog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName    = "cleanblog_session"
	sessionUserKey = "user_id"
	userContextKey = "cleanblog.user"
)

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// loadUser resolves the session's user id to a User for the rest of the
// request. A session pointing at a vanished user is treated as anonymous.
func (a *App) loadUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.HasPrefix(c.Request().URL.Path, "/static/") {
			return next(c)
		}
		sess, err := session.Get(sessionName, c)
		if err != nil && sess != nil {
			a.Log.WithError(err).Warn("discarding undecodable session cookie")
		}
		if sess == nil {
			return next(c)
		}
		id, ok := sess.Values[sessionUserKey].(uint)
		if !ok || id == 0 {
			return next(c)
		}
		u, err := a.Store.GetUser(c.Request().Context(), id)
		switch {
		case err == nil:
			c.Set(userContextKey, &u)
		case errors.Is(err, ErrNotFound):
			a.Log.WithField("user_id", id).Warn("session references unknown user")
		default:
			return err
		}
		return next(c)
	}
}

// CurrentUser returns the signed-in user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *User {
	u, _ := c.Get(userContextKey).(*User)
	return u
}

// getSession returns the request's session. A cookie that no longer decodes
// (rotated key, tampered value) yields a fresh session that overwrites it on save.
func getSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(sessionName, c)
	if sess == nil {
		return nil, err
	}
	return sess, nil
}

func setUserSession(c echo.Context, u User) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.Values[sessionUserKey] = u.ID
	c.Set(userContextKey, &u)
	return sess.Save(c.Request(), c.Response())
}

func clearUserSession(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	delete(sess.Values, sessionUserKey)
	c.Set(userContextKey, nil)
	return sess.Save(c.Request(), c.Response())
}

// addFlash queues a one-shot notice for the next rendered page.
func addFlash(c echo.Context, msg string) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.AddFlash(msg)
	return sess.Save(c.Request(), c.Response())
}

// takeFlashes pops pending notices. It must run before the response is written.
func takeFlashes(c echo.Context) []string {
	sess, err := getSession(c)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	_ = sess.Save(c.Request(), c.Response())
	return out
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
