package cleanblog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	msgAlreadyRegistered  = "You've already signed up with that email, log in instead!"
	msgInvalidCredentials = "Invalid email or password."
	msgTooManyLogins      = "Too many login attempts. Try again later."
)

func (a *App) handleRegisterForm(c echo.Context) error {
	return Render(c, a.Views.Register(AuthPage{Page: a.page(c, "Register")}))
}

func (a *App) handleRegister(c echo.Context) error {
	form := ParseRegisterForm(c)
	u, err := a.Auth.Register(c.Request().Context(), form)
	var ve *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Register(AuthPage{
			Page:   a.page(c, "Register"),
			Name:   form.Name,
			Email:  form.Email,
			Errors: ve.Fields,
		}))
	case errors.Is(err, ErrDuplicateEmail):
		return redirectWithFlash(c, "/login", msgAlreadyRegistered)
	default:
		return fmt.Errorf("register: %w", err)
	}

	a.metrics.registrations.Inc()
	if err := setUserSession(c, u); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleLoginForm(c echo.Context) error {
	return Render(c, a.Views.Login(AuthPage{Page: a.page(c, "Log In")}))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.metrics.logins.WithLabelValues("limited").Inc()
		a.Log.WithField("ip", ip).Warn("login rate limited")
		return c.String(http.StatusTooManyRequests, msgTooManyLogins)
	}

	form := ParseLoginForm(c)
	u, err := a.Auth.Login(c.Request().Context(), form)
	var ve *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &ve):
		a.metrics.logins.WithLabelValues("invalid").Inc()
		return RenderStatus(c, http.StatusUnprocessableEntity, a.Views.Login(AuthPage{
			Page:   a.page(c, "Log In"),
			Email:  form.Email,
			Errors: ve.Fields,
		}))
	case errors.Is(err, ErrInvalidCredentials):
		a.loginLimiter.Record(ip)
		a.metrics.logins.WithLabelValues("failure").Inc()
		return redirectWithFlash(c, "/login", msgInvalidCredentials)
	default:
		return fmt.Errorf("login: %w", err)
	}

	a.loginLimiter.Reset(ip)
	a.metrics.logins.WithLabelValues("success").Inc()
	if err := setUserSession(c, u); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleLogout(c echo.Context) error {
	if u := CurrentUser(c); u != nil {
		a.Log.WithField("user_id", u.ID).Info("user logged out")
	}
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
