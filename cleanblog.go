// Package cleanblog is a small multi-author blog built with Go, Echo, gorm and templ.
// Readers register and log in, authors write, edit and delete posts, and
// signed-in users comment on them.
//
// Users provide their own templ components via the ViewFuncs struct (the views
// package ships a default set), and cleanblog handles routing, sessions,
// validation and persistence.
package cleanblog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ViewFuncs holds the templ components the handlers render.
type ViewFuncs struct {
	Index       func(p IndexPage) templ.Component
	Post        func(p PostPage) templ.Component
	PostForm    func(p PostFormPage) templ.Component
	Register    func(p AuthPage) templ.Component
	Login       func(p AuthPage) templ.Component
	About       func(p Page) templ.Component
	Contact     func(p Page) templ.Component
	NotFound    func(p Page) templ.Component
	ServerError func(p Page) templ.Component
}

// App is the application context. Every handler reaches the store, cache,
// session settings and logger through it; there are no package-level handles.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Auth   *Authenticator
	Views  ViewFuncs
	Log    *logrus.Logger

	metrics      *metrics
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
	bcryptCost   int
	now          func() time.Time
}

// New creates a cleanblog App with the given configuration and view functions.
// Call Init (or Start, which calls it) before serving.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		Log:       logrus.StandardLogger(),
		staticDir: "static",
		now:       time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store and wires cache, limiter, metrics, middleware and
// routes, in that order.
func (a *App) Init() error {
	if a.Config.SecretKey == "" {
		return fmt.Errorf("cleanblog: SecretKey is required")
	}

	store, err := NewStore(a.Config.DatabaseURL, a.Log)
	if err != nil {
		return fmt.Errorf("cleanblog: init store: %w", err)
	}
	a.Store = store
	a.Auth = NewAuthenticator(store, a.Log, a.bcryptCost)
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(a.Config.LoginMaxAttempts, a.Config.LoginWindow)
	a.metrics = newMetrics()

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", a.Config.Addr).Info("cleanblog listening")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Log.Info("shutting down")
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/static", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/metrics", a.metrics.handler())

	// Presentation
	e.GET("/", a.handleHome)
	e.GET("/about", a.handleAbout)
	e.GET("/contact", a.handleContact)

	// Posts and comments
	e.GET("/post/:id", a.handlePost)
	e.POST("/post/:id", a.handleAddComment)
	e.GET("/new_post", a.handleNewPost)
	e.POST("/new_post", a.handleCreatePost)
	e.GET("/edit-post/:id", a.handleEditPost)
	e.POST("/edit-post/:id", a.handleUpdatePost)
	e.Match([]string{http.MethodGet, http.MethodPost, http.MethodDelete}, "/delete/:id", a.handleDeletePost)

	// Accounts
	e.GET("/register", a.handleRegisterForm)
	e.POST("/register", a.handleRegister)
	e.GET("/login", a.handleLoginForm)
	e.POST("/login", a.handleLogin)
	e.GET("/logout", a.handleLogout)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
