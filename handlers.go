package cleanblog

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	posts, pagination, err := a.Cache.Page(c.Request().Context(), page, a.Config.PostsPerPage)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	return Render(c, a.Views.Index(IndexPage{
		Page:       a.page(c, ""),
		Posts:      posts,
		Pagination: pagination,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return a.renderNotFound(c)
	}
	return a.renderPost(c, id, http.StatusOK, CommentForm{}, nil)
}

// renderPost renders the detail view of post id with its comments.
func (a *App) renderPost(c echo.Context, id uint, code int, form CommentForm, errs map[string]string) error {
	ctx := c.Request().Context()
	post, err := a.Store.GetPost(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return a.renderNotFound(c)
	}
	if err != nil {
		return fmt.Errorf("get post %d: %w", id, err)
	}
	comments, err := a.Store.ListComments(ctx, id)
	if err != nil {
		return fmt.Errorf("list comments of post %d: %w", id, err)
	}
	return RenderStatus(c, code, a.Views.Post(PostPage{
		Page:        a.page(c, post.Title),
		Post:        post,
		Comments:    comments,
		CommentForm: form,
		Errors:      errs,
	}))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.page(c, "About")))
}

func (a *App) handleContact(c echo.Context) error {
	return Render(c, a.Views.Contact(a.page(c, "Contact")))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) renderNotFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "Not Found")))
}

// parseID reads the :id path parameter. Anything but a positive integer is
// reported as missing so callers answer 404.
func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if (ok && he.Code == http.StatusNotFound) || errors.Is(err, ErrNotFound) {
		_ = a.renderNotFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.WithError(err).WithField("uri", c.Request().RequestURI).Error("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, "Server Error")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
