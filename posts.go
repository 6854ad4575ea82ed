package cleanblog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgLoginToWrite   = "Please log in to write a post."
	msgLoginToEdit    = "Please log in to edit posts."
	msgLoginToDelete  = "Please log in to delete posts."
	msgLoginToComment = "You need to login or register to comment."
	msgFixFields      = "Please make sure the fields are filled out."
	msgPostNotFound   = "Sorry a blog post with that id was not found in the database."
)

func (a *App) handleNewPost(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return redirectWithFlash(c, "/login", msgLoginToWrite)
	}
	return Render(c, a.Views.PostForm(PostFormPage{
		Page: a.page(c, "New Post"),
		Form: PostForm{Author: u.Name},
	}))
}

func (a *App) handleCreatePost(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return redirectWithFlash(c, "/login", msgLoginToWrite)
	}
	form := ParsePostForm(c)
	if err := form.Validate(false); err != nil {
		return a.renderPostForm(c, http.StatusUnprocessableEntity, form, err, 0)
	}

	post := BlogPost{
		AuthorID: u.ID,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Date:     FormatDate(a.now()),
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	}
	if err := a.Store.CreatePost(c.Request().Context(), &post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	a.Cache.Invalidate()
	a.metrics.posts.WithLabelValues("create").Inc()
	a.Log.WithFields(logrus.Fields{"post_id": post.ID, "user_id": u.ID}).Info("post created")
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleEditPost(c echo.Context) error {
	if CurrentUser(c) == nil {
		return redirectWithFlash(c, "/login", msgLoginToEdit)
	}
	id, ok := parseID(c)
	if !ok {
		return a.renderNotFound(c)
	}
	post, err := a.Store.GetPost(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return a.renderNotFound(c)
	}
	if err != nil {
		return fmt.Errorf("get post %d: %w", id, err)
	}
	form := PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Author:   post.AuthorName(),
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	return a.renderPostForm(c, http.StatusOK, form, nil, id)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return redirectWithFlash(c, "/login", msgLoginToEdit)
	}
	id, ok := parseID(c)
	if !ok {
		return a.renderNotFound(c)
	}
	ctx := c.Request().Context()
	post, err := a.Store.GetPost(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return a.renderNotFound(c)
	}
	if err != nil {
		return fmt.Errorf("get post %d: %w", id, err)
	}

	form := ParsePostForm(c)
	form.Author = post.AuthorName()
	if err := form.Validate(true); err != nil {
		return a.renderPostForm(c, http.StatusUnprocessableEntity, form, err, id)
	}

	err = a.Store.UpdatePost(ctx, BlogPost{
		ID:       id,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Date:     FormatDate(a.now()),
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	})
	if errors.Is(err, ErrNotFound) {
		return a.renderNotFound(c)
	}
	if err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	a.Cache.Invalidate()
	a.metrics.posts.WithLabelValues("edit").Inc()
	a.Log.WithFields(logrus.Fields{"post_id": id, "user_id": u.ID}).Info("post edited")
	return c.Redirect(http.StatusSeeOther, PostPath(id))
}

// renderPostForm shows the create form, or the edit form when id is non-zero.
func (a *App) renderPostForm(c echo.Context, code int, form PostForm, err error, id uint) error {
	title := "New Post"
	if id != 0 {
		title = "Edit Post"
	}
	p := a.page(c, title)
	if err != nil {
		p.Flashes = append(p.Flashes, msgFixFields)
	}
	return RenderStatus(c, code, a.Views.PostForm(PostFormPage{
		Page:    p,
		Form:    form,
		Errors:  FieldErrors(err),
		Editing: id != 0,
		PostID:  id,
	}))
}

func (a *App) handleDeletePost(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return redirectWithFlash(c, "/login", msgLoginToDelete)
	}
	id, ok := parseID(c)
	if !ok {
		return postNotFoundJSON(c)
	}
	_, err := a.Store.DeletePost(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return postNotFoundJSON(c)
	}
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	a.Cache.Invalidate()
	a.metrics.posts.WithLabelValues("delete").Inc()
	return c.Redirect(http.StatusSeeOther, "/")
}

func postNotFoundJSON(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]any{
		"error": map[string]string{"Not Found": msgPostNotFound},
	})
}

func (a *App) handleAddComment(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return redirectWithFlash(c, "/login", msgLoginToComment)
	}
	id, ok := parseID(c)
	if !ok {
		return a.renderNotFound(c)
	}
	form := ParseCommentForm(c)
	if err := form.Validate(); err != nil {
		return a.renderPost(c, id, http.StatusUnprocessableEntity, form, FieldErrors(err))
	}

	comment := Comment{AuthorID: u.ID, PostID: id, Text: form.Text}
	err := a.Store.CreateComment(c.Request().Context(), &comment)
	if errors.Is(err, ErrNotFound) {
		return a.renderNotFound(c)
	}
	if err != nil {
		return fmt.Errorf("add comment to post %d: %w", id, err)
	}
	a.metrics.comments.Inc()
	a.Log.WithFields(logrus.Fields{"post_id": id, "user_id": u.ID, "comment_id": comment.ID}).Info("comment added")
	return c.Redirect(http.StatusSeeOther, PostPath(id)+"#comments")
}
