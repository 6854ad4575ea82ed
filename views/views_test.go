package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/cleanblog"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testPage(title string) cleanblog.Page {
	return cleanblog.Page{
		Site:  cleanblog.SiteConfig{Name: "Clean Blog", URL: "https://blog.example.com", Description: "Musings"},
		CSRF:  "tok123",
		Title: title,
	}
}

func testPost() cleanblog.PostView {
	return cleanblog.PostView{
		BlogPost: cleanblog.BlogPost{
			ID:       3,
			Title:    "Hello",
			Subtitle: "World",
			Date:     "October 17, 2026",
			Body:     "Some **bold** words<script>alert(1)</script>",
			ImgURL:   "https://x.com/a.png",
		},
		Author: cleanblog.User{ID: 1, Name: "Alice"},
	}
}

func TestAllPagesParse(t *testing.T) {
	for _, name := range []string{"index", "post", "make-post", "register", "login", "about", "contact", "404", "500"} {
		assert.Contains(t, pages, name)
	}
}

func TestIndexListsPosts(t *testing.T) {
	p := cleanblog.IndexPage{
		Page:       testPage(""),
		Posts:      []cleanblog.PostView{testPost()},
		Pagination: cleanblog.Pagination{Page: 1, HasNext: true, NextPage: 2},
	}
	out := render(t, Index(p))
	assert.Contains(t, out, `href="/post/3"`)
	assert.Contains(t, out, "Posted by Alice on October 17, 2026")
	assert.Contains(t, out, `href="/?page=2"`)
	assert.NotContains(t, out, "Newer Posts")
	assert.Contains(t, out, `href="/login"`)
	assert.NotContains(t, out, "/delete/3")
}

func TestIndexForSignedInUser(t *testing.T) {
	p := cleanblog.IndexPage{Page: testPage(""), Posts: []cleanblog.PostView{testPost()}}
	p.User = &cleanblog.User{ID: 1, Name: "Alice"}
	p.Flashes = []string{"Welcome back"}
	out := render(t, Index(p))
	assert.Contains(t, out, `href="/logout"`)
	assert.Contains(t, out, `href="/delete/3"`)
	assert.Contains(t, out, "Welcome back")
}

func TestIndexEmpty(t *testing.T) {
	out := render(t, Index(cleanblog.IndexPage{Page: testPage("")}))
	assert.Contains(t, out, "No posts here yet.")
}

func TestPostSanitizesBody(t *testing.T) {
	p := cleanblog.PostPage{
		Page: testPage("Hello"),
		Post: testPost(),
		Comments: []cleanblog.CommentView{{
			Comment: cleanblog.Comment{ID: 1, PostID: 3, AuthorID: 2, Text: "<em>nice</em><img src=\"https://x.com/i.png\" onerror=alert(1)>"},
			Author:  cleanblog.User{ID: 2, Name: "Bob"},
		}},
	}
	out := render(t, Post(p))
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "<em>nice</em>")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, `action="/post/3"`)
	assert.Contains(t, out, `name="_csrf" value="tok123"`)
	assert.Contains(t, out, `"@type":"BlogPosting"`)
}

func TestPostShowsCommentError(t *testing.T) {
	p := cleanblog.PostPage{
		Page:   testPage("Hello"),
		Post:   testPost(),
		Errors: map[string]string{"comment": "Comment cannot be empty."},
	}
	assert.Contains(t, render(t, Post(p)), "Comment cannot be empty.")
}

func TestPostFormEscapesValues(t *testing.T) {
	p := cleanblog.PostFormPage{
		Page:   testPage("New Post"),
		Form:   cleanblog.PostForm{Title: `"><script>x</script>`, Author: "Alice"},
		Errors: map[string]string{"body": "Content is required."},
	}
	out := render(t, PostForm(p))
	assert.Contains(t, out, `action="/new_post"`)
	assert.NotContains(t, out, "<script>x</script>")
	assert.Contains(t, out, "Content is required.")
	assert.NotContains(t, out, "readonly")
}

func TestEditFormLocksAuthor(t *testing.T) {
	p := cleanblog.PostFormPage{
		Page:    testPage("Edit Post"),
		Form:    cleanblog.PostForm{Title: "Hello", Author: "Alice"},
		Editing: true,
		PostID:  3,
	}
	out := render(t, PostForm(p))
	assert.Contains(t, out, `action="/edit-post/3"`)
	assert.Contains(t, out, "readonly")
	assert.Contains(t, out, "Save Changes")
}

func TestAuthForms(t *testing.T) {
	reg := render(t, Register(cleanblog.AuthPage{Page: testPage("Register"), Name: "Alice", Email: "alice@example.com"}))
	assert.Contains(t, reg, `value="Alice"`)
	assert.Contains(t, reg, `action="/register"`)

	login := render(t, Login(cleanblog.AuthPage{
		Page:   testPage("Log In"),
		Errors: map[string]string{"email": "Email is required."},
	}))
	assert.Contains(t, login, `action="/login"`)
	assert.Contains(t, login, "Email is required.")
}

func TestStaticPages(t *testing.T) {
	assert.Contains(t, render(t, About(testPage("About"))), "Musings")
	assert.Contains(t, render(t, Contact(testPage("Contact"))), `href="/feed.xml"`)
	assert.Contains(t, render(t, NotFound(testPage("Not Found"))), "Page not found")
	assert.Contains(t, render(t, ServerError(testPage("Server Error"))), "Something went wrong")
}

func TestFuncsIsComplete(t *testing.T) {
	f := Funcs()
	assert.NotNil(t, f.Index)
	assert.NotNil(t, f.Post)
	assert.NotNil(t, f.PostForm)
	assert.NotNil(t, f.Register)
	assert.NotNil(t, f.Login)
	assert.NotNil(t, f.About)
	assert.NotNil(t, f.Contact)
	assert.NotNil(t, f.NotFound)
	assert.NotNil(t, f.ServerError)
}
