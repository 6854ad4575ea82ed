package cleanblog

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	tldRegex   = regexp.MustCompile(`\.[a-zA-Z]{2,}$`)
)

// PostForm is the create/edit post form.
type PostForm struct {
	Title    string
	Subtitle string
	Author   string
	ImgURL   string
	Body     string
}

// ParsePostForm reads a PostForm from the request body.
func ParsePostForm(c echo.Context) PostForm {
	return PostForm{
		Title:    strings.TrimSpace(c.FormValue("title")),
		Subtitle: strings.TrimSpace(c.FormValue("subtitle")),
		Author:   strings.TrimSpace(c.FormValue("author")),
		ImgURL:   strings.TrimSpace(c.FormValue("img_url")),
		Body:     strings.TrimSpace(c.FormValue("body")),
	}
}

// Validate checks required fields and the image URL. The author byline is
// only required when creating; it cannot change on edit.
func (f PostForm) Validate(editing bool) error {
	ve := &ValidationError{}
	if f.Title == "" {
		ve.add("title", "Title is required.")
	}
	if f.Subtitle == "" {
		ve.add("subtitle", "Subtitle is required.")
	}
	if !editing && f.Author == "" {
		ve.add("author", "Your name is required.")
	}
	if f.ImgURL == "" {
		ve.add("img_url", "Image URL is required.")
	} else if !ValidURL(f.ImgURL) {
		ve.add("img_url", "Please enter a valid URL.")
	}
	if f.Body == "" {
		ve.add("body", "Content is required.")
	}
	return ve.errOrNil()
}

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Name     string
	Email    string
	Password string
}

// ParseRegisterForm reads a RegisterForm from the request body.
func ParseRegisterForm(c echo.Context) RegisterForm {
	return RegisterForm{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Email:    NormalizeEmail(c.FormValue("email")),
		Password: c.FormValue("password"),
	}
}

// Validate checks that every field is present and the email is well formed.
func (f RegisterForm) Validate() error {
	ve := &ValidationError{}
	if f.Name == "" {
		ve.add("name", "Name is required.")
	}
	validateEmail(ve, f.Email)
	switch {
	case f.Password == "":
		ve.add("password", "Password is required.")
	case len(f.Password) > maxPasswordBytes:
		ve.add("password", "Password is too long.")
	}
	return ve.errOrNil()
}

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string
	Password string
}

// ParseLoginForm reads a LoginForm from the request body.
func ParseLoginForm(c echo.Context) LoginForm {
	return LoginForm{
		Email:    NormalizeEmail(c.FormValue("email")),
		Password: c.FormValue("password"),
	}
}

// Validate checks that both fields are present and the email is well formed.
func (f LoginForm) Validate() error {
	ve := &ValidationError{}
	validateEmail(ve, f.Email)
	if f.Password == "" {
		ve.add("password", "Password is required.")
	}
	return ve.errOrNil()
}

// CommentForm is the comment box under a post.
type CommentForm struct {
	Text string
}

// ParseCommentForm reads a CommentForm from the request body.
func ParseCommentForm(c echo.Context) CommentForm {
	return CommentForm{Text: strings.TrimSpace(c.FormValue("comment"))}
}

// Validate requires non-empty text.
func (f CommentForm) Validate() error {
	ve := &ValidationError{}
	if f.Text == "" {
		ve.add("comment", "Comment cannot be empty.")
	}
	return ve.errOrNil()
}

func validateEmail(ve *ValidationError, email string) {
	switch {
	case email == "":
		ve.add("email", "Email is required.")
	case len(email) > 100 || !emailRegex.MatchString(email):
		ve.add("email", "Please enter a valid email address.")
	}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidURL reports whether s is an absolute http(s) URL whose host ends in a TLD.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := u.Hostname()
	if host == "" || strings.ContainsAny(host, " ") {
		return false
	}
	return tldRegex.MatchString(host)
}
