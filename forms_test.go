package cleanblog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostForm() PostForm {
	return PostForm{
		Title:    "Hello",
		Subtitle: "World",
		Author:   "Alice",
		ImgURL:   "https://x.com/a.png",
		Body:     "hi",
	}
}

func TestPostFormValid(t *testing.T) {
	assert.NoError(t, validPostForm().Validate(false))
	assert.NoError(t, validPostForm().Validate(true))
}

func TestPostFormMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*PostForm)
		field string
	}{
		{"title", func(f *PostForm) { f.Title = "" }, "title"},
		{"subtitle", func(f *PostForm) { f.Subtitle = "" }, "subtitle"},
		{"author", func(f *PostForm) { f.Author = "" }, "author"},
		{"img_url missing", func(f *PostForm) { f.ImgURL = "" }, "img_url"},
		{"img_url malformed", func(f *PostForm) { f.ImgURL = "not a url" }, "img_url"},
		{"body", func(f *PostForm) { f.Body = "" }, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validPostForm()
			tt.edit(&f)
			fields := FieldErrors(f.Validate(false))
			require.Len(t, fields, 1)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestPostFormAuthorOptionalOnEdit(t *testing.T) {
	f := validPostForm()
	f.Author = ""
	assert.NoError(t, f.Validate(true))
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://x.com/a.png", true},
		{"http://images.example.org/pic.jpg?w=800", true},
		{"ftp://x.com/a.png", false},
		{"https://localhost/a.png", false},
		{"x.com/a.png", false},
		{"https:///a.png", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidURL(tt.input), "ValidURL(%q)", tt.input)
	}
}

func TestRegisterFormValidate(t *testing.T) {
	assert.NoError(t, RegisterForm{Name: "A", Email: "a@example.com", Password: "pw"}.Validate())

	fields := FieldErrors(RegisterForm{Name: "A", Email: "a@example", Password: "pw"}.Validate())
	assert.Contains(t, fields, "email")

	long := strings.Repeat("x", maxPasswordBytes+1)
	fields = FieldErrors(RegisterForm{Name: "A", Email: "a@example.com", Password: long}.Validate())
	assert.Equal(t, "Password is too long.", fields["password"])
}

func TestCommentFormValidate(t *testing.T) {
	assert.NoError(t, CommentForm{Text: "nice"}.Validate())
	assert.Contains(t, FieldErrors(CommentForm{}.Validate()), "comment")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "bob@example.com", NormalizeEmail("  Bob@Example.com\n"))
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	ve := &ValidationError{}
	ve.add("title", "Title is required.")
	ve.add("body", "Content is required.")
	ve.add("title", "ignored")
	assert.Equal(t, "validation failed: body: Content is required.; title: Title is required.", ve.Error())
}

func TestFieldErrorsOfOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
	assert.Nil(t, FieldErrors(ErrNotFound))
}
