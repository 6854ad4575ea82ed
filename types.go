package cleanblog

// User is a registered account. Password holds the bcrypt hash, never the plain text.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:100;not null"`
	Name     string `gorm:"size:1000;not null"`
}

// BlogPost is a single article. Date is stored as a display string ("January 02, 2006").
// AuthorID is zero for posts written before accounts existed.
type BlogPost struct {
	ID       uint   `gorm:"primaryKey"`
	AuthorID uint   `gorm:"index"`
	Title    string `gorm:"size:250;not null"`
	Subtitle string `gorm:"size:250;not null"`
	Date     string `gorm:"size:250;not null"`
	Body     string `gorm:"type:text;not null"`
	ImgURL   string `gorm:"column:img_url;size:250;not null"`
}

// Comment annotates a BlogPost. Comments are never edited.
type Comment struct {
	ID       uint   `gorm:"primaryKey"`
	AuthorID uint   `gorm:"index;not null"`
	PostID   uint   `gorm:"index;not null"`
	Text     string `gorm:"type:text;not null"`
}

// PostView is a post with its author resolved for rendering.
type PostView struct {
	BlogPost
	Author User
}

// Link returns the post detail path.
func (p PostView) Link() string {
	return PostPath(p.ID)
}

// AuthorName returns the display name of the author, or "Anonymous" for ownerless posts.
func (p PostView) AuthorName() string {
	if p.Author.Name == "" {
		return "Anonymous"
	}
	return p.Author.Name
}

// CommentView is a comment with its author resolved for rendering.
type CommentView struct {
	Comment
	Author User
}

// Page carries what every rendered view needs: site settings, the signed-in
// user (nil when anonymous), pending flash notices and the CSRF token.
type Page struct {
	Site    SiteConfig
	User    *User
	Flashes []string
	CSRF    string
	Title   string
}

// LoggedIn reports whether the page is rendered for an authenticated user.
func (p Page) LoggedIn() bool {
	return p.User != nil
}

// IndexPage is the post listing.
type IndexPage struct {
	Page
	Posts      []PostView
	Pagination Pagination
}

// PostPage is the post detail view with its comments and the comment form.
type PostPage struct {
	Page
	Post        PostView
	Comments    []CommentView
	CommentForm CommentForm
	Errors      map[string]string
}

// PostFormPage renders the create and edit forms.
type PostFormPage struct {
	Page
	Form    PostForm
	Errors  map[string]string
	Editing bool
	PostID  uint
}

// AuthPage renders the register and login forms.
type AuthPage struct {
	Page
	Name   string
	Email  string
	Errors map[string]string
}
