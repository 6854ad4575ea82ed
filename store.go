package cleanblog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Store wraps a gorm database holding users, posts and comments.
type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewStore opens the database named by dsn and migrates the schema.
// postgres:// and postgresql:// URLs use Postgres; anything else is a SQLite
// path, optionally written SQLAlchemy-style as sqlite:///path.
func NewStore(dsn string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	dialector, err := openDialector(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, ok := dialector.(*sqlite.Dialector); ok {
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(4)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	s := &Store{db: db, log: log}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func openDialector(dsn string) (gorm.Dialector, error) {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn), nil
	}
	path := strings.TrimPrefix(dsn, "sqlite:///")
	if path == "" {
		return nil, errors.New("empty database path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// WAL lets readers proceed during a write; writers wait on busy_timeout
	// instead of failing with SQLITE_BUSY.
	pragmas := "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)"
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        "file:" + path + sep + pragmas,
	}), nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) ensureSchema() error {
	return s.db.AutoMigrate(&User{}, &BlogPost{}, &Comment{})
}

// CreateUser inserts u and fills in its ID. Returns ErrDuplicateEmail if the
// email is taken.
func (s *Store) CreateUser(ctx context.Context, u *User) error {
	u.Email = NormalizeEmail(u.Email)
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user %q: %w", u.Email, err)
	}
	return nil
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(ctx context.Context, id uint) (User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}

// GetUserByEmail returns the user registered under email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error
	if err != nil {
		return User{}, notFound(err)
	}
	return u, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, err
}

// usersByID resolves a set of user ids in a single query.
func (s *Store) usersByID(ctx context.Context, ids []uint) (map[uint]User, error) {
	out := make(map[uint]User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// ListPosts returns every post, newest first, with authors resolved.
func (s *Store) ListPosts(ctx context.Context) ([]PostView, error) {
	var posts []BlogPost
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return s.postViews(ctx, posts)
}

// ListPostsPage returns one page of posts, newest first, plus the total count.
func (s *Store) ListPostsPage(ctx context.Context, page, size int) ([]PostView, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&BlogPost{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pastEnd(page, size, total) {
		return nil, total, nil
	}
	var posts []BlogPost
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	views, err := s.postViews(ctx, posts)
	return views, total, err
}

func (s *Store) postViews(ctx context.Context, posts []BlogPost) ([]PostView, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		if p.AuthorID != 0 {
			ids = append(ids, p.AuthorID)
		}
	}
	authors, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{BlogPost: p, Author: authors[p.AuthorID]})
	}
	return views, nil
}

// GetPost returns a single post with its author.
func (s *Store) GetPost(ctx context.Context, id uint) (PostView, error) {
	var p BlogPost
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return PostView{}, notFound(err)
	}
	views, err := s.postViews(ctx, []BlogPost{p})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

// CreatePost inserts p and fills in its ID. A non-zero AuthorID must name an
// existing user.
func (s *Store) CreatePost(ctx context.Context, p *BlogPost) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.AuthorID != 0 {
			if err := requireRow(tx, &User{}, p.AuthorID); err != nil {
				return fmt.Errorf("post author %d: %w", p.AuthorID, err)
			}
		}
		return tx.Create(p).Error
	})
}

// UpdatePost overwrites the editable fields of the post with p.ID.
// AuthorID is never changed.
func (s *Store) UpdatePost(ctx context.Context, p BlogPost) error {
	res := s.db.WithContext(ctx).Model(&BlogPost{}).Where("id = ?", p.ID).Updates(map[string]any{
		"title":    p.Title,
		"subtitle": p.Subtitle,
		"date":     p.Date,
		"body":     p.Body,
		"img_url":  p.ImgURL,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes the post and all of its comments in one transaction.
// It returns how many comments went with it.
func (s *Store) DeletePost(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &BlogPost{}, id); err != nil {
			return err
		}
		res := tx.Where("post_id = ?", id).Delete(&Comment{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Delete(&BlogPost{}, id).Error
	})
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"post_id": id, "comments_removed": removed}).Info("post deleted")
	return removed, nil
}

// ListComments returns the comments on a post, oldest first, with authors resolved.
func (s *Store) ListComments(ctx context.Context, postID uint) ([]CommentView, error) {
	var comments []Comment
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("id ASC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	authors, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{Comment: c, Author: authors[c.AuthorID]})
	}
	return views, nil
}

// CountComments returns the number of comments attached to a post.
func (s *Store) CountComments(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

// CreateComment inserts c after checking that its post and author both exist.
func (s *Store) CreateComment(ctx context.Context, c *Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &BlogPost{}, c.PostID); err != nil {
			return err
		}
		if err := requireRow(tx, &User{}, c.AuthorID); err != nil {
			return err
		}
		return tx.Create(c).Error
	})
}

func requireRow(tx *gorm.DB, model any, id uint) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isDuplicateEntry recognises unique violations. Postgres errors are
// translated by gorm; the pure-Go SQLite driver only reports them by message.
func isDuplicateEntry(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
