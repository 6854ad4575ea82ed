package cleanblog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so that both
// login failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("cleanblog-dummy-password"), bcrypt.DefaultCost)

// Authenticator registers users and checks their credentials.
type Authenticator struct {
	store *Store
	log   *logrus.Logger
	cost  int
}

// NewAuthenticator returns an Authenticator hashing with the given bcrypt cost.
// A cost of zero means bcrypt.DefaultCost.
func NewAuthenticator(store *Store, log *logrus.Logger, cost int) *Authenticator {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Authenticator{store: store, log: log, cost: cost}
}

// Register creates an account. It returns a *ValidationError for bad input
// and ErrDuplicateEmail if the email already has an account.
func (a *Authenticator) Register(ctx context.Context, f RegisterForm) (User, error) {
	if err := f.Validate(); err != nil {
		return User{}, err
	}
	logCtx := a.log.WithField("email", f.Email)

	if _, err := a.store.GetUserByEmail(ctx, f.Email); err == nil {
		logCtx.Info("registration rejected: email already registered")
		return User{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := hashPassword(f.Password, a.cost)
	if err != nil {
		return User{}, err
	}
	u := User{Name: f.Name, Email: f.Email, Password: hash}
	if err := a.store.CreateUser(ctx, &u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logCtx.Info("registration rejected: email registered concurrently")
		}
		return User{}, err
	}
	logCtx.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login returns the user whose email and password match. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials; only the log tells them apart.
func (a *Authenticator) Login(ctx context.Context, f LoginForm) (User, error) {
	if err := f.Validate(); err != nil {
		return User{}, err
	}
	logCtx := a.log.WithField("email", f.Email)

	u, err := a.store.GetUserByEmail(ctx, f.Email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return User{}, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(f.Password))
		logCtx.Warn("login failed: unknown email")
		return User{}, ErrInvalidCredentials
	}
	if !checkPassword(f.Password, u.Password) {
		logCtx.WithField("user_id", u.ID).Warn("login failed: password mismatch")
		return User{}, ErrInvalidCredentials
	}
	logCtx.WithField("user_id", u.ID).Info("user logged in")
	return u, nil
}

func hashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
