// Package auth registers users and opens sessions bound to their wallets.
// Passwords are stored as bcrypt hashes only.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
	"fjacquet/finance-ledger/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("username already exists")

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,20}$`)
)

// Directory is the part of the user registry auth needs.
type Directory interface {
	Exists(username string) bool
	FindByUsername(username string) (*models.User, bool)
	Save(user *models.User) error
}

// Session is one logged-in user. It replaces any process-wide "current user".
type Session struct {
	ID        string
	User      *models.User
	StartedAt time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the bcrypt cost, mainly so tests run fast.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// Service handles registration, login and logout.
type Service struct {
	users  Directory
	store  store.WalletStore
	logger logging.Logger
	cost   int
}

// NewService creates an auth service.
func NewService(users Directory, walletStore store.WalletStore, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		users:  users,
		store:  walletStore,
		logger: logging.OrDefault(logger),
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateUsername checks the 3-20 alphanumeric rule on the trimmed name.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ledgererror.Invalid("username", "must not be empty")
	}
	if !usernamePattern.MatchString(username) {
		return ledgererror.Invalid("username", "must be 3-20 alphanumeric characters")
	}
	return nil
}

// Register creates a user with an empty wallet. No wallet record is written.
func (s *Service) Register(username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ledgererror.Invalid("username", "must not be empty")
	}
	if len(password) < MinPasswordLength {
		return nil, ledgererror.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if s.users.Exists(username) {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.NewUser(username, string(hash))
	if err := s.users.Save(user); err != nil {
		return nil, fmt.Errorf("failed to save user %s: %w", username, err)
	}

	s.logger.Info("User registered", logging.F(logging.FieldUserID, username))
	return user, nil
}

// Login verifies the password and attaches the stored wallet to the user.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, ok := s.users.FindByUsername(username)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(password)); err != nil {
		s.logger.Warn("Login rejected", logging.F(logging.FieldUserID, user.Username()))
		return nil, ErrInvalidCredentials
	}

	wallet, err := s.store.Load(ctx, user.Username())
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet for %s: %w", user.Username(), err)
	}
	user.SetWallet(wallet)

	session := &Session{
		ID:        uuid.NewString(),
		User:      user,
		StartedAt: time.Now(),
	}
	s.logger.Debug("Session started",
		logging.F(logging.FieldUserID, user.Username()),
		logging.F(logging.FieldSessionID, session.ID))
	return session, nil
}

// Logout ends session without writing; changes are saved under the user's lock
// when they are made. A nil session is a no-op.
func (s *Service) Logout(_ context.Context, session *Session) error {
	if session == nil || session.User == nil {
		return nil
	}
	s.logger.Debug("Session ended",
		logging.F(logging.FieldUserID, session.User.Username()),
		logging.F(logging.FieldSessionID, session.ID))
	return nil
}
