package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"docflow/internal/auth"
	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/seed"
)

// RegisterInput carries the fields of a registration request. Role is never
// caller-supplied; new accounts always start as plain users.
type RegisterInput struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Company    string `json:"company"`
	Department string `json:"department"`
}

// Session is the result of a successful login or registration.
type Session struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// AuthService authenticates users against the persisted user list. Passwords
// are stored as bcrypt hashes and session tokens are signed JWTs carrying the
// user id; cleartext passwords never reach storage.
type AuthService struct {
	users      repository.UserRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	log        *slog.Logger
	now        func() time.Time
}

// NewAuthService builds the service. tokenTTL bounds both the JWT validity
// and the session cookie lifetime.
func NewAuthService(users repository.UserRepository, secret []byte, tokenTTL time.Duration, bcryptCost int, log *slog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		secret:     secret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

// TokenTTL returns the configured session lifetime.
func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }

// Initialize seeds the persisted user list from the bundled dataset when it
// is empty. Called once at startup.
func (s *AuthService) Initialize(ctx context.Context) error {
	existing, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("initialize auth: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	defaults, err := seed.Users()
	if err != nil {
		return fmt.Errorf("initialize auth: %w", err)
	}
	for _, su := range defaults {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", su.Email, err)
		}
		user := &model.User{
			ID:           uuid.NewString(),
			Email:        su.Email,
			PasswordHash: string(hash),
			FirstName:    su.FirstName,
			LastName:     su.LastName,
			Role:         su.Role,
			Company:      su.Company,
			Department:   su.Department,
			CreatedAt:    s.now(),
		}
		if _, err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		}
	}
	s.log.Info("seeded default users", "count", len(defaults))
	return nil
}

// Login verifies the credentials and mints a session token. Unknown email and
// wrong password both surface as ErrInvalidCredentials so callers cannot tell
// which field was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("mint session token: %w", err)
	}

	user.PasswordHash = ""
	return &Session{User: user, Token: token}, nil
}

// Register creates an account with the default user role and logs it in
// immediately. An existing email (exact, case-sensitive match) yields
// ErrDuplicateEmail and leaves the user list untouched.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         model.RoleUser,
		Company:      input.Company,
		Department:   input.Department,
		CreatedAt:    s.now(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return s.Login(ctx, input.Email, input.Password)
}

// Profile resolves a session token to the current user snapshot. Any failure
// (malformed token, expired signature, vanished user) means the session is no
// longer valid and the caller should drop it.
func (s *AuthService) Profile(ctx context.Context, token string) (*model.User, error) {
	userID, err := auth.UserIDFromToken(token, s.secret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
