package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"todoapi/internal/auth"
	dom "todoapi/internal/domain"
	"todoapi/internal/repo"
	"todoapi/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("email or password incorrect")
var ErrEmailTaken = errors.New("email already registered")

// AuthResult is returned by successful login or registration.
type AuthResult struct {
	Token     string
	User      dom.User
	ExpiresAt time.Time
}

// UserService handles login, registration and user lookup.
type UserService struct {
	repo   repo.UserRepo
	tokens *auth.TokenManager
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo, tokens *auth.TokenManager) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

// Login checks credentials and issues a token. An unknown email and a
// wrong password return the same ErrInvalidCredentials so callers cannot
// probe which accounts exist. Store failures propagate unchanged.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.issue(u)
}

// Register creates a user with a bcrypt-hashed password and issues a
// token. The unique index on email is the duplicate authority: a
// concurrent registration with the same email loses the insert race and
// gets ErrEmailTaken, never a second row.
func (s *UserService) Register(ctx context.Context, email, name, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}
	u, err := s.repo.Create(ctx, email, name, string(hash))
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}
	return s.issue(u)
}

// GetUserByID returns the user or ErrNotFound.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

func (s *UserService) issue(u dom.User) (AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: u, ExpiresAt: expiresAt}, nil
}
