package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/jimlawless/whereami"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum length, in bytes, of a trimmed password.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort   = errors.New("password cannot be less than 8 characters")
	ErrPasswordTooLong    = errors.New("password cannot be longer than 72 bytes")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrCheckExistingUsers = errors.New("failed to check existing users")
)

// UserService defines the interface for user business logic
type UserService interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	ListEmails(ctx context.Context) ([]string, error)
}

type userService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// NewUserService creates a new instance of UserService
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// SignUp registers a new user.
//
// Existing emails are scanned before the password rule is applied, so a
// duplicate email is reported even when the password is also too short. The
// scan is advisory: two concurrent signups can both pass it, and the loser is
// stopped by the unique constraint and reported as a duplicate as well.
func (s *userService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	emails, err := s.userRepo.ListEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCheckExistingUsers, wrap(err))
	}

	if slices.Contains(emails, email) {
		return nil, repository.ErrUserAlreadyExists
	}

	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, wrap(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: stored,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, wrap(err)
	}

	return user, nil
}

// Login checks the submitted credentials against the stored user.
// An unknown email yields repository.ErrUserNotFound.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, wrap(err)
	}

	if user.Email != email || !s.hasher.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, wrap(err)
	}
	return user, nil
}

// ListEmails returns every registered email
func (s *userService) ListEmails(ctx context.Context) ([]string, error) {
	emails, err := s.userRepo.ListEmails(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	return emails, nil
}

// wrap tags an infrastructure error with the location of the service call
// that received it.
func wrap(err error) error {
	return fmt.Errorf("%s: %w", whereami.WhereAmI(2), err)
}
