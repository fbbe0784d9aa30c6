// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, password changes, account
// deactivation and session token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest accepted account password, in characters.
const MinPasswordLength = 6

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// UserService provides account operations:
// - Register: create users and mint a session token
// - Login: verify credentials and mint a session token
// - ChangePassword / Deactivate / Me: operations on the signed-in account
// - Authenticate: verify a session token
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int

	// dummyHash is compared against on unknown emails so login timing does
	// not reveal which addresses are registered.
	dummyHash func() string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	cost := cfg.BcryptCost
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cost,
		dummyHash: sync.OnceValue(func() string {
			h, _ := auth.HashPassword("passvault-dummy-password", cost)
			return h
		}),
	}
}

// NormalizeEmail trims and lowercases an address; emails are stored and
// compared in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account and signs it in.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)

	switch {
	case name == "":
		return nil, validationError("Name is required.")
	case email == "":
		return nil, validationError("Email is required.")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return nil, validationError("Password must be at least 6 characters long.")
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, errUserExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internalError("lookup user", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		return nil, internalError("hash password", err)
	}

	user, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash, Active: true})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errUserExists
		}
		return nil, internalError("create user", err)
	}

	return s.issue(user)
}

// Login verifies email and password of an active account. Unknown email,
// inactive account and wrong password fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, validationError("Email is required.")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, internalError("lookup user", err)
	}

	if user == nil || !user.Active {
		auth.VerifyPassword(s.dummyHash(), password)
		return nil, errInvalidCredentials
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	return s.issue(user)
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return validationError("New password must be at least 6 characters long.")
	}

	repo := s.repomanager.Users(s.db)
	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.VerifyPassword(user.PasswordHash, currentPassword) {
		return common.NewError(common.ErrorUnauthorized, "Current password incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return err
		}
		return internalError("hash password", err)
	}

	if err := repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errUserNotFound
		}
		return internalError("update password", err)
	}
	return nil
}

// Deactivate soft-deletes the account. Calling it twice is not an error.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	err := s.repomanager.Users(s.db).Deactivate(ctx, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return errUserNotFound
	default:
		return internalError("deactivate user", err)
	}
}

// Me returns the profile of an active account.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.activeUser(ctx, userID)
}

// Authenticate verifies a session token. It does not consult storage, so a
// token stays usable until expiry even after the account is deactivated.
func (s *UserService) Authenticate(token string) auth.TokenResult {
	return auth.ParseToken(token, s.jwtSecret)
}

var (
	errUserExists         = common.NewError(common.ErrorAlreadyExists, "User already exists")
	errInvalidCredentials = common.NewError(common.ErrorUnauthorized, "Invalid credentials")
	errUserNotFound       = common.NewError(common.ErrorNotFound, "User not found")
)

func (s *UserService) activeUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, internalError("lookup user", err)
	}
	if !user.Active {
		return nil, errUserNotFound
	}
	return user, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, internalError("generate token", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
