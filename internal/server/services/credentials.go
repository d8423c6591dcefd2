package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/liftlog/internal/common"
	"github.com/dmitrijs2005/liftlog/internal/cryptox"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
)

const (
	MaxUserNameLen = 64
	MinPasswordLen = 6
)

var (
	hashPassword   = cryptox.HashPassword
	verifyPassword = cryptox.VerifyPassword
)

// dummyHash is verified against when the user does not exist so that both
// failure paths cost one Argon2 derivation.
var dummyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword("liftlog-not-a-user")
	if err != nil {
		return ""
	}
	return h
})

// CredentialService owns user accounts and password checks.
type CredentialService struct {
	store *Store
}

// NewCredentialService returns a CredentialService backed by s.
func NewCredentialService(s *Store) *CredentialService {
	return &CredentialService{store: s}
}

// ValidatePassword enforces the minimum length.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return common.ValidationError("Password must be at least 6 characters")
	}
	return nil
}

func validateUserName(userName string) (string, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return "", common.ValidationError("Username is required")
	}
	if utf8.RuneCountInString(userName) > MaxUserNameLen {
		return "", common.ValidationError("Username must be at most 64 characters")
	}
	return userName, nil
}

// Create validates and stores a new account. A taken username yields
// common.ErrorConflict.
func (s *CredentialService) Create(ctx context.Context, userName, password string, role models.Role) (*models.User, error) {
	userName, err := validateUserName(userName)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, common.ValidationError("Unknown role")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.User, error) {
		return s.store.Repos.Users(conn).Create(ctx, &models.User{UserName: userName, PasswordHash: hash, Role: role})
	})
}

// Verify returns the user when password matches. An unknown user and a
// wrong password both give (nil, nil).
func (s *CredentialService) Verify(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := s.FindByUsername(ctx, strings.TrimSpace(userName))
	if errors.Is(err, common.ErrorNotFound) {
		_, _ = verifyPassword(password, dummyHash())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ok, err := verifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}

// ChangePassword validates and stores a new password for userID. It reports
// false when no such user exists.
func (s *CredentialService) ChangePassword(ctx context.Context, userID, newPassword string) (bool, error) {
	if err := ValidatePassword(newPassword); err != nil {
		return false, err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return false, err
	}
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (bool, error) {
		return s.store.Repos.Users(conn).UpdatePasswordHash(ctx, userID, hash)
	})
}

// UpdateRole sets the user's role and reports whether the user exists.
func (s *CredentialService) UpdateRole(ctx context.Context, userID string, role models.Role) (bool, error) {
	if !role.Valid() {
		return false, common.ValidationError("Unknown role")
	}
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (bool, error) {
		return s.store.Repos.Users(conn).UpdateRole(ctx, userID, role)
	})
}

// Delete removes the account; sessions, workouts and custom exercises go
// with it through the foreign keys.
func (s *CredentialService) Delete(ctx context.Context, userID string) (bool, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (bool, error) {
		return s.store.Repos.Users(conn).Delete(ctx, userID)
	})
}

// FindByID returns the user or common.ErrorNotFound.
func (s *CredentialService) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.User, error) {
		return s.store.Repos.Users(conn).GetByID(ctx, userID)
	})
}

// FindByUsername returns the user with that exact name or
// common.ErrorNotFound.
func (s *CredentialService) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.User, error) {
		return s.store.Repos.Users(conn).GetByUserName(ctx, userName)
	})
}

// Count returns the number of accounts; zero means setup is still open.
func (s *CredentialService) Count(ctx context.Context) (int64, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (int64, error) {
		return s.store.Repos.Users(conn).Count(ctx)
	})
}

// FindAll lists every account, newest first.
func (s *CredentialService) FindAll(ctx context.Context) ([]models.User, error) {
	return run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) ([]models.User, error) {
		return s.store.Repos.Users(conn).List(ctx)
	})
}
