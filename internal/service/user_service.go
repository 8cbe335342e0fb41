package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/viduramedix/pos/internal/auth"
	"github.com/viduramedix/pos/internal/ident"
	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
)

// UserService manages staff accounts.
type UserService struct {
	users storage.Collection[models.User]
}

func NewUserService(users storage.Collection[models.User]) *UserService {
	return &UserService{users: users}
}

// EnsureDefaultAdmin seeds the administrator account when the
// collection is empty, so a fresh installation can be logged into.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context) error {
	return s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if len(users) > 0 {
			return users, nil
		}
		hash, err := auth.HashPassword("admin123")
		if err != nil {
			return nil, err
		}
		admin := models.User{
			ID:           ident.New(),
			Username:     "admin",
			PasswordHash: hash,
			Name:         "Administrator",
			Role:         "admin",
			LastLogin:    time.Now().Format(models.TimeFormat),
		}
		slog.Info("seeded default admin user")
		return append(users, admin), nil
	})
}

// Authenticate verifies a username (case-insensitive) and password,
// stamping last_login on success.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var found models.User
	err := s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		i := findUser(users, username)
		if i < 0 {
			// Same failure as a wrong password: do not reveal which.
			return nil, auth.ErrInvalidCredentials
		}
		if err := auth.CheckPassword(users[i].PasswordHash, password); err != nil {
			return nil, err
		}
		users[i].LastLogin = time.Now().Format(models.TimeFormat)
		found = users[i]
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", found.ID, "username", found.Username)
	return &found, nil
}

// Create adds a staff account after checking password strength and
// username uniqueness.
func (s *UserService) Create(ctx context.Context, username, name, role, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, auth.ErrInvalidCredentials
	}
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           ident.New(),
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	}
	err = s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		if findUser(users, username) >= 0 {
			return nil, ErrUsernameTaken
		}
		return append(users, user), nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user created", "user_id", user.ID, "username", username, "role", role)
	return &user, nil
}

// ChangePassword replaces a user's password hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, password string) error {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID == userID {
				users[i].PasswordHash = hash
				return users, nil
			}
		}
		return nil, ErrUserNotFound
	})
}

// List returns every staff account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, _, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func findUser(users []models.User, username string) int {
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return i
		}
	}
	return -1
}
