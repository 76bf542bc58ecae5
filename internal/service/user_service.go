package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"technotes/internal/cache"
	"technotes/internal/errors"
	"technotes/internal/model"
	"technotes/internal/repository"
)

const bcryptCost = 10

// UserService exposes user domain operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, username, password string, roles []string) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, username, password string, active bool, roles []string) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	noteRepo repository.NoteRepository
	cache    *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(userRepo repository.UserRepository, noteRepo repository.NoteRepository, cache *cache.Client) UserService {
	return &userService{
		userRepo: userRepo,
		noteRepo: noteRepo,
		cache:    cache,
	}
}

// ListUsers returns all users. Password hashes never leave the model's
// JSON representation, so no projection is needed here.
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// CreateUser creates a user with a hashed password and active defaulted true.
func (s *userService) CreateUser(ctx context.Context, username, password string, roles []string) (*model.User, error) {
	// Check for duplicates
	duplicate, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && duplicate != nil {
		return nil, errors.ErrUserExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Roles:        roles,
		Active:       true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index closes the race the pre-check leaves open.
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// UpdateUser overwrites username, roles and active; the password hash is
// replaced only when a non-empty password is supplied.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, username, password string, active bool, roles []string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// Check for a duplicate held by a different user
	duplicate, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && duplicate != nil && duplicate.ID != id {
		return nil, errors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	user.Username = username
	user.Roles = roles
	user.Active = active

	if password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
	return user, nil
}

// DeleteUser removes a user unless notes still reference it. The notes
// check runs before the existence check, matching the API contract.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	note, err := s.noteRepo.FindFirstByUserID(ctx, id)
	if err == nil && note != nil {
		return nil, errors.ErrUserHasNotes
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check notes: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, user); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.UserKey(user.ID))
	return user, nil
}
