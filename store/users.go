package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fleetcheck/db"
	"fleetcheck/models"
)

// UserStore keeps registered accounts as one JSON list. Usernames are
// unique, compared case-insensitively.
type UserStore struct {
	kv db.KV
	mu sync.Mutex
}

func NewUserStore(kv db.KV) *UserStore {
	return &UserStore{kv: kv}
}

func (s *UserStore) load(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := db.GetJSON(ctx, s.kv, UsersKey, &users)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

func (s *UserStore) save(ctx context.Context, users []models.User) error {
	return db.SetJSON(ctx, s.kv, UsersKey, users)
}

// List returns every user, password hashes included.
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Count returns the number of registered users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	users, err := s.List(ctx)
	return len(users), err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
}

// Create appends a user; the username must be free.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.UserID == user.UserID || strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("%s: %w", user.Username, ErrUserExists)
		}
	}
	return s.save(ctx, append(users, *user))
}

// Register appends a self-registered account. The first account on an empty
// store becomes the administrator whatever role was asked for; later ones
// are only accepted when open is true. The count check and the append share
// one critical section.
func (s *UserStore) Register(ctx context.Context, user *models.User, open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		user.Role = models.RoleAdmin
	} else if !open {
		return ErrRegistrationOff
	}
	for _, u := range users {
		if u.UserID == user.UserID || strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("%s: %w", user.Username, ErrUserExists)
		}
	}
	return s.save(ctx, append(users, *user))
}

// Update replaces the user with the same id.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].UserID == user.UserID {
			users[i] = *user
			return s.save(ctx, users)
		}
	}
	return fmt.Errorf("user %s: %w", user.UserID, ErrNotFound)
}

func (s *UserStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].UserID == userID {
			return s.save(ctx, append(users[:i:i], users[i+1:]...))
		}
	}
	return fmt.Errorf("user %s: %w", userID, ErrNotFound)
}
