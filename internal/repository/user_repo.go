package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"courseforge-backend/internal/models"
)

var ErrNotFound = errors.New("user not found")

// UserRepo is a flat, unencrypted local user list backed by one JSON file.
// The whole list is read and rewritten under a mutex on every mutation;
// fine for the single-node, handful-of-accounts scale this serves.
type UserRepo struct {
	mu   sync.Mutex
	path string
}

func NewUserRepo(path string) *UserRepo {
	return &UserRepo{path: path}
}

func (r *UserRepo) load() ([]models.StoredUser, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.StoredUser{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user list: %w", err)
	}

	var users []models.StoredUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("user list is corrupt: %w", err)
	}
	return users, nil
}

func (r *UserRepo) save(users []models.StoredUser) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(r.path, data, 0o600)
}

func (r *UserRepo) Create(ctx context.Context, user *models.StoredUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return err
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("email already registered")
		}
	}

	users = append(users, *user)
	return r.save(users)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.StoredUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StoredUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}
