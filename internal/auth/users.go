package auth

import (
	"context"
	"fmt"

	"gatherly/internal/models"
	"gatherly/internal/store"
)

// Ensure UserStore implements UserStorage
var _ UserStorage = (*UserStore)(nil)

// UserStore persists user accounts in the document store under users/{id},
// with an email lookup index under indexes/usersByEmail/{email}.
type UserStore struct {
	store store.Store
}

// NewUserStore creates a user repository backed by the given document store.
func NewUserStore(s store.Store) *UserStore {
	return &UserStore{store: s}
}

// CreateUser writes the user record and its email index entry.
func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.store.Set(ctx, "users/"+user.ID, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.store.Set(ctx, emailIndexPath(user.Email), user.ID); err != nil {
		return fmt.Errorf("failed to index user email: %w", err)
	}
	return nil
}

// GetUserByEmail resolves the email index, then loads the user record.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var id string
	if err := s.store.Get(ctx, emailIndexPath(models.NormalizeEmail(email)), &id); err != nil {
		return nil, fmt.Errorf("user not found for email: %w", err)
	}
	return s.GetUserByID(ctx, id)
}

// GetUserByID loads a user record by id.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	if err := s.store.Get(ctx, "users/"+id, user); err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	user.ID = id
	return user, nil
}

func emailIndexPath(email string) string {
	return "indexes/usersByEmail/" + email
}
