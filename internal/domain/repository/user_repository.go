// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"github.com/AnthonyArce/Tienda/internal/domain/entity"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
)

// UserRepository defines the standard operations for the user aggregate.
// The application layer depends on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByUsername retrieves a user by username, loading roles and refresh tokens.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail retrieves a user by email. The comparison is case-insensitive.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByActiveRefreshToken retrieves the user owning a refresh token with the
	// exact given value that is neither revoked nor expired.
	FindByActiveRefreshToken(ctx context.Context, token string) (*entity.User, error)

	// FindRoleByName retrieves a role by name. The comparison is case-insensitive.
	FindRoleByName(ctx context.Context, name string) (*entity.Role, error)

	// Create persists a new user entity together with its role assignments.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	Update(ctx context.Context, user *entity.User) error

	// AddRole appends a role to the user's role set.
	AddRole(ctx context.Context, user *entity.User, role *entity.Role) error
}
