package repositories

import (
	"context"

	"github.com/mentorloop/backend/internal/domain/entities"
)

// UserRepository defines the interface for mentee lookups
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email. Returns nil (no error) when no
	// user carries the address; sync treats that as "outside the system".
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
