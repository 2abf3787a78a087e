package interfaces

import (
	"context"

	"acara-backend/internal/domain"

	"github.com/google/uuid"
)

// AccountStore persists accounts. Implementations enforce userName and email
// uniqueness and flip activation atomically.
type AccountStore interface {
	// Create inserts account. Returns domain.ErrUserNameAlreadyExists or
	// domain.ErrEmailAlreadyExists on a uniqueness collision.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// FindByIdentifier matches the email (case-insensitively) or the user name.
	// Returns domain.ErrAccountNotFound.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)

	// FindByID returns domain.ErrAccountNotFound if id is unknown. It serves
	// profile reads: PasswordHash and ActivationCode may be left empty.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// ActivateByCode marks the inactive account holding code as active.
	// Returns domain.ErrActivationCodeNotFound if no inactive account holds it.
	ActivateByCode(ctx context.Context, code string) (*domain.Account, error)
}
