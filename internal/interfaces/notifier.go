package interfaces

import (
	"context"

	"acara-backend/internal/domain"
)

// RegistrationNotifier delivers the activation message for a new account.
// Failures are reported as *domain.DispatchError.
type RegistrationNotifier interface {
	NotifyRegistration(ctx context.Context, account *domain.Account) error
}
