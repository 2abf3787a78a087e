package interfaces

import (
	"time"

	"acara-backend/internal/domain"
)

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, time.Time, error)
	Verify(token string) (*domain.Claims, error)
}
