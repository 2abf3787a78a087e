package messaging

import (
	"time"

	"acara-backend/internal/domain"

	"github.com/google/uuid"
)

// DefaultActivationQueue carries activation emails from the API to the mailer.
const DefaultActivationQueue = "account_activation_emails"

// ActivationEmailPayload is the queued form of one activation email.
type ActivationEmailPayload struct {
	AccountID      uuid.UUID `json:"accountId"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	UserName       string    `json:"userName"`
	ActivationCode string    `json:"activationCode"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewActivationEmailPayload copies what the mailer needs out of account.
func NewActivationEmailPayload(account *domain.Account) ActivationEmailPayload {
	return ActivationEmailPayload{
		AccountID:      account.ID,
		Email:          account.Email,
		FullName:       account.FullName,
		UserName:       account.UserName,
		ActivationCode: account.ActivationCode,
		CreatedAt:      account.CreatedAt,
	}
}
