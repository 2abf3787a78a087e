package notification

import (
	"context"

	"acara-backend/internal/domain"
	"acara-backend/internal/interfaces"

	"go.uber.org/zap"
)

// LogNotifier only logs the activation link. Meant for local development.
type LogNotifier struct {
	link   LinkBuilder
	logger *zap.Logger
}

var _ interfaces.RegistrationNotifier = (*LogNotifier)(nil)

func NewLogNotifier(link LinkBuilder, logger *zap.Logger) *LogNotifier {
	return &LogNotifier{link: link, logger: logger.Named("LogNotifier")}
}

func (n *LogNotifier) NotifyRegistration(_ context.Context, account *domain.Account) error {
	n.logger.Info("Activation link generated",
		zap.String("accountID", account.ID.String()),
		zap.String("email", account.Email),
		zap.String("link", n.link(account.ActivationCode)),
	)
	return nil
}
