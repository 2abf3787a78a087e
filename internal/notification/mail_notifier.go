// Package notification implements the activation notifiers the auth service dispatches to.
package notification

import (
	"context"

	"acara-backend/internal/domain"
	"acara-backend/internal/interfaces"
	"acara-backend/internal/mail"
	"acara-backend/internal/messaging"

	"go.uber.org/zap"
)

const TransportSMTP = "smtp"

// LinkBuilder turns an activation code into the client URL that consumes it.
type LinkBuilder func(code string) string

// MailNotifier renders the activation mail and sends it right away. It serves
// both the API process and the queue-driven mailer worker.
type MailNotifier struct {
	renderer *mail.Renderer
	sender   mail.Sender
	link     LinkBuilder
	logger   *zap.Logger
}

var (
	_ interfaces.RegistrationNotifier = (*MailNotifier)(nil)
	_ messaging.ActivationHandler     = (*MailNotifier)(nil)
)

func NewMailNotifier(renderer *mail.Renderer, sender mail.Sender, link LinkBuilder, logger *zap.Logger) *MailNotifier {
	return &MailNotifier{
		renderer: renderer,
		sender:   sender,
		link:     link,
		logger:   logger.Named("MailNotifier"),
	}
}

func (n *MailNotifier) NotifyRegistration(ctx context.Context, account *domain.Account) error {
	return n.HandleActivation(ctx, messaging.NewActivationEmailPayload(account))
}

func (n *MailNotifier) HandleActivation(ctx context.Context, payload messaging.ActivationEmailPayload) error {
	html, err := n.renderer.Activation(payload.FullName, payload.UserName, n.link(payload.ActivationCode), payload.CreatedAt)
	if err != nil {
		return &domain.DispatchError{Transport: TransportSMTP, Err: err}
	}

	err = n.sender.Send(ctx, mail.Message{
		To:      payload.Email,
		Subject: mail.ActivationSubject,
		HTML:    html,
	})
	if err != nil {
		return &domain.DispatchError{Transport: TransportSMTP, Err: err}
	}
	n.logger.Info("Activation email sent", zap.String("accountID", payload.AccountID.String()))
	return nil
}
