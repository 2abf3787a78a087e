package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"acara-backend/internal/domain"
	"acara-backend/internal/hasher"
	"acara-backend/internal/interfaces"
	"acara-backend/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const activationCodeBytes = 32

// AuthService covers the account lifecycle.
type AuthService interface {
	Register(ctx context.Context, payload domain.RegisterPayload) (*domain.Account, error)
	Login(ctx context.Context, payload domain.LoginPayload) (string, error)
	Me(ctx context.Context, accountID uuid.UUID) (*domain.Account, error)
	Activate(ctx context.Context, code string) (*domain.Account, error)
	VerifyAccessToken(ctx context.Context, token string) (*domain.Claims, error)
	// Shutdown waits for in-flight notifications or until ctx is done.
	Shutdown(ctx context.Context) error
}

// Options tunes policy that comes from configuration.
type Options struct {
	LoginRequireActive  bool
	NotificationTimeout time.Duration
}

type authServiceImpl struct {
	store     interfaces.AccountStore
	hasher    hasher.Hasher
	issuer    interfaces.TokenIssuer
	notifier  interfaces.RegistrationNotifier
	validator *validation.Validator
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
	inflight  sync.WaitGroup
}

var _ AuthService = (*authServiceImpl)(nil)

func NewAuthService(
	store interfaces.AccountStore,
	h hasher.Hasher,
	issuer interfaces.TokenIssuer,
	notifier interfaces.RegistrationNotifier,
	opts Options,
	logger *zap.Logger,
) AuthService {
	if opts.NotificationTimeout <= 0 {
		opts.NotificationTimeout = 30 * time.Second
	}
	return &authServiceImpl{
		store:     store,
		hasher:    h,
		issuer:    issuer,
		notifier:  notifier,
		validator: validation.New(),
		opts:      opts,
		logger:    logger.Named("AuthService"),
		now:       time.Now,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, payload domain.RegisterPayload) (*domain.Account, error) {
	valid, err := s.validator.Register(payload)
	if err != nil {
		s.logger.Debug("Registration rejected by validation", zap.Error(err))
		return nil, err
	}

	logFields := []zap.Field{zap.String("userName", valid.UserName), zap.String("email", valid.Email)}
	s.logger.Info("Registering new account", logFields...)

	passwordHash, err := s.hasher.Hash(valid.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := newActivationCode()
	if err != nil {
		s.logger.Error("Failed to generate activation code", append(logFields, zap.Error(err))...)
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.store.Create(ctx, &domain.Account{
		ID:             uuid.New(),
		FullName:       valid.FullName,
		UserName:       valid.UserName,
		Email:          valid.Email,
		PasswordHash:   passwordHash,
		Role:           domain.RoleUser,
		ProfilePicture: domain.DefaultProfilePicture,
		IsActive:       false,
		ActivationCode: code,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error("Failed to create account via store", append(logFields, zap.Error(err))...)
		}
		return nil, err
	}

	s.dispatchRegistration(ctx, created)

	s.logger.Info("Account registered", zap.String("accountID", created.ID.String()), zap.String("userName", created.UserName))
	return created, nil
}

// dispatchRegistration notifies in the background. The request context is
// detached so the notification outlives the response.
func (s *authServiceImpl) dispatchRegistration(ctx context.Context, account *domain.Account) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotificationTimeout)
	snapshot := *account

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		if err := s.notifier.NotifyRegistration(notifyCtx, &snapshot); err != nil {
			notificationsTotal.WithLabelValues("failure").Inc()
			s.logger.Error("Activation notification failed", zap.String("accountID", snapshot.ID.String()), zap.Error(err))
			return
		}
		notificationsTotal.WithLabelValues("success").Inc()
	}()
}

func (s *authServiceImpl) Login(ctx context.Context, payload domain.LoginPayload) (string, error) {
	valid, err := s.validator.Login(payload)
	if err != nil {
		return "", err
	}
	logFields := []zap.Field{zap.String("identifier", valid.Identifier)}
	s.logger.Info("Login attempt", logFields...)

	account, err := s.store.FindByIdentifier(ctx, valid.Identifier)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.Warn("Login failed: account not found", logFields...)
			return "", domain.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting account from store", append(logFields, zap.Error(err))...)
		return "", fmt.Errorf("failed to get account: %w", err)
	}

	if !s.hasher.Verify(valid.Password, account.PasswordHash) {
		s.logger.Warn("Login failed: invalid password", append(logFields, zap.String("accountID", account.ID.String()))...)
		return "", domain.ErrInvalidCredentials
	}

	if s.opts.LoginRequireActive && !account.IsActive {
		s.logger.Warn("Login failed: account not activated", append(logFields, zap.String("accountID", account.ID.String()))...)
		return "", domain.ErrInvalidCredentials
	}

	token, _, err := s.issuer.Issue(account.Identity())
	if err != nil {
		s.logger.Error("Failed to issue token during login", zap.String("accountID", account.ID.String()), zap.Error(err))
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("Account logged in", zap.String("accountID", account.ID.String()))
	return token, nil
}

func (s *authServiceImpl) Me(ctx context.Context, accountID uuid.UUID) (*domain.Account, error) {
	account, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("Failed to load account", zap.String("accountID", accountID.String()), zap.Error(err))
		}
		return nil, err
	}
	return account, nil
}

func (s *authServiceImpl) Activate(ctx context.Context, code string) (*domain.Account, error) {
	code, err := s.validator.ActivationCode(code)
	if err != nil {
		return nil, err
	}

	account, err := s.store.ActivateByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Activation failed: unknown or used code")
		} else {
			s.logger.Error("Activation failed", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Account activated", zap.String("accountID", account.ID.String()))
	return account, nil
}

func (s *authServiceImpl) VerifyAccessToken(_ context.Context, token string) (*domain.Claims, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		s.logger.Debug("Access token rejected", zap.Error(err))
		return nil, err
	}
	return claims, nil
}

func (s *authServiceImpl) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for notifications: %w", ctx.Err())
	}
}

func newActivationCode() (string, error) {
	b := make([]byte, activationCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate activation code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
