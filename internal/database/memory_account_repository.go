package database

import (
	"context"
	"strings"
	"sync"
	"time"

	"acara-backend/internal/domain"
	"acara-backend/internal/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ interfaces.AccountStore = (*memoryAccountRepository)(nil)

// memoryAccountRepository keeps accounts in process memory. One mutex guards
// all indexes so uniqueness checks and activation are atomic.
type memoryAccountRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*domain.Account
	byUserName map[string]uuid.UUID
	byEmail    map[string]uuid.UUID
	byCode     map[string]uuid.UUID
	logger     *zap.Logger
	now        func() time.Time
}

// NewMemoryAccountRepository creates an empty in-memory AccountStore.
func NewMemoryAccountRepository(logger *zap.Logger) interfaces.AccountStore {
	return &memoryAccountRepository{
		byID:       make(map[uuid.UUID]*domain.Account),
		byUserName: make(map[string]uuid.UUID),
		byEmail:    make(map[string]uuid.UUID),
		byCode:     make(map[string]uuid.UUID),
		logger:     logger.Named("MemoryAccountRepo"),
		now:        time.Now,
	}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	email := strings.ToLower(account.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUserName[account.UserName]; taken {
		r.logger.Warn("Attempted to create account with taken userName", zap.String("userName", account.UserName))
		return nil, domain.ErrUserNameAlreadyExists
	}
	if _, taken := r.byEmail[email]; taken {
		r.logger.Warn("Attempted to create account with taken email", zap.String("email", email))
		return nil, domain.ErrEmailAlreadyExists
	}

	stored := *account
	stored.Email = email
	r.byID[stored.ID] = &stored
	r.byUserName[stored.UserName] = stored.ID
	r.byEmail[email] = stored.ID
	r.byCode[stored.ActivationCode] = stored.ID

	r.logger.Debug("Account created", zap.String("accountID", stored.ID.String()))
	out := stored
	return &out, nil
}

func (r *memoryAccountRepository) FindByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(identifier)]
	if !ok {
		id, ok = r.byUserName[identifier]
	}
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *memoryAccountRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := *account
	return &out, nil
}

func (r *memoryAccountRepository) ActivateByCode(_ context.Context, code string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, domain.ErrActivationCodeNotFound
	}
	account := r.byID[id]
	if account.IsActive {
		return nil, domain.ErrActivationCodeNotFound
	}
	account.IsActive = true
	account.UpdatedAt = r.now()

	r.logger.Info("Account activated", zap.String("accountID", id.String()))
	out := *account
	return &out, nil
}
