package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"acara-backend/internal/domain"
	"acara-backend/internal/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const accountKeyPrefix = "account:"

var _ interfaces.AccountStore = (*cachedAccountStore)(nil)

// cachedAccountStore is a read-through Redis cache for FindByID. Writes go to
// next first; the cache is never the source of truth.
type cachedAccountStore struct {
	next   interfaces.AccountStore
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// cachedAccount is the profile projection kept in Redis. Credentials
// (password hash, activation code) are never written to the cache.
type cachedAccount struct {
	ID             uuid.UUID   `json:"id"`
	FullName       string      `json:"full_name"`
	UserName       string      `json:"user_name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	ProfilePicture string      `json:"profile_picture"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func toCachedAccount(a *domain.Account) cachedAccount {
	return cachedAccount{
		ID:             a.ID,
		FullName:       a.FullName,
		UserName:       a.UserName,
		Email:          a.Email,
		Role:           a.Role,
		ProfilePicture: a.ProfilePicture,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (c cachedAccount) account() *domain.Account {
	return &domain.Account{
		ID:             c.ID,
		FullName:       c.FullName,
		UserName:       c.UserName,
		Email:          c.Email,
		Role:           c.Role,
		ProfilePicture: c.ProfilePicture,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// NewCachedAccountStore wraps next with a Redis cache of ttl.
func NewCachedAccountStore(next interfaces.AccountStore, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) interfaces.AccountStore {
	return &cachedAccountStore{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.Named("AccountCache"),
	}
}

func accountKey(id uuid.UUID) string {
	return accountKeyPrefix + id.String()
}

func (s *cachedAccountStore) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	return s.next.Create(ctx, account)
}

func (s *cachedAccountStore) FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	return s.next.FindByIdentifier(ctx, identifier)
}

func (s *cachedAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	key := accountKey(id)
	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedAccount
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached.account(), nil
		}
		s.logger.Warn("Dropping undecodable cache entry", zap.String("key", key))
		s.client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("Cache read failed, falling back to store", zap.String("key", key), zap.Error(err))
	}

	account, err := s.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	projection := toCachedAccount(account)
	s.store(ctx, projection)
	return projection.account(), nil
}

func (s *cachedAccountStore) ActivateByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.next.ActivateByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.store(ctx, toCachedAccount(account))
	return account, nil
}

func (s *cachedAccountStore) store(ctx context.Context, account cachedAccount) {
	data, err := json.Marshal(account)
	if err != nil {
		s.logger.Warn("Failed to encode account for cache", zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, accountKey(account.ID), data, s.ttl).Err(); err != nil {
		s.logger.Warn("Cache write failed", zap.String("accountID", account.ID.String()), zap.Error(err))
	}
}
