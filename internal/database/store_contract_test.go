package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"acara-backend/internal/domain"
	"acara-backend/internal/interfaces"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(userName, email string) *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:             uuid.New(),
		FullName:       "Test " + userName,
		UserName:       userName,
		Email:          email,
		PasswordHash:   "hash-" + userName,
		Role:           domain.RoleUser,
		ProfilePicture: domain.DefaultProfilePicture,
		ActivationCode: "code-" + uuid.NewString(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// runAccountStoreContract checks behaviour every AccountStore must share.
// newStore must return an empty store.
func runAccountStoreContract(t *testing.T, newStore func(t *testing.T) interfaces.AccountStore) {
	ctx := context.Background()

	t.Run("CreateAndFind", func(t *testing.T) {
		store := newStore(t)
		account := newTestAccount("ann", "ann@example.com")

		created, err := store.Create(ctx, account)
		require.NoError(t, err)
		assert.Equal(t, account.ID, created.ID)
		assert.False(t, created.IsActive)

		byEmail, err := store.FindByIdentifier(ctx, "ANN@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byEmail.ID)
		assert.Equal(t, "hash-ann", byEmail.PasswordHash)
		assert.Equal(t, account.ActivationCode, byEmail.ActivationCode)

		byName, err := store.FindByIdentifier(ctx, "ann")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byName.ID)

		byID, err := store.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.UserName, byID.UserName)
		assert.Equal(t, domain.DefaultProfilePicture, byID.ProfilePicture)
	})

	t.Run("NotFound", func(t *testing.T) {
		store := newStore(t)

		_, err := store.FindByIdentifier(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)

		_, err = store.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)

		_, err = store.ActivateByCode(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrActivationCodeNotFound)
	})

	t.Run("Uniqueness", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Create(ctx, newTestAccount("ann", "ann@example.com"))
		require.NoError(t, err)

		_, err = store.Create(ctx, newTestAccount("ann", "other@example.com"))
		assert.ErrorIs(t, err, domain.ErrUserNameAlreadyExists)
		assert.ErrorIs(t, err, domain.ErrConflict)

		_, err = store.Create(ctx, newTestAccount("bob", "ann@example.com"))
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("ActivateOnce", func(t *testing.T) {
		store := newStore(t)
		account := newTestAccount("ann", "ann@example.com")
		_, err := store.Create(ctx, account)
		require.NoError(t, err)

		activated, err := store.ActivateByCode(ctx, account.ActivationCode)
		require.NoError(t, err)
		assert.True(t, activated.IsActive)
		assert.Equal(t, account.ID, activated.ID)

		_, err = store.ActivateByCode(ctx, account.ActivationCode)
		assert.ErrorIs(t, err, domain.ErrActivationCodeNotFound)

		found, err := store.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, found.IsActive)
	})

	t.Run("ConcurrentDuplicateCreate", func(t *testing.T) {
		store := newStore(t)
		const workers = 16

		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = store.Create(ctx, newTestAccount("racer", fmt.Sprintf("racer%d@example.com", i)))
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrUserNameAlreadyExists)
		}
		assert.Equal(t, 1, succeeded)
	})

	t.Run("ConcurrentActivate", func(t *testing.T) {
		store := newStore(t)
		account := newTestAccount("ann", "ann@example.com")
		_, err := store.Create(ctx, account)
		require.NoError(t, err)

		const workers = 8
		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.ActivateByCode(ctx, account.ActivationCode)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}
