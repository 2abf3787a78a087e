package token

import (
	"testing"
	"time"

	"acara-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("unit-test-secret", time.Hour)
	require.NoError(t, err)
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t)
	identity := domain.Identity{ID: uuid.New(), Role: domain.RoleUser}

	signed, expiresAt, err := m.Issue(identity)
	require.NoError(t, err)
	require.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, identity.ID.String(), claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestVerifyExpired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, _, err := m.Issue(domain.Identity{ID: uuid.New(), Role: domain.RoleUser})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	m := newTestManager(t)
	other, err := NewManager("another-secret", time.Hour)
	require.NoError(t, err)

	foreign, _, err := other.Issue(domain.Identity{ID: uuid.New(), Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = m.Verify(foreign)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = m.Verify("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t)
	claims := &domain.Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(unsigned)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestNewManager(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewManager("secret", 0)
	assert.Error(t, err)
}
