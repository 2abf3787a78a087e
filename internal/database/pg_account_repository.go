package database

import (
	"context"
	"errors"
	"fmt"

	"acara-backend/internal/domain"
	"acara-backend/internal/interfaces"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	uniqueViolation = "23505"

	userNameConstraint = "accounts_user_name_key"
	emailConstraint    = "accounts_email_key"

	accountColumns = `id, full_name, user_name, email, password_hash, role, profile_picture, is_active, activation_code, created_at, updated_at`

	insertAccountQuery = `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + accountColumns

	findByIdentifierQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE email = lower($1) OR user_name = $1 LIMIT 1`
	findByIDQuery         = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	activateByCodeQuery = `
		UPDATE accounts SET is_active = TRUE, updated_at = NOW()
		WHERE activation_code = $1 AND NOT is_active
		RETURNING ` + accountColumns
)

var _ interfaces.AccountStore = (*pgAccountRepository)(nil)

type pgAccountRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgAccountRepository creates a PostgreSQL-backed AccountStore.
func NewPgAccountRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.AccountStore {
	return &pgAccountRepository{
		db:     db,
		logger: logger.Named("PgAccountRepo"),
	}
}

func (r *pgAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	logFields := []zap.Field{zap.String("userName", account.UserName), zap.String("email", account.Email)}
	r.logger.Debug("Executing query", append(logFields, zap.String("query", "insertAccount"))...)

	created := &domain.Account{}
	err := pgxscan.Get(ctx, r.db, created, insertAccountQuery,
		account.ID, account.FullName, account.UserName, account.Email, account.PasswordHash,
		account.Role, account.ProfilePicture, account.IsActive, account.ActivationCode,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case userNameConstraint:
				r.logger.Warn("Attempted to create account with taken userName", logFields...)
				return nil, domain.ErrUserNameAlreadyExists
			case emailConstraint:
				r.logger.Warn("Attempted to create account with taken email", logFields...)
				return nil, domain.ErrEmailAlreadyExists
			default:
				r.logger.Warn("Unique constraint violation on account insert", append(logFields, zap.String("constraint", pgErr.ConstraintName))...)
				return nil, fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
			}
		}
		r.logger.Error("Failed to create account in postgres", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to create account in postgres: %w", err)
	}

	r.logger.Info("Account created", zap.String("accountID", created.ID.String()), zap.String("userName", created.UserName))
	return created, nil
}

func (r *pgAccountRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	r.logger.Debug("Executing query", zap.String("query", "findByIdentifier"), zap.String("identifier", identifier))
	return r.getOne(ctx, domain.ErrAccountNotFound, findByIdentifierQuery, identifier)
}

func (r *pgAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.logger.Debug("Executing query", zap.String("query", "findByID"), zap.String("accountID", id.String()))
	return r.getOne(ctx, domain.ErrAccountNotFound, findByIDQuery, id)
}

func (r *pgAccountRepository) ActivateByCode(ctx context.Context, code string) (*domain.Account, error) {
	r.logger.Debug("Executing query", zap.String("query", "activateByCode"))
	account, err := r.getOne(ctx, domain.ErrActivationCodeNotFound, activateByCodeQuery, code)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Account activated", zap.String("accountID", account.ID.String()))
	return account, nil
}

func (r *pgAccountRepository) getOne(ctx context.Context, notFound error, query string, args ...any) (*domain.Account, error) {
	account := &domain.Account{}
	if err := pgxscan.Get(ctx, r.db, account, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		r.logger.Error("Failed to query account from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to query account from postgres: %w", err)
	}
	return account, nil
}
