package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yieldcanary/yieldcanary/pkg/pg"
)

// Store persists entitlement records.
type Store interface {
	// EnsureExists creates a Free record for email unless one exists and
	// returns the current record.
	EnsureExists(ctx context.Context, email string) (Entitlement, error)
	GetByEmail(ctx context.Context, email string) (Entitlement, error)
	// Upsert overwrites the paid flag, tier, period bounds and customer id of
	// the record for e.Email, creating it when absent. An empty customer id
	// keeps the stored one.
	Upsert(ctx context.Context, e Entitlement) error
	// Revoke sets the record back to Free. Period bounds are kept as history.
	Revoke(ctx context.Context, email string) error
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements Store on the users table.
type PGStore struct {
	db DBTX
}

func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db}
}

const selectColumns = `id, email, name, is_paid, subscription_tier, subscription_start,
	subscription_end, COALESCE(stripe_customer_id, ''), created_at, updated_at`

func (s *PGStore) EnsureExists(ctx context.Context, email string) (Entitlement, error) {
	e := Free(email)
	if err := e.Validate(); err != nil {
		return Entitlement{}, err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO users (email, name, is_paid, subscription_tier)
		VALUES ($1, $2, FALSE, 'free')
		ON CONFLICT (email) DO NOTHING`,
		e.Email, e.Name,
	)
	if err != nil {
		return Entitlement{}, fmt.Errorf("%w: ensure %s: %w", ErrStoreFailure, e.Email, err)
	}
	return s.GetByEmail(ctx, e.Email)
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (Entitlement, error) {
	email = NormalizeEmail(email)

	var (
		e    Entitlement
		tier string
	)
	err := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM users WHERE email = $1`, email).Scan(
		&e.ID, &e.Email, &e.Name, &e.IsPaid, &tier, &e.SubscriptionStart,
		&e.SubscriptionEnd, &e.StripeCustomerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Entitlement{}, ErrNotFound
		}
		return Entitlement{}, fmt.Errorf("%w: get %s: %w", ErrStoreFailure, email, err)
	}
	if e.Tier, err = ParseTier(tier); err != nil {
		return Entitlement{}, err
	}
	return e, nil
}

func (s *PGStore) Upsert(ctx context.Context, e Entitlement) error {
	e.Email = NormalizeEmail(e.Email)
	if e.Name == "" {
		e.Name = NameFromEmail(e.Email)
	}
	if err := e.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO users (email, name, is_paid, subscription_tier, subscription_start,
			subscription_end, stripe_customer_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NOW())
		ON CONFLICT (email) DO UPDATE SET
			is_paid = EXCLUDED.is_paid,
			subscription_tier = EXCLUDED.subscription_tier,
			subscription_start = EXCLUDED.subscription_start,
			subscription_end = EXCLUDED.subscription_end,
			stripe_customer_id = COALESCE(EXCLUDED.stripe_customer_id, users.stripe_customer_id),
			updated_at = NOW()`,
		e.Email, e.Name, e.IsPaid, string(e.Tier), e.SubscriptionStart,
		e.SubscriptionEnd, e.StripeCustomerID,
	)
	if err != nil {
		if pg.IsCheckViolationError(err) {
			return errors.Join(ErrInconsistentEntitlement, err)
		}
		return fmt.Errorf("%w: upsert %s: %w", ErrStoreFailure, e.Email, err)
	}
	return nil
}

func (s *PGStore) Revoke(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE users
		SET is_paid = FALSE, subscription_tier = 'free', updated_at = NOW()
		WHERE email = $1`,
		email,
	)
	if err != nil {
		return fmt.Errorf("%w: revoke %s: %w", ErrStoreFailure, email, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
