// Package perks stores, indexes and exports the offers produced by the
// extraction pipeline. The extraction core stays pure; everything with a side
// effect lives here.
package perks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FACorreiaa/card-perks/internal/domain/extraction"
)

// StoredPerk is an extracted perk persisted against a card and a resolved
// merchant entity.
type StoredPerk struct {
	ID          uuid.UUID
	CardID      uuid.UUID
	MerchantID  uuid.UUID
	Merchant    string
	Description string
	Value       string
	Expiration  string
	Confidence  float64
	Issuer      string
	CreatedAt   time.Time
}

// PgxPool is the subset of pgxpool.Pool the repository needs; satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository handles database operations for perks and merchants.
//
// Expected schema:
//
//	merchants(id uuid pk, name text unique)
//	perks(id uuid pk, card_id uuid, merchant_id uuid fk, description text,
//	      value text, expiration text, confidence float8, issuer text,
//	      created_at timestamptz)
type Repository struct {
	db PgxPool
}

// NewRepository creates a perk repository over a pgx pool.
func NewRepository(db PgxPool) *Repository {
	return &Repository{db: db}
}

// SavePerks persists one screen capture's perks atomically, resolving or
// creating the merchant row for each.
func (r *Repository) SavePerks(ctx context.Context, cardID uuid.UUID, issuer string, perks []extraction.ExtractedPerk) ([]StoredPerk, error) {
	if len(perks) == 0 {
		return nil, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin save perks: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	stored := make([]StoredPerk, 0, len(perks))
	now := time.Now()

	for _, perk := range perks {
		merchantID, err := resolveMerchant(ctx, tx, perk.Merchant)
		if err != nil {
			return nil, err
		}

		sp := StoredPerk{
			ID:          uuid.New(),
			CardID:      cardID,
			MerchantID:  merchantID,
			Merchant:    perk.Merchant,
			Description: perk.Description,
			Value:       perk.Value,
			Expiration:  perk.Expiration,
			Confidence:  perk.Confidence,
			Issuer:      issuer,
			CreatedAt:   now,
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO perks (id, card_id, merchant_id, description, value, expiration, confidence, issuer, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, sp.ID, sp.CardID, sp.MerchantID, sp.Description, sp.Value, sp.Expiration, sp.Confidence, sp.Issuer, sp.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert perk for %q: %w", perk.Merchant, err)
		}

		stored = append(stored, sp)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit save perks: %w", err)
	}
	return stored, nil
}

// resolveMerchant returns the merchant row id for a canonical name, creating
// the row on first sight. The upsert keeps concurrent captures from racing on
// the unique name constraint.
func resolveMerchant(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO merchants (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, uuid.New(), name).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve merchant %q: %w", name, err)
	}
	return id, nil
}

// ListByCard returns a card's stored perks, newest first.
func (r *Repository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]StoredPerk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.card_id, p.merchant_id, m.name, p.description, p.value, p.expiration, p.confidence, p.issuer, p.created_at
		FROM perks p
		JOIN merchants m ON m.id = p.merchant_id
		WHERE p.card_id = $1
		ORDER BY p.created_at DESC
	`, cardID)
	if err != nil {
		return nil, fmt.Errorf("list perks: %w", err)
	}
	defer rows.Close()

	var perks []StoredPerk
	for rows.Next() {
		var p StoredPerk
		if err := rows.Scan(&p.ID, &p.CardID, &p.MerchantID, &p.Merchant, &p.Description, &p.Value, &p.Expiration, &p.Confidence, &p.Issuer, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan perk: %w", err)
		}
		perks = append(perks, p)
	}
	return perks, rows.Err()
}

// DeleteByCard removes all perks stored for a card, for re-scans.
func (r *Repository) DeleteByCard(ctx context.Context, cardID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM perks WHERE card_id = $1`, cardID)
	if err != nil {
		return 0, fmt.Errorf("delete perks: %w", err)
	}
	return tag.RowsAffected(), nil
}
