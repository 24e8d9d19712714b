package listing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no listing matches the identifier.
var ErrNotFound = errors.New("listing not found")

// Repository persists listings.
type Repository interface {
	Create(ctx context.Context, listing Listing) error
	FindByID(ctx context.Context, id string) (Listing, error)
	List(ctx context.Context) ([]Listing, error)
}

// PostgresRepository stores listings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const listingColumns = `id, landlord_name, landlord_email, address, base_rent, min_deposit, max_deposit,
        min_term_months, max_term_months, autopay_discount_max, created_at`

// Create inserts a listing record.
func (r *PostgresRepository) Create(ctx context.Context, l Listing) error {
	id, err := uuid.Parse(l.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO listings (`+listingColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, l.LandlordName, l.LandlordEmail, l.Address,
		l.Policy.BaseRent, l.Policy.MinDeposit, l.Policy.MaxDeposit,
		l.Policy.MinTermMonths, l.Policy.MaxTermMonths, l.Policy.AutopayDiscountMax,
		l.CreatedAt.UTC())
	return err
}

// FindByID fetches a listing by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Listing, error) {
	listingID, err := uuid.Parse(id)
	if err != nil {
		return Listing{}, ErrNotFound
	}
	l, err := scanListing(r.db.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, listingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	return l, err
}

// List returns listings newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Listing, error) {
	rows, err := r.db.Query(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanListing(row pgx.Row) (Listing, error) {
	var (
		l         Listing
		id        uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &l.LandlordName, &l.LandlordEmail, &l.Address,
		&l.Policy.BaseRent, &l.Policy.MinDeposit, &l.Policy.MaxDeposit,
		&l.Policy.MinTermMonths, &l.Policy.MaxTermMonths, &l.Policy.AutopayDiscountMax,
		&createdAt); err != nil {
		return Listing{}, err
	}
	l.ID = id.String()
	l.CreatedAt = createdAt.UTC()
	return l, nil
}
