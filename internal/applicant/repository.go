package applicant

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no applicant matches the identifier.
var ErrNotFound = errors.New("applicant not found")

// Repository persists applicants.
type Repository interface {
	Create(ctx context.Context, a Applicant) error
	FindByID(ctx context.Context, id string) (Applicant, error)
	List(ctx context.Context) ([]Applicant, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed applicant repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const applicantColumns = `id, first_name, middle_name, last_name, birth_date, identity_last4, identity_fingerprint,
        address_line1, address_line2, address_city, address_state, address_postal_code, created_at`

// Create inserts a new applicant.
func (r *PostgresRepository) Create(ctx context.Context, a Applicant) error {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO applicants (`+applicantColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, a.FirstName, a.MiddleName, a.LastName, a.BirthDate, a.IdentityLast4, a.IdentityFingerprint,
		a.Address.Line1, a.Address.Line2, a.Address.City, a.Address.State, a.Address.PostalCode,
		a.CreatedAt.UTC())
	return err
}

// FindByID fetches an applicant by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Applicant, error) {
	applicantID, err := uuid.Parse(id)
	if err != nil {
		return Applicant{}, ErrNotFound
	}
	a, err := scanApplicant(r.db.QueryRow(ctx, `SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, applicantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Applicant{}, ErrNotFound
	}
	return a, err
}

// List returns applicants newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Applicant, error) {
	rows, err := r.db.Query(ctx, `SELECT `+applicantColumns+` FROM applicants ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplicant(row pgx.Row) (Applicant, error) {
	var (
		a         Applicant
		id        uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &a.FirstName, &a.MiddleName, &a.LastName, &a.BirthDate, &a.IdentityLast4, &a.IdentityFingerprint,
		&a.Address.Line1, &a.Address.Line2, &a.Address.City, &a.Address.State, &a.Address.PostalCode,
		&createdAt); err != nil {
		return Applicant{}, err
	}
	a.ID = id.String()
	a.CreatedAt = createdAt.UTC()
	return a, nil
}
