package consent

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no consent matches.
var ErrNotFound = errors.New("consent not found")

// Repository persists consents. There is no update.
type Repository interface {
	Create(ctx context.Context, c Consent) error
	// FindMatching returns the consent with id only when it belongs to
	// applicantID and listingID.
	FindMatching(ctx context.Context, id, applicantID, listingID string) (Consent, error)
}

// PostgresRepository stores consents in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed consent repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a consent.
func (r *PostgresRepository) Create(ctx context.Context, c Consent) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	applicantID, err := uuid.Parse(c.ApplicantID)
	if err != nil {
		return err
	}
	listingID, err := uuid.Parse(c.ListingID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO consents (id, applicant_id, listing_id, text_version, signed_name, signed_at, purpose_code, ip_address)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, applicantID, listingID, c.TextVersion, c.SignedName, c.SignedAt.UTC(), c.PurposeCode, c.IPAddress)
	return err
}

// FindMatching fetches a consent bound to the applicant and listing.
func (r *PostgresRepository) FindMatching(ctx context.Context, id, applicantID, listingID string) (Consent, error) {
	var ids [3]uuid.UUID
	for i, raw := range []string{id, applicantID, listingID} {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return Consent{}, ErrNotFound
		}
		ids[i] = parsed
	}
	row := r.db.QueryRow(ctx, `SELECT id, applicant_id, listing_id, text_version, signed_name, signed_at, purpose_code, ip_address
        FROM consents WHERE id = $1 AND applicant_id = $2 AND listing_id = $3`, ids[0], ids[1], ids[2])
	var (
		c                               Consent
		cid, applicantUUID, listingUUID uuid.UUID
		signedAt                        time.Time
	)
	if err := row.Scan(&cid, &applicantUUID, &listingUUID, &c.TextVersion, &c.SignedName, &signedAt, &c.PurposeCode, &c.IPAddress); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Consent{}, ErrNotFound
		}
		return Consent{}, err
	}
	c.ID = cid.String()
	c.ApplicantID = applicantUUID.String()
	c.ListingID = listingUUID.String()
	c.SignedAt = signedAt.UTC()
	return c, nil
}
