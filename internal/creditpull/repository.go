package creditpull

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forward-rent/prequal/internal/risk"
)

// ErrNotFound is returned when no credit pull matches the identifier.
var ErrNotFound = errors.New("credit pull not found")

// Repository persists credit pulls. Records are never updated.
type Repository interface {
	Create(ctx context.Context, rec Record) error
	FindByID(ctx context.Context, id string) (Record, error)
}

// PostgresRepository stores credit pulls in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed credit pull repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a credit pull.
func (r *PostgresRepository) Create(ctx context.Context, rec Record) error {
	var ids [4]uuid.UUID
	for i, raw := range []string{rec.ID, rec.ApplicantID, rec.ListingID, rec.ConsentID} {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		ids[i] = parsed
	}
	request, err := json.Marshal(rec.Request)
	if err != nil {
		return err
	}
	var summary []byte
	if rec.Summary != nil {
		if summary, err = json.Marshal(rec.Summary); err != nil {
			return err
		}
	}
	var encrypted *string
	if rec.EncryptedResponse != "" {
		encrypted = &rec.EncryptedResponse
	}
	_, err = r.db.Exec(ctx, `INSERT INTO credit_pulls (id, applicant_id, listing_id, consent_id, bureau, endpoint, status,
        request_redacted, response_encrypted, response_summary, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		ids[0], ids[1], ids[2], ids[3], rec.Bureau, rec.Endpoint, string(rec.Status),
		request, encrypted, summary, rec.CreatedAt.UTC())
	return err
}

// FindByID fetches a credit pull.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Record, error) {
	pullID, err := uuid.Parse(id)
	if err != nil {
		return Record{}, ErrNotFound
	}
	var (
		rec                                      Record
		rowID, applicantID, listingID, consentID uuid.UUID
		status                                   string
		request, summary                         []byte
		encrypted                                *string
		createdAt                                time.Time
	)
	err = r.db.QueryRow(ctx, `SELECT id, applicant_id, listing_id, consent_id, bureau, endpoint, status,
        request_redacted, response_encrypted, response_summary, created_at
        FROM credit_pulls WHERE id = $1`, pullID).
		Scan(&rowID, &applicantID, &listingID, &consentID, &rec.Bureau, &rec.Endpoint, &status,
			&request, &encrypted, &summary, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(request, &rec.Request); err != nil {
		return Record{}, err
	}
	if len(summary) > 0 {
		var s risk.Summary
		if err := json.Unmarshal(summary, &s); err != nil {
			return Record{}, err
		}
		rec.Summary = &s
	}
	if encrypted != nil {
		rec.EncryptedResponse = *encrypted
	}
	rec.ID = rowID.String()
	rec.ApplicantID = applicantID.String()
	rec.ListingID = listingID.String()
	rec.ConsentID = consentID.String()
	rec.Status = Status(status)
	rec.CreatedAt = createdAt.UTC()
	return rec, nil
}
