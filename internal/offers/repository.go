package offers

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

// ErrNotFound is returned when no menu matches the identifier.
var ErrNotFound = errors.New("offer not found")

// Repository persists offer menus.
type Repository interface {
	Create(ctx context.Context, menu Menu) error
	FindByID(ctx context.Context, id string) (Menu, error)
}

// PostgresRepository stores menus in PostgreSQL with bundles as JSONB.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a menu.
func (r *PostgresRepository) Create(ctx context.Context, m Menu) error {
	var ids [5]uuid.UUID
	for i, raw := range []string{m.ID, m.ListingID, m.ApplicantID, m.CreditPullID, m.RecommendedBundleID} {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return err
		}
		ids[i] = parsed
	}
	factors, err := json.Marshal(m.Factors)
	if err != nil {
		return err
	}
	bundles, err := json.Marshal(m.Bundles)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO offer_menus (id, listing_id, applicant_id, credit_pull_id, risk_band,
        limited_data, factors, bundles, recommended_bundle_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		ids[0], ids[1], ids[2], ids[3], string(m.RiskBand),
		m.LimitedData, factors, bundles, ids[4], m.CreatedAt.UTC())
	return err
}

// FindByID fetches a menu.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Menu, error) {
	menuID, err := uuid.Parse(id)
	if err != nil {
		return Menu{}, ErrNotFound
	}
	var (
		m                               Menu
		rowID, listingID, applicantID   uuid.UUID
		creditPullID, recommendedBundle uuid.UUID
		band                            string
		factors, bundles                []byte
		createdAt                       time.Time
	)
	err = r.db.QueryRow(ctx, `SELECT id, listing_id, applicant_id, credit_pull_id, risk_band, limited_data,
        factors, bundles, recommended_bundle_id, created_at
        FROM offer_menus WHERE id = $1`, menuID).
		Scan(&rowID, &listingID, &applicantID, &creditPullID, &band, &m.LimitedData,
			&factors, &bundles, &recommendedBundle, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Menu{}, ErrNotFound
	}
	if err != nil {
		return Menu{}, err
	}
	if err := json.Unmarshal(factors, &m.Factors); err != nil {
		return Menu{}, err
	}
	if err := json.Unmarshal(bundles, &m.Bundles); err != nil {
		return Menu{}, err
	}
	m.ID = rowID.String()
	m.ListingID = listingID.String()
	m.ApplicantID = applicantID.String()
	m.CreditPullID = creditPullID.String()
	m.RecommendedBundleID = recommendedBundle.String()
	m.RiskBand = risk.Band(band)
	m.CreatedAt = createdAt.UTC()
	return m, nil
}
