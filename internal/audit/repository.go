package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository appends and reads audit events. It has no update or delete.
type Repository interface {
	Append(ctx context.Context, event Event) (Event, error)
	List(ctx context.Context, filter Filter) ([]Event, error)
}

// PostgresRepository stores events in an append-only table. seq is a
// BIGSERIAL so equal timestamps keep insertion order.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed audit repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts the event and returns it with its assigned sequence.
func (r *PostgresRepository) Append(ctx context.Context, e Event) (Event, error) {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return Event{}, err
	}
	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return Event{}, fmt.Errorf("encode metadata: %w", err)
	}
	err = r.db.QueryRow(ctx, `INSERT INTO audit_events (id, kind, actor, metadata, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING seq`,
		id, string(e.Kind), string(e.Actor), meta, e.CreatedAt.UTC()).Scan(&e.Seq)
	if err != nil {
		return Event{}, err
	}
	return e, nil
}

// List returns matching events in replay order.
func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]Event, error) {
	var (
		where []string
		args  []any
	)
	keys := make([]string, 0, 3)
	pairs := filter.pairs()
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, pairs[k])
		where = append(where, fmt.Sprintf("metadata->>$%d::text = $%d", len(args)-1, len(args)))
	}

	query := `SELECT id, seq, kind, actor, metadata, created_at FROM audit_events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at ASC, seq ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e         Event
			id        uuid.UUID
			kind      string
			actor     string
			meta      []byte
			createdAt time.Time
		)
		if err := rows.Scan(&id, &e.Seq, &kind, &actor, &meta, &createdAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		e.ID = id.String()
		e.Kind = Kind(kind)
		e.Actor = Actor(actor)
		e.CreatedAt = createdAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
