package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	query := `
		INSERT INTO activities (id, lead_id, type, note, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.LeadID,
		a.Type,
		nullString(a.Note),
		a.UserID,
		a.CreatedAt,
	)
	return err
}

func (r *ActivityRepository) FindByLead(ctx context.Context, leadID string) ([]entity.Activity, error) {
	query := `
		SELECT id, lead_id, type, note, user_id, created_at
		FROM activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []entity.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

func (r *ActivityRepository) DatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error) {
	query := `SELECT created_at FROM activities WHERE created_at >= $1`
	args := []any{since}
	if leadIDs != nil {
		query += ` AND lead_id = ANY($2)`
		args = append(args, pq.Array(leadIDs))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		dates = append(dates, t)
	}
	return dates, rows.Err()
}

func scanActivity(row rowScanner) (*entity.Activity, error) {
	var a entity.Activity
	var note, userID sql.NullString

	if err := row.Scan(&a.ID, &a.LeadID, &a.Type, &note, &userID, &a.CreatedAt); err != nil {
		return nil, err
	}

	a.Note = note.String
	if userID.Valid {
		a.UserID = &userID.String
	}
	return &a, nil
}
