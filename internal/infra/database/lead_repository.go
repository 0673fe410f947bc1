package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Colunas de ordenação permitidas na listagem. Qualquer outra cai no default.
var leadSortColumns = map[string]string{
	"createdAt": "l.created_at",
	"updatedAt": "l.updated_at",
	"name":      "l.name",
	"status":    "l.status",
}

const leadSelect = `
	SELECT l.id, l.name, l.email, l.phone, l.status, l.owner_id, l.created_at, l.updated_at,
	       u.id, u.name, u.email, u.role, u.created_at, u.updated_at
	FROM leads l
	LEFT JOIN users u ON u.id = l.owner_id
`

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, phone, status, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.Name,
		nullString(l.Email),
		nullString(l.Phone),
		l.Status,
		l.OwnerID,
		l.CreatedAt,
		l.UpdatedAt,
	)
	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, leadSelect+` WHERE l.id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *LeadRepository) FindByIDWithActivities(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, lead_id, type, note, user_id, created_at
		FROM activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lead.Activities = []entity.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		lead.Activities = append(lead.Activities, *a)
	}
	return lead, rows.Err()
}

func (r *LeadRepository) FindMany(ctx context.Context, f usecase.LeadFilter, sort usecase.LeadSort, skip, take int) ([]entity.Lead, error) {
	args := []any{}
	query := leadSelect + leadWhere(f, &args)

	column, ok := leadSortColumns[sort.Field]
	if !ok {
		column = "l.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sort.Order, "asc") {
		direction = "ASC"
	}
	args = append(args, take, skip)
	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", column, direction, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) Count(ctx context.Context, f usecase.LeadFilter) (int, error) {
	args := []any{}
	query := `SELECT COUNT(*) FROM leads l` + leadWhere(f, &args)

	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads
		SET name = $1, email = $2, phone = $3, status = $4, owner_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		l.Name,
		nullString(l.Email),
		nullString(l.Phone),
		l.Status,
		l.OwnerID,
		l.ID,
	).Scan(&l.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrLeadNotFound
	}
	return err
}

// Delete remove o lead e as suas activities na mesma transação — o cascade
// é explícito e logicamente inseparável do delete do pai.
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE lead_id = $1`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}

	return tx.Commit()
}

func (r *LeadRepository) IDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM leads WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *LeadRepository) CreationDatesSince(ctx context.Context, since time.Time, leadIDs []string) ([]time.Time, error) {
	query := `SELECT created_at FROM leads WHERE created_at >= $1`
	args := []any{since}
	if leadIDs != nil {
		query += ` AND id = ANY($2)`
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

func leadWhere(f usecase.LeadFilter, args *[]any) string {
	conds := []string{}
	if f.Status != "" {
		*args = append(*args, f.Status)
		conds = append(conds, fmt.Sprintf("l.status = $%d", len(*args)))
	}
	if f.OwnerID != "" {
		*args = append(*args, f.OwnerID)
		conds = append(conds, fmt.Sprintf("l.owner_id = $%d", len(*args)))
	}
	if f.Search != "" {
		*args = append(*args, "%"+f.Search+"%")
		n := len(*args)
		conds = append(conds, fmt.Sprintf("(l.name ILIKE $%d OR l.email ILIKE $%d OR l.phone ILIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var l entity.Lead
	var email, phone, ownerID sql.NullString
	var ownerPK, ownerName, ownerEmail, ownerRole sql.NullString
	var ownerCreated, ownerUpdated sql.NullTime

	err := row.Scan(
		&l.ID, &l.Name, &email, &phone, &l.Status, &ownerID, &l.CreatedAt, &l.UpdatedAt,
		&ownerPK, &ownerName, &ownerEmail, &ownerRole, &ownerCreated, &ownerUpdated,
	)
	if err != nil {
		return nil, err
	}

	l.Email = email.String
	l.Phone = phone.String
	if ownerID.Valid {
		l.OwnerID = &ownerID.String
	}
	if ownerPK.Valid {
		l.Owner = &entity.PublicUser{
			ID:        ownerPK.String,
			Name:      ownerName.String,
			Email:     ownerEmail.String,
			Role:      ownerRole.String,
			CreatedAt: ownerCreated.Time,
			UpdatedAt: ownerUpdated.Time,
		}
	}
	return &l, nil
}
