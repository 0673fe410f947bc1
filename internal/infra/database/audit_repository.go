package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AuditLogRepository struct {
	DB *sql.DB
}

func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, l *entity.AuditLog) error {
	var meta []byte
	if l.Meta != nil {
		b, err := json.Marshal(l.Meta)
		if err != nil {
			return err
		}
		meta = b
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, resource, resource_id, meta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.DB.ExecContext(ctx, query,
		l.ID,
		l.UserID,
		l.Action,
		nullString(l.Resource),
		nullString(l.ResourceID),
		meta,
		l.CreatedAt,
	)
	return err
}

func (r *AuditLogRepository) FindMany(ctx context.Context, f usecase.AuditFilter, skip, take int) ([]entity.AuditLog, error) {
	args := []any{}
	query := `
		SELECT id, user_id, action, resource, resource_id, meta, created_at
		FROM audit_logs
	` + auditWhere(f, &args)

	args = append(args, take, skip)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []entity.AuditLog{}
	for rows.Next() {
		var l entity.AuditLog
		var userID, resource, resourceID sql.NullString
		var meta []byte

		if err := rows.Scan(&l.ID, &userID, &l.Action, &resource, &resourceID, &meta, &l.CreatedAt); err != nil {
			return nil, err
		}

		if userID.Valid {
			l.UserID = &userID.String
		}
		l.Resource = resource.String
		l.ResourceID = resourceID.String
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &l.Meta); err != nil {
				return nil, err
			}
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func (r *AuditLogRepository) Count(ctx context.Context, f usecase.AuditFilter) (int, error) {
	args := []any{}
	query := `SELECT COUNT(*) FROM audit_logs` + auditWhere(f, &args)

	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func auditWhere(f usecase.AuditFilter, args *[]any) string {
	conds := []string{}
	if f.UserID != "" {
		*args = append(*args, f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(*args)))
	}
	if f.Action != "" {
		*args = append(*args, f.Action)
		conds = append(conds, fmt.Sprintf("action = $%d", len(*args)))
	}
	if f.Resource != "" {
		*args = append(*args, f.Resource)
		conds = append(conds, fmt.Sprintf("resource = $%d", len(*args)))
	}
	if f.Search != "" {
		*args = append(*args, "%"+f.Search+"%")
		n := len(*args)
		conds = append(conds, fmt.Sprintf("(action ILIKE $%d OR resource ILIKE $%d)", n, n))
	}
	if !f.Since.IsZero() {
		*args = append(*args, f.Since)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(*args)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
