package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/ilcs-ai/contract-ai/internal/domain/analysis"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

// Save insert/update satu record history analisis
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO contract_analyses
(id, filename, kind, extraction_method, risk_level,
 confidence, success, error_message, text_length, duration_ms, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
 risk_level = EXCLUDED.risk_level,
 confidence = EXCLUDED.confidence,
 success = EXCLUDED.success,
 error_message = EXCLUDED.error_message,
 text_length = EXCLUDED.text_length,
 duration_ms = EXCLUDED.duration_ms;`

	kind := stringOrDash(string(rec.Kind))
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.Filename, kind, rec.Method, rec.RiskLevel,
		rec.Confidence, rec.Success, rec.ErrorMessage, rec.TextLength, rec.DurationMS, created,
	)
	return err
}

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Record, error) {
	const q = `
SELECT id, filename, kind, extraction_method, risk_level,
       confidence, success, error_message, text_length, duration_ms, created_at
FROM contract_analyses
WHERE id=$1
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, id)
	var rec domain.Record
	if err := row.Scan(
		&rec.ID, &rec.Filename, &rec.Kind, &rec.Method, &rec.RiskLevel,
		&rec.Confidence, &rec.Success, &rec.ErrorMessage, &rec.TextLength, &rec.DurationMS, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Latest analisis terbaru
func (r *AnalysisRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, filename, kind, extraction_method, risk_level,
       confidence, success, error_message, text_length, duration_ms, created_at
FROM contract_analyses
ORDER BY created_at DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.ID, &rec.Filename, &rec.Kind, &rec.Method, &rec.RiskLevel,
			&rec.Confidence, &rec.Success, &rec.ErrorMessage, &rec.TextLength, &rec.DurationMS, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Paginate with offset + limit (classic pagination)
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, filename, kind, extraction_method, risk_level,
       confidence, success, error_message, text_length, duration_ms, created_at
FROM contract_analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var recs []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.ID, &rec.Filename, &rec.Kind, &rec.Method, &rec.RiskLevel,
			&rec.Confidence, &rec.Success, &rec.ErrorMessage, &rec.TextLength, &rec.DurationMS, &rec.CreatedAt,
		); err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	total, err := r.Count(ctx)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       recs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Count total record history
func (r *AnalysisRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contract_analyses").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
