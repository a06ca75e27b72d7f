package repository

import (
	"context"
	"fmt"

	"rwa-backend/internal/domain"
)

const activityColumns = `id, type, title, description, user_id, metadata, created_at`

func insertActivity(ctx context.Context, q querier, in NewActivity) (*domain.Activity, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO activities (type, title, description, user_id, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5, now())
		RETURNING `+activityColumns,
		in.Type, in.Title, in.Description, in.UserID, in.Metadata,
	)
	return scanActivity(row)
}

func insertActivities(ctx context.Context, q querier, acts []NewActivity) error {
	for _, a := range acts {
		if _, err := insertActivity(ctx, q, a); err != nil {
			return fmt.Errorf("insert activity %s: %w", a.Type, err)
		}
	}
	return nil
}

func (s PostgresStore) ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s PostgresStore) CreateActivity(ctx context.Context, in NewActivity) (*domain.Activity, error) {
	return insertActivity(ctx, s.DB.Pool, in)
}

func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	if err := row.Scan(&a.ID, &a.Type, &a.Title, &a.Description, &a.UserID, &a.Metadata, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
