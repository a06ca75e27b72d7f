package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"rwa-backend/internal/domain"
)

const noticeColumns = `id, title, description, admin_id, is_important, created_at, updated_at, deleted_at`

func (s PostgresStore) GetNotice(ctx context.Context, id int64) (*domain.Notice, error) {
	row := s.DB.Pool.QueryRow(ctx, `SELECT `+noticeColumns+` FROM notices WHERE id=$1 AND deleted_at IS NULL`, id)
	n, err := scanNotice(row)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (s PostgresStore) ListNotices(ctx context.Context) ([]domain.Notice, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT `+noticeColumns+`
		FROM notices
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	out := []domain.Notice{}
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func (s PostgresStore) CreateNotice(ctx context.Context, in NewNotice, audit Audit[domain.Notice]) (*domain.Notice, error) {
	return s.writeNotice(ctx, audit, `
		INSERT INTO notices (title, description, admin_id, is_important, created_at, updated_at)
		VALUES ($1,$2,$3,$4, now(), now())
		RETURNING `+noticeColumns,
		in.Title, in.Description, in.AdminID, in.IsImportant,
	)
}

func (s PostgresStore) UpdateNotice(ctx context.Context, id int64, in NoticeUpdate, audit Audit[domain.Notice]) (*domain.Notice, error) {
	return s.writeNotice(ctx, audit, `
		UPDATE notices SET
			title        = COALESCE($2, title),
			description  = COALESCE($3, description),
			is_important = COALESCE($4, is_important),
			updated_at   = now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+noticeColumns,
		id, in.Title, in.Description, in.IsImportant,
	)
}

func (s PostgresStore) DeleteNotice(ctx context.Context, id int64, audit Audit[domain.Notice]) error {
	_, err := s.writeNotice(ctx, audit, `
		UPDATE notices SET deleted_at = now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+noticeColumns,
		id,
	)
	return err
}

// writeNotice runs a single-row notice statement and its audit entries in one transaction.
func (s PostgresStore) writeNotice(ctx context.Context, audit Audit[domain.Notice], query string, args ...any) (*domain.Notice, error) {
	var out *domain.Notice
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		n, err := scanNotice(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return notFound(err)
		}
		if audit != nil {
			if err := insertActivities(ctx, tx, audit(*n)); err != nil {
				return err
			}
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanNotice(row rowScanner) (*domain.Notice, error) {
	var n domain.Notice
	if err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Description,
		&n.AdminID,
		&n.IsImportant,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}
