package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"rwa-backend/internal/domain"
)

const complaintColumns = `id, resident_id, flat_number, type, subject, description, photo_url, status,
	priority, assigned_to, internal_notes, resolved_at, created_at, updated_at`

func (s PostgresStore) GetComplaint(ctx context.Context, id int64) (*domain.Complaint, error) {
	return getComplaint(ctx, s.DB.Pool, id, false)
}

func getComplaint(ctx context.Context, q querier, id int64, forUpdate bool) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanComplaint(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s PostgresStore) ListComplaints(ctx context.Context) ([]domain.Complaint, error) {
	return s.listComplaints(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY created_at DESC, id DESC`)
}

func (s PostgresStore) ListComplaintsByResident(ctx context.Context, residentID int64) ([]domain.Complaint, error) {
	return s.listComplaints(ctx, `
		SELECT `+complaintColumns+`
		FROM complaints
		WHERE resident_id=$1
		ORDER BY created_at DESC, id DESC`, residentID)
}

func (s PostgresStore) listComplaints(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := s.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	out := []domain.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s PostgresStore) CreateComplaint(ctx context.Context, in NewComplaint, audit Audit[domain.Complaint]) (*domain.Complaint, error) {
	var out *domain.Complaint
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO complaints (resident_id, flat_number, type, subject, description, photo_url, status, priority,
				resolved_at, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8, CASE WHEN $7 = 'resolved' THEN now() END, now(), now())
			RETURNING `+complaintColumns,
			in.ResidentID, in.FlatNumber, in.Type, in.Subject, in.Description, in.PhotoURL,
			string(in.Status), string(in.Priority),
		)
		c, err := scanComplaint(row)
		if err != nil {
			return err
		}
		if audit != nil {
			if err := insertActivities(ctx, tx, audit(*c)); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s PostgresStore) UpdateComplaint(ctx context.Context, id int64, in ComplaintUpdate, audit Audit[domain.Complaint]) (*domain.Complaint, error) {
	var out *domain.Complaint
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		c, err := getComplaint(ctx, tx, id, true)
		if err != nil {
			return err
		}
		now := nowOr(in.Now)
		if in.Status != nil {
			if err := in.Transitions.Check(c.Status, *in.Status); err != nil {
				return err
			}
			domain.ApplyComplaintStatus(c, *in.Status, now)
		}

		row := tx.QueryRow(ctx, `
			UPDATE complaints SET
				type           = COALESCE($2, type),
				subject        = COALESCE($3, subject),
				description    = COALESCE($4, description),
				photo_url      = COALESCE($5, photo_url),
				priority       = COALESCE($6, priority),
				assigned_to    = COALESCE($7, assigned_to),
				internal_notes = COALESCE($8, internal_notes),
				status         = $9,
				resolved_at    = $10,
				updated_at     = $11
			WHERE id=$1
			RETURNING `+complaintColumns,
			id, in.Type, in.Subject, in.Description, in.PhotoURL, enumPtr(in.Priority),
			in.AssignedTo, in.InternalNotes, string(c.Status), c.ResolvedAt, now,
		)
		updated, err := scanComplaint(row)
		if err != nil {
			return notFound(err)
		}
		if audit != nil {
			if err := insertActivities(ctx, tx, audit(*updated)); err != nil {
				return err
			}
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s PostgresStore) UpdateComplaintStatus(ctx context.Context, id int64, in ComplaintStatusUpdate, audit Audit[domain.Complaint]) (*domain.Complaint, error) {
	var out *domain.Complaint
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		c, err := getComplaint(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := in.Transitions.Check(c.Status, in.Status); err != nil {
			return err
		}
		domain.ApplyComplaintStatus(c, in.Status, nowOr(in.Now))

		row := tx.QueryRow(ctx, `
			UPDATE complaints SET status=$2, resolved_at=$3, updated_at=$4
			WHERE id=$1
			RETURNING `+complaintColumns,
			id, string(c.Status), c.ResolvedAt, c.UpdatedAt,
		)
		updated, err := scanComplaint(row)
		if err != nil {
			return notFound(err)
		}
		if audit != nil {
			if err := insertActivities(ctx, tx, audit(*updated)); err != nil {
				return err
			}
		}
		out = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanComplaint(row rowScanner) (*domain.Complaint, error) {
	var (
		c                domain.Complaint
		status, priority string
	)
	if err := row.Scan(
		&c.ID,
		&c.ResidentID,
		&c.FlatNumber,
		&c.Type,
		&c.Subject,
		&c.Description,
		&c.PhotoURL,
		&status,
		&priority,
		&c.AssignedTo,
		&c.InternalNotes,
		&c.ResolvedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = domain.ComplaintStatus(status)
	c.Priority = domain.ComplaintPriority(priority)
	return &c, nil
}
