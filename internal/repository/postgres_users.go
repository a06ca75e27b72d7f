package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"rwa-backend/internal/domain"
)

const userColumns = `id, phone_number, name, flat_number, tower, role, resident_type, flat_status, is_active, created_at`

func (s PostgresStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := s.DB.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s PostgresStore) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	row := s.DB.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number=$1`, phone)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s PostgresStore) CreateUser(ctx context.Context, in NewUser, audit Audit[domain.User]) (*domain.User, error) {
	var out *domain.User
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (phone_number, name, flat_number, tower, role, resident_type, flat_status, is_active, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())
			RETURNING `+userColumns,
			in.PhoneNumber, in.Name, in.FlatNumber, in.Tower,
			string(in.Role), string(in.ResidentType), string(in.FlatStatus), in.IsActive,
		)
		u, err := scanUser(row)
		if err != nil {
			return conflict(err)
		}
		if audit != nil {
			if err := insertActivities(ctx, tx, audit(*u)); err != nil {
				return err
			}
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s PostgresStore) UpdateUser(ctx context.Context, id int64, in UserUpdate) (*domain.User, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		UPDATE users SET
			phone_number  = COALESCE($2, phone_number),
			name          = COALESCE($3, name),
			flat_number   = COALESCE($4, flat_number),
			tower         = COALESCE($5, tower),
			role          = COALESCE($6, role),
			resident_type = COALESCE($7, resident_type),
			flat_status   = COALESCE($8, flat_status),
			is_active     = COALESCE($9, is_active)
		WHERE id=$1
		RETURNING `+userColumns,
		id, in.PhoneNumber, in.Name, in.FlatNumber, in.Tower,
		enumPtr(in.Role), enumPtr(in.ResidentType), enumPtr(in.FlatStatus), in.IsActive,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, conflict(notFound(err))
	}
	return u, nil
}

func (s PostgresStore) ListResidents(ctx context.Context, activeOnly bool) ([]domain.User, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1 = false OR is_active)
		ORDER BY id`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s PostgresStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                              domain.User
		role, residentType, flatStatus string
	)
	if err := row.Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.Name,
		&u.FlatNumber,
		&u.Tower,
		&role,
		&residentType,
		&flatStatus,
		&u.IsActive,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	u.ResidentType = domain.ResidentType(residentType)
	u.FlatStatus = domain.FlatStatus(flatStatus)
	return &u, nil
}

// enumPtr converts an optional string-backed enum into a nullable text param.
func enumPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
