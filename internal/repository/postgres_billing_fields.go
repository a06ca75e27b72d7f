package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"rwa-backend/internal/domain"
)

const billingFieldColumns = `id, name, label, type, category, default_value, rate, unit, description, formula,
	sort_order, is_active, created_at, updated_at, deleted_at`

func (s PostgresStore) ListBillingFields(ctx context.Context, includeInactive bool) ([]domain.BillingField, error) {
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT `+billingFieldColumns+`
		FROM billing_fields
		WHERE deleted_at IS NULL AND ($1 OR is_active)
		ORDER BY sort_order, id`, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list billing fields: %w", err)
	}
	defer rows.Close()

	out := []domain.BillingField{}
	for rows.Next() {
		f, err := scanBillingField(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (s PostgresStore) GetBillingField(ctx context.Context, id int64) (*domain.BillingField, error) {
	row := s.DB.Pool.QueryRow(ctx, `SELECT `+billingFieldColumns+` FROM billing_fields WHERE id=$1 AND deleted_at IS NULL`, id)
	f, err := scanBillingField(row)
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (s PostgresStore) CreateBillingField(ctx context.Context, in NewBillingField) (*domain.BillingField, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		INSERT INTO billing_fields (name, label, type, category, default_value, rate, unit, description, formula,
			sort_order, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, now(), now())
		RETURNING `+billingFieldColumns,
		in.Name, in.Label, string(in.Type), in.Category, in.DefaultValue, in.Rate, in.Unit, in.Description,
		in.Formula, in.SortOrder, in.IsActive,
	)
	return scanBillingField(row)
}

func (s PostgresStore) UpdateBillingField(ctx context.Context, id int64, in BillingFieldUpdate) (*domain.BillingField, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		UPDATE billing_fields SET
			label         = COALESCE($2, label),
			type          = COALESCE($3, type),
			category      = COALESCE($4, category),
			default_value = COALESCE($5, default_value),
			rate          = COALESCE($6, rate),
			unit          = COALESCE($7, unit),
			description   = COALESCE($8, description),
			formula       = COALESCE($9, formula),
			sort_order    = COALESCE($10, sort_order),
			is_active     = COALESCE($11, is_active),
			updated_at    = now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING `+billingFieldColumns,
		id, in.Label, enumPtr(in.Type), in.Category, in.DefaultValue, in.Rate, in.Unit, in.Description,
		in.Formula, in.SortOrder, in.IsActive,
	)
	f, err := scanBillingField(row)
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (s PostgresStore) DeleteBillingField(ctx context.Context, id int64) error {
	tag, err := s.DB.Pool.Exec(ctx, `
		UPDATE billing_fields SET deleted_at = now(), is_active = false, updated_at = now()
		WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete billing field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBillingField(row rowScanner) (*domain.BillingField, error) {
	var (
		f            domain.BillingField
		fieldType    string
		defaultValue decimal.NullDecimal
		rate         decimal.NullDecimal
	)
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Label,
		&fieldType,
		&f.Category,
		&defaultValue,
		&rate,
		&f.Unit,
		&f.Description,
		&f.Formula,
		&f.SortOrder,
		&f.IsActive,
		&f.CreatedAt,
		&f.UpdatedAt,
		&f.DeletedAt,
	); err != nil {
		return nil, err
	}
	f.Type = domain.BillingFieldType(fieldType)
	f.DefaultValue = nullDecimalPtr(defaultValue)
	f.Rate = nullDecimalPtr(rate)
	return &f, nil
}

func nullDecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
