package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"rwa-backend/internal/domain"
)

const billColumns = `id, flat_number, resident_id, month, previous_reading, current_reading, water_usage,
	water_charges, maintenance_charges, electricity_charges, other_charges, previous_dues,
	total_amount, present_dues, status, due_date, paid_at, created_at`

func (s PostgresStore) GetBill(ctx context.Context, id int64) (*domain.Bill, error) {
	return getBill(ctx, s.DB.Pool, id, false)
}

func getBill(ctx context.Context, q querier, id int64, forUpdate bool) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	b, err := scanBill(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (s PostgresStore) ListBills(ctx context.Context, f BillFilter) ([]domain.Bill, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Month != "" {
		add("month = $%d", f.Month)
	}
	if f.FlatNumber != "" {
		add("flat_number = $%d", f.FlatNumber)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.PendingOnly {
		add("status <> $%d", string(domain.BillPaid))
	}

	query := `SELECT ` + billColumns + ` FROM bills`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY month DESC, flat_number, id`

	rows, err := s.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	out := []domain.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s PostgresStore) ListBillsByFlat(ctx context.Context, flatNumber string) ([]domain.Bill, error) {
	return s.ListBills(ctx, BillFilter{FlatNumber: flatNumber})
}

func (s PostgresStore) ListBillsByMonth(ctx context.Context, month string) ([]domain.Bill, error) {
	return s.ListBills(ctx, BillFilter{Month: month})
}

func (s PostgresStore) ListPendingBills(ctx context.Context) ([]domain.Bill, error) {
	return s.ListBills(ctx, BillFilter{PendingOnly: true})
}

func (s PostgresStore) LatestBillForFlat(ctx context.Context, flatNumber, beforeMonth string) (*domain.Bill, error) {
	row := s.DB.Pool.QueryRow(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE flat_number=$1 AND ($2 = '' OR month < $2)
		ORDER BY month DESC
		LIMIT 1`, flatNumber, beforeMonth)
	b, err := scanBill(row)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (s PostgresStore) CreateBill(ctx context.Context, in NewBill, audit Audit[domain.Bill]) (*domain.Bill, error) {
	var out *domain.Bill
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO bills (
				flat_number, resident_id, month, previous_reading, current_reading, water_usage,
				water_charges, maintenance_charges, electricity_charges, other_charges, previous_dues,
				total_amount, present_dues, status, due_date, paid_at, created_at
			)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
				CASE WHEN $14 = 'paid' THEN now() END, now())
			RETURNING `+billColumns,
			in.FlatNumber, in.ResidentID, in.Month, in.PreviousReading, in.CurrentReading, in.WaterUsage,
			in.WaterCharges, in.MaintenanceCharges, in.ElectricityCharges, in.OtherCharges, in.PreviousDues,
			in.TotalAmount, in.PresentDues, string(in.Status), in.DueDate,
		)
		b, err := scanBill(row)
		if err != nil {
			return conflict(err)
		}

		for _, it := range in.Items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO bill_items (bill_id, field_id, label, amount, created_at)
				VALUES ($1,$2,$3,$4, now())`,
				b.ID, it.FieldID, it.Label, it.Amount,
			); err != nil {
				return fmt.Errorf("insert bill item %q: %w", it.Label, err)
			}
		}

		if audit != nil {
			if err := insertActivities(ctx, tx, audit(*b)); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s PostgresStore) UpdateBillStatus(ctx context.Context, id int64, in BillStatusUpdate, audit Audit[domain.Bill]) (*domain.Bill, error) {
	var out *domain.Bill
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		b, err := getBill(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := in.Transitions.Check(b.Status, in.Status); err != nil {
			return err
		}
		domain.ApplyBillStatus(b, in.Status, in.PresentDues, nowOr(in.Now))

		row := tx.QueryRow(ctx, `
			UPDATE bills SET status=$2, paid_at=$3, present_dues=$4
			WHERE id=$1
			RETURNING `+billColumns,
			id, string(b.Status), b.PaidAt, b.PresentDues,
		)
		updated, err := scanBill(row)
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

func (s PostgresStore) ListBillItems(ctx context.Context, billID int64) ([]domain.BillItem, error) {
	if _, err := s.GetBill(ctx, billID); err != nil {
		return nil, err
	}
	rows, err := s.DB.Pool.Query(ctx, `
		SELECT id, bill_id, field_id, label, amount, created_at
		FROM bill_items
		WHERE bill_id=$1
		ORDER BY id`, billID)
	if err != nil {
		return nil, fmt.Errorf("list bill items: %w", err)
	}
	defer rows.Close()

	out := []domain.BillItem{}
	for rows.Next() {
		var it domain.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.FieldID, &it.Label, &it.Amount, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanBill(row rowScanner) (*domain.Bill, error) {
	var (
		b      domain.Bill
		status string
	)
	if err := row.Scan(
		&b.ID,
		&b.FlatNumber,
		&b.ResidentID,
		&b.Month,
		&b.PreviousReading,
		&b.CurrentReading,
		&b.WaterUsage,
		&b.WaterCharges,
		&b.MaintenanceCharges,
		&b.ElectricityCharges,
		&b.OtherCharges,
		&b.PreviousDues,
		&b.TotalAmount,
		&b.PresentDues,
		&status,
		&b.DueDate,
		&b.PaidAt,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	b.Status = domain.BillStatus(status)
	return &b, nil
}
