package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"rwa-backend/internal/billing"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/metrics"
	"rwa-backend/internal/repository"
)

type BillingService struct {
	Store  repository.Store
	Config config.BillingConfig
	Logger *slog.Logger
	Now    func() time.Time
}

type BillItemInput struct {
	FieldID *int64
	Label   string
	Amount  decimal.Decimal
}

type CreateBillInput struct {
	FlatNumber         string
	ResidentID         *int64
	Month              string
	PreviousReading    int64
	CurrentReading     int64
	WaterCharges       decimal.Decimal
	MaintenanceCharges decimal.Decimal
	ElectricityCharges decimal.Decimal
	OtherCharges       decimal.Decimal
	PreviousDues       decimal.Decimal
	Status             string
	DueDate            *time.Time
	Items              []BillItemInput
}

type BillResult struct {
	Bill     domain.Bill
	Items    []domain.BillItem
	Warnings []string
}

// FlatReading is one flat's input to bulk generation. Nil charges fall back
// to the configured defaults and a nil previous reading is carried over from
// the flat's latest earlier bill.
type FlatReading struct {
	FlatNumber         string
	PreviousReading    *int64
	CurrentReading     int64
	MaintenanceCharges *decimal.Decimal
	ElectricityCharges *decimal.Decimal
	OtherCharges       *decimal.Decimal
}

type GenerateBillsInput struct {
	Month                string
	DueDate              *time.Time
	Readings             []FlatReading
	IncludeBillingFields bool
	CarryOverDues        bool
}

type GenerateSkip struct {
	FlatNumber string
	Reason     string
}

type GenerateBillsResult struct {
	Created []BillResult
	Skipped []GenerateSkip
}

type UpdateBillStatusInput struct {
	Status      string
	PresentDues *decimal.Decimal
}

func (s BillingService) calculator() billing.Calculator {
	return billing.NewCalculator(s.Config.RatePerLiter)
}

func (s BillingService) transitions() domain.TransitionTable[domain.BillStatus] {
	if s.Config.StrictTransitions {
		return domain.StrictBillTransitions
	}
	return domain.OpenBillTransitions
}

func (s BillingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateBill derives usage, water charge and total, then stores the bill with
// its items and activity entries in one write. Readings drive the water charge
// when either is set; otherwise the supplied water charge is used as is.
func (s BillingService) CreateBill(ctx context.Context, in CreateBillInput) (*BillResult, error) {
	ve := &ValidationError{}
	in.FlatNumber = strings.TrimSpace(in.FlatNumber)
	if in.FlatNumber == "" {
		ve.Add("flatNumber", "is required")
	}
	if _, err := billing.ParseMonth(in.Month); err != nil {
		ve.Add("month", "must be in YYYY-MM format")
	}
	if in.PreviousReading < 0 {
		ve.Add("previousReading", "must not be negative")
	}
	if in.CurrentReading < 0 {
		ve.Add("currentReading", "must not be negative")
	}
	for field, v := range map[string]decimal.Decimal{
		"waterCharges":       in.WaterCharges,
		"maintenanceCharges": in.MaintenanceCharges,
		"electricityCharges": in.ElectricityCharges,
		"otherCharges":       in.OtherCharges,
		"previousDues":       in.PreviousDues,
	} {
		checkAmount(ve, field, v)
	}
	status := domain.BillUnpaid
	if in.Status != "" {
		st, err := domain.ParseBillStatus(in.Status)
		if err != nil {
			ve.Add("status", "unknown bill status")
		}
		status = st
	}
	for i, it := range in.Items {
		checkAmount(ve, fmt.Sprintf("items[%d].amount", i), it.Amount)
		if it.FieldID == nil && strings.TrimSpace(it.Label) == "" {
			ve.Add(fmt.Sprintf("items[%d].label", i), "is required without fieldId")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	items, err := s.resolveItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	var (
		usage    int64
		water    = billing.Money(in.WaterCharges)
		warnings []string
	)
	if in.PreviousReading > 0 || in.CurrentReading > 0 {
		res := s.calculator().Compute(in.PreviousReading, in.CurrentReading, nil)
		usage, water, warnings = res.Usage, res.WaterCharge, res.Warnings
	}

	itemAmounts := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		itemAmounts = append(itemAmounts, it.Amount)
	}
	total := billing.BillTotal(water, in.MaintenanceCharges, in.ElectricityCharges, in.OtherCharges, in.PreviousDues, itemAmounts...)
	checkAmount(ve, "totalAmount", total)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	presentDues := total
	if status == domain.BillPaid {
		presentDues = decimal.Zero
	}

	dueDate := in.DueDate
	if dueDate == nil {
		d, err := billing.DueDate(in.Month, s.Config.DueDay)
		if err != nil {
			return nil, err
		}
		dueDate = &d
	}

	residentID := in.ResidentID
	if residentID == nil {
		residentID = s.residentForFlat(ctx, in.FlatNumber)
	}

	bill, err := s.Store.CreateBill(ctx, repository.NewBill{
		FlatNumber:         in.FlatNumber,
		ResidentID:         residentID,
		Month:              in.Month,
		PreviousReading:    in.PreviousReading,
		CurrentReading:     in.CurrentReading,
		WaterUsage:         usage,
		WaterCharges:       water,
		MaintenanceCharges: billing.Money(in.MaintenanceCharges),
		ElectricityCharges: billing.Money(in.ElectricityCharges),
		OtherCharges:       billing.Money(in.OtherCharges),
		PreviousDues:       billing.Money(in.PreviousDues),
		TotalAmount:        total,
		PresentDues:        presentDues,
		Status:             status,
		DueDate:            *dueDate,
		Items:              items,
	}, s.billCreatedActivities(warnings))
	if err != nil {
		return nil, err
	}
	metrics.BillsCreated.Inc()
	if len(warnings) > 0 {
		s.Logger.Warn("meter reading anomaly", "flat", bill.FlatNumber, "month", bill.Month,
			"previous", bill.PreviousReading, "current", bill.CurrentReading)
	}

	stored, err := s.Store.ListBillItems(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: *bill, Items: stored, Warnings: warnings}, nil
}

func (s BillingService) billCreatedActivities(warnings []string) repository.Audit[domain.Bill] {
	return func(b domain.Bill) []repository.NewActivity {
		meta, _ := json.Marshal(map[string]any{
			"billId":     b.ID,
			"flatNumber": b.FlatNumber,
			"month":      b.Month,
			"amount":     b.TotalAmount.StringFixed(2),
		})
		acts := []repository.NewActivity{{
			Type:        domain.ActivityBillGenerated,
			Title:       "Bill generated for " + b.FlatNumber,
			Description: fmt.Sprintf("Monthly maintenance bill of %s generated for %s", billing.FormatAmount(s.Config.CurrencySymbol, b.TotalAmount), b.Month),
			UserID:      b.ResidentID,
			Metadata:    ptr(string(meta)),
		}}
		for _, w := range warnings {
			if w != billing.WarningMeterRollback {
				continue
			}
			meta, _ := json.Marshal(map[string]any{
				"billId":          b.ID,
				"flatNumber":      b.FlatNumber,
				"month":           b.Month,
				"previousReading": b.PreviousReading,
				"currentReading":  b.CurrentReading,
			})
			acts = append(acts, repository.NewActivity{
				Type:        domain.ActivityMeterAnomaly,
				Title:       "Meter reading anomaly for " + b.FlatNumber,
				Description: fmt.Sprintf("Current reading %d is below previous reading %d; usage recorded as 0", b.CurrentReading, b.PreviousReading),
				UserID:      b.ResidentID,
				Metadata:    ptr(string(meta)),
			})
		}
		return acts
	}
}

// resolveItems fills labels of field-backed items from their billing field.
func (s BillingService) resolveItems(ctx context.Context, in []BillItemInput) ([]repository.NewBillItem, error) {
	out := make([]repository.NewBillItem, 0, len(in))
	for i, it := range in {
		label := strings.TrimSpace(it.Label)
		if it.FieldID != nil && label == "" {
			f, err := s.Store.GetBillingField(ctx, *it.FieldID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					ve := &ValidationError{}
					ve.Add(fmt.Sprintf("items[%d].fieldId", i), "unknown billing field")
					return nil, ve
				}
				return nil, err
			}
			label = f.Label
		}
		out = append(out, repository.NewBillItem{FieldID: it.FieldID, Label: label, Amount: billing.Money(it.Amount)})
	}
	return out, nil
}

// residentForFlat returns the first active resident registered to the flat.
func (s BillingService) residentForFlat(ctx context.Context, flat string) *int64 {
	users, err := s.Store.ListResidents(ctx, true)
	if err != nil {
		s.Logger.Warn("resident lookup failed", "flat", flat, "error", err)
		return nil
	}
	for _, u := range users {
		if u.FlatNumber == flat && u.Role == domain.RoleResident {
			id := u.ID
			return &id
		}
	}
	return nil
}

// GenerateBills creates one bill per reading for the month. Flats that
// already have a bill for the month are reported as skipped.
func (s BillingService) GenerateBills(ctx context.Context, in GenerateBillsInput) (*GenerateBillsResult, error) {
	ve := &ValidationError{}
	if _, err := billing.ParseMonth(in.Month); err != nil {
		ve.Add("month", "must be in YYYY-MM format")
	}
	if len(in.Readings) == 0 {
		ve.Add("readings", "at least one flat reading is required")
	}
	seen := map[string]bool{}
	for i, r := range in.Readings {
		flat := strings.TrimSpace(r.FlatNumber)
		if flat == "" {
			ve.Add(fmt.Sprintf("readings[%d].flatNumber", i), "is required")
		} else if seen[flat] {
			ve.Add(fmt.Sprintf("readings[%d].flatNumber", i), "duplicate flat")
		}
		seen[flat] = true
		if r.CurrentReading < 0 {
			ve.Add(fmt.Sprintf("readings[%d].currentReading", i), "must not be negative")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	var fieldItems []BillItemInput
	if in.IncludeBillingFields {
		fields, err := s.Store.ListBillingFields(ctx, false)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			if f.Type != domain.FieldFixed || f.DefaultValue == nil {
				continue
			}
			id := f.ID
			fieldItems = append(fieldItems, BillItemInput{FieldID: &id, Label: f.Label, Amount: *f.DefaultValue})
		}
	}

	out := &GenerateBillsResult{Created: []BillResult{}, Skipped: []GenerateSkip{}}
	for _, r := range in.Readings {
		flat := strings.TrimSpace(r.FlatNumber)
		prevBill, err := s.Store.LatestBillForFlat(ctx, flat, in.Month)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		previous := int64(0)
		switch {
		case r.PreviousReading != nil:
			previous = *r.PreviousReading
		case prevBill != nil:
			previous = prevBill.CurrentReading
		}
		dues := decimal.Zero
		if in.CarryOverDues && prevBill != nil && prevBill.Status != domain.BillPaid {
			dues = prevBill.PresentDues
		}

		res, err := s.CreateBill(ctx, CreateBillInput{
			FlatNumber:         flat,
			Month:              in.Month,
			PreviousReading:    previous,
			CurrentReading:     r.CurrentReading,
			MaintenanceCharges: orDefault(r.MaintenanceCharges, s.Config.DefaultMaintenance),
			ElectricityCharges: orDefault(r.ElectricityCharges, s.Config.DefaultElectricity),
			OtherCharges:       orDefault(r.OtherCharges, s.Config.DefaultOther),
			PreviousDues:       dues,
			DueDate:            in.DueDate,
			Items:              fieldItems,
		})
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				out.Skipped = append(out.Skipped, GenerateSkip{FlatNumber: flat, Reason: "bill already exists for month"})
				continue
			}
			if ve, ok := IsValidation(err); ok {
				out.Skipped = append(out.Skipped, GenerateSkip{FlatNumber: flat, Reason: ve.Error()})
				continue
			}
			return nil, fmt.Errorf("generate bill for %s: %w", flat, err)
		}
		out.Created = append(out.Created, *res)
	}
	s.Logger.Info("bills generated", "month", in.Month, "created", len(out.Created), "skipped", len(out.Skipped))
	return out, nil
}

// UpdateStatus moves a bill to a new status. Moving into paid records a
// payment_received activity; every other move records bill_status_changed.
func (s BillingService) UpdateStatus(ctx context.Context, id int64, in UpdateBillStatusInput) (*domain.Bill, error) {
	status, err := domain.ParseBillStatus(in.Status)
	if err != nil {
		ve := &ValidationError{}
		ve.Add("status", "unknown bill status")
		return nil, ve
	}
	ve := &ValidationError{}
	checkAmountPtr(ve, "presentDues", in.PresentDues)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	var dues *decimal.Decimal
	if in.PresentDues != nil {
		dues = ptr(billing.Money(*in.PresentDues))
	}

	bill, err := s.Store.UpdateBillStatus(ctx, id, repository.BillStatusUpdate{
		Status:      status,
		PresentDues: dues,
		Transitions: s.transitions(),
		Now:         s.now(),
	}, func(b domain.Bill) []repository.NewActivity {
		meta, _ := json.Marshal(map[string]any{"billId": b.ID, "amount": b.TotalAmount.StringFixed(2), "status": b.Status})
		if b.Status == domain.BillPaid {
			return []repository.NewActivity{{
				Type:        domain.ActivityPaymentReceived,
				Title:       "Payment received from " + b.FlatNumber,
				Description: fmt.Sprintf("Maintenance bill of %s paid", billing.FormatAmount(s.Config.CurrencySymbol, b.TotalAmount)),
				UserID:      b.ResidentID,
				Metadata:    ptr(string(meta)),
			}}
		}
		return []repository.NewActivity{{
			Type:        domain.ActivityBillStatus,
			Title:       "Bill status updated for " + b.FlatNumber,
			Description: fmt.Sprintf("Bill for %s marked %s", b.Month, b.Status),
			UserID:      b.ResidentID,
			Metadata:    ptr(string(meta)),
		}}
	})
	if err != nil {
		return nil, err
	}
	metrics.BillStatusChanges.WithLabelValues(string(status)).Inc()
	return bill, nil
}

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return def
}
