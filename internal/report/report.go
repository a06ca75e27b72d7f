// Package report builds the monthly billing summary and the flat-wise bill
// listing, and renders both as CSV or XLSX.
package report

import (
	"github.com/shopspring/decimal"
	"rwa-backend/internal/billing"
	"rwa-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

type Summary struct {
	Month          string
	TotalFlats     int
	BillsGenerated int
	BillsPaid      int
	BillsPending   int
	BillsPartial   int
	BillsOverdue   int
	TotalDues      decimal.Decimal
	Collected      decimal.Decimal
	Pending        decimal.Decimal
	// CollectionRate and ComplianceRate are percentages with one decimal.
	CollectionRate decimal.Decimal
	ComplianceRate decimal.Decimal
}

type FlatRow struct {
	FlatNumber         string
	ResidentName       string
	Month              string
	MaintenanceCharges decimal.Decimal
	WaterUsage         int64
	WaterCharges       decimal.Decimal
	ElectricityCharges decimal.Decimal
	OtherCharges       decimal.Decimal
	TotalAmount        decimal.Decimal
	PresentDues        decimal.Decimal
	Status             domain.BillStatus
	DueDate            string
	PaidDate           string
}

// MonthlySummary aggregates the bills of one month. Only occupied flats count
// towards TotalFlats; pending money is the outstanding dues of unpaid bills.
func MonthlySummary(month string, bills []domain.Bill, residents []domain.User) Summary {
	s := Summary{
		Month:     month,
		TotalDues: decimal.Zero,
		Collected: decimal.Zero,
		Pending:   decimal.Zero,
	}
	flats := map[string]bool{}
	for _, u := range residents {
		if u.Role != domain.RoleWatchman && u.FlatStatus == domain.FlatOccupied {
			flats[u.FlatNumber] = true
		}
	}
	s.TotalFlats = len(flats)

	for _, b := range bills {
		if b.Month != month {
			continue
		}
		s.BillsGenerated++
		s.TotalDues = s.TotalDues.Add(b.TotalAmount)
		switch b.Status {
		case domain.BillPaid:
			s.BillsPaid++
			s.Collected = s.Collected.Add(b.TotalAmount)
			continue
		case domain.BillPartiallyCleared:
			s.BillsPartial++
			s.Collected = s.Collected.Add(b.TotalAmount.Sub(b.PresentDues))
		case domain.BillOverdue:
			s.BillsOverdue++
		default:
			s.BillsPending++
		}
		s.Pending = s.Pending.Add(b.PresentDues)
	}

	s.CollectionRate = percent(s.Collected, s.TotalDues)
	s.ComplianceRate = percent(decimal.NewFromInt(int64(s.BillsPaid)), decimal.NewFromInt(int64(s.BillsGenerated)))
	return s
}

// FlatwiseRows lists the month's bills with the name of the flat's resident.
func FlatwiseRows(month string, bills []domain.Bill, residents []domain.User) []FlatRow {
	names := map[string]string{}
	byID := map[int64]string{}
	for _, u := range residents {
		byID[u.ID] = u.Name
		if _, ok := names[u.FlatNumber]; !ok || u.Role == domain.RoleResident {
			names[u.FlatNumber] = u.Name
		}
	}

	rows := make([]FlatRow, 0, len(bills))
	for _, b := range bills {
		if b.Month != month {
			continue
		}
		name := names[b.FlatNumber]
		if b.ResidentID != nil {
			if n, ok := byID[*b.ResidentID]; ok {
				name = n
			}
		}
		if name == "" {
			name = "Unknown"
		}
		paid := "Not Paid"
		if b.PaidAt != nil {
			paid = b.PaidAt.Format("2006-01-02")
		}
		rows = append(rows, FlatRow{
			FlatNumber:         b.FlatNumber,
			ResidentName:       name,
			Month:              b.Month,
			MaintenanceCharges: b.MaintenanceCharges,
			WaterUsage:         b.WaterUsage,
			WaterCharges:       b.WaterCharges,
			ElectricityCharges: b.ElectricityCharges,
			OtherCharges:       b.OtherCharges,
			TotalAmount:        b.TotalAmount,
			PresentDues:        b.PresentDues,
			Status:             b.Status,
			DueDate:            b.DueDate.Format("2006-01-02"),
			PaidDate:           paid,
		})
	}
	return rows
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(1)
}

// MonthLabel renders "2024-12" as "December 2024".
func MonthLabel(month string) string {
	t, err := billing.ParseMonth(month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}
