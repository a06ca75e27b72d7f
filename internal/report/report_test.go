package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"rwa-backend/internal/domain"
)

func fixtures() ([]domain.Bill, []domain.User) {
	paidAt := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	priya, amit := int64(2), int64(3)
	bills := []domain.Bill{
		{
			ID: 1, FlatNumber: "B-205", ResidentID: &priya, Month: "2024-12", WaterUsage: 2500,
			WaterCharges: decimal.RequireFromString("125"), MaintenanceCharges: decimal.RequireFromString("2500"),
			ElectricityCharges: decimal.RequireFromString("800"), OtherCharges: decimal.RequireFromString("425"),
			TotalAmount: decimal.RequireFromString("3850"), PresentDues: decimal.RequireFromString("3850"),
			Status: domain.BillPending, DueDate: due,
		},
		{
			ID: 2, FlatNumber: "C-304", ResidentID: &amit, Month: "2024-12", WaterUsage: 2000,
			WaterCharges: decimal.RequireFromString("100"), MaintenanceCharges: decimal.RequireFromString("2500"),
			ElectricityCharges: decimal.RequireFromString("750"), OtherCharges: decimal.RequireFromString("300"),
			TotalAmount: decimal.RequireFromString("3650"), PresentDues: decimal.Zero,
			Status: domain.BillPaid, DueDate: due, PaidAt: &paidAt,
		},
		{ID: 3, FlatNumber: "A-101", Month: "2024-11", TotalAmount: decimal.RequireFromString("999"), Status: domain.BillPaid},
	}
	users := []domain.User{
		{ID: 1, Name: "Rajesh Kumar", FlatNumber: "A-101", Role: domain.RoleAdmin, FlatStatus: domain.FlatOccupied},
		{ID: 2, Name: "Priya Sharma", FlatNumber: "B-205", Role: domain.RoleResident, FlatStatus: domain.FlatOccupied},
		{ID: 3, Name: "Amit Singh", FlatNumber: "C-304", Role: domain.RoleResident, FlatStatus: domain.FlatOccupied},
		{ID: 4, Name: "Security Staff", FlatNumber: "Security", Role: domain.RoleWatchman, FlatStatus: domain.FlatOccupied},
	}
	return bills, users
}

func TestMonthlySummary(t *testing.T) {
	bills, users := fixtures()
	s := MonthlySummary("2024-12", bills, users)

	assert.Equal(t, 3, s.TotalFlats)
	assert.Equal(t, 2, s.BillsGenerated)
	assert.Equal(t, 1, s.BillsPaid)
	assert.Equal(t, 1, s.BillsPending)
	assert.Equal(t, "7500.00", s.TotalDues.StringFixed(2))
	assert.Equal(t, "3650.00", s.Collected.StringFixed(2))
	assert.Equal(t, "3850.00", s.Pending.StringFixed(2))
	assert.Equal(t, "48.7", s.CollectionRate.StringFixed(1))
	assert.Equal(t, "50.0", s.ComplianceRate.StringFixed(1))
}

func TestMonthlySummary_Empty(t *testing.T) {
	s := MonthlySummary("2025-01", nil, nil)
	assert.Equal(t, 0, s.BillsGenerated)
	assert.True(t, s.CollectionRate.IsZero())
}

func TestFlatwiseRows(t *testing.T) {
	bills, users := fixtures()
	rows := FlatwiseRows("2024-12", bills, users)
	require.Len(t, rows, 2)
	assert.Equal(t, "Priya Sharma", rows[0].ResidentName)
	assert.Equal(t, "Not Paid", rows[0].PaidDate)
	assert.Equal(t, "2024-12-28", rows[1].PaidDate)
}

func TestWriteFlatwiseCSV(t *testing.T) {
	bills, users := fixtures()
	data, err := WriteFlatwise(FormatCSV, FlatwiseRows("2024-12", bills, users))
	require.NoError(t, err)

	recs, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Flat Number", recs[0][0])
	assert.Equal(t, []string{"B-205", "Priya Sharma", "2024-12", "2500.00", "2500", "125.00"}, recs[1][:6])
}

func TestWriteSummaryXLSX(t *testing.T) {
	bills, users := fixtures()
	data, err := WriteSummary(FormatXLSX, MonthlySummary("2024-12", bills, users), "₹")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	month, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "December 2024", month)
	total, err := f.GetCellValue("Summary", "H2")
	require.NoError(t, err)
	assert.Equal(t, "₹7,500.00", total)
}

func TestParseFormat(t *testing.T) {
	f, ok := ParseFormat("")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)
	f, ok = ParseFormat("excel")
	assert.True(t, ok)
	assert.Equal(t, FormatXLSX, f)
	_, ok = ParseFormat("pdf")
	assert.False(t, ok)
}

func TestWriteFlatwise_QuotesFormulaText(t *testing.T) {
	bills, users := fixtures()
	users[1].Name = `=HYPERLINK("http://x.example","pay")`
	users[2].Name = "@SUM(A1:A9)"
	rows := FlatwiseRows("2024-12", bills, users)

	data, err := WriteFlatwise(FormatCSV, rows)
	require.NoError(t, err)
	recs, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, `'=HYPERLINK("http://x.example","pay")`, recs[1][1])
	assert.Equal(t, "'@SUM(A1:A9)", recs[2][1])
	assert.Equal(t, "B-205", recs[1][0])

	data, err = WriteFlatwise(FormatXLSX, rows)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Flat-wise", "B2")
	require.NoError(t, err)
	assert.Equal(t, `'=HYPERLINK("http://x.example","pay")`, name)
	formula, err := f.GetCellFormula("Flat-wise", "B2")
	require.NoError(t, err)
	assert.Empty(t, formula)
}

func TestSafeText(t *testing.T) {
	for in, want := range map[string]string{
		"":             "",
		"Priya Sharma": "Priya Sharma",
		"+91 98765":    "'+91 98765",
		"-1":           "'-1",
		"\tcmd":        "'\tcmd",
		"\rcmd":        "'\rcmd",
	} {
		assert.Equal(t, want, safeText(in), "input %q", in)
	}
}
