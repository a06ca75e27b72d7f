package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"rwa-backend/internal/billing"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv (default), xlsx and excel.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "", "csv":
		return FormatCSV, true
	case "xlsx", "excel":
		return FormatXLSX, true
	}
	return "", false
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Ext() string { return string(f) }

type table struct {
	sheet  string
	header []string
	widths []float64
	rows   [][]any
}

func summaryTable(s Summary, currency string) table {
	return table{
		sheet: "Summary",
		header: []string{
			"Month", "Total Flats", "Bills Generated", "Bills Paid", "Bills Pending", "Bills Partial", "Bills Overdue",
			"Total Dues", "Amount Collected", "Amount Pending", "Collection Rate", "Compliance Rate",
		},
		widths: []float64{18, 12, 16, 12, 14, 14, 14, 16, 18, 16, 16, 16},
		rows: [][]any{{
			MonthLabel(s.Month), s.TotalFlats, s.BillsGenerated, s.BillsPaid, s.BillsPending, s.BillsPartial, s.BillsOverdue,
			billing.FormatAmount(currency, s.TotalDues),
			billing.FormatAmount(currency, s.Collected),
			billing.FormatAmount(currency, s.Pending),
			s.CollectionRate.StringFixed(1) + "%",
			s.ComplianceRate.StringFixed(1) + "%",
		}},
	}
}

func flatwiseTable(rows []FlatRow) table {
	t := table{
		sheet: "Flat-wise",
		header: []string{
			"Flat Number", "Resident Name", "Month", "Maintenance Charges", "Water Usage (L)", "Water Charges",
			"Electricity Charges", "Other Charges", "Total Amount", "Present Dues", "Status", "Due Date", "Paid Date",
		},
		widths: []float64{12, 22, 10, 20, 16, 14, 20, 14, 14, 14, 18, 12, 12},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []any{
			r.FlatNumber, r.ResidentName, r.Month, money(r.MaintenanceCharges), r.WaterUsage, money(r.WaterCharges),
			money(r.ElectricityCharges), money(r.OtherCharges), money(r.TotalAmount), money(r.PresentDues),
			string(r.Status), r.DueDate, r.PaidDate,
		})
	}
	return t
}

// money keeps amounts numeric in spreadsheets and fixed-point in CSV.
type money decimal.Decimal

func (m money) String() string { return decimal.Decimal(m).StringFixed(2) }

func (m money) Float() float64 {
	f, _ := decimal.Decimal(m).Float64()
	return f
}

func WriteSummary(f Format, s Summary, currency string) ([]byte, error) {
	return write(f, summaryTable(s, currency))
}

func WriteFlatwise(f Format, rows []FlatRow) ([]byte, error) {
	return write(f, flatwiseTable(rows))
}

func write(f Format, t table) ([]byte, error) {
	if f == FormatXLSX {
		return writeXLSX(t)
	}
	return writeCSV(t)
}

func writeCSV(t table) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write(t.header)
	for _, row := range t.rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = cellString(v)
		}
		_ = w.Write(rec)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return safeText(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case money:
		return x.String()
	}
	return ""
}

// safeText quotes text that a spreadsheet would otherwise read as a formula.
func safeText(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func writeXLSX(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(t.sheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range t.header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(t.sheet, cell, v)
	}
	for r, row := range t.rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			switch x := v.(type) {
			case money:
				v = x.Float()
			case string:
				v = safeText(x)
			}
			_ = f.SetCellValue(t.sheet, cell, v)
		}
	}

	for c, w := range t.widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(t.sheet, col, col, w)
	}
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})
	for c, v := range firstRow(t) {
		if _, ok := v.(money); ok {
			col, _ := excelize.ColumnNumberToName(c + 1)
			_ = f.SetCellStyle(t.sheet, col+"2", col+strconv.Itoa(len(t.rows)+1), moneyStyle)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	last, _ := excelize.CoordinatesToCellName(len(t.header), 1)
	_ = f.SetCellStyle(t.sheet, "A1", last, headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func firstRow(t table) []any {
	if len(t.rows) == 0 {
		return nil
	}
	return t.rows[0]
}
