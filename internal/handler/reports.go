package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"rwa-backend/internal/billing"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/report"
	"rwa-backend/internal/repository"
)

type ReportHandler struct {
	Store    repository.Store
	Currency string
	Logger   *slog.Logger
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/monthly", h.monthly)
	r.Get("/reports/monthly/export", h.exportMonthly)
	r.Get("/reports/flatwise/export", h.exportFlatwise)
}

// load returns the requested month (default: current) with its bills and the
// active residents.
func (h ReportHandler) load(w http.ResponseWriter, r *http.Request) (string, []domain.Bill, []domain.User, bool) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month == "" {
		month = billing.CurrentMonth(time.Now())
	}
	if _, err := billing.ParseMonth(month); err != nil {
		writeValidation(w, "month", "must be in YYYY-MM format")
		return "", nil, nil, false
	}
	bills, err := h.Store.ListBillsByMonth(r.Context(), month)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return "", nil, nil, false
	}
	residents, err := h.Store.ListResidents(r.Context(), true)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return "", nil, nil, false
	}
	return month, bills, residents, true
}

func (h ReportHandler) monthly(w http.ResponseWriter, r *http.Request) {
	month, bills, residents, ok := h.load(w, r)
	if !ok {
		return
	}
	s := report.MonthlySummary(month, bills, residents)
	writeJSON(w, http.StatusOK, map[string]any{
		"month":          s.Month,
		"monthLabel":     report.MonthLabel(s.Month),
		"totalFlats":     s.TotalFlats,
		"billsGenerated": s.BillsGenerated,
		"billsPaid":      s.BillsPaid,
		"billsPending":   s.BillsPending,
		"billsPartial":   s.BillsPartial,
		"billsOverdue":   s.BillsOverdue,
		"totalDues":      money(s.TotalDues),
		"collected":      money(s.Collected),
		"pending":        money(s.Pending),
		"collectionRate": s.CollectionRate.StringFixed(1),
		"complianceRate": s.ComplianceRate.StringFixed(1),
	})
}

func (h ReportHandler) exportMonthly(w http.ResponseWriter, r *http.Request) {
	format, ok := report.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported format")
		return
	}
	month, bills, residents, ok := h.load(w, r)
	if !ok {
		return
	}
	data, err := report.WriteSummary(format, report.MonthlySummary(month, bills, residents), h.Currency)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeFile(w, format, "monthly_report_"+month, data)
}

func (h ReportHandler) exportFlatwise(w http.ResponseWriter, r *http.Request) {
	format, ok := report.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported format")
		return
	}
	month, bills, residents, ok := h.load(w, r)
	if !ok {
		return
	}
	data, err := report.WriteFlatwise(format, report.FlatwiseRows(month, bills, residents))
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeFile(w, format, "flatwise_report_"+month, data)
}

func writeFile(w http.ResponseWriter, format report.Format, name string, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.%s\"", name, format.Ext()))
	_, _ = w.Write(data)
}
