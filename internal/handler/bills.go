package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"rwa-backend/internal/billing"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/server/authctx"
	"rwa-backend/internal/service"
)

type BillHandler struct {
	Service service.BillingService
	Bills   repository.BillStore
	Logger  *slog.Logger
}

func (h BillHandler) RegisterRoutes(r chi.Router) {
	r.Get("/bills", h.list)
	r.Get("/bills/{id}", h.get)
	r.Get("/bills/{id}/items", h.items)
}

func (h BillHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/bills", h.create)
	r.Post("/bills/generate", h.generate)
	r.Put("/bills/{id}/status", h.updateStatus)
}

// list filters by month, flatNumber and status. status=pending selects every
// bill that is not paid. Residents always see their own flat only; staff
// without any filter get the current month.
func (h BillHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.BillFilter{
		Month:      strings.TrimSpace(q.Get("month")),
		FlatNumber: strings.TrimSpace(q.Get("flatNumber")),
	}
	if f.Month != "" {
		if _, err := billing.ParseMonth(f.Month); err != nil {
			writeError(w, http.StatusBadRequest, "month must be in YYYY-MM format")
			return
		}
	}
	switch status := strings.TrimSpace(q.Get("status")); status {
	case "":
	case "pending":
		f.PendingOnly = true
	default:
		st, err := domain.ParseBillStatus(status)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown bill status")
			return
		}
		f.Status = st
	}

	cur := authctx.FromContext(r.Context())
	if cur != nil && !cur.IsStaff() {
		f.FlatNumber = cur.FlatNumber
	} else if f == (repository.BillFilter{}) {
		f.Month = billing.CurrentMonth(time.Now())
	}

	bills, err := h.Bills.ListBills(r.Context(), f)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponses(bills))
}

func (h BillHandler) get(w http.ResponseWriter, r *http.Request) {
	bill, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*bill))
}

func (h BillHandler) items(w http.ResponseWriter, r *http.Request) {
	bill, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	items, err := h.Bills.ListBillItems(r.Context(), bill.ID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillItemResponses(items))
}

// loadVisible fetches the bill named in the path. A resident asking for
// another flat's bill gets the same 404 as for a missing one.
func (h BillHandler) loadVisible(w http.ResponseWriter, r *http.Request) (*domain.Bill, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	bill, err := h.Bills.GetBill(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return nil, false
	}
	if cur := authctx.FromContext(r.Context()); cur != nil && !cur.IsStaff() && bill.FlatNumber != cur.FlatNumber {
		writeServiceError(w, h.Logger, repository.ErrNotFound)
		return nil, false
	}
	return bill, true
}

type billItemPayload struct {
	FieldID *int64          `json:"fieldId"`
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
}

func (h BillHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FlatNumber         string            `json:"flatNumber"`
		ResidentID         *int64            `json:"residentId"`
		Month              string            `json:"month"`
		PreviousReading    int64             `json:"previousReading"`
		CurrentReading     int64             `json:"currentReading"`
		WaterCharges       decimal.Decimal   `json:"waterCharges"`
		MaintenanceCharges decimal.Decimal   `json:"maintenanceCharges"`
		ElectricityCharges decimal.Decimal   `json:"electricityCharges"`
		OtherCharges       decimal.Decimal   `json:"otherCharges"`
		PreviousDues       decimal.Decimal   `json:"previousDues"`
		Status             string            `json:"status"`
		DueDate            string            `json:"dueDate"`
		Items              []billItemPayload `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		writeValidation(w, "dueDate", "must be in YYYY-MM-DD format")
		return
	}
	items := make([]service.BillItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.BillItemInput{FieldID: it.FieldID, Label: it.Label, Amount: it.Amount})
	}
	res, err := h.Service.CreateBill(r.Context(), service.CreateBillInput{
		FlatNumber:         req.FlatNumber,
		ResidentID:         req.ResidentID,
		Month:              strings.TrimSpace(req.Month),
		PreviousReading:    req.PreviousReading,
		CurrentReading:     req.CurrentReading,
		WaterCharges:       req.WaterCharges,
		MaintenanceCharges: req.MaintenanceCharges,
		ElectricityCharges: req.ElectricityCharges,
		OtherCharges:       req.OtherCharges,
		PreviousDues:       req.PreviousDues,
		Status:             req.Status,
		DueDate:            due,
		Items:              items,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeError(w, http.StatusConflict, "a bill already exists for this flat and month")
			return
		}
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBillResultResponse(*res))
}

func (h BillHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month                string `json:"month"`
		DueDate              string `json:"dueDate"`
		IncludeBillingFields bool   `json:"includeBillingFields"`
		CarryOverDues        bool   `json:"carryOverDues"`
		Readings             []struct {
			FlatNumber         string           `json:"flatNumber"`
			PreviousReading    *int64           `json:"previousReading"`
			CurrentReading     int64            `json:"currentReading"`
			MaintenanceCharges *decimal.Decimal `json:"maintenanceCharges"`
			ElectricityCharges *decimal.Decimal `json:"electricityCharges"`
			OtherCharges       *decimal.Decimal `json:"otherCharges"`
		} `json:"readings"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		writeValidation(w, "dueDate", "must be in YYYY-MM-DD format")
		return
	}
	readings := make([]service.FlatReading, 0, len(req.Readings))
	for _, rd := range req.Readings {
		readings = append(readings, service.FlatReading{
			FlatNumber:         rd.FlatNumber,
			PreviousReading:    rd.PreviousReading,
			CurrentReading:     rd.CurrentReading,
			MaintenanceCharges: rd.MaintenanceCharges,
			ElectricityCharges: rd.ElectricityCharges,
			OtherCharges:       rd.OtherCharges,
		})
	}
	res, err := h.Service.GenerateBills(r.Context(), service.GenerateBillsInput{
		Month:                strings.TrimSpace(req.Month),
		DueDate:              due,
		Readings:             readings,
		IncludeBillingFields: req.IncludeBillingFields,
		CarryOverDues:        req.CarryOverDues,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	created := make([]billResultResponse, 0, len(res.Created))
	for _, c := range res.Created {
		created = append(created, toBillResultResponse(c))
	}
	skipped := make([]map[string]string, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		skipped = append(skipped, map[string]string{"flatNumber": s.FlatNumber, "reason": s.Reason})
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"created": created,
		"skipped": skipped,
	})
}

func (h BillHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status      string           `json:"status"`
		PresentDues *decimal.Decimal `json:"presentDues"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	bill, err := h.Service.UpdateStatus(r.Context(), id, service.UpdateBillStatusInput{
		Status:      req.Status,
		PresentDues: req.PresentDues,
	})
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillResponse(*bill))
}

func writeValidation(w http.ResponseWriter, field, msg string) {
	writeErrorData(w, http.StatusBadRequest, "validation failed", map[string]any{
		"fields": map[string]string{field: msg},
	})
}
