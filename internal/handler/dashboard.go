package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"rwa-backend/internal/service"
)

type DashboardHandler struct {
	Service service.DashboardService
	Logger  *slog.Logger
}

func (h DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats", h.stats)
}

func (h DashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalFlats":           st.TotalFlats,
		"occupiedFlats":        st.OccupiedFlats,
		"vacantFlats":          st.VacantFlats,
		"pendingBills":         st.PendingBills,
		"pendingDues":          money(st.PendingDues),
		"totalComplaints":      st.TotalComplaints,
		"openComplaints":       st.OpenComplaints,
		"inProgressComplaints": st.InProgressComplaints,
		"resolvedComplaints":   st.ResolvedComplaints,
	})
}
