package service

import (
	"context"

	"github.com/shopspring/decimal"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
)

type DashboardStats struct {
	TotalFlats           int
	OccupiedFlats        int
	VacantFlats          int
	PendingBills         int
	PendingDues          decimal.Decimal
	TotalComplaints      int
	OpenComplaints       int
	InProgressComplaints int
	ResolvedComplaints   int
}

type DashboardService struct {
	Store repository.Store
}

// Stats aggregates flats, outstanding dues and complaint counts. Watchman
// accounts are not counted as flats; admins live in a flat and are.
func (s DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	users, err := s.Store.ListResidents(ctx, true)
	if err != nil {
		return nil, err
	}
	pending, err := s.Store.ListPendingBills(ctx)
	if err != nil {
		return nil, err
	}
	complaints, err := s.Store.ListComplaints(ctx)
	if err != nil {
		return nil, err
	}

	st := &DashboardStats{PendingDues: decimal.Zero}
	flats := map[string]domain.FlatStatus{}
	for _, u := range users {
		if u.Role == domain.RoleWatchman {
			continue
		}
		if prev, ok := flats[u.FlatNumber]; ok && prev == domain.FlatOccupied {
			continue
		}
		flats[u.FlatNumber] = u.FlatStatus
	}
	st.TotalFlats = len(flats)
	for _, fs := range flats {
		if fs == domain.FlatVacant {
			st.VacantFlats++
		} else {
			st.OccupiedFlats++
		}
	}

	st.PendingBills = len(pending)
	for _, b := range pending {
		st.PendingDues = st.PendingDues.Add(b.PresentDues)
	}

	st.TotalComplaints = len(complaints)
	for _, c := range complaints {
		switch c.Status {
		case domain.ComplaintOpen:
			st.OpenComplaints++
		case domain.ComplaintInProgress:
			st.InProgressComplaints++
		case domain.ComplaintResolved:
			st.ResolvedComplaints++
		}
	}
	return st, nil
}
