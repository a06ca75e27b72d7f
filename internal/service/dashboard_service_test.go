package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
)

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	users := []repository.NewUser{
		{PhoneNumber: "+919876543210", Name: "Rajesh", FlatNumber: "A-101", Role: domain.RoleAdmin, FlatStatus: domain.FlatOccupied, IsActive: true},
		{PhoneNumber: "+919876543211", Name: "Priya", FlatNumber: "B-205", Role: domain.RoleResident, FlatStatus: domain.FlatOccupied, IsActive: true},
		{PhoneNumber: "+919876543212", Name: "Amit", FlatNumber: "C-304", Role: domain.RoleResident, FlatStatus: domain.FlatVacant, IsActive: true},
		{PhoneNumber: "+919876543213", Name: "Security", FlatNumber: "Security", Role: domain.RoleWatchman, IsActive: true},
	}
	for _, u := range users {
		_, err := store.CreateUser(ctx, u, nil)
		require.NoError(t, err)
	}

	billing := newBillingService(store)
	b1, err := billing.CreateBill(ctx, CreateBillInput{FlatNumber: "B-205", Month: "2024-12", MaintenanceCharges: dec("3850")})
	require.NoError(t, err)
	_, err = billing.CreateBill(ctx, CreateBillInput{FlatNumber: "C-304", Month: "2024-12", MaintenanceCharges: dec("3650"), Status: "paid"})
	require.NoError(t, err)

	complaints := newComplaintService(store)
	c, err := complaints.Create(ctx, CreateComplaintInput{ResidentID: 2, FlatNumber: "B-205", Type: "plumbing", Subject: "Leak", Description: "Kitchen"})
	require.NoError(t, err)
	_, err = complaints.Create(ctx, CreateComplaintInput{ResidentID: 3, FlatNumber: "C-304", Type: "lift", Subject: "Lift", Description: "Stuck"})
	require.NoError(t, err)
	_, err = complaints.UpdateStatus(ctx, c.ID, "resolved")
	require.NoError(t, err)

	st, err := DashboardService{Store: store}.Stats(ctx)
	require.NoError(t, err)
	// A-101 (admin), B-205, C-304; the watchman's "Security" is not a flat
	assert.Equal(t, 3, st.TotalFlats)
	assert.Equal(t, 2, st.OccupiedFlats)
	assert.Equal(t, 1, st.VacantFlats)
	assert.Equal(t, 1, st.PendingBills)
	assert.Equal(t, b1.Bill.TotalAmount.StringFixed(2), st.PendingDues.StringFixed(2))
	assert.Equal(t, 2, st.TotalComplaints)
	assert.Equal(t, 1, st.OpenComplaints)
	assert.Equal(t, 1, st.ResolvedComplaints)
}
