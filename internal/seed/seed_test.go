package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
)

func TestLoadDemo(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore()
	cfg := config.BillingConfig{RatePerLiter: decimal.RequireFromString("0.05"), DueDay: 15, CurrencySymbol: "₹"}

	ds, err := Demo()
	require.NoError(t, err)
	require.Len(t, ds.Users, 4)

	loaded, err := Load(ctx, store, ds, cfg, logger)
	require.NoError(t, err)
	assert.True(t, loaded)

	admin, err := store.GetUserByPhone(ctx, "+919876543210")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	bills, err := store.ListBillsByMonth(ctx, "2024-12")
	require.NoError(t, err)
	require.Len(t, bills, 2)
	for _, b := range bills {
		switch b.FlatNumber {
		case "B-205":
			assert.Equal(t, "3850.00", b.TotalAmount.StringFixed(2))
			assert.Equal(t, domain.BillPending, b.Status)
		case "C-304":
			assert.Equal(t, "3650.00", b.TotalAmount.StringFixed(2))
			assert.NotNil(t, b.PaidAt)
		}
	}

	fields, err := store.ListBillingFields(ctx, true)
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, "General Maintenance", fields[0].Label)

	complaints, err := store.ListComplaints(ctx)
	require.NoError(t, err)
	assert.Len(t, complaints, 2)

	notices, err := store.ListNotices(ctx)
	require.NoError(t, err)
	assert.Len(t, notices, 2)

	again, err := Load(ctx, store, ds, cfg, logger)
	require.NoError(t, err)
	assert.False(t, again)
	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestLoadDemo_ResumesAfterPartialRun(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore()
	cfg := config.BillingConfig{RatePerLiter: decimal.RequireFromString("0.05"), DueDay: 15, CurrencySymbol: "₹"}

	ds, err := Demo()
	require.NoError(t, err)

	// a run that stopped after the users and the first bill
	partial := &Dataset{Users: ds.Users, Bills: ds.Bills[:1]}
	loaded, err := Load(ctx, store, partial, cfg, logger)
	require.NoError(t, err)
	assert.True(t, loaded)

	loaded, err = Load(ctx, store, ds, cfg, logger)
	require.NoError(t, err)
	assert.True(t, loaded)

	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(ds.Users), n)
	bills, err := store.ListBills(ctx, repository.BillFilter{})
	require.NoError(t, err)
	assert.Len(t, bills, len(ds.Bills))
	fields, err := store.ListBillingFields(ctx, true)
	require.NoError(t, err)
	assert.Len(t, fields, len(ds.BillingFields))
	complaints, err := store.ListComplaints(ctx)
	require.NoError(t, err)
	assert.Len(t, complaints, len(ds.Complaints))
	notices, err := store.ListNotices(ctx)
	require.NoError(t, err)
	assert.Len(t, notices, len(ds.Notices))

	loaded, err = Load(ctx, store, ds, cfg, logger)
	require.NoError(t, err)
	assert.False(t, loaded)
}
