package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
)

func newComplaintService(store repository.Store) ComplaintService {
	return ComplaintService{Store: store, Logger: discardLogger(), Now: fixedClock()}
}

func TestComplaintService_CreateRequiresSubject(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newComplaintService(store)

	_, err := svc.Create(ctx, CreateComplaintInput{
		ResidentID:  2,
		FlatNumber:  "B-205",
		Type:        "plumbing",
		Description: "Low water pressure",
	})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "subject")

	all, err := store.ListComplaints(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	acts, err := store.ListRecentActivities(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestComplaintService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newComplaintService(store)

	c, err := svc.Create(ctx, CreateComplaintInput{
		ResidentID:  2,
		FlatNumber:  "B-205",
		Type:        "plumbing",
		Subject:     "Water Pressure Issue",
		Description: "Low water pressure in bathroom taps",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ComplaintOpen, c.Status)
	assert.Equal(t, domain.PriorityMedium, c.Priority)

	resolved, err := svc.UpdateStatus(ctx, c.ID, "resolved")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)

	reopened, err := svc.UpdateStatus(ctx, c.ID, "open")
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt)

	notes := "plumber booked"
	updated, err := svc.Update(ctx, c.ID, UpdateComplaintInput{
		InternalNotes: &notes,
		Priority:      ptr("high"),
		Status:        ptr("in_progress"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	assert.Equal(t, domain.ComplaintInProgress, updated.Status)
	assert.Equal(t, "plumber booked", *updated.InternalNotes)
	assert.Equal(t, "Water Pressure Issue", updated.Subject)

	acts, err := store.ListRecentActivities(ctx, 10)
	require.NoError(t, err)
	require.Len(t, acts, 4)
	assert.Equal(t, domain.ActivityComplaintSubmitted, acts[3].Type)
	assert.Equal(t, domain.ActivityComplaintUpdated, acts[0].Type)
}

func TestComplaintService_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	svc := newComplaintService(repository.NewMemoryStore())

	_, err := svc.UpdateStatus(ctx, 1, "closed")
	_, ok := IsValidation(err)
	assert.True(t, ok)

	_, err = svc.UpdateStatus(ctx, 1, "resolved")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestComplaintService_StrictTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newComplaintService(repository.NewMemoryStore())
	svc.StrictTransitions = true

	c, err := svc.Create(ctx, CreateComplaintInput{
		ResidentID: 3, FlatNumber: "C-304", Type: "maintenance", Subject: "Lift", Description: "Stuck",
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, c.ID, "resolved")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, c.ID, "in_progress")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}
