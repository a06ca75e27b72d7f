package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/metrics"
	"rwa-backend/internal/repository"
)

type ComplaintService struct {
	Store             repository.Store
	StrictTransitions bool
	Logger            *slog.Logger
	Now               func() time.Time
}

type CreateComplaintInput struct {
	ResidentID  int64
	FlatNumber  string
	Type        string
	Subject     string
	Description string
	PhotoURL    *string
	Priority    string
}

type UpdateComplaintInput struct {
	Type          *string
	Subject       *string
	Description   *string
	PhotoURL      *string
	Priority      *string
	AssignedTo    *string
	InternalNotes *string
	Status        *string
	// ActorID is the admin performing the edit, recorded on the activity.
	ActorID *int64
}

func (s ComplaintService) transitions() domain.TransitionTable[domain.ComplaintStatus] {
	if s.StrictTransitions {
		return domain.StrictComplaintTransitions
	}
	return domain.OpenComplaintTransitions
}

func (s ComplaintService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create validates and files a complaint. Nothing is stored when validation fails.
func (s ComplaintService) Create(ctx context.Context, in CreateComplaintInput) (*domain.Complaint, error) {
	ve := &ValidationError{}
	if in.ResidentID <= 0 {
		ve.Add("residentId", "is required")
	}
	if strings.TrimSpace(in.FlatNumber) == "" {
		ve.Add("flatNumber", "is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		ve.Add("type", "is required")
	}
	if strings.TrimSpace(in.Subject) == "" {
		ve.Add("subject", "is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		ve.Add("description", "is required")
	}
	priority := domain.PriorityMedium
	if in.Priority != "" {
		priority = domain.ComplaintPriority(in.Priority)
		if !priority.Valid() {
			ve.Add("priority", "must be low, medium or high")
		}
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	c, err := s.Store.CreateComplaint(ctx, repository.NewComplaint{
		ResidentID:  in.ResidentID,
		FlatNumber:  strings.TrimSpace(in.FlatNumber),
		Type:        strings.TrimSpace(in.Type),
		Subject:     strings.TrimSpace(in.Subject),
		Description: strings.TrimSpace(in.Description),
		PhotoURL:    in.PhotoURL,
		Priority:    priority,
		Status:      domain.ComplaintOpen,
	}, func(c domain.Complaint) []repository.NewActivity {
		meta, _ := json.Marshal(map[string]any{"complaintId": c.ID, "type": c.Type})
		return []repository.NewActivity{{
			Type:        domain.ActivityComplaintSubmitted,
			Title:       "New complaint from " + c.FlatNumber,
			Description: c.Subject,
			UserID:      &c.ResidentID,
			Metadata:    ptr(string(meta)),
		}}
	})
	if err != nil {
		return nil, err
	}
	metrics.ComplaintsCreated.Inc()
	return c, nil
}

// Update applies a partial edit. A status in the edit goes through the same
// transition rules as UpdateStatus.
func (s ComplaintService) Update(ctx context.Context, id int64, in UpdateComplaintInput) (*domain.Complaint, error) {
	ve := &ValidationError{}
	upd := repository.ComplaintUpdate{
		Type:          trimmed(in.Type),
		Subject:       trimmed(in.Subject),
		Description:   trimmed(in.Description),
		PhotoURL:      in.PhotoURL,
		AssignedTo:    in.AssignedTo,
		InternalNotes: in.InternalNotes,
		Transitions:   s.transitions(),
		Now:           s.now(),
	}
	if upd.Type != nil && *upd.Type == "" {
		ve.Add("type", "must not be empty")
	}
	if upd.Subject != nil && *upd.Subject == "" {
		ve.Add("subject", "must not be empty")
	}
	if upd.Description != nil && *upd.Description == "" {
		ve.Add("description", "must not be empty")
	}
	if in.Priority != nil {
		p := domain.ComplaintPriority(*in.Priority)
		if !p.Valid() {
			ve.Add("priority", "must be low, medium or high")
		}
		upd.Priority = &p
	}
	if in.Status != nil {
		st, err := domain.ParseComplaintStatus(*in.Status)
		if err != nil {
			ve.Add("status", "unknown complaint status")
		}
		upd.Status = &st
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	return s.Store.UpdateComplaint(ctx, id, upd, func(c domain.Complaint) []repository.NewActivity {
		userID := in.ActorID
		if userID == nil {
			userID = &c.ResidentID
		}
		meta, _ := json.Marshal(map[string]any{"complaintId": c.ID, "status": c.Status})
		return []repository.NewActivity{{
			Type:        domain.ActivityComplaintUpdated,
			Title:       "Complaint updated",
			Description: "Updated complaint: " + c.Subject,
			UserID:      userID,
			Metadata:    ptr(string(meta)),
		}}
	})
}

func (s ComplaintService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Complaint, error) {
	st, err := domain.ParseComplaintStatus(status)
	if err != nil {
		ve := &ValidationError{}
		ve.Add("status", "unknown complaint status")
		return nil, ve
	}
	return s.Store.UpdateComplaintStatus(ctx, id, repository.ComplaintStatusUpdate{
		Status:      st,
		Transitions: s.transitions(),
		Now:         s.now(),
	}, func(c domain.Complaint) []repository.NewActivity {
		meta, _ := json.Marshal(map[string]any{"complaintId": c.ID, "status": c.Status})
		return []repository.NewActivity{{
			Type:        domain.ActivityComplaintUpdated,
			Title:       fmt.Sprintf("Complaint %s", strings.ReplaceAll(string(c.Status), "_", " ")),
			Description: fmt.Sprintf("%s - Status updated to %s", c.Subject, c.Status),
			UserID:      &c.ResidentID,
			Metadata:    ptr(string(meta)),
		}}
	})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
