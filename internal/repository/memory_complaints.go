package repository

import (
	"context"
	"sort"
	"time"

	"rwa-backend/internal/domain"
)

func (s *MemoryStore) GetComplaint(_ context.Context, id int64) (*domain.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) listComplaints(keep func(domain.Complaint) bool) []domain.Complaint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Complaint, 0)
	for _, c := range s.complaints {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) ListComplaints(context.Context) ([]domain.Complaint, error) {
	return s.listComplaints(func(domain.Complaint) bool { return true }), nil
}

func (s *MemoryStore) ListComplaintsByResident(_ context.Context, residentID int64) ([]domain.Complaint, error) {
	return s.listComplaints(func(c domain.Complaint) bool { return c.ResidentID == residentID }), nil
}

func (s *MemoryStore) CreateComplaint(_ context.Context, in NewComplaint, audit Audit[domain.Complaint]) (*domain.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	c := domain.Complaint{
		ID:          s.nextID("complaints"),
		ResidentID:  in.ResidentID,
		FlatNumber:  in.FlatNumber,
		Type:        in.Type,
		Subject:     in.Subject,
		Description: in.Description,
		PhotoURL:    in.PhotoURL,
		Priority:    in.Priority,
		CreatedAt:   now,
	}
	domain.ApplyComplaintStatus(&c, in.Status, now)
	s.complaints[c.ID] = c
	if audit != nil {
		s.recordLocked(audit(c))
	}
	return &c, nil
}

func (s *MemoryStore) UpdateComplaint(_ context.Context, id int64, in ComplaintUpdate, audit Audit[domain.Complaint]) (*domain.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	if in.Status != nil {
		if err := in.Transitions.Check(c.Status, *in.Status); err != nil {
			return nil, err
		}
	}
	now := nowOr(in.Now)
	if in.Type != nil {
		c.Type = *in.Type
	}
	if in.Subject != nil {
		c.Subject = *in.Subject
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.PhotoURL != nil {
		c.PhotoURL = in.PhotoURL
	}
	if in.Priority != nil {
		c.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		c.AssignedTo = in.AssignedTo
	}
	if in.InternalNotes != nil {
		c.InternalNotes = in.InternalNotes
	}
	c.UpdatedAt = now
	if in.Status != nil {
		domain.ApplyComplaintStatus(&c, *in.Status, now)
	}
	s.complaints[id] = c
	if audit != nil {
		s.recordLocked(audit(c))
	}
	return &c, nil
}

func (s *MemoryStore) UpdateComplaintStatus(_ context.Context, id int64, in ComplaintStatusUpdate, audit Audit[domain.Complaint]) (*domain.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := in.Transitions.Check(c.Status, in.Status); err != nil {
		return nil, err
	}
	domain.ApplyComplaintStatus(&c, in.Status, nowOr(in.Now))
	s.complaints[id] = c
	if audit != nil {
		s.recordLocked(audit(c))
	}
	return &c, nil
}
