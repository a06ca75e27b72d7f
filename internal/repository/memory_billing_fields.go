package repository

import (
	"context"
	"sort"
	"time"

	"rwa-backend/internal/domain"
)

func (s *MemoryStore) ListBillingFields(_ context.Context, includeInactive bool) ([]domain.BillingField, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BillingField, 0, len(s.billingFields))
	for _, f := range s.billingFields {
		if f.DeletedAt != nil || (!includeInactive && !f.IsActive) {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetBillingField(_ context.Context, id int64) (*domain.BillingField, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.billingFields[id]
	if !ok || f.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) CreateBillingField(_ context.Context, in NewBillingField) (*domain.BillingField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	f := domain.BillingField{
		ID:           s.nextID("billing_fields"),
		Name:         in.Name,
		Label:        in.Label,
		Type:         in.Type,
		Category:     in.Category,
		DefaultValue: in.DefaultValue,
		Rate:         in.Rate,
		Unit:         in.Unit,
		Description:  in.Description,
		Formula:      in.Formula,
		SortOrder:    in.SortOrder,
		IsActive:     in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.billingFields[f.ID] = f
	return &f, nil
}

func (s *MemoryStore) UpdateBillingField(_ context.Context, id int64, in BillingFieldUpdate) (*domain.BillingField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.billingFields[id]
	if !ok || f.DeletedAt != nil {
		return nil, ErrNotFound
	}
	if in.Label != nil {
		f.Label = *in.Label
	}
	if in.Type != nil {
		f.Type = *in.Type
	}
	if in.Category != nil {
		f.Category = *in.Category
	}
	if in.DefaultValue != nil {
		f.DefaultValue = in.DefaultValue
	}
	if in.Rate != nil {
		f.Rate = in.Rate
	}
	if in.Unit != nil {
		f.Unit = in.Unit
	}
	if in.Description != nil {
		f.Description = in.Description
	}
	if in.Formula != nil {
		f.Formula = in.Formula
	}
	if in.SortOrder != nil {
		f.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
	f.UpdatedAt = time.Now()
	s.billingFields[id] = f
	return &f, nil
}

func (s *MemoryStore) DeleteBillingField(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.billingFields[id]
	if !ok || f.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	f.DeletedAt = &now
	f.IsActive = false
	s.billingFields[id] = f
	return nil
}
