package repository

import (
	"context"
	"sort"
	"time"

	"rwa-backend/internal/domain"
)

func (s *MemoryStore) GetNotice(_ context.Context, id int64) (*domain.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notices[id]
	if !ok || n.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (s *MemoryStore) ListNotices(context.Context) ([]domain.Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notice, 0, len(s.notices))
	for _, n := range s.notices {
		if n.DeletedAt == nil {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) CreateNotice(_ context.Context, in NewNotice, audit Audit[domain.Notice]) (*domain.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	n := domain.Notice{
		ID:          s.nextID("notices"),
		Title:       in.Title,
		Description: in.Description,
		AdminID:     in.AdminID,
		IsImportant: in.IsImportant,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.notices[n.ID] = n
	if audit != nil {
		s.recordLocked(audit(n))
	}
	return &n, nil
}

func (s *MemoryStore) UpdateNotice(_ context.Context, id int64, in NoticeUpdate, audit Audit[domain.Notice]) (*domain.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notices[id]
	if !ok || n.DeletedAt != nil {
		return nil, ErrNotFound
	}
	if in.Title != nil {
		n.Title = *in.Title
	}
	if in.Description != nil {
		n.Description = *in.Description
	}
	if in.IsImportant != nil {
		n.IsImportant = *in.IsImportant
	}
	n.UpdatedAt = time.Now()
	s.notices[id] = n
	if audit != nil {
		s.recordLocked(audit(n))
	}
	return &n, nil
}

func (s *MemoryStore) DeleteNotice(_ context.Context, id int64, audit Audit[domain.Notice]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notices[id]
	if !ok || n.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	n.DeletedAt = &now
	s.notices[id] = n
	if audit != nil {
		s.recordLocked(audit(n))
	}
	return nil
}
