package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"rwa-backend/internal/domain"
)

// MemoryStore keeps every entity in maps guarded by a single lock. It backs
// demos and tests when no database is configured.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[int64]domain.User
	bills         map[int64]domain.Bill
	billItems     map[int64][]domain.BillItem
	complaints    map[int64]domain.Complaint
	notices       map[int64]domain.Notice
	activities    map[int64]domain.Activity
	billingFields map[int64]domain.BillingField

	seq map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         map[int64]domain.User{},
		bills:         map[int64]domain.Bill{},
		billItems:     map[int64][]domain.BillItem{},
		complaints:    map[int64]domain.Complaint{},
		notices:       map[int64]domain.Notice{},
		activities:    map[int64]domain.Activity{},
		billingFields: map[int64]domain.BillingField{},
		seq:           map[string]int64{},
	}
}

func (s *MemoryStore) Health(context.Context) error { return nil }

func (s *MemoryStore) Close() {}

// nextID must be called with the write lock held.
func (s *MemoryStore) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// recordLocked must be called with the write lock held.
func (s *MemoryStore) recordLocked(acts []NewActivity) {
	for _, in := range acts {
		s.insertActivityLocked(in)
	}
}

func (s *MemoryStore) insertActivityLocked(in NewActivity) domain.Activity {
	a := domain.Activity{
		ID:          s.nextID("activities"),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		UserID:      in.UserID,
		Metadata:    in.Metadata,
		CreatedAt:   time.Now(),
	}
	s.activities[a.ID] = a
	return a
}

// Users

func (s *MemoryStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByPhone(_ context.Context, phone string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.PhoneNumber == phone {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) phoneTakenLocked(phone string, exceptID int64) bool {
	for id, u := range s.users {
		if id != exceptID && u.PhoneNumber == phone {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateUser(_ context.Context, in NewUser, audit Audit[domain.User]) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phoneTakenLocked(in.PhoneNumber, 0) {
		return nil, ErrConflict
	}
	u := domain.User{
		ID:           s.nextID("users"),
		PhoneNumber:  in.PhoneNumber,
		Name:         in.Name,
		FlatNumber:   in.FlatNumber,
		Tower:        in.Tower,
		Role:         in.Role,
		ResidentType: in.ResidentType,
		FlatStatus:   in.FlatStatus,
		IsActive:     in.IsActive,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	if audit != nil {
		s.recordLocked(audit(u))
	}
	return &u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, id int64, in UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if in.PhoneNumber != nil {
		if s.phoneTakenLocked(*in.PhoneNumber, id) {
			return nil, ErrConflict
		}
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.FlatNumber != nil {
		u.FlatNumber = *in.FlatNumber
	}
	if in.Tower != nil {
		u.Tower = *in.Tower
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.ResidentType != nil {
		u.ResidentType = *in.ResidentType
	}
	if in.FlatStatus != nil {
		u.FlatStatus = *in.FlatStatus
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) ListResidents(_ context.Context, activeOnly bool) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if activeOnly && !u.IsActive {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CountUsers(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// Activities

func (s *MemoryStore) ListRecentActivities(_ context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CreateActivity(_ context.Context, in NewActivity) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.insertActivityLocked(in)
	return &a, nil
}
