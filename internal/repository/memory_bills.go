package repository

import (
	"context"
	"sort"
	"time"

	"rwa-backend/internal/domain"
)

func (s *MemoryStore) GetBill(_ context.Context, id int64) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *MemoryStore) ListBills(_ context.Context, f BillFilter) ([]domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Bill, 0)
	for _, b := range s.bills {
		if f.match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		if out[i].FlatNumber != out[j].FlatNumber {
			return out[i].FlatNumber < out[j].FlatNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ListBillsByFlat(ctx context.Context, flatNumber string) ([]domain.Bill, error) {
	return s.ListBills(ctx, BillFilter{FlatNumber: flatNumber})
}

func (s *MemoryStore) ListBillsByMonth(ctx context.Context, month string) ([]domain.Bill, error) {
	return s.ListBills(ctx, BillFilter{Month: month})
}

func (s *MemoryStore) ListPendingBills(ctx context.Context) ([]domain.Bill, error) {
	return s.ListBills(ctx, BillFilter{PendingOnly: true})
}

func (s *MemoryStore) LatestBillForFlat(_ context.Context, flatNumber, beforeMonth string) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.Bill
	for _, b := range s.bills {
		if b.FlatNumber != flatNumber || (beforeMonth != "" && b.Month >= beforeMonth) {
			continue
		}
		if latest == nil || b.Month > latest.Month {
			cp := b
			latest = &cp
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (s *MemoryStore) CreateBill(_ context.Context, in NewBill, audit Audit[domain.Bill]) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bills {
		if b.FlatNumber == in.FlatNumber && b.Month == in.Month {
			return nil, ErrConflict
		}
	}
	now := time.Now()
	b := domain.Bill{
		ID:                 s.nextID("bills"),
		FlatNumber:         in.FlatNumber,
		ResidentID:         in.ResidentID,
		Month:              in.Month,
		PreviousReading:    in.PreviousReading,
		CurrentReading:     in.CurrentReading,
		WaterUsage:         in.WaterUsage,
		WaterCharges:       in.WaterCharges,
		MaintenanceCharges: in.MaintenanceCharges,
		ElectricityCharges: in.ElectricityCharges,
		OtherCharges:       in.OtherCharges,
		PreviousDues:       in.PreviousDues,
		TotalAmount:        in.TotalAmount,
		PresentDues:        in.PresentDues,
		Status:             in.Status,
		DueDate:            in.DueDate,
		CreatedAt:          now,
	}
	if b.Status == domain.BillPaid {
		b.PaidAt = &now
	}
	s.bills[b.ID] = b

	items := make([]domain.BillItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, domain.BillItem{
			ID:        s.nextID("bill_items"),
			BillID:    b.ID,
			FieldID:   it.FieldID,
			Label:     it.Label,
			Amount:    it.Amount,
			CreatedAt: now,
		})
	}
	s.billItems[b.ID] = items

	if audit != nil {
		s.recordLocked(audit(b))
	}
	return &b, nil
}

func (s *MemoryStore) UpdateBillStatus(_ context.Context, id int64, in BillStatusUpdate, audit Audit[domain.Bill]) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bills[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := in.Transitions.Check(b.Status, in.Status); err != nil {
		return nil, err
	}
	domain.ApplyBillStatus(&b, in.Status, in.PresentDues, nowOr(in.Now))
	s.bills[id] = b
	if audit != nil {
		s.recordLocked(audit(b))
	}
	return &b, nil
}

func (s *MemoryStore) ListBillItems(_ context.Context, billID int64) ([]domain.BillItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.bills[billID]; !ok {
		return nil, ErrNotFound
	}
	items := s.billItems[billID]
	out := make([]domain.BillItem, len(items))
	copy(out, items)
	return out, nil
}
