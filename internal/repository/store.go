package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"rwa-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would break a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

// Audit builds the activity entries recorded together with a write. It receives
// the materialized entity so entries can reference server-assigned ids.
type Audit[T any] func(T) []NewActivity

// Store is the storage contract shared by the memory and Postgres backends.
type Store interface {
	UserStore
	BillStore
	ComplaintStore
	NoticeStore
	ActivityStore
	BillingFieldStore

	Health(ctx context.Context) error
	Close()
}

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	CreateUser(ctx context.Context, in NewUser, audit Audit[domain.User]) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UserUpdate) (*domain.User, error)
	ListResidents(ctx context.Context, activeOnly bool) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type BillStore interface {
	GetBill(ctx context.Context, id int64) (*domain.Bill, error)
	ListBills(ctx context.Context, f BillFilter) ([]domain.Bill, error)
	ListBillsByFlat(ctx context.Context, flatNumber string) ([]domain.Bill, error)
	ListBillsByMonth(ctx context.Context, month string) ([]domain.Bill, error)
	ListPendingBills(ctx context.Context) ([]domain.Bill, error)
	LatestBillForFlat(ctx context.Context, flatNumber, beforeMonth string) (*domain.Bill, error)
	CreateBill(ctx context.Context, in NewBill, audit Audit[domain.Bill]) (*domain.Bill, error)
	UpdateBillStatus(ctx context.Context, id int64, in BillStatusUpdate, audit Audit[domain.Bill]) (*domain.Bill, error)
	ListBillItems(ctx context.Context, billID int64) ([]domain.BillItem, error)
}

type ComplaintStore interface {
	GetComplaint(ctx context.Context, id int64) (*domain.Complaint, error)
	ListComplaints(ctx context.Context) ([]domain.Complaint, error)
	ListComplaintsByResident(ctx context.Context, residentID int64) ([]domain.Complaint, error)
	CreateComplaint(ctx context.Context, in NewComplaint, audit Audit[domain.Complaint]) (*domain.Complaint, error)
	UpdateComplaint(ctx context.Context, id int64, in ComplaintUpdate, audit Audit[domain.Complaint]) (*domain.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id int64, in ComplaintStatusUpdate, audit Audit[domain.Complaint]) (*domain.Complaint, error)
}

type NoticeStore interface {
	GetNotice(ctx context.Context, id int64) (*domain.Notice, error)
	ListNotices(ctx context.Context) ([]domain.Notice, error)
	CreateNotice(ctx context.Context, in NewNotice, audit Audit[domain.Notice]) (*domain.Notice, error)
	UpdateNotice(ctx context.Context, id int64, in NoticeUpdate, audit Audit[domain.Notice]) (*domain.Notice, error)
	DeleteNotice(ctx context.Context, id int64, audit Audit[domain.Notice]) error
}

type ActivityStore interface {
	ListRecentActivities(ctx context.Context, limit int) ([]domain.Activity, error)
	CreateActivity(ctx context.Context, in NewActivity) (*domain.Activity, error)
}

type BillingFieldStore interface {
	ListBillingFields(ctx context.Context, includeInactive bool) ([]domain.BillingField, error)
	GetBillingField(ctx context.Context, id int64) (*domain.BillingField, error)
	CreateBillingField(ctx context.Context, in NewBillingField) (*domain.BillingField, error)
	UpdateBillingField(ctx context.Context, id int64, in BillingFieldUpdate) (*domain.BillingField, error)
	DeleteBillingField(ctx context.Context, id int64) error
}

type NewUser struct {
	PhoneNumber  string
	Name         string
	FlatNumber   string
	Tower        string
	Role         domain.UserRole
	ResidentType domain.ResidentType
	FlatStatus   domain.FlatStatus
	IsActive     bool
}

// UserUpdate carries a partial update; nil fields are left unchanged.
type UserUpdate struct {
	PhoneNumber  *string
	Name         *string
	FlatNumber   *string
	Tower        *string
	Role         *domain.UserRole
	ResidentType *domain.ResidentType
	FlatStatus   *domain.FlatStatus
	IsActive     *bool
}

type NewBill struct {
	FlatNumber         string
	ResidentID         *int64
	Month              string
	PreviousReading    int64
	CurrentReading     int64
	WaterUsage         int64
	WaterCharges       decimal.Decimal
	MaintenanceCharges decimal.Decimal
	ElectricityCharges decimal.Decimal
	OtherCharges       decimal.Decimal
	PreviousDues       decimal.Decimal
	TotalAmount        decimal.Decimal
	PresentDues        decimal.Decimal
	Status             domain.BillStatus
	DueDate            time.Time
	Items              []NewBillItem
}

type NewBillItem struct {
	FieldID *int64
	Label   string
	Amount  decimal.Decimal
}

// BillFilter selects bills; empty fields do not filter.
type BillFilter struct {
	Month       string
	FlatNumber  string
	Status      domain.BillStatus
	PendingOnly bool
}

func (f BillFilter) match(b domain.Bill) bool {
	if f.Month != "" && b.Month != f.Month {
		return false
	}
	if f.FlatNumber != "" && b.FlatNumber != f.FlatNumber {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.PendingOnly && b.Status == domain.BillPaid {
		return false
	}
	return true
}

type BillStatusUpdate struct {
	Status      domain.BillStatus
	PresentDues *decimal.Decimal
	Transitions domain.TransitionTable[domain.BillStatus]
	Now         time.Time
}

type NewComplaint struct {
	ResidentID  int64
	FlatNumber  string
	Type        string
	Subject     string
	Description string
	PhotoURL    *string
	Priority    domain.ComplaintPriority
	Status      domain.ComplaintStatus
}

type ComplaintUpdate struct {
	Type          *string
	Subject       *string
	Description   *string
	PhotoURL      *string
	Priority      *domain.ComplaintPriority
	AssignedTo    *string
	InternalNotes *string
	Status        *domain.ComplaintStatus
	Transitions   domain.TransitionTable[domain.ComplaintStatus]
	Now           time.Time
}

type ComplaintStatusUpdate struct {
	Status      domain.ComplaintStatus
	Transitions domain.TransitionTable[domain.ComplaintStatus]
	Now         time.Time
}

type NewNotice struct {
	Title       string
	Description string
	AdminID     int64
	IsImportant bool
}

type NoticeUpdate struct {
	Title       *string
	Description *string
	IsImportant *bool
}

type NewActivity struct {
	Type        string
	Title       string
	Description string
	UserID      *int64
	Metadata    *string
}

type NewBillingField struct {
	Name         string
	Label        string
	Type         domain.BillingFieldType
	Category     string
	DefaultValue *decimal.Decimal
	Rate         *decimal.Decimal
	Unit         *string
	Description  *string
	Formula      *string
	SortOrder    int
	IsActive     bool
}

type BillingFieldUpdate struct {
	Label        *string
	Type         *domain.BillingFieldType
	Category     *string
	DefaultValue *decimal.Decimal
	Rate         *decimal.Decimal
	Unit         *string
	Description  *string
	Formula      *string
	SortOrder    *int
	IsActive     *bool
}

const defaultActivityLimit = 10

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
