package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleAdmin    UserRole = "admin"
	RoleResident UserRole = "resident"
	RoleWatchman UserRole = "watchman"

	ResidentOwner  ResidentType = "owner"
	ResidentTenant ResidentType = "tenant"

	FlatOccupied FlatStatus = "occupied"
	FlatVacant   FlatStatus = "vacant"

	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"

	FieldFixed      BillingFieldType = "fixed"
	FieldVariable   BillingFieldType = "variable"
	FieldCalculated BillingFieldType = "calculated"
)

// Activity types written by the services.
const (
	ActivityBillGenerated      = "bill_generated"
	ActivityPaymentReceived    = "payment_received"
	ActivityBillStatus         = "bill_status_changed"
	ActivityMeterAnomaly       = "meter_reading_anomaly"
	ActivityComplaintSubmitted = "complaint_submitted"
	ActivityComplaintUpdated   = "complaint_updated"
	ActivityNoticePublished    = "notice_published"
	ActivityNoticeUpdated      = "notice_updated"
	ActivityNoticeDeleted      = "notice_deleted"
	ActivityUserRegistered     = "user_registered"
)

type UserRole string
type ResidentType string
type FlatStatus string
type ComplaintPriority string
type BillingFieldType string

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleResident, RoleWatchman:
		return true
	}
	return false
}

func (t ResidentType) Valid() bool {
	return t == ResidentOwner || t == ResidentTenant
}

func (s FlatStatus) Valid() bool {
	return s == FlatOccupied || s == FlatVacant
}

func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (t BillingFieldType) Valid() bool {
	switch t {
	case FieldFixed, FieldVariable, FieldCalculated:
		return true
	}
	return false
}

type User struct {
	ID           int64
	PhoneNumber  string
	Name         string
	FlatNumber   string
	Tower        string
	Role         UserRole
	ResidentType ResidentType
	FlatStatus   FlatStatus
	IsActive     bool
	CreatedAt    time.Time
}

type Bill struct {
	ID                 int64
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
	Status             BillStatus
	DueDate            time.Time
	PaidAt             *time.Time
	CreatedAt          time.Time
}

// BillItem is the per-bill value of a configurable billing field.
type BillItem struct {
	ID        int64
	BillID    int64
	FieldID   *int64
	Label     string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

type Complaint struct {
	ID            int64
	ResidentID    int64
	FlatNumber    string
	Type          string
	Subject       string
	Description   string
	PhotoURL      *string
	Status        ComplaintStatus
	Priority      ComplaintPriority
	AssignedTo    *string
	InternalNotes *string
	ResolvedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Notice struct {
	ID          int64
	Title       string
	Description string
	AdminID     int64
	IsImportant bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type Activity struct {
	ID          int64
	Type        string
	Title       string
	Description string
	UserID      *int64
	Metadata    *string
	CreatedAt   time.Time
}

// BillingField is an admin-defined charge category. Formula is descriptive only
// and never evaluated.
type BillingField struct {
	ID           int64
	Name         string
	Label        string
	Type         BillingFieldType
	Category     string
	DefaultValue *decimal.Decimal
	Rate         *decimal.Decimal
	Unit         *string
	Description  *string
	Formula      *string
	SortOrder    int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}
