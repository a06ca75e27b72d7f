package handler

import (
	"time"

	"github.com/shopspring/decimal"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/service"
)

// Money is rendered as a fixed two-decimal string.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

func moneyPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := money(*d)
	return &s
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

type userResponse struct {
	ID           int64  `json:"id"`
	PhoneNumber  string `json:"phoneNumber"`
	Name         string `json:"name"`
	FlatNumber   string `json:"flatNumber"`
	Tower        string `json:"tower"`
	Role         string `json:"role"`
	ResidentType string `json:"residentType"`
	FlatStatus   string `json:"flatStatus"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:           u.ID,
		PhoneNumber:  u.PhoneNumber,
		Name:         u.Name,
		FlatNumber:   u.FlatNumber,
		Tower:        u.Tower,
		Role:         string(u.Role),
		ResidentType: string(u.ResidentType),
		FlatStatus:   string(u.FlatStatus),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type billResponse struct {
	ID                 int64   `json:"id"`
	FlatNumber         string  `json:"flatNumber"`
	ResidentID         *int64  `json:"residentId"`
	Month              string  `json:"month"`
	PreviousReading    int64   `json:"previousReading"`
	CurrentReading     int64   `json:"currentReading"`
	WaterUsage         int64   `json:"waterUsage"`
	WaterCharges       string  `json:"waterCharges"`
	MaintenanceCharges string  `json:"maintenanceCharges"`
	ElectricityCharges string  `json:"electricityCharges"`
	OtherCharges       string  `json:"otherCharges"`
	PreviousDues       string  `json:"previousDues"`
	TotalAmount        string  `json:"totalAmount"`
	PresentDues        string  `json:"presentDues"`
	Status             string  `json:"status"`
	DueDate            string  `json:"dueDate"`
	PaidAt             *string `json:"paidAt"`
	CreatedAt          string  `json:"createdAt"`
}

func toBillResponse(b domain.Bill) billResponse {
	return billResponse{
		ID:                 b.ID,
		FlatNumber:         b.FlatNumber,
		ResidentID:         b.ResidentID,
		Month:              b.Month,
		PreviousReading:    b.PreviousReading,
		CurrentReading:     b.CurrentReading,
		WaterUsage:         b.WaterUsage,
		WaterCharges:       money(b.WaterCharges),
		MaintenanceCharges: money(b.MaintenanceCharges),
		ElectricityCharges: money(b.ElectricityCharges),
		OtherCharges:       money(b.OtherCharges),
		PreviousDues:       money(b.PreviousDues),
		TotalAmount:        money(b.TotalAmount),
		PresentDues:        money(b.PresentDues),
		Status:             string(b.Status),
		DueDate:            b.DueDate.Format(dateLayout),
		PaidAt:             timePtr(b.PaidAt),
		CreatedAt:          b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBillResponses(bills []domain.Bill) []billResponse {
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b))
	}
	return out
}

type billItemResponse struct {
	ID      int64  `json:"id"`
	BillID  int64  `json:"billId"`
	FieldID *int64 `json:"fieldId"`
	Label   string `json:"label"`
	Amount  string `json:"amount"`
}

func toBillItemResponses(items []domain.BillItem) []billItemResponse {
	out := make([]billItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, billItemResponse{
			ID:      it.ID,
			BillID:  it.BillID,
			FieldID: it.FieldID,
			Label:   it.Label,
			Amount:  money(it.Amount),
		})
	}
	return out
}

type billResultResponse struct {
	Bill     billResponse       `json:"bill"`
	Items    []billItemResponse `json:"items"`
	Warnings []string           `json:"warnings"`
}

func toBillResultResponse(res service.BillResult) billResultResponse {
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return billResultResponse{
		Bill:     toBillResponse(res.Bill),
		Items:    toBillItemResponses(res.Items),
		Warnings: warnings,
	}
}

type complaintResponse struct {
	ID            int64   `json:"id"`
	ResidentID    int64   `json:"residentId"`
	FlatNumber    string  `json:"flatNumber"`
	Type          string  `json:"type"`
	Subject       string  `json:"subject"`
	Description   string  `json:"description"`
	PhotoURL      *string `json:"photoUrl"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	AssignedTo    *string `json:"assignedTo"`
	InternalNotes *string `json:"internalNotes,omitempty"`
	ResolvedAt    *string `json:"resolvedAt"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// toComplaintResponse hides internal notes from residents.
func toComplaintResponse(c domain.Complaint, staff bool) complaintResponse {
	out := complaintResponse{
		ID:          c.ID,
		ResidentID:  c.ResidentID,
		FlatNumber:  c.FlatNumber,
		Type:        c.Type,
		Subject:     c.Subject,
		Description: c.Description,
		PhotoURL:    c.PhotoURL,
		Status:      string(c.Status),
		Priority:    string(c.Priority),
		AssignedTo:  c.AssignedTo,
		ResolvedAt:  timePtr(c.ResolvedAt),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if staff {
		out.InternalNotes = c.InternalNotes
	}
	return out
}

type noticeResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AdminID     int64  `json:"adminId"`
	IsImportant bool   `json:"isImportant"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toNoticeResponse(n domain.Notice) noticeResponse {
	return noticeResponse{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		AdminID:     n.AdminID,
		IsImportant: n.IsImportant,
		CreatedAt:   n.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   n.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type activityResponse struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	UserID      *int64  `json:"userId"`
	Metadata    *string `json:"metadata"`
	CreatedAt   string  `json:"createdAt"`
}

func toActivityResponse(a domain.Activity) activityResponse {
	return activityResponse{
		ID:          a.ID,
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		UserID:      a.UserID,
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type billingFieldResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Label        string  `json:"label"`
	Type         string  `json:"type"`
	Category     string  `json:"category"`
	DefaultValue *string `json:"defaultValue"`
	Rate         *string `json:"rate"`
	Unit         *string `json:"unit"`
	Description  *string `json:"description"`
	Formula      *string `json:"formula"`
	SortOrder    int     `json:"sortOrder"`
	IsActive     bool    `json:"isActive"`
}

func toBillingFieldResponse(f domain.BillingField) billingFieldResponse {
	var rate *string
	if f.Rate != nil {
		s := f.Rate.String()
		rate = &s
	}
	return billingFieldResponse{
		ID:           f.ID,
		Name:         f.Name,
		Label:        f.Label,
		Type:         string(f.Type),
		Category:     f.Category,
		DefaultValue: moneyPtr(f.DefaultValue),
		Rate:         rate,
		Unit:         f.Unit,
		Description:  f.Description,
		Formula:      f.Formula,
		SortOrder:    f.SortOrder,
		IsActive:     f.IsActive,
	}
}
