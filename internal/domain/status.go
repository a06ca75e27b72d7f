package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	BillPending          BillStatus = "pending"
	BillUnpaid           BillStatus = "unpaid"
	BillPaid             BillStatus = "paid"
	BillOverdue          BillStatus = "overdue"
	BillPartiallyCleared BillStatus = "partially_cleared"

	ComplaintOpen       ComplaintStatus = "open"
	ComplaintInProgress ComplaintStatus = "in_progress"
	ComplaintResolved   ComplaintStatus = "resolved"
)

type BillStatus string
type ComplaintStatus string

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

var billStatuses = []BillStatus{BillPending, BillUnpaid, BillPaid, BillOverdue, BillPartiallyCleared}
var complaintStatuses = []ComplaintStatus{ComplaintOpen, ComplaintInProgress, ComplaintResolved}

func ParseBillStatus(s string) (BillStatus, error) {
	for _, st := range billStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: bill status %q", ErrInvalidStatus, s)
}

func ParseComplaintStatus(s string) (ComplaintStatus, error) {
	for _, st := range complaintStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: complaint status %q", ErrInvalidStatus, s)
}

// TransitionTable lists, for each source status, the statuses it may move to.
// A nil table allows every transition.
type TransitionTable[S ~string] map[S][]S

// Allows reports whether from -> to is permitted. Re-applying the current
// status is always allowed.
func (t TransitionTable[S]) Allows(from, to S) bool {
	if t == nil || from == to {
		return true
	}
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns ErrIllegalTransition when the move is not in the table.
func (t TransitionTable[S]) Check(from, to S) error {
	if !t.Allows(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

// Open tables leave status a free-form field: any known status may follow any other.
var (
	OpenBillTransitions      TransitionTable[BillStatus]
	OpenComplaintTransitions TransitionTable[ComplaintStatus]
)

var StrictBillTransitions = TransitionTable[BillStatus]{
	BillPending:          {BillUnpaid, BillPaid, BillOverdue, BillPartiallyCleared},
	BillUnpaid:           {BillPending, BillPaid, BillOverdue, BillPartiallyCleared},
	BillOverdue:          {BillPaid, BillPartiallyCleared},
	BillPartiallyCleared: {BillPaid, BillOverdue},
	BillPaid:             {},
}

var StrictComplaintTransitions = TransitionTable[ComplaintStatus]{
	ComplaintOpen:       {ComplaintInProgress, ComplaintResolved},
	ComplaintInProgress: {ComplaintOpen, ComplaintResolved},
	ComplaintResolved:   {ComplaintOpen},
}

// ApplyBillStatus sets the status and the fields tied to it. paidAt is set only
// when moving into paid and cleared otherwise. presentDues overrides the
// outstanding amount for non-paid statuses; nil resets it to the bill total.
func ApplyBillStatus(b *Bill, status BillStatus, presentDues *decimal.Decimal, now time.Time) {
	b.Status = status
	if status == BillPaid {
		t := now
		b.PaidAt = &t
		b.PresentDues = decimal.Zero
		return
	}
	b.PaidAt = nil
	if presentDues != nil {
		b.PresentDues = *presentDues
	} else {
		b.PresentDues = b.TotalAmount
	}
}

// ApplyComplaintStatus sets resolvedAt on entry into resolved and clears it otherwise.
func ApplyComplaintStatus(c *Complaint, status ComplaintStatus, now time.Time) {
	c.Status = status
	c.UpdatedAt = now
	if status == ComplaintResolved {
		t := now
		c.ResolvedAt = &t
		return
	}
	c.ResolvedAt = nil
}
