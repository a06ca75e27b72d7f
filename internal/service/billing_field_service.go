package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
)

type BillingFieldService struct {
	Fields repository.BillingFieldStore
}

type BillingFieldInput struct {
	Name         string
	Label        string
	Type         string
	Category     string
	DefaultValue *decimal.Decimal
	Rate         *decimal.Decimal
	Unit         *string
	Description  *string
	Formula      *string
	SortOrder    int
	IsActive     *bool
}

type BillingFieldPatch struct {
	Label        *string
	Type         *string
	Category     *string
	DefaultValue *decimal.Decimal
	Rate         *decimal.Decimal
	Unit         *string
	Description  *string
	Formula      *string
	SortOrder    *int
	IsActive     *bool
}

func (s BillingFieldService) List(ctx context.Context, includeInactive bool) ([]domain.BillingField, error) {
	return s.Fields.ListBillingFields(ctx, includeInactive)
}

func (s BillingFieldService) Create(ctx context.Context, in BillingFieldInput) (*domain.BillingField, error) {
	ve := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "is required")
	}
	if strings.TrimSpace(in.Label) == "" {
		ve.Add("label", "is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		ve.Add("category", "is required")
	}
	fieldType := enumOr(ve, "type", in.Type, domain.BillingFieldType(""))
	checkAmountPtr(ve, "defaultValue", in.DefaultValue)
	checkRatePtr(ve, "rate", in.Rate)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.Fields.CreateBillingField(ctx, repository.NewBillingField{
		Name:         strings.TrimSpace(in.Name),
		Label:        strings.TrimSpace(in.Label),
		Type:         fieldType,
		Category:     strings.TrimSpace(in.Category),
		DefaultValue: in.DefaultValue,
		Rate:         in.Rate,
		Unit:         in.Unit,
		Description:  in.Description,
		Formula:      in.Formula,
		SortOrder:    in.SortOrder,
		IsActive:     active,
	})
}

func (s BillingFieldService) Update(ctx context.Context, id int64, in BillingFieldPatch) (*domain.BillingField, error) {
	ve := &ValidationError{}
	upd := repository.BillingFieldUpdate{
		Label:        trimmed(in.Label),
		Category:     trimmed(in.Category),
		DefaultValue: in.DefaultValue,
		Rate:         in.Rate,
		Unit:         in.Unit,
		Description:  in.Description,
		Formula:      in.Formula,
		SortOrder:    in.SortOrder,
		IsActive:     in.IsActive,
	}
	if upd.Label != nil && *upd.Label == "" {
		ve.Add("label", "must not be empty")
	}
	if in.Type != nil {
		upd.Type = ptr(enumOr(ve, "type", *in.Type, domain.BillingFieldType("")))
	}
	checkAmountPtr(ve, "defaultValue", in.DefaultValue)
	checkRatePtr(ve, "rate", in.Rate)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return s.Fields.UpdateBillingField(ctx, id, upd)
}

func (s BillingFieldService) Delete(ctx context.Context, id int64) error {
	return s.Fields.DeleteBillingField(ctx, id)
}
