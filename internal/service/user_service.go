package service

import (
	"context"
	"strings"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
)

type UserService struct {
	Users repository.UserStore
}

type CreateUserInput struct {
	PhoneNumber  string
	Name         string
	FlatNumber   string
	Tower        string
	Role         string
	ResidentType string
	FlatStatus   string
	IsActive     *bool
}

type UpdateUserInput struct {
	PhoneNumber  *string
	Name         *string
	FlatNumber   *string
	Tower        *string
	Role         *string
	ResidentType *string
	FlatStatus   *string
	IsActive     *bool
}

func (s UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	ve := &ValidationError{}
	phone, ok := NormalizePhone(in.PhoneNumber)
	if !ok {
		ve.Add("phoneNumber", "must be 10 to 15 digits with optional leading +")
	}
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "is required")
	}
	if strings.TrimSpace(in.FlatNumber) == "" {
		ve.Add("flatNumber", "is required")
	}
	role := enumOr(ve, "role", in.Role, domain.RoleResident)
	residentType := enumOr(ve, "residentType", in.ResidentType, domain.ResidentOwner)
	flatStatus := enumOr(ve, "flatStatus", in.FlatStatus, domain.FlatOccupied)
	if err := ve.Err(); err != nil {
		return nil, err
	}
	tower := strings.TrimSpace(in.Tower)
	if tower == "" {
		tower = defaultTower
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return s.Users.CreateUser(ctx, repository.NewUser{
		PhoneNumber:  phone,
		Name:         strings.TrimSpace(in.Name),
		FlatNumber:   strings.TrimSpace(in.FlatNumber),
		Tower:        tower,
		Role:         role,
		ResidentType: residentType,
		FlatStatus:   flatStatus,
		IsActive:     active,
	}, nil)
}

func (s UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error) {
	ve := &ValidationError{}
	upd := repository.UserUpdate{
		Name:       trimmed(in.Name),
		FlatNumber: trimmed(in.FlatNumber),
		Tower:      trimmed(in.Tower),
		IsActive:   in.IsActive,
	}
	if in.PhoneNumber != nil {
		phone, ok := NormalizePhone(*in.PhoneNumber)
		if !ok {
			ve.Add("phoneNumber", "must be 10 to 15 digits with optional leading +")
		}
		upd.PhoneNumber = &phone
	}
	if upd.Name != nil && *upd.Name == "" {
		ve.Add("name", "must not be empty")
	}
	if upd.FlatNumber != nil && *upd.FlatNumber == "" {
		ve.Add("flatNumber", "must not be empty")
	}
	if in.Role != nil {
		upd.Role = ptr(enumOr(ve, "role", *in.Role, domain.UserRole("")))
	}
	if in.ResidentType != nil {
		upd.ResidentType = ptr(enumOr(ve, "residentType", *in.ResidentType, domain.ResidentType("")))
	}
	if in.FlatStatus != nil {
		upd.FlatStatus = ptr(enumOr(ve, "flatStatus", *in.FlatStatus, domain.FlatStatus("")))
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}
	return s.Users.UpdateUser(ctx, id, upd)
}

type validEnum interface {
	~string
	Valid() bool
}

// enumOr parses raw into T, returning def for an empty string with a non-empty
// default. Invalid values are recorded on ve.
func enumOr[T validEnum](ve *ValidationError, field, raw string, def T) T {
	raw = strings.TrimSpace(raw)
	if raw == "" && def != "" {
		return def
	}
	v := T(raw)
	if !v.Valid() {
		ve.Add(field, "unknown value")
	}
	return v
}
