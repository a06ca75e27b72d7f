// Package seed loads the embedded demo dataset into a store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/repository"
	"rwa-backend/internal/service"
)

//go:embed demo.yaml
var demoYAML []byte

type Dataset struct {
	Users         []User         `yaml:"users"`
	BillingFields []BillingField `yaml:"billingFields"`
	Bills         []Bill         `yaml:"bills"`
	Complaints    []Complaint    `yaml:"complaints"`
	Notices       []Notice       `yaml:"notices"`
}

type User struct {
	PhoneNumber  string `yaml:"phoneNumber"`
	Name         string `yaml:"name"`
	FlatNumber   string `yaml:"flatNumber"`
	Tower        string `yaml:"tower"`
	Role         string `yaml:"role"`
	ResidentType string `yaml:"residentType"`
	FlatStatus   string `yaml:"flatStatus"`
}

type BillingField struct {
	Name         string  `yaml:"name"`
	Label        string  `yaml:"label"`
	Category     string  `yaml:"category"`
	Type         string  `yaml:"type"`
	DefaultValue *string `yaml:"defaultValue"`
	Rate         *string `yaml:"rate"`
	Unit         *string `yaml:"unit"`
	Formula      *string `yaml:"formula"`
	SortOrder    int     `yaml:"sortOrder"`
}

type Bill struct {
	FlatNumber         string `yaml:"flatNumber"`
	Resident           string `yaml:"resident"`
	Month              string `yaml:"month"`
	PreviousReading    int64  `yaml:"previousReading"`
	CurrentReading     int64  `yaml:"currentReading"`
	MaintenanceCharges string `yaml:"maintenanceCharges"`
	ElectricityCharges string `yaml:"electricityCharges"`
	OtherCharges       string `yaml:"otherCharges"`
	Status             string `yaml:"status"`
}

type Complaint struct {
	Resident    string `yaml:"resident"`
	Type        string `yaml:"type"`
	Subject     string `yaml:"subject"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	Status      string `yaml:"status"`
}

type Notice struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Admin       string `yaml:"admin"`
	Important   bool   `yaml:"important"`
}

// Demo parses the embedded dataset.
func Demo() (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(demoYAML, &ds); err != nil {
		return nil, fmt.Errorf("parse demo dataset: %w", err)
	}
	return &ds, nil
}

// Load writes ds into store through the same services the API uses. Records
// that already exist are skipped, so a run that failed partway completes when
// repeated. It reports whether anything was written.
func Load(ctx context.Context, store repository.Store, ds *Dataset, cfg config.BillingConfig, logger *slog.Logger) (bool, error) {
	created := 0

	users := service.UserService{Users: store}
	ids := map[string]int64{}
	for _, u := range ds.Users {
		phone, _ := service.NormalizePhone(u.PhoneNumber)
		existing, err := store.GetUserByPhone(ctx, phone)
		switch {
		case err == nil:
			ids[existing.PhoneNumber] = existing.ID
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return false, fmt.Errorf("seed user %s: %w", u.Name, err)
		}
		user, err := users.Create(ctx, service.CreateUserInput{
			PhoneNumber:  u.PhoneNumber,
			Name:         u.Name,
			FlatNumber:   u.FlatNumber,
			Tower:        u.Tower,
			Role:         u.Role,
			ResidentType: u.ResidentType,
			FlatStatus:   u.FlatStatus,
		})
		if err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Name, err)
		}
		ids[user.PhoneNumber] = user.ID
		created++
	}

	fields := service.BillingFieldService{Fields: store}
	have, err := store.ListBillingFields(ctx, true)
	if err != nil {
		return false, err
	}
	fieldNames := map[string]bool{}
	for _, f := range have {
		fieldNames[f.Name] = true
	}
	for _, f := range ds.BillingFields {
		if fieldNames[f.Name] {
			continue
		}
		in := service.BillingFieldInput{
			Name: f.Name, Label: f.Label, Category: f.Category, Type: f.Type,
			Unit: f.Unit, Formula: f.Formula, SortOrder: f.SortOrder,
		}
		if in.DefaultValue, err = optDecimal(f.DefaultValue); err != nil {
			return false, fmt.Errorf("seed field %s: %w", f.Name, err)
		}
		if in.Rate, err = optDecimal(f.Rate); err != nil {
			return false, fmt.Errorf("seed field %s: %w", f.Name, err)
		}
		if _, err := fields.Create(ctx, in); err != nil {
			return false, fmt.Errorf("seed field %s: %w", f.Name, err)
		}
		created++
	}

	bills := service.BillingService{Store: store, Config: cfg, Logger: logger}
	for _, b := range ds.Bills {
		in := service.CreateBillInput{
			FlatNumber:      b.FlatNumber,
			Month:           b.Month,
			PreviousReading: b.PreviousReading,
			CurrentReading:  b.CurrentReading,
			Status:          b.Status,
		}
		if id, ok := ids[b.Resident]; ok {
			in.ResidentID = &id
		}
		for dst, raw := range map[*decimal.Decimal]string{
			&in.MaintenanceCharges: b.MaintenanceCharges,
			&in.ElectricityCharges: b.ElectricityCharges,
			&in.OtherCharges:       b.OtherCharges,
		} {
			if *dst, err = parseDecimal(raw); err != nil {
				return false, fmt.Errorf("seed bill %s %s: %w", b.FlatNumber, b.Month, err)
			}
		}
		if _, err := bills.CreateBill(ctx, in); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				continue
			}
			return false, fmt.Errorf("seed bill %s %s: %w", b.FlatNumber, b.Month, err)
		}
		created++
	}

	complaints := service.ComplaintService{Store: store, Logger: logger}
	for _, c := range ds.Complaints {
		owner, err := store.GetUser(ctx, ids[c.Resident])
		if err != nil {
			return false, fmt.Errorf("seed complaint %q: resident %s: %w", c.Subject, c.Resident, err)
		}
		filed, err := store.ListComplaintsByResident(ctx, owner.ID)
		if err != nil {
			return false, fmt.Errorf("seed complaint %q: %w", c.Subject, err)
		}
		if slices.ContainsFunc(filed, func(x domain.Complaint) bool { return x.Subject == c.Subject }) {
			continue
		}
		complaint, err := complaints.Create(ctx, service.CreateComplaintInput{
			ResidentID:  owner.ID,
			FlatNumber:  owner.FlatNumber,
			Type:        c.Type,
			Subject:     c.Subject,
			Description: c.Description,
			Priority:    c.Priority,
		})
		if err != nil {
			return false, fmt.Errorf("seed complaint %q: %w", c.Subject, err)
		}
		if c.Status != "" && c.Status != string(domain.ComplaintOpen) {
			if _, err := complaints.UpdateStatus(ctx, complaint.ID, c.Status); err != nil {
				return false, fmt.Errorf("seed complaint %q: %w", c.Subject, err)
			}
		}
		created++
	}

	notices := service.NoticeService{Store: store}
	posted, err := store.ListNotices(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range ds.Notices {
		if slices.ContainsFunc(posted, func(x domain.Notice) bool { return x.Title == n.Title }) {
			continue
		}
		if _, err := notices.Create(ctx, service.CreateNoticeInput{
			Title:       n.Title,
			Description: n.Description,
			AdminID:     ids[n.Admin],
			IsImportant: n.Important,
		}); err != nil {
			return false, fmt.Errorf("seed notice %q: %w", n.Title, err)
		}
		created++
	}

	if created == 0 {
		logger.Info("demo data already present, nothing to seed")
		return false, nil
	}
	logger.Info("demo data seeded", "records", created)
	return true, nil
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func optDecimal(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseDecimal(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
