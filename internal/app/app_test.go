package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/otp"
	"rwa-backend/internal/repository"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t       *testing.T
	handler http.Handler
	store   *repository.MemoryStore
}

func testConfig() config.Config {
	return config.Config{
		Env:             "development",
		StorageDriver:   config.StorageMemory,
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		OTP:             config.OTPConfig{TTL: 5 * time.Minute, MaxAttempts: 5},
		Billing: config.BillingConfig{
			RatePerLiter:       decimal.RequireFromString("0.05"),
			DefaultMaintenance: decimal.RequireFromString("2500"),
			DefaultElectricity: decimal.RequireFromString("800"),
			DefaultOther:       decimal.RequireFromString("300"),
			DueDay:             15,
			CurrencySymbol:     "₹",
		},
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	store := repository.NewMemoryStore()
	h := NewHandler(Deps{
		Config: testConfig(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:  store,
		OTP:    otp.NewMemoryStore(),
	})
	return &testApp{t: t, handler: h, store: store}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

func (a *testApp) addUser(phone, name, flat string, role domain.UserRole) domain.User {
	a.t.Helper()
	u, err := a.store.CreateUser(context.Background(), repository.NewUser{
		PhoneNumber:  phone,
		Name:         name,
		FlatNumber:   flat,
		Tower:        "A",
		Role:         role,
		ResidentType: domain.ResidentOwner,
		FlatStatus:   domain.FlatOccupied,
		IsActive:     true,
	}, nil)
	require.NoError(a.t, err)
	return *u
}

// login runs the OTP flow for phone and returns the access token.
func (a *testApp) login(phone string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/otp", "", map[string]string{"phoneNumber": phone})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	issued := decode[struct {
		Code string `json:"code"`
	}](a.t, rec)
	require.Len(a.t, issued.Code, 6)

	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"phoneNumber": phone, "otp": issued.Code})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](a.t, rec).Token
}

type billJSON struct {
	ID           int64   `json:"id"`
	FlatNumber   string  `json:"flatNumber"`
	Month        string  `json:"month"`
	WaterUsage   int64   `json:"waterUsage"`
	WaterCharges string  `json:"waterCharges"`
	TotalAmount  string  `json:"totalAmount"`
	PresentDues  string  `json:"presentDues"`
	Status       string  `json:"status"`
	DueDate      string  `json:"dueDate"`
	PaidAt       *string `json:"paidAt"`
}

func (a *testApp) createBill(token string, body map[string]any) billJSON {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/bills", token, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[struct {
		Bill billJSON `json:"bill"`
	}](a.t, rec).Bill
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	a.do(http.MethodGet, "/", "", nil)
	rec = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rwa_http_request_duration_seconds")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newTestApp(t)
	rec := a.do(http.MethodGet, "/api/bills", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/api/bills", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RegistersUnknownNumber(t *testing.T) {
	a := newTestApp(t)
	phone := "9876543210"

	rec := a.do(http.MethodPost, "/api/auth/otp", "", map[string]string{"phoneNumber": phone})
	require.Equal(t, http.StatusOK, rec.Code)
	code := decode[struct {
		Code string `json:"code"`
	}](t, rec).Code

	// new numbers need a name and flat; the code stays valid for a retry
	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"phoneNumber": phone, "otp": code})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"phoneNumber": phone, "otp": code, "name": "Priya Nair", "flatNumber": "B-204",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[struct {
		Token      string `json:"token"`
		Registered bool   `json:"registered"`
		User       struct {
			Role       string `json:"role"`
			FlatNumber string `json:"flatNumber"`
			Tower      string `json:"tower"`
		} `json:"user"`
	}](t, rec)
	assert.True(t, res.Registered)
	assert.Equal(t, "resident", res.User.Role)
	assert.Equal(t, "B-204", res.User.FlatNumber)
	assert.Equal(t, "A", res.User.Tower)

	rec = a.do(http.MethodGet, "/api/me", res.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// the code was consumed
	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"phoneNumber": phone, "otp": code})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_InactiveUserIsRejected(t *testing.T) {
	a := newTestApp(t)
	u := a.addUser("9000000001", "Moved Out", "C-301", domain.RoleResident)
	inactive := false
	_, err := a.store.UpdateUser(context.Background(), u.ID, repository.UserUpdate{IsActive: &inactive})
	require.NoError(t, err)

	rec := a.do(http.MethodPost, "/api/auth/otp", "", map[string]string{"phoneNumber": u.PhoneNumber})
	code := decode[struct {
		Code string `json:"code"`
	}](t, rec).Code
	rec = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"phoneNumber": u.PhoneNumber, "otp": code})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBillStatusPaid_PersistsAcrossReads(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	admin := a.login("9000000000")

	bill := a.createBill(admin, map[string]any{
		"flatNumber":         "A-101",
		"month":              "2024-12",
		"waterCharges":       "148.20",
		"maintenanceCharges": 1000,
		"otherCharges":       0,
		"previousDues":       0,
		"status":             "unpaid",
	})
	assert.Equal(t, "1148.20", bill.TotalAmount)
	assert.Equal(t, "unpaid", bill.Status)
	assert.Equal(t, "2025-01-15", bill.DueDate)
	assert.Nil(t, bill.PaidAt)

	rec := a.do(http.MethodPut, "/api/bills/"+itoa(bill.ID)+"/status", admin, map[string]string{"status": "paid"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[billJSON](t, rec)
	assert.Equal(t, "paid", updated.Status)
	require.NotNil(t, updated.PaidAt)
	assert.Equal(t, "0.00", updated.PresentDues)

	rec = a.do(http.MethodGet, "/api/bills/"+itoa(bill.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[billJSON](t, rec)
	assert.Equal(t, "paid", fetched.Status)
	assert.Equal(t, updated.PaidAt, fetched.PaidAt)

	rec = a.do(http.MethodPut, "/api/bills/"+itoa(bill.ID)+"/status", admin, map[string]string{"status": "overdue"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[billJSON](t, rec).PaidAt)

	rec = a.do(http.MethodGet, "/api/activities?limit=5", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	acts := decode[[]struct {
		Type string `json:"type"`
	}](t, rec)
	require.Len(t, acts, 3)
	assert.Equal(t, domain.ActivityBillStatus, acts[0].Type)
	assert.Equal(t, domain.ActivityPaymentReceived, acts[1].Type)
	assert.Equal(t, domain.ActivityBillGenerated, acts[2].Type)
}

func TestCreateBill_FromReadingsAndDuplicate(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	admin := a.login("9000000000")

	body := map[string]any{
		"flatNumber":         "A-101",
		"month":              "2024-12",
		"previousReading":    84356,
		"currentReading":     87320,
		"maintenanceCharges": "2500",
	}
	bill := a.createBill(admin, body)
	assert.Equal(t, int64(2964), bill.WaterUsage)
	assert.Equal(t, "148.20", bill.WaterCharges)
	assert.Equal(t, "2648.20", bill.TotalAmount)

	rec := a.do(http.MethodPost, "/api/bills", admin, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	body["month"] = "Dec 2024"
	rec = a.do(http.MethodPost, "/api/bills", admin, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, rec).Fields
	assert.Contains(t, fields, "month")
}

func TestComplaintMissingSubject_NothingCreated(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	a.addUser("9000000002", "Ravi", "A-101", domain.RoleResident)
	admin := a.login("9000000000")
	resident := a.login("9000000002")

	rec := a.do(http.MethodPost, "/api/complaints", resident, map[string]string{
		"type":        "plumbing",
		"description": "Kitchen tap leaking",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, rec).Fields
	assert.Contains(t, fields, "subject")

	rec = a.do(http.MethodGet, "/api/complaints", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestComplaintLifecycle_RolesAndScoping(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	a.addUser("9000000003", "Gate", "GATE", domain.RoleWatchman)
	ravi := a.addUser("9000000002", "Ravi", "A-101", domain.RoleResident)
	a.addUser("9000000004", "Meera", "A-102", domain.RoleResident)
	admin := a.login("9000000000")
	watchman := a.login("9000000003")
	resident := a.login("9000000002")
	other := a.login("9000000004")

	// residents file for themselves regardless of the body
	rec := a.do(http.MethodPost, "/api/complaints", resident, map[string]any{
		"residentId":  999,
		"flatNumber":  "Z-999",
		"type":        "plumbing",
		"subject":     "Leaking tap",
		"description": "Kitchen tap leaking since morning",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := decode[struct {
		ID         int64  `json:"id"`
		ResidentID int64  `json:"residentId"`
		FlatNumber string `json:"flatNumber"`
		Status     string `json:"status"`
		Priority   string `json:"priority"`
	}](t, rec)
	assert.Equal(t, ravi.ID, c.ResidentID)
	assert.Equal(t, "A-101", c.FlatNumber)
	assert.Equal(t, "open", c.Status)
	assert.Equal(t, "medium", c.Priority)

	rec = a.do(http.MethodGet, "/api/complaints/"+itoa(c.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = a.do(http.MethodGet, "/api/complaints", other, nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = a.do(http.MethodPut, "/api/complaints/"+itoa(c.ID)+"/status", resident, map[string]string{"status": "resolved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodPut, "/api/complaints/"+itoa(c.ID)+"/status", watchman, map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPut, "/api/complaints/"+itoa(c.ID), watchman, map[string]string{"assignedTo": "Plumber"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodPut, "/api/complaints/"+itoa(c.ID), admin, map[string]string{
		"assignedTo": "Plumber", "internalNotes": "Vendor booked", "status": "resolved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resolved := decode[struct {
		Status     string  `json:"status"`
		AssignedTo *string `json:"assignedTo"`
		ResolvedAt *string `json:"resolvedAt"`
	}](t, rec)
	assert.Equal(t, "resolved", resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// internal notes are staff-only
	rec = a.do(http.MethodGet, "/api/complaints/"+itoa(c.ID), resident, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Vendor booked")

	rec = a.do(http.MethodGet, "/api/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, stats["totalComplaints"])
	assert.EqualValues(t, 1, stats["resolvedComplaints"])

	rec = a.do(http.MethodGet, "/api/dashboard/stats", watchman, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBills_ResidentSeesOwnFlatOnly(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	a.addUser("9000000002", "Ravi", "A-101", domain.RoleResident)
	admin := a.login("9000000000")
	resident := a.login("9000000002")

	own := a.createBill(admin, map[string]any{"flatNumber": "A-101", "month": "2024-12", "maintenanceCharges": "2500"})
	other := a.createBill(admin, map[string]any{"flatNumber": "A-102", "month": "2024-12", "maintenanceCharges": "2500"})

	rec := a.do(http.MethodGet, "/api/bills?flatNumber=A-102", resident, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bills := decode[[]billJSON](t, rec)
	require.Len(t, bills, 1)
	assert.Equal(t, own.ID, bills[0].ID)

	rec = a.do(http.MethodGet, "/api/bills/"+itoa(other.ID), resident, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = a.do(http.MethodGet, "/api/bills/"+itoa(other.ID)+"/items", resident, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, "/api/bills", resident, map[string]any{"flatNumber": "A-101", "month": "2025-01"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodGet, "/api/bills?month=2024-12&status=pending", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]billJSON](t, rec), 2)

	rec = a.do(http.MethodGet, "/api/bills?status=settled", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateBills_CarriesReadingsForward(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	admin := a.login("9000000000")

	a.createBill(admin, map[string]any{
		"flatNumber": "A-101", "month": "2024-11", "previousReading": 80000, "currentReading": 84356,
		"maintenanceCharges": "2500",
	})

	rec := a.do(http.MethodPost, "/api/bills/generate", admin, map[string]any{
		"month":    "2024-12",
		"dueDate":  "2024-12-20",
		"readings": []map[string]any{{"flatNumber": "A-101", "currentReading": 87320}, {"flatNumber": "A-102", "currentReading": 100}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[struct {
		Created []struct {
			Bill billJSON `json:"bill"`
		} `json:"created"`
		Skipped []map[string]string `json:"skipped"`
	}](t, rec)
	require.Len(t, res.Created, 2)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, "148.20", res.Created[0].Bill.WaterCharges)
	assert.Equal(t, "2024-12-20", res.Created[0].Bill.DueDate)

	rec = a.do(http.MethodPost, "/api/bills/generate", admin, map[string]any{
		"month":    "2024-12",
		"readings": []map[string]any{{"flatNumber": "A-101", "currentReading": 87400}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	res = decode[struct {
		Created []struct {
			Bill billJSON `json:"bill"`
		} `json:"created"`
		Skipped []map[string]string `json:"skipped"`
	}](t, rec)
	assert.Empty(t, res.Created)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "A-101", res.Skipped[0]["flatNumber"])
}

func TestNoticesAndBillingFields(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	a.addUser("9000000002", "Ravi", "A-101", domain.RoleResident)
	admin := a.login("9000000000")
	resident := a.login("9000000002")

	rec := a.do(http.MethodPost, "/api/notices", admin, map[string]any{
		"title": "Water supply", "description": "No water on Sunday 10-12", "isImportant": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	notice := decode[struct {
		ID int64 `json:"id"`
	}](t, rec)

	rec = a.do(http.MethodPost, "/api/notices", resident, map[string]any{"title": "x", "description": "y"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodGet, "/api/notices", resident, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = a.do(http.MethodDelete, "/api/notices/"+itoa(notice.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodGet, "/api/notices", resident, nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))
	rec = a.do(http.MethodDelete, "/api/notices/"+itoa(notice.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, "/api/billing-fields", admin, map[string]any{
		"name": "parking", "label": "Parking", "type": "fixed", "category": "amenity", "defaultValue": "500",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	field := decode[struct {
		ID           int64   `json:"id"`
		DefaultValue *string `json:"defaultValue"`
	}](t, rec)
	require.NotNil(t, field.DefaultValue)
	assert.Equal(t, "500.00", *field.DefaultValue)

	rec = a.do(http.MethodPut, "/api/billing-fields/"+itoa(field.ID), admin, map[string]any{"defaultValue": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodDelete, "/api/billing-fields/"+itoa(field.ID), admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodGet, "/api/billing-fields", resident, nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestReports(t *testing.T) {
	a := newTestApp(t)
	a.addUser("9000000000", "Admin", "A-001", domain.RoleAdmin)
	a.addUser("9000000002", "Ravi", "A-101", domain.RoleResident)
	admin := a.login("9000000000")
	a.createBill(admin, map[string]any{"flatNumber": "A-101", "month": "2024-12", "maintenanceCharges": "2500", "status": "paid"})

	rec := a.do(http.MethodGet, "/api/reports/monthly?month=2024-12", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode[map[string]any](t, rec)
	assert.Equal(t, "December 2024", summary["monthLabel"])
	assert.Equal(t, "2500.00", summary["collected"])
	assert.Equal(t, "100.0", summary["collectionRate"])

	rec = a.do(http.MethodGet, "/api/reports/flatwise/export?month=2024-12&format=xlsx", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "flatwise_report_2024-12.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = a.do(http.MethodGet, "/api/reports/monthly/export?month=2024-12", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	rec = a.do(http.MethodGet, "/api/reports/monthly/export?format=pdf", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = a.do(http.MethodGet, "/api/reports/monthly?month=13-2024", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenAPIListsRoutes(t *testing.T) {
	a := newTestApp(t)
	rec := a.do(http.MethodGet, "/openapi.yaml", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &doc))
	for path, method := range map[string]string{
		"/api/auth/login":              "post",
		"/api/bills/{id}/status":       "put",
		"/api/complaints/{id}/status":  "put",
		"/api/billing-fields/{id}":     "delete",
		"/api/reports/flatwise/export": "get",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, path)
	}
}

func itoa(id int64) string {
	return decimal.NewFromInt(id).String()
}
