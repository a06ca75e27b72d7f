package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"rwa-backend/internal/config"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/metrics"
	"rwa-backend/internal/otp"
	"rwa-backend/internal/repository"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	defaultTower     = "A"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

type AuthService struct {
	Config config.Config
	Users  repository.UserStore
	OTP    *otp.Issuer
	Logger *slog.Logger
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
	ExpiresAt    time.Time
	Registered   bool
}

type OTPResult struct {
	Phone     string
	ExpiresIn time.Duration
	// Code is only populated in development.
	Code string
}

type LoginInput struct {
	PhoneNumber string
	OTP         string
	Name        string
	FlatNumber  string
	Tower       string
}

type RefreshInput struct {
	RefreshToken string
}

// Claims are the fields carried by an access token.
type Claims struct {
	UserID int64
	Phone  string
	Role   domain.UserRole
}

// NormalizePhone strips formatting characters and validates the number.
func NormalizePhone(raw string) (string, bool) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	return p, phonePattern.MatchString(p)
}

func (s AuthService) RequestOTP(ctx context.Context, phone string) (*OTPResult, error) {
	phone, ok := NormalizePhone(phone)
	if !ok {
		ve := &ValidationError{}
		ve.Add("phoneNumber", "must be 10 to 15 digits with optional leading +")
		return nil, ve
	}
	code, err := s.OTP.Issue(ctx, phone)
	if err != nil {
		if errors.Is(err, otp.ErrThrottled) {
			return nil, ErrOTPThrottled
		}
		return nil, err
	}
	metrics.OTPIssued.Inc()
	s.Logger.Info("otp issued", "phone", maskPhone(phone))

	res := &OTPResult{Phone: phone, ExpiresIn: s.OTP.TTL()}
	if s.Config.IsDevelopment() {
		res.Code = code
	}
	return res, nil
}

// Login verifies the one-time code and returns tokens. Unknown numbers are
// registered as active residents, which requires a name and flat number.
func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	ve := &ValidationError{}
	phone, ok := NormalizePhone(in.PhoneNumber)
	if !ok {
		ve.Add("phoneNumber", "must be 10 to 15 digits with optional leading +")
	}
	if strings.TrimSpace(in.OTP) == "" {
		ve.Add("otp", "is required")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByPhone(ctx, phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		if strings.TrimSpace(in.Name) == "" {
			ve.Add("name", "is required for new numbers")
		}
		if strings.TrimSpace(in.FlatNumber) == "" {
			ve.Add("flatNumber", "is required for new numbers")
		}
		if err := ve.Err(); err != nil {
			return nil, err
		}
	}

	if err := s.OTP.Verify(ctx, phone, strings.TrimSpace(in.OTP)); err != nil {
		switch {
		case errors.Is(err, otp.ErrInvalidCode), errors.Is(err, otp.ErrExpired), errors.Is(err, otp.ErrTooManyAttempts):
			metrics.Logins.WithLabelValues("invalid_otp").Inc()
			return nil, fmt.Errorf("%w: %v", ErrInvalidOTP, err)
		default:
			return nil, err
		}
	}

	registered := false
	if user == nil {
		user, err = s.register(ctx, phone, in)
		if err != nil {
			return nil, err
		}
		registered = true
	}
	if !user.IsActive {
		metrics.Logins.WithLabelValues("inactive").Inc()
		return nil, ErrInactiveUser
	}

	res, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	res.Registered = registered
	metrics.Logins.WithLabelValues("success").Inc()
	return res, nil
}

func (s AuthService) register(ctx context.Context, phone string, in LoginInput) (*domain.User, error) {
	tower := strings.TrimSpace(in.Tower)
	if tower == "" {
		tower = defaultTower
	}
	user, err := s.Users.CreateUser(ctx, repository.NewUser{
		PhoneNumber:  phone,
		Name:         strings.TrimSpace(in.Name),
		FlatNumber:   strings.TrimSpace(in.FlatNumber),
		Tower:        tower,
		Role:         domain.RoleResident,
		ResidentType: domain.ResidentOwner,
		FlatStatus:   domain.FlatOccupied,
		IsActive:     true,
	}, func(u domain.User) []repository.NewActivity {
		meta, _ := json.Marshal(map[string]any{"userId": u.ID, "flatNumber": u.FlatNumber})
		return []repository.NewActivity{{
			Type:        domain.ActivityUserRegistered,
			Title:       "New resident registered",
			Description: fmt.Sprintf("%s joined from %s", u.Name, u.FlatNumber),
			UserID:      &u.ID,
			Metadata:    ptr(string(meta)),
		}}
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("resident registered", "user_id", user.ID, "flat", user.FlatNumber)
	return user, nil
}

func (s AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	claims, err := parseToken(s.Config.JWTSecret, in.RefreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return s.issueTokens(user)
}

// ParseAccessToken validates an access token signed with secret.
func ParseAccessToken(secret, token string) (*Claims, error) {
	return parseToken(secret, token, tokenTypeAccess)
}

func parseToken(secret, tokenStr, tokenType string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != tokenType {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	phone, _ := claims["phone"].(string)
	role, _ := claims["role"].(string)
	return &Claims{UserID: userID, Phone: phone, Role: domain.UserRole(role)}, nil
}

func (s AuthService) issueTokens(user *domain.User) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(s.Config.AccessTokenTTL)
	refreshExp := now.Add(s.Config.RefreshTokenTTL)
	sub := strconv.FormatInt(user.ID, 10)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        sub,
		"phone":      user.PhoneNumber,
		"role":       string(user.Role),
		"token_type": tokenTypeAccess,
		"jti":        uuid.NewString(),
		"exp":        accessExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        sub,
		"token_type": tokenTypeRefresh,
		"jti":        uuid.NewString(),
		"exp":        refreshExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
		ExpiresAt:    accessExp,
	}, nil
}

func maskPhone(p string) string {
	if len(p) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(p)-4) + p[len(p)-4:]
}
