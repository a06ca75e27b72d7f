// Package otp issues and verifies one-time login codes sent to phone numbers.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidCode     = errors.New("invalid code")
	ErrExpired         = errors.New("code expired or not requested")
	ErrTooManyAttempts = errors.New("too many failed attempts")
	ErrThrottled       = errors.New("code requested too recently")
)

const codeDigits = 6

type Options struct {
	TTL            time.Duration
	MaxAttempts    int
	ResendInterval time.Duration
	// IssuePerMinute caps codes issued across all phones; zero disables the cap.
	IssuePerMinute int
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

type Issuer struct {
	store   Store
	opts    Options
	limiter *rate.Limiter
}

func NewIssuer(store Store, opts Options) *Issuer {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	i := &Issuer{store: store, opts: opts}
	if opts.IssuePerMinute > 0 {
		i.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.IssuePerMinute)), opts.IssuePerMinute)
	}
	return i
}

// TTL is how long an issued code stays valid.
func (i *Issuer) TTL() time.Duration { return i.opts.TTL }

// Issue generates a fresh code for phone, replacing any previous one.
func (i *Issuer) Issue(ctx context.Context, phone string) (string, error) {
	if i.limiter != nil && !i.limiter.Allow() {
		return "", ErrThrottled
	}
	if i.opts.ResendInterval > 0 {
		ok, err := i.store.Reserve(ctx, phone, i.opts.ResendInterval)
		if err != nil {
			return "", fmt.Errorf("reserve resend window: %w", err)
		}
		if !ok {
			return "", ErrThrottled
		}
	}
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), i.opts.HashCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}
	if err := i.store.Save(ctx, phone, string(hash), i.opts.TTL); err != nil {
		return "", fmt.Errorf("save code: %w", err)
	}
	return code, nil
}

// Verify checks code against the live code for phone. A successful check
// consumes the code; reaching MaxAttempts failures burns it.
func (i *Issuer) Verify(ctx context.Context, phone, code string) error {
	entry, err := i.store.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return ErrExpired
		}
		return fmt.Errorf("load code: %w", err)
	}
	if entry.Attempts >= i.opts.MaxAttempts {
		_ = i.store.Delete(ctx, phone)
		return ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(entry.Hash), []byte(code)) != nil {
		n, err := i.store.IncrAttempts(ctx, phone)
		if err != nil && !errors.Is(err, ErrMiss) {
			return fmt.Errorf("count attempt: %w", err)
		}
		if n >= i.opts.MaxAttempts {
			_ = i.store.Delete(ctx, phone)
			return ErrTooManyAttempts
		}
		return ErrInvalidCode
	}

	if err := i.store.Delete(ctx, phone); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
