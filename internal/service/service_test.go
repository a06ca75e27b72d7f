package service

import (
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"rwa-backend/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testBillingConfig() config.BillingConfig {
	return config.BillingConfig{
		RatePerLiter:       dec("0.05"),
		DefaultMaintenance: dec("2500"),
		DefaultElectricity: dec("800"),
		DefaultOther:       dec("300"),
		DueDay:             15,
		CurrencySymbol:     "₹",
	}
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}
