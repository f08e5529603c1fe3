//go:build unit

package rental_test

import (
	"testing"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/rental"

	"github.com/stretchr/testify/assert"
)

func TestCancellationRefund(t *testing.T) {
	tests := []struct {
		name            string
		hoursUntilStart float64
		wantRefund      string
		wantFee         string
		wantPercent     int
	}{
		{
			name:            "more than 48h before start refunds everything",
			hoursUntilStart: 49,
			wantRefund:      "1000",
			wantFee:         "0",
			wantPercent:     100,
		},
		{
			name:            "between 24h and 48h keeps a 10 percent fee",
			hoursUntilStart: 36,
			wantRefund:      "900",
			wantFee:         "100",
			wantPercent:     90,
		},
		{
			name:            "under 24h keeps a 30 percent fee",
			hoursUntilStart: 10,
			wantRefund:      "700",
			wantFee:         "300",
			wantPercent:     70,
		},
		{
			name:            "exactly 48h falls into the late tier",
			hoursUntilStart: 48,
			wantRefund:      "900",
			wantFee:         "100",
			wantPercent:     90,
		},
		{
			name:            "exactly 24h falls into the last minute tier",
			hoursUntilStart: 24,
			wantRefund:      "700",
			wantFee:         "300",
			wantPercent:     70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown := rental.CancellationRefund(dec("1000"), tt.hoursUntilStart)

			assert.True(t, breakdown.RefundAmount.Equal(dec(tt.wantRefund)),
				"refund: want %s, got %s", tt.wantRefund, breakdown.RefundAmount)
			assert.True(t, breakdown.Fee.Equal(dec(tt.wantFee)),
				"fee: want %s, got %s", tt.wantFee, breakdown.Fee)
			assert.Equal(t, tt.wantPercent, breakdown.RefundPercent)
		})
	}

	t.Run("refund plus fee always equals the paid amount", func(t *testing.T) {
		for _, hours := range []float64{100, 47, 12, 0, -5} {
			breakdown := rental.CancellationRefund(dec("333.33"), hours)
			total := breakdown.RefundAmount.Add(breakdown.Fee)
			assert.True(t, total.Equal(dec("333.33")), "hours=%v: got %s", hours, total)
		}
	})
}

func TestOverduePenalty(t *testing.T) {
	tests := []struct {
		name        string
		dailyRate   string
		overdueDays int
		want        string
	}{
		{"half the daily rate per day", "100", 3, "150"},
		{"single day", "89.90", 1, "44.95"},
		{"zero days", "100", 0, "0"},
		{"negative days clamp to zero", "100", -2, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rental.OverduePenalty(dec(tt.dailyRate), tt.overdueDays)
			assert.True(t, got.Equal(dec(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}
