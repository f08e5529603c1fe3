package rental

import (
	"github.com/shopspring/decimal"
)

// Cancellation tiers keyed on hours between the cancellation instant and the
// rental start, not on time elapsed since booking.
var (
	lateCancelRefundRate = decimal.RequireFromString("0.90")
	lastMinuteRefundRate = decimal.RequireFromString("0.70")
	overduePenaltyPerDay = decimal.RequireFromString("0.5")
)

type RefundBreakdown struct {
	RefundAmount  decimal.Decimal
	Fee           decimal.Decimal
	RefundPercent int
}

// CancellationRefund applies the tiered policy:
// more than 48h before start a full refund, 24-48h keeps a 10% fee,
// under 24h keeps a 30% fee.
func CancellationRefund(totalPaid decimal.Decimal, hoursUntilStart float64) RefundBreakdown {
	switch {
	case hoursUntilStart > 48:
		return RefundBreakdown{
			RefundAmount:  totalPaid,
			Fee:           decimal.Zero,
			RefundPercent: 100,
		}
	case hoursUntilStart > 24:
		refund := totalPaid.Mul(lateCancelRefundRate).Round(2)
		return RefundBreakdown{
			RefundAmount:  refund,
			Fee:           totalPaid.Sub(refund),
			RefundPercent: 90,
		}
	default:
		refund := totalPaid.Mul(lastMinuteRefundRate).Round(2)
		return RefundBreakdown{
			RefundAmount:  refund,
			Fee:           totalPaid.Sub(refund),
			RefundPercent: 70,
		}
	}
}

// OverduePenalty charges half the daily rate per overdue day.
func OverduePenalty(dailyRate decimal.Decimal, overdueDays int) decimal.Decimal {
	if overdueDays <= 0 {
		return decimal.Zero
	}
	return dailyRate.Mul(overduePenaltyPerDay).Mul(decimal.NewFromInt(int64(overdueDays))).Round(2)
}
