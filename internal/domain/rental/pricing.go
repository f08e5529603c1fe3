package rental

import (
	"github.com/shopspring/decimal"
)

// Duration discount tiers, left-inclusive on the lower bound: a 30-day
// rental gets the monthly rate, not the weekly one.
const (
	WeeklyDiscountDays  = 7
	MonthlyDiscountDays = 30
)

var (
	weeklyDiscountRate  = decimal.RequireFromString("0.10")
	monthlyDiscountRate = decimal.RequireFromString("0.20")

	depositRate  = decimal.RequireFromString("0.20")
	depositFloor = decimal.NewFromInt(200)
)

// Quote is the priced breakdown of a prospective rental. Security deposit and
// any later additional charges are tracked apart from TotalAmount.
type Quote struct {
	Days            int
	BaseCost        decimal.Decimal
	Discount        decimal.Decimal
	DiscountPercent int
	InsuranceFee    decimal.Decimal
	SecurityDeposit decimal.Decimal
	TotalAmount     decimal.Decimal
}

// CalculateQuote is a pure function of its inputs; identical inputs always
// produce identical quotes. All amounts are rounded to cents, half up.
func CalculateQuote(dailyRate decimal.Decimal, period Period, tier *InsuranceTier) Quote {
	days := period.Days()
	daysDec := decimal.NewFromInt(int64(days))

	baseCost := dailyRate.Mul(daysDec).Round(2)

	discount := decimal.Zero
	discountPercent := 0
	switch {
	case days >= MonthlyDiscountDays:
		discount = baseCost.Mul(monthlyDiscountRate).Round(2)
		discountPercent = 20
	case days >= WeeklyDiscountDays:
		discount = baseCost.Mul(weeklyDiscountRate).Round(2)
		discountPercent = 10
	}

	insuranceFee := decimal.Zero
	if tier != nil {
		insuranceFee = tier.DailyFee().Mul(daysDec).Round(2)
	}

	// 20% of the base cost with an absolute floor.
	securityDeposit := baseCost.Mul(depositRate).Round(2)
	if securityDeposit.LessThan(depositFloor) {
		securityDeposit = depositFloor
	}

	return Quote{
		Days:            days,
		BaseCost:        baseCost,
		Discount:        discount,
		DiscountPercent: discountPercent,
		InsuranceFee:    insuranceFee,
		SecurityDeposit: securityDeposit,
		TotalAmount:     baseCost.Sub(discount).Add(insuranceFee).Round(2),
	}
}
