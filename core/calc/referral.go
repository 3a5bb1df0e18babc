package calc

import (
	"github.com/shopspring/decimal"
)

// ReferralResult is a referral commission for internal tracking.
type ReferralResult struct {
	ReferralRate     decimal.Decimal `json:"referral_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
}

// ReferralCommission computes rate% of the post-discount setup total. A nil
// or non-positive rate means no referral: zero commission, no error.
func ReferralCommission(setupTotal decimal.Decimal, referralRate *decimal.Decimal) ReferralResult {
	if referralRate == nil || !referralRate.IsPositive() {
		return ReferralResult{ReferralRate: decimal.Zero, CommissionAmount: decimal.Zero}
	}
	return ReferralResult{
		ReferralRate:     *referralRate,
		CommissionAmount: setupTotal.Mul(referralRate.Div(hundred)),
	}
}
