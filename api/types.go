package api

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quote-pricing/core/calc"
	"quote-pricing/core/rules"
)

// Request types for the calculation and configuration endpoints. Decimal
// fields accept JSON numbers or strings.

// ComplexityRequest asks for a complexity-factor calculation over the
// caller's quote parameters.
type ComplexityRequest struct {
	Parameters rules.Context `json:"parameters"`
}

// DiscountRequest asks for a stacked-discount breakdown.
type DiscountRequest struct {
	SaaSMonthly decimal.Decimal      `json:"saas_monthly"`
	SetupTotal  decimal.Decimal      `json:"setup_total"`
	Discounts   *calc.DiscountConfig `json:"discounts"`
}

// DiscountValidationRequest asks whether requested discounts fall inside
// the configured limits.
type DiscountValidationRequest struct {
	Discounts calc.DiscountConfig `json:"discounts"`
}

// TravelRequest asks for an itemized travel cost for a zone.
type TravelRequest struct {
	ZoneID uuid.UUID   `json:"zone_id"`
	Trips  []calc.Trip `json:"trips"`
}

// ProjectionRequest asks for a multi-year contract projection.
type ProjectionRequest struct {
	SaaSMonthly     decimal.Decimal      `json:"saas_monthly"`
	SetupTotal      decimal.Decimal      `json:"setup_total"`
	Years           int                  `json:"years"`
	EscalationModel string               `json:"escalation_model"`
	LevelLoading    bool                 `json:"level_loading"`
	TellerPayments  bool                 `json:"teller_payments"`
	Discounts       *calc.DiscountConfig `json:"discounts"`
}

// ReferralRequest asks for a referral commission on a setup total.
type ReferralRequest struct {
	SetupTotal   decimal.Decimal  `json:"setup_total"`
	ReferralRate *decimal.Decimal `json:"referral_rate"`
}

// ConfigureRequest asks for a full product configuration.
type ConfigureRequest struct {
	Parameters rules.Context `json:"parameters"`
}

// ErrorDetail is one machine-readable error in an error envelope.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope every non-2xx response carries.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
