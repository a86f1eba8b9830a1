package models

import (
	"time"

	"github.com/google/uuid"
)

// RateType represents the contract rate structure of a plan
type RateType string

const (
	RateTypeFixed    RateType = "fixed"
	RateTypeVariable RateType = "variable"
	RateTypeIndexed  RateType = "indexed"
)

// PlanPricing holds the advertised pricing at the three standard usage tiers.
// Rates are cents per kWh, totals are dollars per month.
type PlanPricing struct {
	Rate500kWh   float64 `json:"rate_500_kwh" db:"rate_500_kwh" example:"14.5"`
	Rate1000kWh  float64 `json:"rate_1000_kwh" db:"rate_1000_kwh" example:"12.9"`
	Rate2000kWh  float64 `json:"rate_2000_kwh" db:"rate_2000_kwh" example:"12.1"`
	Total500kWh  float64 `json:"total_500_kwh" db:"total_500_kwh" example:"72.50"`
	Total1000kWh float64 `json:"total_1000_kwh" db:"total_1000_kwh" example:"129.00"`
	Total2000kWh float64 `json:"total_2000_kwh" db:"total_2000_kwh" example:"242.00"`
}

// ContractTerms holds the contract parameters of a plan
type ContractTerms struct {
	LengthMonths        int      `json:"length_months" db:"term_months" example:"12"`
	RateType            RateType `json:"rate_type" db:"rate_type" example:"fixed"`
	EarlyTerminationFee float64  `json:"early_termination_fee" db:"early_termination_fee" example:"150"`
}

// PlanFeatures holds the feature flags of a plan
type PlanFeatures struct {
	PercentGreen    int  `json:"percent_green" db:"percent_green" example:"100"`
	DepositRequired bool `json:"deposit_required" db:"deposit_required"`
	IsPrepaid       bool `json:"is_prepaid" db:"is_prepaid"`
	TimeOfUse       bool `json:"time_of_use" db:"time_of_use"`
	AutoPayRequired bool `json:"auto_pay_required" db:"auto_pay_required"`
}

// DocumentLink points to a plan document (EFL, TOS, YRAC)
type DocumentLink struct {
	Type     string `json:"type" example:"efl"`
	Language string `json:"language" example:"en"`
	URL      string `json:"url"`
}

// Plan represents an electricity plan offered in a TDSP territory.
// ExternalID is issued by the upstream pricing API and is opaque to us.
type Plan struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	ExternalID     string         `json:"external_id" db:"external_id"`
	TDSPDUNS       string         `json:"tdsp_duns" db:"tdsp_duns"`
	Name           string         `json:"name" db:"name" example:"Gexa Eco Saver Plus 12"`
	Headline       string         `json:"headline,omitempty" db:"headline"`
	ProviderName   string         `json:"provider_name" db:"provider_name"`
	ProviderPUCT   string         `json:"provider_puct,omitempty" db:"provider_puct"`
	ProviderLogo   string         `json:"provider_logo,omitempty" db:"provider_logo"`
	ProviderRating float64        `json:"provider_rating,omitempty" db:"provider_rating"`
	Pricing        PlanPricing    `json:"pricing"`
	Contract       ContractTerms  `json:"contract"`
	Features       PlanFeatures   `json:"features"`
	DocumentLinks  []DocumentLink `json:"document_links,omitempty"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	LastSeenAt     time.Time      `json:"last_seen_at" db:"last_seen_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// PlanFilters narrows a plan search
type PlanFilters struct {
	TermMonths      *int  `json:"term_months,omitempty" form:"term"`
	PercentGreen    *int  `json:"percent_green,omitempty" form:"percent_green"`
	IsPrepaid       *bool `json:"is_prepaid,omitempty" form:"is_pre_pay"`
	TimeOfUse       *bool `json:"time_of_use,omitempty" form:"is_time_of_use"`
	RequiresAutoPay *bool `json:"requires_auto_pay,omitempty" form:"requires_auto_pay"`
}
