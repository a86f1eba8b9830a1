package pricing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"powermatch/internal/models"
)

// apiPlan mirrors the upstream pricing API plan object
type apiPlan struct {
	ID      string `json:"_id"`
	Product struct {
		Name                string  `json:"name"`
		Headline            string  `json:"headline"`
		TermValue           int     `json:"term_value"`
		RateType            string  `json:"rate_type"`
		PercentGreen        int     `json:"percent_green"`
		EarlyTerminationFee float64 `json:"early_termination_fee"`
		IsPrePay            bool    `json:"is_pre_pay"`
		IsTimeOfUse         bool    `json:"is_time_of_use"`
		RequiresAutoPay     bool    `json:"requires_auto_pay"`
		RequiresDeposit     bool    `json:"requires_deposit"`
		Brand               struct {
			Name       string  `json:"name"`
			PUCTNumber string  `json:"puct_number"`
			LogoURL    string  `json:"logo_url"`
			Rating     float64 `json:"rating"`
		} `json:"brand"`
	} `json:"product"`
	TDSP struct {
		DUNSNumber string `json:"duns_number"`
		Name       string `json:"name"`
	} `json:"tdsp"`
	DisplayPricing500  apiPricing `json:"display_pricing_500"`
	DisplayPricing1000 apiPricing `json:"display_pricing_1000"`
	DisplayPricing2000 apiPricing `json:"display_pricing_2000"`
	DocumentLinks      []struct {
		Type     string `json:"type"`
		Language string `json:"language"`
		Link     string `json:"link"`
	} `json:"document_links"`
}

// apiPricing carries the average rate in dollars per kWh and the monthly total
// in dollars for one usage tier.
type apiPricing struct {
	Usage int     `json:"usage"`
	Avg   float64 `json:"avg"`
	Total float64 `json:"total"`
}

var termPattern = regexp.MustCompile(`(\d{1,2})\s*(?:month|mo\b)`)

// inferRateType derives the rate type from free-text name and headline when
// the upstream omits it. "fixed" is the default.
func inferRateType(explicit, name, headline string) models.RateType {
	switch strings.ToLower(explicit) {
	case "fixed":
		return models.RateTypeFixed
	case "variable":
		return models.RateTypeVariable
	case "indexed":
		return models.RateTypeIndexed
	}

	text := strings.ToLower(name + " " + headline)
	switch {
	case strings.Contains(text, "variable"), strings.Contains(text, "flex"), strings.Contains(text, "month-to-month"):
		return models.RateTypeVariable
	case strings.Contains(text, "indexed"), strings.Contains(text, "market rate"):
		return models.RateTypeIndexed
	default:
		return models.RateTypeFixed
	}
}

// inferTermMonths falls back to parsing the plan name when term_value is absent
func inferTermMonths(termValue int, name string) int {
	if termValue > 0 {
		return termValue
	}
	m := termPattern.FindStringSubmatch(strings.ToLower(name))
	if len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

// dollarsToCents converts a dollars-per-kWh rate to cents per kWh
func dollarsToCents(rate float64) float64 {
	return rate * 100
}

// transformPlan normalizes an upstream plan into the internal shape
func transformPlan(p apiPlan, now time.Time) models.Plan {
	plan := models.Plan{
		ExternalID:     p.ID,
		TDSPDUNS:       p.TDSP.DUNSNumber,
		Name:           p.Product.Name,
		Headline:       p.Product.Headline,
		ProviderName:   p.Product.Brand.Name,
		ProviderPUCT:   p.Product.Brand.PUCTNumber,
		ProviderLogo:   p.Product.Brand.LogoURL,
		ProviderRating: p.Product.Brand.Rating,
		Pricing: models.PlanPricing{
			Rate500kWh:   dollarsToCents(p.DisplayPricing500.Avg),
			Rate1000kWh:  dollarsToCents(p.DisplayPricing1000.Avg),
			Rate2000kWh:  dollarsToCents(p.DisplayPricing2000.Avg),
			Total500kWh:  p.DisplayPricing500.Total,
			Total1000kWh: p.DisplayPricing1000.Total,
			Total2000kWh: p.DisplayPricing2000.Total,
		},
		Contract: models.ContractTerms{
			LengthMonths:        inferTermMonths(p.Product.TermValue, p.Product.Name),
			RateType:            inferRateType(p.Product.RateType, p.Product.Name, p.Product.Headline),
			EarlyTerminationFee: p.Product.EarlyTerminationFee,
		},
		Features: models.PlanFeatures{
			PercentGreen:    p.Product.PercentGreen,
			DepositRequired: p.Product.RequiresDeposit,
			IsPrepaid:       p.Product.IsPrePay,
			TimeOfUse:       p.Product.IsTimeOfUse,
			AutoPayRequired: p.Product.RequiresAutoPay,
		},
		IsActive:   true,
		LastSeenAt: now,
	}

	for _, link := range p.DocumentLinks {
		plan.DocumentLinks = append(plan.DocumentLinks, models.DocumentLink{
			Type:     link.Type,
			Language: link.Language,
			URL:      link.Link,
		})
	}

	return plan
}
