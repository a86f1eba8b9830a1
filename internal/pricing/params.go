// Package pricing fetches electricity plans from the upstream pricing API
package pricing

import (
	"fmt"
	"net/url"
	"strconv"

	"powermatch/internal/models"
)

// Params identifies one upstream plan query. The serialized form is the cache
// key, so field order in CacheKey must stay stable.
type Params struct {
	TDSPDUNS     string
	DisplayUsage int // 500, 1000 or 2000 kWh
	Filters      models.PlanFilters
}

// CacheKey returns the deterministic serialization of the full parameter set
func (p Params) CacheKey() string {
	key := fmt.Sprintf("duns=%s&usage=%d", p.TDSPDUNS, p.DisplayUsage)
	if p.Filters.TermMonths != nil {
		key += fmt.Sprintf("&term=%d", *p.Filters.TermMonths)
	}
	if p.Filters.PercentGreen != nil {
		key += fmt.Sprintf("&green=%d", *p.Filters.PercentGreen)
	}
	if p.Filters.IsPrepaid != nil {
		key += fmt.Sprintf("&prepaid=%t", *p.Filters.IsPrepaid)
	}
	if p.Filters.TimeOfUse != nil {
		key += fmt.Sprintf("&tou=%t", *p.Filters.TimeOfUse)
	}
	if p.Filters.RequiresAutoPay != nil {
		key += fmt.Sprintf("&autopay=%t", *p.Filters.RequiresAutoPay)
	}
	return key
}

// Values returns the upstream query parameters
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Add("group", "default")
	v.Add("tdsp_duns", p.TDSPDUNS)
	v.Add("display_usage", strconv.Itoa(p.DisplayUsage))
	if p.Filters.TermMonths != nil {
		v.Add("term", strconv.Itoa(*p.Filters.TermMonths))
	}
	if p.Filters.PercentGreen != nil {
		v.Add("percent_green", strconv.Itoa(*p.Filters.PercentGreen))
	}
	if p.Filters.IsPrepaid != nil {
		v.Add("is_pre_pay", strconv.FormatBool(*p.Filters.IsPrepaid))
	}
	if p.Filters.TimeOfUse != nil {
		v.Add("is_time_of_use", strconv.FormatBool(*p.Filters.TimeOfUse))
	}
	if p.Filters.RequiresAutoPay != nil {
		v.Add("requires_auto_pay", strconv.FormatBool(*p.Filters.RequiresAutoPay))
	}
	return v
}
