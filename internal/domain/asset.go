package domain

import "strings"

// AssetSummary is one row of the market grid. The whole list is rebuilt
// on every refresh cycle; nothing is patched in place.
type AssetSummary struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"` // uppercased at the API boundary
	Name              string  `json:"name"`
	CurrentPrice      float64 `json:"current_price"`
	MarketCap         float64 `json:"market_cap"`
	MarketCapRank     int     `json:"market_cap_rank"` // 0 = unranked
	TotalVolume24h    float64 `json:"total_volume"`
	PriceChange24hPct float64 `json:"price_change_24h_pct"`
	High24h           float64 `json:"high_24h"`
	Low24h            float64 `json:"low_24h"`
	ImageURL          string  `json:"image_url"`
	LastUpdated       string  `json:"last_updated"` // as received from the API
}

// AssetDetail is the expanded single-asset panel. It is created on
// selection and discarded on deselection, independent of the grid list.
type AssetDetail struct {
	AssetSummary

	Description       string   `json:"description"`
	PriceChange7dPct  float64  `json:"price_change_7d_pct"`
	PriceChange30dPct float64  `json:"price_change_30d_pct"`
	AllTimeHigh       float64  `json:"ath"`
	AllTimeLow        float64  `json:"atl"`
	CirculatingSupply *float64 `json:"circulating_supply"` // nil when unknown
	TotalSupply       *float64 `json:"total_supply"`       // nil when uncapped
	Homepage          string   `json:"homepage"`
}

// Filter keeps assets whose name or symbol contains term,
// case-insensitively. An empty term returns list unchanged. No match
// returns an empty (non-nil) slice so callers can distinguish
// "no results" from "never loaded".
func Filter(list []AssetSummary, term string) []AssetSummary {
	if term == "" {
		return list
	}

	needle := strings.ToLower(term)
	out := make([]AssetSummary, 0, len(list))
	for _, a := range list {
		if strings.Contains(strings.ToLower(a.Name), needle) ||
			strings.Contains(strings.ToLower(a.Symbol), needle) {
			out = append(out, a)
		}
	}
	return out
}
