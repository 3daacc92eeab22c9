package coingecko

// Wire types for the two CoinGecko endpoints we consume. Only the fields
// the dashboard displays are decoded; everything else in the payload is
// ignored.

// marketRecord is one element of GET /coins/markets.
type marketRecord struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Image             string   `json:"image"`
	CurrentPrice      float64  `json:"current_price"`
	MarketCap         float64  `json:"market_cap"`
	MarketCapRank     *int     `json:"market_cap_rank"` // null for unranked assets
	TotalVolume       float64  `json:"total_volume"`
	High24h           *float64 `json:"high_24h"`
	Low24h            *float64 `json:"low_24h"`
	PriceChange24hPct *float64 `json:"price_change_percentage_24h"`
	LastUpdated       string   `json:"last_updated"`
}

// coinRecord is the response of GET /coins/{id} with market_data=true.
type coinRecord struct {
	ID            string            `json:"id"`
	Symbol        string            `json:"symbol"`
	Name          string            `json:"name"`
	MarketCapRank *int              `json:"market_cap_rank"`
	Description   map[string]string `json:"description"`
	Links         struct {
		Homepage []string `json:"homepage"`
	} `json:"links"`
	Image struct {
		Large string `json:"large"`
		Small string `json:"small"`
	} `json:"image"`
	MarketData struct {
		CurrentPrice      map[string]float64 `json:"current_price"`
		MarketCap         map[string]float64 `json:"market_cap"`
		TotalVolume       map[string]float64 `json:"total_volume"`
		High24h           map[string]float64 `json:"high_24h"`
		Low24h            map[string]float64 `json:"low_24h"`
		Ath               map[string]float64 `json:"ath"`
		Atl               map[string]float64 `json:"atl"`
		PriceChange24hPct float64            `json:"price_change_percentage_24h"`
		PriceChange7dPct  float64            `json:"price_change_percentage_7d"`
		PriceChange30dPct float64            `json:"price_change_percentage_30d"`
		CirculatingSupply *float64           `json:"circulating_supply"`
		TotalSupply       *float64           `json:"total_supply"`
		LastUpdated       string             `json:"last_updated"`
	} `json:"market_data"`
}
