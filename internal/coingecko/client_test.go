package coingecko

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/infra"
)

// MockRoundTripper allows us to mock HTTP responses
type MockRoundTripper struct {
	Func func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Func(req)
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// newTestClient builds a client with a private limiter so tests never
// contend on the process-wide CoinGecko budget.
func newTestClient(rt http.RoundTripper) *Client {
	cfg := infra.DefaultConfig()
	c := NewClient(cfg)
	c.httpClient.Transport = rt
	c.limiter = infra.NewRateLimiter(1000, 1000)
	return c
}

const marketsBody = `[
	{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png",
	 "current_price":67421.12,"market_cap":1330000000000,"market_cap_rank":1,
	 "total_volume":35100000000,"high_24h":68000,"low_24h":66000,
	 "price_change_percentage_24h":1.52,"last_updated":"2024-03-01T12:30:45.123Z"},
	{"id":"mystery","symbol":"myst","name":"Mystery","image":"",
	 "current_price":0.00001234,"market_cap":0,"market_cap_rank":null,
	 "total_volume":1000,"high_24h":null,"low_24h":null,
	 "price_change_percentage_24h":null,"last_updated":""}
]`

func TestClient_ListMarkets(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/api/v3/coins/markets" {
				t.Errorf("unexpected path: %s", req.URL.Path)
			}
			q := req.URL.Query()
			for key, want := range map[string]string{
				"vs_currency":             "usd",
				"order":                   "market_cap_desc",
				"per_page":                "100",
				"page":                    "1",
				"sparkline":               "false",
				"price_change_percentage": "24h",
			} {
				if got := q.Get(key); got != want {
					t.Errorf("query %s = %q, want %q", key, got, want)
				}
			}
			return jsonResponse(200, marketsBody), nil
		},
	})

	assets, err := client.ListMarkets(context.Background())
	if err != nil {
		t.Fatalf("ListMarkets failed: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}

	btc := assets[0]
	if btc.Symbol != "BTC" {
		t.Errorf("symbol not uppercased: %q", btc.Symbol)
	}
	if btc.MarketCapRank != 1 || btc.CurrentPrice != 67421.12 {
		t.Errorf("mapping mismatch: %+v", btc)
	}

	// Null rank/high/low/change collapse to zero values.
	myst := assets[1]
	if myst.MarketCapRank != 0 || myst.High24h != 0 || myst.PriceChange24hPct != 0 {
		t.Errorf("expected zeroed nullable fields, got %+v", myst)
	}
}

func TestClient_ListMarkets_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			calls++
			return jsonResponse(404, `{"error":"not found"}`), nil
		},
	})

	if _, err := client.ListMarkets(context.Background()); err == nil {
		t.Fatal("expected error on 404")
	}
	if calls != 1 {
		t.Errorf("404 should not be retried, got %d calls", calls)
	}
}

func TestClient_ListMarkets_ServerErrorRetried(t *testing.T) {
	calls := 0
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 2 {
				return jsonResponse(503, `oops`), nil
			}
			return jsonResponse(200, `[]`), nil
		},
	})

	assets, err := client.ListMarkets(context.Background())
	if err != nil {
		t.Fatalf("expected recovery on retry, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls (1 failure + 1 retry), got %d", calls)
	}
	if len(assets) != 0 {
		t.Errorf("expected empty list, got %d", len(assets))
	}
}

const coinBody = `{
	"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1,
	"description":{"en":"The first cryptocurrency."},
	"links":{"homepage":["","https://bitcoin.org",""]},
	"image":{"large":"https://img/btc-large.png","small":"https://img/btc.png"},
	"market_data":{
		"current_price":{"usd":67421.12},
		"market_cap":{"usd":1330000000000},
		"total_volume":{"usd":35100000000},
		"high_24h":{"usd":68000},
		"low_24h":{"usd":66000},
		"ath":{"usd":73750},
		"atl":{"usd":67.81},
		"price_change_percentage_24h":1.52,
		"price_change_percentage_7d":-3.1,
		"price_change_percentage_30d":12.9,
		"circulating_supply":19700000,
		"total_supply":21000000,
		"last_updated":"2024-03-01T12:30:45.123Z"
	}
}`

func TestClient_GetAsset(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			if req.URL.Path != "/api/v3/coins/bitcoin" {
				t.Errorf("unexpected path: %s", req.URL.Path)
			}
			q := req.URL.Query()
			if q.Get("market_data") != "true" || q.Get("localization") != "false" ||
				q.Get("tickers") != "false" || q.Get("community_data") != "false" {
				t.Errorf("unexpected query: %s", req.URL.RawQuery)
			}
			return jsonResponse(200, coinBody), nil
		},
	})

	detail, err := client.GetAsset(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}

	if detail.ID != "bitcoin" || detail.Symbol != "BTC" {
		t.Errorf("identity mismatch: %+v", detail.AssetSummary)
	}
	if detail.Description != "The first cryptocurrency." {
		t.Errorf("description mismatch: %q", detail.Description)
	}
	if detail.Homepage != "https://bitcoin.org" {
		t.Errorf("expected first non-empty homepage, got %q", detail.Homepage)
	}
	if detail.CurrentPrice != 67421.12 || detail.AllTimeHigh != 73750 {
		t.Errorf("market data not flattened: %+v", detail)
	}
	if detail.CirculatingSupply == nil || *detail.CirculatingSupply != 19700000 {
		t.Errorf("circulating supply mismatch: %v", detail.CirculatingSupply)
	}
	if detail.PriceChange7dPct != -3.1 || detail.PriceChange30dPct != 12.9 {
		t.Errorf("change percentages not flattened: %+v", detail)
	}
}

func TestClient_GetAsset_EmptyDescriptionUsesFallback(t *testing.T) {
	body := `{"id":"x","symbol":"x","name":"X","description":{"en":"  "},
		"links":{"homepage":[]},"market_data":{"current_price":{"usd":1}}}`
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, body), nil
		},
	})

	detail, err := client.GetAsset(context.Background(), "x")
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if detail.Description != descriptionFallback {
		t.Errorf("expected fallback description, got %q", detail.Description)
	}
	if detail.Homepage != "" {
		t.Errorf("expected empty homepage, got %q", detail.Homepage)
	}
}

func TestClient_GetAsset_MalformedBody(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, `{not json`), nil
		},
	})

	if _, err := client.GetAsset(context.Background(), "bitcoin"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_BreakerOpensAndRejects(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		Func: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(500, `oops`), nil
		},
	})

	// Default breaker opens after 3 failures; one list fetch burns all
	// of its retries against the failing upstream.
	if _, err := client.ListMarkets(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if client.breaker.GetState() != infra.StateOpen {
		t.Fatalf("expected breaker OPEN, got %s", client.breaker.GetState())
	}

	// Next request is rejected locally without touching the network.
	if _, err := client.GetAsset(context.Background(), "bitcoin"); err == nil {
		t.Fatal("expected rejection while breaker is open")
	}
}
