// Package coingecko is the typed HTTP client for the public CoinGecko v3
// API. It owns the process-wide rate limiter and a circuit breaker so no
// caller can hammer the endpoint while it is throttling or down.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/domain"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/infra"
)

const (
	// descriptionFallback substitutes for coins with no English description.
	descriptionFallback = "No description available."

	listRetries    = 3
	requestTimeout = 15 * time.Second
)

// Client talks to the CoinGecko REST API.
type Client struct {
	baseURL    string
	perPage    int
	httpClient *http.Client
	limiter    *infra.RateLimiter
	breaker    *infra.CircuitBreaker
}

// NewClient creates a CoinGecko client from configuration.
func NewClient(cfg *infra.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.API.CoinGecko.BaseURL, "/"),
		perPage: cfg.API.CoinGecko.TopAssets,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: infra.GetCoinGeckoLimiter(),
		breaker: infra.NewCircuitBreaker(infra.DefaultCircuitBreakerConfig("coingecko")),
	}
}

// ListMarkets fetches the top assets by descending market cap in USD, one
// page, no sparkline, 24h change included. Transient failures (transport
// errors, 429, 5xx) are retried with exponential backoff inside the call;
// a failure that survives the retries is the caller's to surface.
func (c *Client) ListMarkets(ctx context.Context) ([]domain.AssetSummary, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")
	endpoint := c.baseURL + "/coins/markets?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt < listRetries; attempt++ {
		if attempt > 0 {
			delay := infra.CalculateBackoff(attempt - 1)
			slog.Info("Retrying market list fetch",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		var records []marketRecord
		err := c.doGet(ctx, endpoint, &records)
		if err == nil {
			return mapSummaries(records), nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		slog.Warn("Market list fetch attempt failed",
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))
	}
	return nil, lastErr
}

// GetAsset fetches one coin with its market data and flattens the nested
// payload into an AssetDetail. Detail fetches are single-shot: a failure
// is non-fatal to the grid, so there is nothing worth retrying for.
func (c *Client) GetAsset(ctx context.Context, id string) (*domain.AssetDetail, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "false")
	endpoint := c.baseURL + "/coins/" + url.PathEscape(id) + "?" + q.Encode()

	var rec coinRecord
	if err := c.doGet(ctx, endpoint, &rec); err != nil {
		return nil, err
	}
	return mapDetail(&rec), nil
}

// httpStatusError marks non-2xx responses so the retry loop can separate
// throttling and server trouble from permanent client errors.
type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

func isTransient(err error) bool {
	if se, ok := err.(*httpStatusError); ok {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	// Transport and timeout errors are worth another try; decode errors
	// of a 200 body are not, but they are rare enough to not special-case.
	return true
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	if !c.breaker.Allow() {
		return fmt.Errorf("coingecko circuit open, request rejected")
	}
	c.limiter.Wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.breaker.RecordFailure()
		return &httpStatusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.RecordFailure()
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		// A 200 with an undecodable body still counts against the
		// breaker: the upstream is misbehaving either way.
		c.breaker.RecordFailure()
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.breaker.RecordSuccess()
	return nil
}

func mapSummaries(records []marketRecord) []domain.AssetSummary {
	out := make([]domain.AssetSummary, 0, len(records))
	for _, r := range records {
		out = append(out, domain.AssetSummary{
			ID:                r.ID,
			Symbol:            strings.ToUpper(r.Symbol),
			Name:              r.Name,
			CurrentPrice:      r.CurrentPrice,
			MarketCap:         r.MarketCap,
			MarketCapRank:     derefInt(r.MarketCapRank),
			TotalVolume24h:    r.TotalVolume,
			PriceChange24hPct: derefFloat(r.PriceChange24hPct),
			High24h:           derefFloat(r.High24h),
			Low24h:            derefFloat(r.Low24h),
			ImageURL:          r.Image,
			LastUpdated:       r.LastUpdated,
		})
	}
	return out
}

func mapDetail(rec *coinRecord) *domain.AssetDetail {
	md := &rec.MarketData

	detail := &domain.AssetDetail{
		AssetSummary: domain.AssetSummary{
			ID:                rec.ID,
			Symbol:            strings.ToUpper(rec.Symbol),
			Name:              rec.Name,
			CurrentPrice:      md.CurrentPrice["usd"],
			MarketCap:         md.MarketCap["usd"],
			MarketCapRank:     derefInt(rec.MarketCapRank),
			TotalVolume24h:    md.TotalVolume["usd"],
			PriceChange24hPct: md.PriceChange24hPct,
			High24h:           md.High24h["usd"],
			Low24h:            md.Low24h["usd"],
			ImageURL:          rec.Image.Large,
			LastUpdated:       md.LastUpdated,
		},
		Description:       descriptionFallback,
		PriceChange7dPct:  md.PriceChange7dPct,
		PriceChange30dPct: md.PriceChange30dPct,
		AllTimeHigh:       md.Ath["usd"],
		AllTimeLow:        md.Atl["usd"],
		CirculatingSupply: md.CirculatingSupply,
		TotalSupply:       md.TotalSupply,
	}

	if desc := strings.TrimSpace(rec.Description["en"]); desc != "" {
		detail.Description = desc
	}
	for _, link := range rec.Links.Homepage {
		if link != "" {
			detail.Homepage = link
			break
		}
	}

	return detail
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefFloat(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
