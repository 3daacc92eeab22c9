// Package controller owns the dashboard view state and every transition
// on it. All mutations go through named, atomic methods so the UI layer
// never touches state directly and tests can drive transitions without a
// terminal.
//
// Fetches are asynchronous, and nothing prevents overlap: a manual
// refresh can race a timer-triggered one, and rapid re-selection races
// detail fetches. Every started operation therefore carries a
// monotonically increasing token, and a response is discarded unless its
// token is the latest issued. That turns "last response to resolve wins"
// into the defined policy "last requested wins".
package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/domain"
)

// ErrRefreshMessage is the fixed user-facing text shown in the error
// banner. The underlying cause goes to the log, never to the screen.
const ErrRefreshMessage = "Could not load market data. Check your connection and retry."

// MarketSource is what the controller fetches from. *coingecko.Client
// satisfies it; tests substitute stubs.
type MarketSource interface {
	ListMarkets(ctx context.Context) ([]domain.AssetSummary, error)
	GetAsset(ctx context.Context, id string) (*domain.AssetDetail, error)
}

// ViewState is the single mutable state of the dashboard. Reads get a
// copy; the List slice is replaced wholesale on refresh and never mutated
// in place.
type ViewState struct {
	List          []domain.AssetSummary
	Loading       bool
	Err           string // "" when clear; never populated while Loading
	SearchTerm    string
	Selected      *domain.AssetDetail
	Notice        string // transient, e.g. a failed detail fetch
	LastUpdatedAt time.Time
}

// Controller serializes all writes to the view state behind one mutex.
type Controller struct {
	mu    sync.Mutex
	state ViewState

	refreshSeq uint64 // token of the latest issued refresh
	detailSeq  uint64 // token of the latest issued detail fetch
	detailID   string // id the latest detail token was issued for
}

// New returns a controller with empty state.
func New() *Controller {
	return &Controller{}
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Seed installs a persisted snapshot as the initial list without touching
// the loading or error flags. Used once at startup.
func (c *Controller) Seed(assets []domain.AssetSummary, takenAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(assets) == 0 {
		return
	}
	c.state.List = assets
	c.state.LastUpdatedAt = takenAt
}

// StartRefresh marks the start of a refresh cycle: loading on, error
// cleared. Returns the token the eventual response must present.
func (c *Controller) StartRefresh() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Loading = true
	c.state.Err = ""
	c.refreshSeq++
	return c.refreshSeq
}

// ApplyRefresh completes a refresh cycle. A stale token mutates nothing
// and returns false. On success the list is replaced wholesale; on
// failure the prior list stays visible underneath the error banner.
func (c *Controller) ApplyRefresh(token uint64, assets []domain.AssetSummary, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.refreshSeq {
		slog.Debug("Discarding stale refresh response",
			slog.Uint64("token", token),
			slog.Uint64("latest", c.refreshSeq))
		return false
	}

	c.state.Loading = false
	if err != nil {
		slog.Error("Market refresh failed", slog.Any("error", err))
		c.state.Err = ErrRefreshMessage
		return true
	}

	c.state.List = assets
	c.state.Err = ""
	c.state.LastUpdatedAt = time.Now()
	return true
}

// StartDetail issues a token for a detail fetch of id.
func (c *Controller) StartDetail(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detailSeq++
	c.detailID = id
	return c.detailSeq
}

// ApplyDetail completes a detail fetch. Stale tokens are discarded. A
// failure never touches Err or Selected: the grid stays usable, and the
// user sees a transient notice instead of a silent no-op.
func (c *Controller) ApplyDetail(token uint64, detail *domain.AssetDetail, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.detailSeq {
		slog.Debug("Discarding stale detail response",
			slog.Uint64("token", token),
			slog.Uint64("latest", c.detailSeq))
		return false
	}

	if err != nil {
		slog.Warn("Detail fetch failed",
			slog.String("id", c.detailID),
			slog.Any("error", err))
		c.state.Notice = "Could not load details for " + c.detailID
		return true
	}

	c.state.Selected = detail
	c.state.Notice = ""
	return true
}

// Deselect closes the detail panel and discards the detail model.
func (c *Controller) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Selected = nil
	// Invalidate any in-flight detail fetch so it cannot re-open the
	// panel after the user closed it.
	c.detailSeq++
}

// SetSearch records the current search term. Filtering itself is pure
// (domain.Filter) and happens at render time.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SearchTerm = term
}

// ClearNotice drops the transient notice.
func (c *Controller) ClearNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Notice = ""
}

// Refresh runs one full refresh cycle against src: start, fetch, apply.
// Returns false when the response lost the token race.
func (c *Controller) Refresh(ctx context.Context, src MarketSource) bool {
	token := c.StartRefresh()
	assets, err := src.ListMarkets(ctx)
	return c.ApplyRefresh(token, assets, err)
}

// FetchDetail runs one detail fetch cycle for id.
func (c *Controller) FetchDetail(ctx context.Context, src MarketSource, id string) bool {
	token := c.StartDetail(id)
	detail, err := src.GetAsset(ctx, id)
	return c.ApplyDetail(token, detail, err)
}
