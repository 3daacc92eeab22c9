package ui

import (
	"fmt"
	"strings"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/controller"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/domain"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/pkg/moneyfmt"
)

const maxDescriptionLen = 500

func (m Model) View() string {
	st := m.ctrl.State()

	var b strings.Builder
	b.WriteString(m.renderHeader(st))
	b.WriteString("\n")

	if st.Selected != nil {
		b.WriteString(renderDetail(st.Selected))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("esc close · q quit"))
		b.WriteString("\n")
		return b.String()
	}

	if m.searching || st.SearchTerm != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderGrid(st))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · enter details · / search · r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderHeader(st controller.ViewState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Crypto Prices"))

	if !st.LastUpdatedAt.IsZero() {
		b.WriteString(dimStyle.Render(
			"  updated " + st.LastUpdatedAt.Format("15:04:05")))
	}
	if st.Loading {
		b.WriteString(dimStyle.Render("  refreshing…"))
	}
	b.WriteString("\n")

	if st.Err != "" {
		b.WriteString(errorBannerStyle.Render(st.Err+"  (press r to retry)") + "\n")
	}
	if st.Notice != "" {
		b.WriteString(noticeStyle.Render(st.Notice) + "\n")
	}
	return b.String()
}

func (m Model) renderGrid(st controller.ViewState) string {
	rows := domain.Filter(st.List, st.SearchTerm)

	if len(st.List) == 0 {
		if st.Loading {
			return dimStyle.Render("loading market data…") + "\n"
		}
		return dimStyle.Render("no market data yet") + "\n"
	}
	if len(rows) == 0 {
		// A filter with no hits is an empty grid, not an error.
		return dimStyle.Render(fmt.Sprintf("no results for %q", st.SearchTerm)) + "\n"
	}

	var b strings.Builder
	b.WriteString(headerRowStyle.Render(
		fmt.Sprintf(" %4s  %-6s %-18s %14s %10s %10s %10s",
			"#", "SYM", "NAME", "PRICE", "24H", "MCAP", "VOL")))
	b.WriteString("\n")

	for i, a := range rows {
		line := fmt.Sprintf(" %4s  %-6s %-18s %14s %10s %10s %10s",
			rank(a.MarketCapRank),
			a.Symbol,
			truncate(a.Name, 18),
			"$"+moneyfmt.Price(a.CurrentPrice),
			moneyfmt.Percent(a.PriceChange24hPct),
			moneyfmt.Magnitude(a.MarketCap),
			moneyfmt.Magnitude(a.TotalVolume24h),
		)

		switch {
		case i == m.cursor:
			line = selectedRowStyle.Render(line)
		case a.PriceChange24hPct > 0:
			line = upStyle.Render(line)
		case a.PriceChange24hPct < 0:
			line = downStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderDetail(d *domain.AssetDetail) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", d.Name, d.Symbol)))
	if d.MarketCapRank > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  rank #%d", d.MarketCapRank)))
	}
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Price", "$"+moneyfmt.Price(d.CurrentPrice))
	row("24h Change", colorPct(d.PriceChange24hPct))
	row("7d Change", colorPct(d.PriceChange7dPct))
	row("30d Change", colorPct(d.PriceChange30dPct))
	row("24h High/Low", "$"+moneyfmt.Price(d.High24h)+" / $"+moneyfmt.Price(d.Low24h))
	row("All-Time High", "$"+moneyfmt.Price(d.AllTimeHigh))
	row("All-Time Low", "$"+moneyfmt.Price(d.AllTimeLow))
	row("Market Cap", moneyfmt.Magnitude(d.MarketCap))
	row("24h Volume", moneyfmt.Magnitude(d.TotalVolume24h))
	row("Circulating", supply(d.CirculatingSupply))
	row("Total Supply", supply(d.TotalSupply))
	if d.Homepage != "" {
		row("Homepage", d.Homepage)
	}
	if ts, err := moneyfmt.Timestamp(d.LastUpdated); err == nil {
		row("Updated", ts)
	}

	b.WriteString("\n")
	b.WriteString(truncate(d.Description, maxDescriptionLen))
	b.WriteString("\n")

	return panelStyle.Render(b.String())
}

func colorPct(x float64) string {
	s := moneyfmt.Percent(x)
	if x > 0 {
		return upStyle.Render(s)
	}
	if x < 0 {
		return downStyle.Render(s)
	}
	return s
}

func supply(p *float64) string {
	if p == nil {
		return "—"
	}
	return moneyfmt.Magnitude(*p)[1:] // supply is a coin count, not dollars
}

func rank(r int) string {
	if r <= 0 {
		return "—"
	}
	return fmt.Sprintf("%d", r)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
