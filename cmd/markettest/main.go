// Command markettest is a one-shot probe of the market API: it fetches
// the top assets once and prints the grid to stdout. Useful for checking
// connectivity and the formatters without starting the TUI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/coingecko"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/infra"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/pkg/moneyfmt"
)

func main() {
	slog.SetDefault(infra.NewLogger(infra.DefaultConfig(), os.Stderr))

	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		cfg = infra.DefaultConfig()
	}

	infra.PrintBanner(cfg)

	client := coingecko.NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	assets, err := client.ListMarkets(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%4s  %-6s %-20s %16s %10s %10s\n", "#", "SYM", "NAME", "PRICE", "24H", "MCAP")
	for _, a := range assets {
		fmt.Printf("%4d  %-6s %-20s %16s %10s %10s\n",
			a.MarketCapRank,
			a.Symbol,
			a.Name,
			"$"+moneyfmt.Price(a.CurrentPrice),
			moneyfmt.Percent(a.PriceChange24hPct),
			moneyfmt.Magnitude(a.MarketCap),
		)
	}

	fmt.Printf("\n%d assets fetched from %s\n", len(assets), cfg.API.CoinGecko.BaseURL)
}
