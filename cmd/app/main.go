package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/app"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/coingecko"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/controller"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/ui"
)

func main() {
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer bootstrap.Close()

	cfg := bootstrap.Config

	ctrl := controller.New()

	// Show the last persisted snapshot immediately; the startup refresh
	// replaces it as soon as it lands.
	if assets, takenAt, err := bootstrap.Store.LoadAssets(context.Background()); err == nil {
		ctrl.Seed(assets, takenAt)
	} else {
		slog.Warn("Could not load market snapshot", slog.Any("error", err))
	}

	src := &app.CachingSource{
		Source: coingecko.NewClient(cfg),
		Store:  bootstrap.Store,
	}

	interval := time.Duration(cfg.API.CoinGecko.PollIntervalSec) * time.Second
	model := ui.New(ctrl, src, interval)

	slog.Info("Dashboard starting",
		slog.String("api", cfg.API.CoinGecko.BaseURL),
		slog.Duration("poll_interval", interval))

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("Dashboard crashed", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
