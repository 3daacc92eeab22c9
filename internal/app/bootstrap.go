package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/controller"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/domain"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/infra"
	"github.com/Starship01-akaSniper/crypto-prices-dashboard/internal/storage"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config *infra.Config
	Store  *storage.SnapshotStore

	logFile *os.File
	unlock  func()
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, sets up logging and opens the snapshot store.
func (b *Bootstrap) Initialize() error {
	// 1. Config: a missing file is fine (built-in defaults), a broken
	// one is not.
	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg = infra.DefaultConfig()
	}
	b.Config = cfg

	// 2. Workspace directories.
	workDir := infra.GetWorkspaceDir()
	dataDir := filepath.Join(workDir, "data")
	logDir := filepath.Join(workDir, "logs")
	if err := infra.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := infra.EnsureDir(logDir); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	// 3. Single-instance lock: two processes sharing one snapshot DB is
	// asking for corruption.
	unlock, err := infra.CreateLockFile(workDir)
	if err != nil {
		return err
	}
	b.unlock = unlock

	// 4. Logger. The TUI owns the terminal, so logs go to a file.
	logPath := filepath.Join(logDir, "dashboard.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	b.logFile = logFile
	slog.SetDefault(infra.NewLogger(cfg, logFile))

	// 5. Snapshot store.
	dbPath := filepath.Join(dataDir, "snapshots.db")
	store, err := storage.NewSnapshotStore(dbPath)
	if err != nil {
		return err
	}
	b.Store = store
	slog.Info("Snapshot store ready", slog.String("path", dbPath))

	return nil
}

// Close releases the store, the instance lock and the log file.
func (b *Bootstrap) Close() {
	if b.Store != nil {
		b.Store.Close()
	}
	if b.unlock != nil {
		b.unlock()
	}
	if b.logFile != nil {
		b.logFile.Close()
	}
}

// CachingSource decorates a market source so every successful bulk fetch
// is persisted; the next startup seeds the grid with it.
type CachingSource struct {
	Source controller.MarketSource
	Store  *storage.SnapshotStore
}

func (c *CachingSource) ListMarkets(ctx context.Context) ([]domain.AssetSummary, error) {
	assets, err := c.Source.ListMarkets(ctx)
	if err != nil {
		return nil, err
	}
	if c.Store != nil {
		if serr := c.Store.SaveAssets(ctx, assets, time.Now()); serr != nil {
			slog.Warn("Failed to persist market snapshot", slog.Any("error", serr))
		}
	}
	return assets, nil
}

func (c *CachingSource) GetAsset(ctx context.Context, id string) (*domain.AssetDetail, error) {
	return c.Source.GetAsset(ctx, id)
}
