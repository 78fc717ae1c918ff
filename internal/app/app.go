// Package app wires the core services and adapters together and owns their
// lifecycle. It is the only package that knows about concrete adapter types.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lcalzada-xor/bmap/internal/adapters/presentation"
	"github.com/lcalzada-xor/bmap/internal/adapters/reporting"
	"github.com/lcalzada-xor/bmap/internal/adapters/storage"
	"github.com/lcalzada-xor/bmap/internal/config"
	"github.com/lcalzada-xor/bmap/internal/core/services/match"
	"github.com/lcalzada-xor/bmap/internal/core/services/registry"
	"github.com/lcalzada-xor/bmap/internal/core/services/scan"
	"github.com/lcalzada-xor/bmap/internal/mock"
	"github.com/lcalzada-xor/bmap/internal/telemetry"
)

// Application holds the core components and acts as the facade for the
// whole system.
type Application struct {
	Config     *config.Config
	Registry   *registry.AssetRegistry
	Controller *scan.Controller
	LabelStore *storage.SQLiteLabelStore

	log zerolog.Logger
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	app := &Application{
		Config: cfg,
		log:    log,
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	if err := os.MkdirAll(filepath.Dir(app.Config.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create DB directory: %w", err)
	}
	store, err := storage.NewSQLiteLabelStore(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init label store: %w", err)
	}
	app.LabelStore = store

	profiles, err := app.Config.LoadProfiles()
	if err != nil {
		return err
	}
	app.log.Info().Int("profiles", len(profiles)).Msg("device profiles loaded")

	matcher := match.New(profiles, app.log)

	app.Registry = registry.New(store, app.Config.Thresholds(), app.log)
	app.Registry.AddObserver(presentation.NewLogSink(app.log))

	// The shipped scan source is the simulation; host BLE adapters plug in
	// through ports.ScanSource.
	source := mock.NewSource(app.Config.MockBeacons, app.Config.EmitInterval())

	app.Controller = scan.New(source, app.Registry, matcher, app.Config.SweepPeriod(), app.log)
	return nil
}

// Run starts scanning and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if err := app.Controller.Start(ctx); err != nil {
		return err
	}
	app.log.Info().Msg("bmap ready")

	<-ctx.Done()
	app.log.Info().Msg("termination signal received")
	return app.cleanup()
}

func (app *Application) cleanup() error {
	if err := app.Controller.Stop(); err != nil {
		app.log.Warn().Err(err).Msg("scan controller stop reported an error")
	}

	if app.Config.ReportPath != "" {
		if err := app.writeReport(); err != nil {
			app.log.Error().Err(err).Msg("failed to write inventory report")
		}
	}

	return app.LabelStore.Close()
}

func (app *Application) writeReport() error {
	snaps := app.Registry.Snapshots(context.Background())
	data, err := reporting.NewPDFExporter().ExportInventory(snaps, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(app.Config.ReportPath, data, 0644); err != nil {
		return err
	}
	app.log.Info().Str("path", app.Config.ReportPath).Int("assets", len(snaps)).Msg("inventory report written")
	return nil
}
