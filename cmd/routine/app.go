package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"routineshell/internal/catalog"
	"routineshell/internal/config"
	"routineshell/internal/controller"
	"routineshell/internal/exchange"
	"routineshell/internal/logger"
	"routineshell/internal/metrics"
	"routineshell/internal/output"
	"routineshell/internal/render"
	"routineshell/internal/selection"
	"routineshell/internal/storage"
)

// app holds the long-lived collaborators shared by every command.
type app struct {
	cfg        *config.Config
	catalog    *catalog.Index
	catalogErr error
	slot       storage.Slot
	store      *selection.Store
	exchanger  exchange.Exchanger
	metrics    *metrics.Metrics
	theme      *render.Theme
	markdown   *render.Markdown
	printer    *output.Printer
}

// newApp loads the catalog and opens storage. A catalog failure is not
// fatal: the app continues with an empty catalog and remembers the error.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, metrics: metrics.New()}

	a.catalog, a.catalogErr = loadCatalog(ctx, cfg.Catalog.Source)
	a.metrics.ObserveCatalogLoad(a.catalogErr)
	if a.catalogErr != nil {
		logger.Warn("Product catalog unavailable", "error", a.catalogErr)
	}

	slot, err := storage.NewSlot(ctx, storage.Driver(cfg.Storage.Driver),
		storage.WithPath(cfg.Storage.Path),
		storage.WithRedisAddr(cfg.Storage.RedisAddr),
		storage.WithPostgresDSN(cfg.Storage.PostgresDSN),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	a.slot = slot
	a.store = selection.New(slot, selection.WithKey(cfg.Storage.Key), selection.WithMetrics(a.metrics))

	a.exchanger, err = exchange.New(cfg, a.metrics)
	if err != nil {
		_ = slot.Close()
		return nil, err
	}

	renderer := lipgloss.NewRenderer(os.Stdout)
	if !output.SupportsColor() {
		renderer.SetColorProfile(termenv.Ascii)
	}
	a.theme, err = render.LoadTheme(cfg.Theme, renderer)
	if err != nil {
		logger.Warn("Falling back to plain theme", "error", err)
		a.theme = render.PlainTheme()
	}

	a.markdown, err = render.NewMarkdown(a.theme.Name, 80)
	if err != nil {
		logger.Debug("Markdown rendering disabled", "error", err)
	}

	a.printer = output.NewPrinter(output.WithStyles(a.theme))
	return a, nil
}

func loadCatalog(ctx context.Context, location string) (*catalog.Index, error) {
	src, err := catalog.OpenSource(ctx, location)
	if err != nil {
		return catalog.Empty(), err
	}
	idx, err := catalog.Load(ctx, src)
	if err != nil {
		return catalog.Empty(), err
	}
	return idx, nil
}

// formatter returns a Formatter sized for width.
func (a *app) formatter(width int) *render.Formatter {
	return render.NewFormatter(a.theme, a.markdown, width)
}

// newController creates a controller for view.
func (a *app) newController(view controller.View) (*controller.Controller, error) {
	opts := []controller.Option{
		controller.WithMetrics(a.metrics),
		controller.WithSystemPrompt(a.cfg.SystemPrompt),
	}
	if a.catalogErr != nil {
		opts = append(opts, controller.WithCatalogError(a.catalogErr))
	}
	return controller.New(a.catalog, a.store, a.exchanger, view, opts...)
}

// run calls fn while the metrics endpoint, when metrics_addr is set, serves
// alongside it. The endpoint is stopped once fn returns.
func (a *app) run(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.MetricsAddr != "" {
		g.Go(func() error {
			if err := a.metrics.Serve(gctx, a.cfg.MetricsAddr); err != nil {
				logger.Error("Metrics endpoint stopped", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return fn(gctx)
	})
	return g.Wait()
}

func (a *app) Close() error {
	if a.slot == nil {
		return nil
	}
	return a.slot.Close()
}
