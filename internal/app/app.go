// Package app wires the tracking source, reconcilers, scene roots and
// optional viewer into one runnable unit.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/handroom/internal/config"
	"github.com/Faultbox/handroom/internal/reconcile"
	"github.com/Faultbox/handroom/internal/scene"
	"github.com/Faultbox/handroom/internal/track"
	"github.com/Faultbox/handroom/internal/viewer"
)

// App owns the full pipeline: one source feeding two per-domain
// reconciler loops, plus the viewer when not headless.
type App struct {
	cfg *config.Config
	log *zap.Logger

	source track.Source

	handsRoot   *scene.Root
	contentRoot *scene.Root
	hands       *reconcile.HandReconciler
	meshes      *reconcile.MeshReconciler

	viewer *viewer.Viewer
}

// New builds the pipeline from config. log may be nil.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		cfg:         cfg,
		log:         log,
		handsRoot:   scene.NewRoot("hands"),
		contentRoot: scene.NewRoot("content"),
	}

	src, err := newSource(cfg.Tracking)
	if err != nil {
		return nil, err
	}
	a.source = src

	a.hands = reconcile.NewHandReconciler(a.handsRoot, log.Named("hands"))
	a.meshes = reconcile.NewMeshReconciler(a.contentRoot, nil, log.Named("meshes"))

	if !cfg.Viewer.Headless {
		a.viewer, err = viewer.New(viewer.Config{
			Title:      "handroom",
			Width:      cfg.Viewer.Width,
			Height:     cfg.Viewer.Height,
			Fullscreen: cfg.Viewer.Fullscreen,
			VSync:      cfg.Viewer.VSync,
			ShowHands:  cfg.Viewer.ShowHands,
			ShowMeshes: cfg.Viewer.ShowMeshes,
		}, a.hands, a.handsRoot, a.contentRoot)
		if err != nil {
			return nil, fmt.Errorf("creating viewer: %w", err)
		}
	}

	log.Info("pipeline assembled",
		zap.String("source", cfg.Tracking.Source),
		zap.Bool("headless", cfg.Viewer.Headless),
	)
	return a, nil
}

// newSource builds the configured anchor source.
func newSource(cfg config.TrackingConfig) (track.Source, error) {
	switch cfg.Source {
	case "synthetic":
		return track.NewSynthetic(cfg.RateHz), nil
	case "replay":
		return track.NewReplay(cfg.ReplayPath, true, cfg.ReplayLoop), nil
	case "feed":
		return track.NewFeed(cfg.FeedAddr, cfg.ConnectTimeout), nil
	default:
		return nil, fmt.Errorf("unknown tracking source %q", cfg.Source)
	}
}

// HandsRoot returns the root the hand reconciler attaches to.
func (a *App) HandsRoot() *scene.Root {
	return a.handsRoot
}

// ContentRoot returns the root the mesh reconciler attaches to.
func (a *App) ContentRoot() *scene.Root {
	return a.contentRoot
}

// Close releases the viewer if one was created.
func (a *App) Close() {
	if a.viewer != nil {
		a.viewer.Close()
	}
}

// Run drives the pipeline until ctx is cancelled, the viewer is closed,
// or the source ends (headless). Must be called on the main thread when
// a viewer exists.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var errs error
	collect := func(err error) {
		// Cancellation and deadline expiry are normal teardown, not
		// pipeline failures.
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
		cancel()
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		collect(a.source.Run(ctx))
	}()
	go func() {
		defer wg.Done()
		collect(a.hands.Run(ctx, a.source.Hands()))
	}()
	go func() {
		defer wg.Done()
		collect(a.meshes.Run(ctx, a.source.Meshes()))
	}()

	pipelineDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(pipelineDone)
	}()

	if a.viewer != nil {
		// The viewer owns the main thread; closing the window tears
		// down the rest of the pipeline.
		collect(a.viewer.Run(ctx))
		cancel()
	} else {
		select {
		case <-ctx.Done():
		case <-pipelineDone:
			a.log.Info("source ended, shutting down")
		}
	}

	cancel()
	<-pipelineDone

	mu.Lock()
	defer mu.Unlock()
	return errs
}
