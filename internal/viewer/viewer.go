// Package viewer renders the reconciled scene in a debug window: hand
// joints as points, bones as lines, and reconstructed room meshes as
// wireframes. It is a diagnostic surface, not a product renderer.
package viewer

import (
	"context"
	"log/slog"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/internal/reconcile"
	"github.com/Faultbox/handroom/internal/scene"
)

// Config holds viewer settings.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	ShowHands  bool
	ShowMeshes bool
}

// Viewer owns the window, renderer and camera, and draws whatever the
// reconcilers have attached to the scene roots. It reads the roots
// through snapshots only, so the reconciler goroutines never block on
// the frame rate.
type Viewer struct {
	config Config

	window   *window
	renderer *renderer
	camera   *OrbitCamera
	input    *input

	hands       *reconcile.HandReconciler
	handsRoot   *scene.Root
	contentRoot *scene.Root

	showHands  bool
	showMeshes bool
	dragging   bool
	panning    bool
	running    bool
}

// New creates the viewer. Must be called on the main thread.
func New(cfg Config, hands *reconcile.HandReconciler, handsRoot *scene.Root, contentRoot *scene.Root) (*Viewer, error) {
	v := &Viewer{
		config:      cfg,
		hands:       hands,
		handsRoot:   handsRoot,
		contentRoot: contentRoot,
		showHands:   cfg.ShowHands,
		showMeshes:  cfg.ShowMeshes,
	}

	var err error
	v.window, err = newWindow(windowConfig{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Fullscreen: cfg.Fullscreen,
		VSync:      cfg.VSync,
	})
	if err != nil {
		return nil, err
	}

	v.renderer, err = newRenderer(cfg.Width, cfg.Height)
	if err != nil {
		v.window.Close()
		return nil, err
	}

	v.camera = NewOrbitCamera()
	v.input = newInput()

	return v, nil
}

// Close releases the renderer and window.
func (v *Viewer) Close() {
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

// Run drives the frame loop until the window closes, Escape is pressed,
// or ctx is cancelled. Must run on the main thread.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	slog.Info("starting viewer loop")

	for v.running {
		select {
		case <-ctx.Done():
			v.running = false
			continue
		default:
		}

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			slog.Debug("fps", "count", frameCount, "meshes", v.contentRoot.Len())
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return ctx.Err()
}

func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case eventWindowResize:
			v.renderer.Resize(e.Width, e.Height)

		case eventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_H:
				v.showHands = !v.showHands
				slog.Info("toggled hand layer", "visible", v.showHands)
			case sdl.SCANCODE_M:
				v.showMeshes = !v.showMeshes
				slog.Info("toggled mesh layer", "visible", v.showMeshes)
			}

		case eventMouseDown:
			switch e.Button {
			case sdl.BUTTON_LEFT:
				v.dragging = true
			case sdl.BUTTON_MIDDLE, sdl.BUTTON_RIGHT:
				v.panning = true
			}

		case eventMouseUp:
			switch e.Button {
			case sdl.BUTTON_LEFT:
				v.dragging = false
			case sdl.BUTTON_MIDDLE, sdl.BUTTON_RIGHT:
				v.panning = false
			}

		case eventMouseMove:
			if v.dragging {
				v.camera.HandleDrag(float32(e.RelX), float32(e.RelY))
			} else if v.panning {
				v.camera.HandlePan(float32(e.RelX), float32(e.RelY))
			}

		case eventMouseWheel:
			v.camera.HandleZoom(e.WheelY)
		}
	}
}

func (v *Viewer) render() {
	v.renderer.Begin()

	proj := v.renderer.Projection()
	view := v.camera.ViewMatrix()
	viewProj := proj.Mul(view)

	lines := gridVertices(3, 0.25, [4]float32{0.22, 0.24, 0.28, 1})

	if v.showMeshes {
		states := v.contentRoot.Snapshot()
		lines = append(lines, wireframeVertices(states)...)
		lines = append(lines, boundsVertices(states, [4]float32{0.3, 0.6, 0.4, 0.35})...)
	}

	var points []float32
	if v.showHands {
		for c := anchor.Chirality(0); c < anchor.NumChiralities; c++ {
			model := v.hands.Model(c)
			if model == nil {
				continue
			}
			style := reconcile.HandStyle(c)
			bone := style.Color
			bone[3] *= 0.7
			lines = append(lines, boneVertices(model, v.handsRoot, bone)...)
		}
		points = pointVertices(v.handsRoot.Snapshot())
	}

	v.renderer.DrawLines(viewProj, lines)

	// Point scale tuned so a joint reads as a small bead at arm's length.
	v.renderer.DrawPoints(viewProj, points, 14)
}
