package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/internal/collision"
	"github.com/Faultbox/handroom/internal/scene"
)

var meshStyle = scene.Style{Color: [4]float32{0.6, 0.6, 0.65, 0.35}}

// ShapeFunc derives a collision shape from mesh geometry. Derivation is
// fallible; a failure skips the event rather than halting the stream.
type ShapeFunc func(anchor.MeshGeometry) (*collision.Shape, error)

// MeshReconciler maintains one visual entity per currently-visible
// surface patch, keyed by anchor id, in one-to-one correspondence with
// anchor lifetime: created on added, mutated on updated, destroyed on
// removed.
type MeshReconciler struct {
	root   *scene.Root
	derive ShapeFunc
	log    *zap.Logger

	entries map[uint64]*scene.Entity
}

// NewMeshReconciler creates a reconciler that attaches patch entities
// to root. derive defaults to collision.FromMesh; log may be nil.
func NewMeshReconciler(root *scene.Root, derive ShapeFunc, log *zap.Logger) *MeshReconciler {
	if derive == nil {
		derive = collision.FromMesh
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MeshReconciler{
		root:    root,
		derive:  derive,
		log:     log,
		entries: make(map[uint64]*scene.Entity),
	}
}

// Root returns the content root aggregating all live patch entities.
func (r *MeshReconciler) Root() *scene.Root {
	return r.root
}

// Len returns the number of registered patches.
func (r *MeshReconciler) Len() int {
	return len(r.entries)
}

// Run consumes the event stream until it closes or ctx is cancelled.
func (r *MeshReconciler) Run(ctx context.Context, events <-chan anchor.Event[anchor.Mesh]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				r.log.Info("mesh stream ended")
				return nil
			}
			r.Handle(ev)
		}
	}
}

// Handle applies a single mesh anchor event.
func (r *MeshReconciler) Handle(ev anchor.Event[anchor.Mesh]) {
	m := &ev.Anchor

	// Removal needs only the anchor id. Gating it on geometry
	// derivation would leak the entity whenever a patch's final
	// geometry is degenerate, so it branches before derivation.
	if ev.Kind == anchor.Removed {
		e, ok := r.entries[m.ID]
		if !ok {
			return
		}
		r.root.Detach(e)
		delete(r.entries, m.ID)
		r.log.Debug("mesh patch removed", zap.Uint64("id", m.ID))
		return
	}

	shape, err := r.derive(m.Geometry)
	if err != nil {
		// Silent-skip policy: one malformed patch never halts the
		// stream, and no partial entity state is left behind.
		r.log.Debug("skipping mesh event, shape derivation failed",
			zap.Uint64("id", m.ID),
			zap.Stringer("kind", ev.Kind),
			zap.Error(err),
		)
		return
	}

	switch ev.Kind {
	case anchor.Added:
		e := scene.NewEntity(fmt.Sprintf("mesh/%d", m.ID), meshStyle)
		e.SetPose(m.Origin)
		e.SetCollider(shape)
		r.entries[m.ID] = e
		r.root.Attach(e)
		r.log.Debug("mesh patch added",
			zap.Uint64("id", m.ID),
			zap.Int("triangles", shape.TriangleCount()),
		)

	case anchor.Updated:
		e, ok := r.entries[m.ID]
		if !ok {
			// The anchor lifecycle guarantees added precedes updated.
			// Continuing would desynchronize the registry, so this is
			// an assertion, not a recoverable error.
			panic(fmt.Sprintf("reconcile: update for unknown mesh anchor %d", m.ID))
		}
		e.SetPose(m.Origin)
		e.SetCollider(shape)
	}
}
