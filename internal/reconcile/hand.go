// Package reconcile keeps the visual scene graph in sync with live
// anchor streams. One reconciler per tracked-entity domain: hands and
// reconstructed surface meshes. Each consumes its own stream
// sequentially; the two share nothing but idempotent scene roots.
package reconcile

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/internal/scene"
)

// handStyles are the two fixed per-chirality appearances. A model is
// styled once at construction and never restyled.
var handStyles = [anchor.NumChiralities]scene.Style{
	anchor.Left:  {Color: [4]float32{0.35, 0.65, 1.0, 1.0}, Radius: 0.008},
	anchor.Right: {Color: [4]float32{1.0, 0.55, 0.25, 1.0}, Radius: 0.008},
}

// HandStyle returns the fixed appearance for a chirality.
func HandStyle(c anchor.Chirality) scene.Style {
	return handStyles[c]
}

// HandModel holds the persistent joint entities for one chirality.
// The registry is a fixed-size array populated eagerly at construction
// and never resized; entities are reused across every update.
type HandModel struct {
	chirality anchor.Chirality
	entities  [anchor.JointCount]*scene.Entity
}

func newHandModel(c anchor.Chirality) *HandModel {
	m := &HandModel{chirality: c}
	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		m.entities[id] = scene.NewEntity(c.String()+"/"+id.String(), handStyles[c])
	}
	return m
}

// Chirality returns which hand this model represents.
func (m *HandModel) Chirality() anchor.Chirality {
	return m.chirality
}

// JointEntity returns the persistent entity for a joint.
func (m *HandModel) JointEntity(id anchor.JointID) *scene.Entity {
	return m.entities[id]
}

// HandReconciler applies hand anchor events to 0-2 persistent hand
// models, attaching, detaching, and repositioning their joint entities
// on the shared scene root.
type HandReconciler struct {
	root *scene.Root
	log  *zap.Logger

	// mu guards models: the reconciler goroutine installs them, the
	// viewer reads them per frame. Models themselves are immutable
	// once created; only their entities carry mutable state.
	mu     sync.Mutex
	models [anchor.NumChiralities]*HandModel
}

// NewHandReconciler creates a reconciler that attaches joint entities
// to root. log may be nil.
func NewHandReconciler(root *scene.Root, log *zap.Logger) *HandReconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HandReconciler{root: root, log: log}
}

// Model returns the live model for a chirality, or nil if that hand has
// never been observed. The UI layer reads this to decide what to show.
func (r *HandReconciler) Model(c anchor.Chirality) *HandModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.models[c]
}

// Run consumes the event stream until it closes or ctx is cancelled.
// Events are applied strictly in order; the channel receive is the only
// suspension point, so cancellation never splits an event.
func (r *HandReconciler) Run(ctx context.Context, events <-chan anchor.Event[anchor.Hand]) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				r.log.Info("hand stream ended")
				return nil
			}
			r.Handle(ev)
		}
	}
}

// Handle applies a single hand anchor event.
func (r *HandReconciler) Handle(ev anchor.Event[anchor.Hand]) {
	c := ev.Anchor.Chirality

	switch ev.Kind {
	case anchor.Added:
		r.ensureModel(c)

	case anchor.Updated:
		// A model exists from the first observation of a chirality,
		// whichever event kind carries it.
		m := r.ensureModel(c)
		r.update(m, &ev.Anchor)

	case anchor.Removed:
		// Acknowledged only: transient loss arrives as untracked
		// updates, and models live for the whole session.
		r.log.Debug("hand anchor removed", zap.Stringer("chirality", c))
	}
}

func (r *HandReconciler) ensureModel(c anchor.Chirality) *HandModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.models[c] == nil {
		r.models[c] = newHandModel(c)
		r.log.Info("hand model created", zap.Stringer("chirality", c))
	}
	return r.models[c]
}

func (r *HandReconciler) update(m *HandModel, h *anchor.Hand) {
	if !h.Tracked || h.Skeleton == nil {
		r.detachAll(m)
		return
	}

	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		e := m.entities[id]

		// A joint's validity is independent of the anchor's: an
		// absent or individually untracked joint detaches its entity
		// and keeps its last transform.
		joint, ok := h.Joint(id)
		if !ok || !joint.Tracked {
			r.root.Detach(e)
			continue
		}

		r.root.Attach(e)
		e.SetPose(h.Origin.Mul(joint.Local))
	}
}

func (r *HandReconciler) detachAll(m *HandModel) {
	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		r.root.Detach(m.entities[id])
	}
	r.log.Debug("hand tracking lost", zap.Stringer("chirality", m.chirality))
}
