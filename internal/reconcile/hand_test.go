package reconcile

import (
	"context"
	gomath "math"
	"testing"

	"github.com/Faultbox/handroom/internal/anchor"
	"github.com/Faultbox/handroom/internal/scene"
	"github.com/Faultbox/handroom/pkg/math"
)

// trackedHand builds a fully-tracked hand payload with every joint at a
// distinct local offset.
func trackedHand(c anchor.Chirality, origin math.Transform) anchor.Hand {
	skeleton := make([]anchor.Joint, anchor.JointCount)
	for id := range skeleton {
		skeleton[id] = anchor.Joint{
			Local: math.Transform{
				Position: math.Vec3{X: float32(id) * 0.01},
				Rotation: math.QuatIdentity(),
			},
			Tracked: true,
		}
	}
	return anchor.Hand{
		Chirality: c,
		Origin:    origin,
		Tracked:   true,
		Skeleton:  skeleton,
	}
}

func handEvent(k anchor.Kind, h anchor.Hand) anchor.Event[anchor.Hand] {
	return anchor.Event[anchor.Hand]{Kind: k, Anchor: h}
}

func TestHandAddedCreatesDetachedModel(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	if r.Model(anchor.Left) != nil {
		t.Fatal("model should be absent before first observation")
	}

	r.Handle(handEvent(anchor.Added, anchor.Hand{Chirality: anchor.Left}))

	m := r.Model(anchor.Left)
	if m == nil {
		t.Fatal("model should exist after added event")
	}
	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		if m.JointEntity(id) == nil {
			t.Fatalf("joint %v has no entity", id)
		}
	}
	if root.Len() != 0 {
		t.Errorf("no entities should be attached after added, got %d", root.Len())
	}
	if r.Model(anchor.Right) != nil {
		t.Error("right model should not exist")
	}
}

func TestHandUpdateAttachesAllJointsWithComposedTransforms(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	origin := math.Transform{
		Position: math.Vec3{X: 10},
		Rotation: math.QuatFromAxisAngle(math.Vec3{Y: 1}, float32(gomath.Pi/2)),
	}
	h := trackedHand(anchor.Left, origin)

	r.Handle(handEvent(anchor.Added, anchor.Hand{Chirality: anchor.Left}))
	r.Handle(handEvent(anchor.Updated, h))

	m := r.Model(anchor.Left)
	if root.Len() != int(anchor.JointCount) {
		t.Fatalf("expected %d attached entities, got %d", anchor.JointCount, root.Len())
	}

	// World pose must be origin-then-local, not the reverse.
	id := anchor.IndexTip
	want := origin.Mul(h.Skeleton[id].Local).Position
	got := m.JointEntity(id).Pose().Position
	if got.Distance(want) > 0.0001 {
		t.Errorf("joint %v world position = %v, want %v", id, got, want)
	}
}

func TestHandTrackingLossDetachesEverything(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	r.Handle(handEvent(anchor.Updated, trackedHand(anchor.Left, math.TransformIdentity())))
	if root.Len() != int(anchor.JointCount) {
		t.Fatalf("precondition: expected all joints attached, got %d", root.Len())
	}

	r.Handle(handEvent(anchor.Updated, anchor.Hand{Chirality: anchor.Left, Tracked: false}))
	if root.Len() != 0 {
		t.Errorf("untracked anchor should detach all entities, got %d attached", root.Len())
	}

	// Losing tracking twice in a row is a no-op, not an error.
	r.Handle(handEvent(anchor.Updated, anchor.Hand{Chirality: anchor.Left, Tracked: false}))
	if root.Len() != 0 {
		t.Errorf("repeated loss should stay detached, got %d attached", root.Len())
	}
}

func TestHandMissingSkeletonDetaches(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	r.Handle(handEvent(anchor.Updated, trackedHand(anchor.Left, math.TransformIdentity())))

	// Tracked anchor but no skeleton payload: treated like loss.
	r.Handle(handEvent(anchor.Updated, anchor.Hand{Chirality: anchor.Left, Tracked: true}))
	if root.Len() != 0 {
		t.Errorf("skeleton-less update should detach all entities, got %d attached", root.Len())
	}
}

func TestPerJointIndependence(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	h := trackedHand(anchor.Left, math.TransformIdentity())
	r.Handle(handEvent(anchor.Updated, h))

	m := r.Model(anchor.Left)
	thumbPoseBefore := m.JointEntity(anchor.ThumbTip).Pose()

	// Thumb tip loses tracking and moves; index tip stays tracked and
	// moves. The same event must detach one and reposition the other.
	h.Skeleton[anchor.ThumbTip].Tracked = false
	h.Skeleton[anchor.ThumbTip].Local.Position = math.Vec3{X: 99}
	h.Skeleton[anchor.IndexTip].Local.Position = math.Vec3{X: 5}
	r.Handle(handEvent(anchor.Updated, h))

	thumb := m.JointEntity(anchor.ThumbTip)
	index := m.JointEntity(anchor.IndexTip)

	if root.Contains(thumb) {
		t.Error("untracked joint should be detached")
	}
	if thumb.Pose() != thumbPoseBefore {
		t.Error("untracked joint's transform must not be updated")
	}
	if !root.Contains(index) {
		t.Error("tracked joint should remain attached")
	}
	if index.Pose().Position.X != 5 {
		t.Errorf("tracked joint position = %v, want X=5", index.Pose().Position)
	}
}

func TestFixedJointSetStableAcrossUpdates(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	r.Handle(handEvent(anchor.Added, anchor.Hand{Chirality: anchor.Right}))
	m := r.Model(anchor.Right)

	var before [anchor.JointCount]*scene.Entity
	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		before[id] = m.JointEntity(id)
	}

	for i := 0; i < 5; i++ {
		r.Handle(handEvent(anchor.Updated, trackedHand(anchor.Right, math.TransformIdentity())))
		r.Handle(handEvent(anchor.Updated, anchor.Hand{Chirality: anchor.Right}))
	}

	if r.Model(anchor.Right) != m {
		t.Fatal("model must persist across updates")
	}
	for id := anchor.JointID(0); id < anchor.JointCount; id++ {
		if m.JointEntity(id) != before[id] {
			t.Errorf("joint %v entity was reallocated", id)
		}
	}
}

func TestHandShortSkeletonSkipsMissingJoints(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	// A payload covering only the first three joints: the rest detach,
	// nothing panics.
	h := trackedHand(anchor.Left, math.TransformIdentity())
	h.Skeleton = h.Skeleton[:3]
	r.Handle(handEvent(anchor.Updated, h))

	if root.Len() != 3 {
		t.Errorf("expected 3 attached entities, got %d", root.Len())
	}
}

func TestHandRemovedIsAcknowledgedOnly(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	r.Handle(handEvent(anchor.Updated, trackedHand(anchor.Left, math.TransformIdentity())))
	attached := root.Len()

	r.Handle(handEvent(anchor.Removed, anchor.Hand{Chirality: anchor.Left}))

	if r.Model(anchor.Left) == nil {
		t.Error("removed must not destroy the model")
	}
	if root.Len() != attached {
		t.Errorf("removed must not mutate attachment: had %d, got %d", attached, root.Len())
	}
}

func TestChiralitiesHaveDisjointStyles(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	r.Handle(handEvent(anchor.Added, anchor.Hand{Chirality: anchor.Left}))
	r.Handle(handEvent(anchor.Added, anchor.Hand{Chirality: anchor.Right}))

	left := r.Model(anchor.Left).JointEntity(anchor.Wrist).Style()
	right := r.Model(anchor.Right).JointEntity(anchor.Wrist).Style()
	if left.Color == right.Color {
		t.Error("left and right hands must have disjoint styles")
	}
}

func TestHandRunConsumesUntilClose(t *testing.T) {
	root := scene.NewRoot("hands")
	r := NewHandReconciler(root, nil)

	events := make(chan anchor.Event[anchor.Hand], 2)
	events <- handEvent(anchor.Added, anchor.Hand{Chirality: anchor.Left})
	events <- handEvent(anchor.Updated, trackedHand(anchor.Left, math.TransformIdentity()))
	close(events)

	if err := r.Run(context.Background(), events); err != nil {
		t.Fatalf("Run returned error on clean close: %v", err)
	}
	if root.Len() != int(anchor.JointCount) {
		t.Errorf("events not applied in order: %d attached", root.Len())
	}
}

func TestHandRunCancellation(t *testing.T) {
	r := NewHandReconciler(scene.NewRoot("hands"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, make(chan anchor.Event[anchor.Hand]))
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
