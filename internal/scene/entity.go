// Package scene provides the in-memory visual scene graph the
// reconcilers mutate and the viewer reads. It models attachment,
// transforms, and static collision participation; rendering itself is a
// downstream consumer.
package scene

import (
	"sync"

	"github.com/Faultbox/handroom/internal/collision"
	"github.com/Faultbox/handroom/pkg/math"
)

// Style is an entity's fixed visual appearance.
type Style struct {
	Color  [4]float32
	Radius float32
}

// Entity is a renderable node. Its lifecycle is owned by exactly one
// registry entry; detaching it from a root does not destroy it.
// Pose and collider writes come from one reconciler goroutine while the
// viewer snapshots concurrently, so those fields are mutex-guarded.
type Entity struct {
	name  string
	style Style

	mu         sync.Mutex
	pose       math.Transform
	collider   *collision.Shape
	staticBody bool
	targetable bool
}

// NewEntity creates a detached entity with the given style.
func NewEntity(name string, style Style) *Entity {
	return &Entity{
		name:  name,
		style: style,
		pose:  math.TransformIdentity(),
	}
}

// Name returns the entity's name.
func (e *Entity) Name() string {
	return e.name
}

// Style returns the entity's fixed style.
func (e *Entity) Style() Style {
	return e.style
}

// SetPose assigns the entity's world transform.
func (e *Entity) SetPose(pose math.Transform) {
	e.mu.Lock()
	e.pose = pose
	e.mu.Unlock()
}

// Pose returns the entity's world transform.
func (e *Entity) Pose() math.Transform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pose
}

// SetCollider attaches a static collision shape. The entity becomes an
// immovable physical body and a spatial-interaction target. Shapes are
// immutable; updates swap the pointer.
func (e *Entity) SetCollider(shape *collision.Shape) {
	e.mu.Lock()
	e.collider = shape
	e.staticBody = shape != nil
	e.targetable = shape != nil
	e.mu.Unlock()
}

// Collider returns the current collision shape, or nil.
func (e *Entity) Collider() *collision.Shape {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.collider
}

// StaticBody reports whether the entity participates in physics as an
// immovable collidable body.
func (e *Entity) StaticBody() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.staticBody
}

// Targetable reports whether the entity accepts spatial interaction.
func (e *Entity) Targetable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetable
}

// State is a point-in-time copy of an entity for the viewer.
type State struct {
	Name     string
	Style    Style
	Pose     math.Transform
	Collider *collision.Shape
}

// snapshot copies the entity's mutable state under its lock.
func (e *Entity) snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Name:     e.name,
		Style:    e.style,
		Pose:     e.pose,
		Collider: e.collider,
	}
}
