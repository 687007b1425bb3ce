package math

import (
	"math"
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{3, 4, 0}
	got := v.Length()
	want := float32(5)
	if math.Abs(float64(got-want)) > 0.0001 {
		t.Errorf("Vec3.Length() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	if math.Abs(float64(n.Length()-1)) > 0.0001 {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}

	// Zero vector normalizes to zero, not NaN
	z := Vec3{}.Normalize()
	if z != (Vec3{}) {
		t.Errorf("zero vector normalize = %v, want zero", z)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("X cross Y = %v, want %v", got, want)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}
	got := a.Lerp(b, 0.5)
	want := Vec3{5, 10, 15}
	if got != want {
		t.Errorf("Vec3.Lerp() = %v, want %v", got, want)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	nan := float32(math.NaN())
	if (Vec3{nan, 0, 0}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	inf := float32(math.Inf(1))
	if (Vec3{0, inf, 0}).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}
