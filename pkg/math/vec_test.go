package math

import (
	"math"
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{3, 4, 5}
	got := a.Add(b)
	want := Vec3{4, 6, 8}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	got := v.Length()
	want := 7.0
	if got != want {
		t.Errorf("Vec3.Length() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, -4, 12}
	n := v.Normalize()
	l := n.Length()
	if math.Abs(l-1) > 1e-12 {
		t.Errorf("Vec3.Normalize().Length() = %v, want 1", l)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero vector normalized to %v", z)
	}
}

func TestVec3Cross(t *testing.T) {
	got := UnitX.Cross(UnitY)
	if got != UnitZ {
		t.Errorf("Vec3.Cross() = %v, want %v", got, UnitZ)
	}
}

func TestVec3Neg(t *testing.T) {
	v := Vec3{1, -2, 3}
	if got := v.Neg(); got != (Vec3{-1, 2, -3}) {
		t.Errorf("Vec3.Neg() = %v", got)
	}
	if got := v.Add(v.Neg()); !got.IsZero() {
		t.Errorf("v + -v = %v, want zero", got)
	}
}

func TestVec3Roll(t *testing.T) {
	tests := []struct {
		in, want Vec3
	}{
		{Vec3{1, 2, 3}, Vec3{2, 3, 1}},
		{UnitX, UnitZ},
		{UnitZ, UnitY},
	}

	for _, tt := range tests {
		if got := tt.in.Roll(); got != tt.want {
			t.Errorf("%v.Roll() = %v, want %v", tt.in, got, tt.want)
		}
	}

	v := Vec3{7, 8, 9}
	if got := v.Roll().Roll().Roll(); got != v {
		t.Errorf("three rolls = %v, want %v", got, v)
	}
}

func TestVec3ApproxEqual(t *testing.T) {
	a := Vec3{1, 1, 1}
	b := Vec3{1 + 1e-10, 1, 1 - 1e-10}
	if !a.ApproxEqual(b, 1e-9) {
		t.Error("expected vectors to be approximately equal")
	}
	if a.ApproxEqual(Vec3{1, 1, 1.1}, 1e-9) {
		t.Error("expected vectors to differ")
	}
}

func TestFromSlice(t *testing.T) {
	v := FromSlice([]float64{4, 5, 6})
	if v != (Vec3{4, 5, 6}) {
		t.Errorf("FromSlice() = %v", v)
	}
	if s := v.Slice(); len(s) != 3 || s[2] != 6 {
		t.Errorf("Slice() = %v", s)
	}
}
