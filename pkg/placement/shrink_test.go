package placement

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	opts := Options{}.WithDefaults()
	placed := Item{
		Kind:        Sphere,
		HalfExtents: Vec3{X: 0.2, Y: 0.2, Z: 0.2},
		Center:      Vec3{X: 0, Y: 0, Z: 0.2},
	}
	ext := Vec3{X: 0.2, Y: 0.2, Z: 0.2}

	tests := []struct {
		name string
		kind Kind
		x, y float64
		want float64
	}{
		{"box separated along x", Box, 0.6, 0, 0.9 * 2},
		{"box separated along y", Box, 0, 0.5, 0.9 * 1.5},
		{"sphere separated along x", Sphere, 0.6, 0, 0.9 * 2},
		{"sphere y distance is halved", Sphere, 0, 0.5, 0.9 * 0.25},
		{"sphere far along y", Sphere, 0, 0.8, 0.9 * 1},
		{"coincident centres", Box, 0, 0, 0.9 * -1},
		{"larger axis wins", Box, 0.3, 0.6, 0.9 * 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ratio(tt.kind, ext, tt.x, tt.y, placed, opts)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Ratio(%v, %v, %v) = %v, want %v", tt.kind, tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRatioUsesCandidateExtents(t *testing.T) {
	opts := Options{}.WithDefaults()
	placed := Item{HalfExtents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}}

	small := Ratio(Box, Vec3{X: 0.1, Y: 0.1, Z: 0.1}, 0.5, 0, placed, opts)
	large := Ratio(Box, Vec3{X: 0.4, Y: 0.4, Z: 0.4}, 0.5, 0, placed, opts)
	if small <= large {
		t.Errorf("smaller candidate should get the larger ratio: small=%v large=%v", small, large)
	}
}

func TestShrinkFactor(t *testing.T) {
	opts := Options{}.WithDefaults()
	ext := Vec3{X: 0.2, Y: 0.2, Z: 0.2}

	t.Run("no placed items", func(t *testing.T) {
		scale, binding := ShrinkFactor(Box, ext, 0, 0, nil, opts)
		if scale != 1 || binding != -1 {
			t.Errorf("ShrinkFactor() = (%v, %d), want (1, -1)", scale, binding)
		}
	})

	t.Run("far neighbours do not grow the item", func(t *testing.T) {
		placed := []Item{{HalfExtents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Center: Vec3{X: 5, Y: 5}}}
		scale, binding := ShrinkFactor(Box, ext, 0, 0, placed, opts)
		if scale != 1 || binding != -1 {
			t.Errorf("ShrinkFactor() = (%v, %d), want (1, -1)", scale, binding)
		}
	})

	t.Run("closest neighbour binds", func(t *testing.T) {
		placed := []Item{
			{HalfExtents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Center: Vec3{X: 0.9, Y: 0}},
			{HalfExtents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Center: Vec3{X: 0.4, Y: 0}},
			{HalfExtents: Vec3{X: 0.1, Y: 0.1, Z: 0.1}, Center: Vec3{X: -0.7, Y: 0}},
		}
		wide := Vec3{X: 0.4, Y: 0.4, Z: 0.4}
		scale, binding := ShrinkFactor(Box, wide, 0, 0, placed, opts)
		wantScale := 0.9 * (0.4 - 0.1) / 0.4
		if binding != 1 {
			t.Errorf("binding = %d, want 1", binding)
		}
		if math.Abs(scale-wantScale) > 1e-12 {
			t.Errorf("scale = %v, want %v", scale, wantScale)
		}
	})
}

func TestLopsided(t *testing.T) {
	tests := []struct {
		ext  Vec3
		want bool
	}{
		{Vec3{X: 0.2, Y: 0.2, Z: 0.2}, false},
		{Vec3{X: 0.1, Y: 0.2, Z: 0.15}, false},
		{Vec3{X: 0.1, Y: 0.21, Z: 0.15}, true},
		{Vec3{X: 0.4, Y: 0.1, Z: 0.2}, true},
	}
	for _, tt := range tests {
		if got := lopsided(tt.ext, DefaultLopsidedRatio); got != tt.want {
			t.Errorf("lopsided(%+v) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
