package scene

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/placement"
)

func testSet(t *testing.T) *placement.Set {
	t.Helper()
	set, err := placement.Generate(context.Background(), placement.NewSampler(42), placement.Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return set
}

func TestBuildEnvironment(t *testing.T) {
	set := testSet(t)
	palette := Palette(placement.NewSampler(1), set.Len())

	sc, err := Build(set, palette, View{Test: 0, Angle: 2, Theta: math.Pi / 2}, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if sc.Resolution != (Resolution{Width: 256, Height: 256}) {
		t.Errorf("Resolution = %+v, want 256x256", sc.Resolution)
	}
	if sc.Floor.Scale != (placement.Vec3{X: 100, Y: 100, Z: 0.1}) || sc.Floor.Position != (placement.Vec3{Z: -0.1}) {
		t.Errorf("Floor = %+v", sc.Floor)
	}
	if sc.Light.Position != (placement.Vec3{X: -1, Y: -0.5, Z: 3}) || sc.Light.Intensity != 1.5 {
		t.Errorf("Light = %+v", sc.Light)
	}
	if math.Abs(sc.Camera.Position.X) > 1e-12 || math.Abs(sc.Camera.Position.Y-3) > 1e-12 || sc.Camera.Position.Z != 2 {
		t.Errorf("Camera position = %+v, want (0, 3, 2)", sc.Camera.Position)
	}
	if sc.Camera.LookAt != (placement.Vec3{}) {
		t.Errorf("Camera look-at = %+v, want origin", sc.Camera.LookAt)
	}
	if sc.Angle != 2 {
		t.Errorf("Angle = %d, want 2", sc.Angle)
	}
}

func TestBuildObjects(t *testing.T) {
	set := testSet(t)
	palette := Palette(placement.NewSampler(1), set.Len())

	sc, err := Build(set, palette, View{}, Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(sc.Objects) != set.Len() {
		t.Fatalf("Objects = %d, want %d", len(sc.Objects), set.Len())
	}
	for n, obj := range sc.Objects {
		it := set.Items[n]
		if obj.Name != objectName(n) {
			t.Errorf("object %d name = %q", n, obj.Name)
		}
		if obj.Shape != it.Kind.Shape() || obj.Scale != it.HalfExtents || obj.Position != it.Center {
			t.Errorf("object %d = %+v does not match item %+v", n, obj, it)
		}
		if obj.Color != palette[n] {
			t.Errorf("object %d colour = %v, want %v", n, obj.Color, palette[n])
		}
	}
}

func TestBuildViewsShareColours(t *testing.T) {
	set := testSet(t)
	palette := Palette(placement.NewSampler(9), set.Len())

	a, err := Build(set, palette, View{Angle: 0, Theta: 0.3}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(set, palette, View{Angle: 1, Theta: 4.1}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Objects, b.Objects); diff != "" {
		t.Errorf("objects differ between views (-a +b):\n%s", diff)
	}
	if a.Camera.Position == b.Camera.Position {
		t.Error("different angles should move the camera")
	}
}

func TestBuildErrors(t *testing.T) {
	set := testSet(t)
	tests := []struct {
		name    string
		set     *placement.Set
		palette []Color
		opts    Options
		code    errors.Code
	}{
		{"nil set", nil, nil, Options{}, errors.ErrCodeInvalidInput},
		{"short palette", set, make([]Color, 3), Options{}, errors.ErrCodeInvalidInput},
		{"bad width", set, make([]Color, set.Len()), Options{Width: -1}, errors.ErrCodeInvalidOptions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.set, tt.palette, View{}, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSampleAngles(t *testing.T) {
	angles := SampleAngles(placement.NewSampler(5), 64)
	if len(angles) != 64 {
		t.Fatalf("SampleAngles() returned %d angles", len(angles))
	}
	for i, a := range angles {
		if a < 0 || a >= 2*math.Pi {
			t.Errorf("angle %d = %v, outside [0, 2π)", i, a)
		}
	}
	if diff := cmp.Diff(angles, SampleAngles(placement.NewSampler(5), 64)); diff != "" {
		t.Errorf("SampleAngles not reproducible:\n%s", diff)
	}
}

func TestSceneJSON(t *testing.T) {
	set := testSet(t)
	sc, err := Build(set, Palette(placement.NewSampler(1), set.Len()), View{Theta: 1}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(sc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	var back Scene
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if diff := cmp.Diff(*sc, back); diff != "" {
		t.Errorf("scene changed through JSON (-want +got):\n%s", diff)
	}
}
