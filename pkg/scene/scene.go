package scene

import (
	"math"

	"github.com/matzehuels/scenegen/pkg/errors"
	"github.com/matzehuels/scenegen/pkg/placement"
)

// Default environment values.
const (
	DefaultWidth          = 256
	DefaultHeight         = 256
	DefaultCameraDistance = 3.0
	DefaultCameraHeight   = 2.0
	DefaultLightIntensity = 1.5
)

// Options configures Build. Zero fields select defaults.
type Options struct {
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	CameraDistance float64 `json:"camera_distance,omitempty"`
	CameraHeight   float64 `json:"camera_height,omitempty"`
	LightIntensity float64 `json:"light_intensity,omitempty"`
}

// WithDefaults returns a copy of o with zero fields defaulted.
func (o Options) WithDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.CameraDistance == 0 {
		o.CameraDistance = DefaultCameraDistance
	}
	if o.CameraHeight == 0 {
		o.CameraHeight = DefaultCameraHeight
	}
	if o.LightIntensity == 0 {
		o.LightIntensity = DefaultLightIntensity
	}
	return o
}

// Validate checks o after defaults have been applied.
func (o Options) Validate() error {
	if err := errors.ValidateCount("width", o.Width, 1); err != nil {
		return err
	}
	if err := errors.ValidateCount("height", o.Height, 1); err != nil {
		return err
	}
	if err := errors.ValidatePositive("camera_distance", o.CameraDistance); err != nil {
		return err
	}
	return errors.ValidatePositive("light_intensity", o.LightIntensity)
}

// Resolution is the output image size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Floor is the static slab the objects rest on.
type Floor struct {
	Name     string         `json:"name"`
	Shape    string         `json:"shape"`
	Scale    placement.Vec3 `json:"scale"`
	Position placement.Vec3 `json:"position"`
}

// Light is a directional light.
type Light struct {
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Position  placement.Vec3 `json:"position"`
	LookAt    placement.Vec3 `json:"look_at"`
	Intensity float64        `json:"intensity"`
}

// Camera is a perspective camera aimed at LookAt.
type Camera struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Theta    float64        `json:"theta"`
	Position placement.Vec3 `json:"position"`
	LookAt   placement.Vec3 `json:"look_at"`
}

// Object is one placed primitive with its material colour.
type Object struct {
	Name     string         `json:"name"`
	Kind     placement.Kind `json:"kind"`
	Shape    string         `json:"shape"`
	Scale    placement.Vec3 `json:"scale"`
	Position placement.Vec3 `json:"position"`
	Color    Color          `json:"color"`
}

// Scene is the complete description of one camera view.
type Scene struct {
	Test       int        `json:"test"`
	Angle      int        `json:"angle"`
	Resolution Resolution `json:"resolution"`
	Floor      Floor      `json:"floor"`
	Light      Light      `json:"light"`
	Camera     Camera     `json:"camera"`
	Objects    []Object   `json:"objects"`
}

// View identifies one camera angle of one test scene.
type View struct {
	Test  int
	Angle int
	Theta float64
}

var origin = placement.Vec3{}

// Build describes set as seen from view. The palette supplies one colour per
// item, in insertion order; it is shared between the views of a scene.
func Build(set *placement.Set, palette []Color, view View, opts Options) (*Scene, error) {
	if set == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil placement set")
	}
	if len(palette) < len(set.Items) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"palette has %d colours for %d items", len(palette), len(set.Items))
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sc := &Scene{
		Test:       view.Test,
		Angle:      view.Angle,
		Resolution: Resolution{Width: opts.Width, Height: opts.Height},
		Floor: Floor{
			Name:     "floor",
			Shape:    placement.Box.Shape(),
			Scale:    placement.Vec3{X: 100, Y: 100, Z: 0.1},
			Position: placement.Vec3{X: 0, Y: 0, Z: -0.1},
		},
		Light: Light{
			Name:      "sun",
			Type:      "directional",
			Position:  placement.Vec3{X: -1, Y: -0.5, Z: 3},
			LookAt:    origin,
			Intensity: opts.LightIntensity,
		},
		Camera: Camera{
			Name:  "camera",
			Type:  "perspective",
			Theta: view.Theta,
			Position: placement.Vec3{
				X: opts.CameraDistance * math.Cos(view.Theta),
				Y: opts.CameraDistance * math.Sin(view.Theta),
				Z: opts.CameraHeight,
			},
			LookAt: origin,
		},
		Objects: make([]Object, 0, len(set.Items)),
	}
	for n, it := range set.Items {
		sc.Objects = append(sc.Objects, Object{
			Name:     objectName(n),
			Kind:     it.Kind,
			Shape:    it.Kind.Shape(),
			Scale:    it.HalfExtents,
			Position: it.Center,
			Color:    palette[n],
		})
	}
	return sc, nil
}

// SampleAngles draws n independent camera angles in [0, 2π). The angles are
// not evenly spaced.
func SampleAngles(s placement.Sampler, n int) []float64 {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = s.Uniform(0, 2*math.Pi)
	}
	return angles
}
