package scene

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/scenegen/pkg/placement"
)

// Color is a linear RGB colour with components in [0, 1]. It encodes to JSON
// as {"r":..,"g":..,"b":..,"hex":"#rrggbb"}.
type Color struct {
	R, G, B float64
}

// Hue returns the fully saturated, full-value colour of hue h in degrees.
func Hue(h float64) Color {
	c := colorful.Hsv(h, 1, 1)
	return Color{R: c.R, G: c.G, B: c.B}
}

// RandomHue draws a hue uniformly from [0, 360).
func RandomHue(s placement.Sampler) Color {
	return Hue(s.Uniform(0, 360))
}

// Palette draws n random hue colours.
func Palette(s placement.Sampler, n int) []Color {
	p := make([]Color, n)
	for i := range p {
		p[i] = RandomHue(s)
	}
	return p
}

// Hex returns the colour as #rrggbb.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

type colorJSON struct {
	R   float64 `json:"r"`
	G   float64 `json:"g"`
	B   float64 `json:"b"`
	Hex string  `json:"hex"`
}

// MarshalJSON implements json.Marshaler.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(colorJSON{R: c.R, G: c.G, B: c.B, Hex: c.Hex()})
}

// UnmarshalJSON implements json.Unmarshaler. The hex field is used only when
// the components are absent.
func (c *Color) UnmarshalJSON(data []byte) error {
	var raw struct {
		R, G, B *float64
		Hex     string
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.R != nil && raw.G != nil && raw.B != nil {
		*c = Color{R: *raw.R, G: *raw.G, B: *raw.B}
		return nil
	}
	if raw.Hex == "" {
		return fmt.Errorf("color: need r, g, b or hex")
	}
	parsed, err := colorful.Hex(raw.Hex)
	if err != nil {
		return fmt.Errorf("color: %w", err)
	}
	*c = Color{R: parsed.R, G: parsed.G, B: parsed.B}
	return nil
}

func objectName(n int) string {
	return "obj" + strconv.Itoa(n)
}
