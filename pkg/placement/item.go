package placement

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/scenegen/pkg/errors"
)

// Kind is the primitive shape of a placed item.
type Kind int

const (
	// Box is an axis-aligned cuboid with independent half-extents.
	Box Kind = iota + 1
	// Sphere is a sphere; all three half-extents start out equal to its radius.
	Sphere
)

// String returns the lowercase name used in JSON and on the command line.
func (k Kind) String() string {
	switch k {
	case Box:
		return "box"
	case Sphere:
		return "sphere"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Shape returns the primitive name understood by rendering engines.
func (k Kind) Shape() string {
	switch k {
	case Box:
		return "Cube"
	case Sphere:
		return "Sphere"
	default:
		return ""
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == Box || k == Sphere
}

// ParseKind parses a kind name. Both the short names ("box", "sphere") and
// the engine shape names ("Cube", "Sphere") are accepted, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "box", "cube":
		return Box, nil
	case "sphere":
		return Sphere, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidKind, "unrecognized object type %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidKind, "unrecognized object type %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Vec3 is a point or a set of half-extents in scene units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Min returns the smallest component.
func (v Vec3) Min() float64 { return math.Min(v.X, math.Min(v.Y, v.Z)) }

// Max returns the largest component.
func (v Vec3) Max() float64 { return math.Max(v.X, math.Max(v.Y, v.Z)) }

// Item is one placed primitive.
type Item struct {
	Kind Kind `json:"kind"`

	// HalfExtents are the final half-extents after the planar shrink.
	HalfExtents Vec3 `json:"half_extents"`

	// Center is the item centre. Center.Z equals HalfExtents.Z so the item
	// rests on the z=0 floor.
	Center Vec3 `json:"center"`

	// Sampled are the half-extents drawn before shrinking.
	Sampled Vec3 `json:"sampled"`

	// Scale is the planar shrink factor applied at acceptance (<= 1).
	Scale float64 `json:"scale"`

	// Attempt is the 1-based attempt number that produced this item.
	Attempt int `json:"attempt,omitempty"`
}

// NewItem builds an item from its sampled half-extents and planar centre,
// applying scale to the X and Y half-extents only. The vertical half-extent
// is never scaled and the item is lifted so its base touches the floor.
//
// An unrecognised kind is a programming error and is reported as INVALID_KIND.
func NewItem(kind Kind, sampled Vec3, x, y, scale float64) (Item, error) {
	if !kind.Valid() {
		return Item{}, errors.New(errors.ErrCodeInvalidKind, "unrecognized object type %d", int(kind))
	}
	return Item{
		Kind: kind,
		HalfExtents: Vec3{
			X: sampled.X * scale,
			Y: sampled.Y * scale,
			Z: sampled.Z,
		},
		Center:  Vec3{X: x, Y: y, Z: sampled.Z},
		Sampled: sampled,
		Scale:   scale,
	}, nil
}

// Rejections counts discarded attempts by reason.
type Rejections struct {
	// Lopsided counts boxes discarded for uneven half-extents.
	Lopsided int `json:"lopsided"`
	// TooClose counts candidates whose shrink factor fell below the kind's threshold.
	TooClose int `json:"too_close"`
}

// Total returns the number of rejected attempts.
func (r Rejections) Total() int { return r.Lopsided + r.TooClose }

// Set is an ordered placement result.
type Set struct {
	// Seed is the seed of the sampler that produced the set, when known.
	Seed uint64 `json:"seed,omitempty"`

	// Options are the resolved options the set was generated with.
	Options Options `json:"options"`

	// Items in insertion order.
	Items []Item `json:"items"`

	// Attempts is the total number of attempts, accepted and rejected.
	Attempts int `json:"attempts"`

	// Rejections breaks down the rejected attempts.
	Rejections Rejections `json:"rejections"`
}

// Len returns the number of placed items.
func (s *Set) Len() int { return len(s.Items) }

// Counts returns how many boxes and spheres the set holds.
func (s *Set) Counts() (boxes, spheres int) {
	for _, it := range s.Items {
		switch it.Kind {
		case Box:
			boxes++
		case Sphere:
			spheres++
		}
	}
	return boxes, spheres
}
