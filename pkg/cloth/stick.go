package cloth

import "github.com/Faultbox/drape/pkg/math"

// StickGeneration selects which triangle edges become sticks.
type StickGeneration uint8

const (
	// StickQuads keeps the first two edges of every triangle, which for
	// quad-based meshes skips the diagonal.
	StickQuads StickGeneration = iota
	// StickTriangles keeps all three edges.
	StickTriangles
)

var stickGenerationNames = map[StickGeneration]string{
	StickQuads:     "quads",
	StickTriangles: "triangles",
}

func (g StickGeneration) String() string { return enumString(stickGenerationNames, g) }

// MarshalText implements encoding.TextMarshaler.
func (g StickGeneration) MarshalText() ([]byte, error) { return enumMarshal(stickGenerationNames, g) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *StickGeneration) UnmarshalText(b []byte) error {
	return enumUnmarshal(stickGenerationNames, g, b)
}

// StickLenMode selects how stick rest lengths are computed.
type StickLenMode uint8

const (
	// StickLenAuto uses the world space distance between both points.
	StickLenAuto StickLenMode = iota
	// StickLenFixed uses Value for every stick.
	StickLenFixed
	// StickLenOffset adds Value to the automatic length.
	StickLenOffset
	// StickLenCoefficient multiplies the automatic length by Value.
	StickLenCoefficient
)

var stickLenModeNames = map[StickLenMode]string{
	StickLenAuto:        "auto",
	StickLenFixed:       "fixed",
	StickLenOffset:      "offset",
	StickLenCoefficient: "coefficient",
}

func (m StickLenMode) String() string { return enumString(stickLenModeNames, m) }

// MarshalText implements encoding.TextMarshaler.
func (m StickLenMode) MarshalText() ([]byte, error) { return enumMarshal(stickLenModeNames, m) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *StickLenMode) UnmarshalText(b []byte) error { return enumUnmarshal(stickLenModeNames, m, b) }

// StickLen is the rest length policy of generated sticks.
type StickLen struct {
	Mode  StickLenMode `yaml:"mode"`
	Value float32      `yaml:"value,omitempty"`
}

// AutoStickLen measures rest lengths at construction.
func AutoStickLen() StickLen { return StickLen{Mode: StickLenAuto} }

// FixedStickLen uses the same rest length for every stick.
func FixedStickLen(v float32) StickLen { return StickLen{Mode: StickLenFixed, Value: v} }

// OffsetStickLen adds o to the measured rest length.
func OffsetStickLen(o float32) StickLen { return StickLen{Mode: StickLenOffset, Value: o} }

// CoefficientStickLen scales the measured rest length by c.
func CoefficientStickLen(c float32) StickLen { return StickLen{Mode: StickLenCoefficient, Value: c} }

// Length returns the rest length of a stick between a and b (world space).
func (l StickLen) Length(a, b math.Vec3) float32 {
	switch l.Mode {
	case StickLenFixed:
		return l.Value
	case StickLenOffset:
		return a.Distance(b) + l.Value
	case StickLenCoefficient:
		return a.Distance(b) * l.Value
	default:
		return a.Distance(b)
	}
}

// StickBehavior selects how a stick enforces its length.
type StickBehavior uint8

const (
	// StickFixed enforces the rest length exactly.
	StickFixed StickBehavior = iota
	// StickSpring only corrects outside [MinPercent, MaxPercent] of the rest length.
	StickSpring
)

var stickBehaviorNames = map[StickBehavior]string{
	StickFixed:  "fixed",
	StickSpring: "spring",
}

func (b StickBehavior) String() string { return enumString(stickBehaviorNames, b) }

// MarshalText implements encoding.TextMarshaler.
func (b StickBehavior) MarshalText() ([]byte, error) { return enumMarshal(stickBehaviorNames, b) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *StickBehavior) UnmarshalText(text []byte) error {
	return enumUnmarshal(stickBehaviorNames, b, text)
}

// StickMode is the behavior of a stick.
type StickMode struct {
	Behavior   StickBehavior `yaml:"behavior"`
	MinPercent float32       `yaml:"min_percent,omitempty"`
	MaxPercent float32       `yaml:"max_percent,omitempty"`
}

// FixedStickMode enforces rest lengths exactly.
func FixedStickMode() StickMode { return StickMode{Behavior: StickFixed} }

// SpringStickMode lets sticks stretch between minPercent and maxPercent of
// their rest length before correcting them.
func SpringStickMode(minPercent, maxPercent float32) StickMode {
	return StickMode{Behavior: StickSpring, MinPercent: minPercent, MaxPercent: maxPercent}
}

// targetLength returns the length a stick of rest length rest and current
// length current must be corrected to, or false when it sits in the slack
// region of a spring.
func (m StickMode) targetLength(rest, current float32) (float32, bool) {
	if m.Behavior != StickSpring || rest <= 0 {
		return rest, true
	}
	ratio := current / rest
	switch {
	case ratio < m.MinPercent:
		return rest * m.MinPercent, true
	case ratio > m.MaxPercent:
		return rest * m.MaxPercent, true
	}
	return rest, false
}

// Stick is a distance constraint between points A and B, with A < B.
type Stick struct {
	A, B   int
	Length float32
	Mode   StickMode
}

// stickKey is an undirected edge with the lower index first.
type stickKey struct {
	a, b int
}

func newStickKey(a, b int) stickKey {
	if a > b {
		a, b = b, a
	}
	return stickKey{a, b}
}
