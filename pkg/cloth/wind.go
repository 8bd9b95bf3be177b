package cloth

import (
	gomath "math"

	"github.com/Faultbox/drape/pkg/math"
)

// WindKind selects the shape of a wind source.
type WindKind uint8

const (
	// WindConstant blows with a constant velocity.
	WindConstant WindKind = iota
	// WindSinWave follows a sine wave over the elapsed time.
	WindSinWave
)

var windKindNames = map[WindKind]string{
	WindConstant: "constant",
	WindSinWave:  "sin_wave",
}

func (k WindKind) String() string { return enumString(windKindNames, k) }

// MarshalText implements encoding.TextMarshaler.
func (k WindKind) MarshalText() ([]byte, error) { return enumMarshal(windKindNames, k) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *WindKind) UnmarshalText(b []byte) error { return enumUnmarshal(windKindNames, k, b) }

// Wind is a single wind source.
type Wind struct {
	Kind WindKind `yaml:"kind"`
	// Velocity is used by WindConstant.
	Velocity math.Vec3 `yaml:"velocity,omitempty"`
	// MaxVelocity is the velocity at the top of the sine wave.
	MaxVelocity math.Vec3 `yaml:"max_velocity,omitempty"`
	Frequency   float32   `yaml:"frequency,omitempty"`
	// Normalize maps the wave to [0, 1], avoiding negative values.
	Normalize bool `yaml:"normalize,omitempty"`
	// Abs uses absolute values, making the wave act as a bouncing signal.
	Abs bool `yaml:"abs,omitempty"`
}

// ConstantWind returns a wind blowing with a constant velocity.
func ConstantWind(velocity math.Vec3) Wind {
	return Wind{Kind: WindConstant, Velocity: velocity}
}

// SinWaveWind returns a wind following a sine wave.
func SinWaveWind(maxVelocity math.Vec3, frequency float32, normalize, abs bool) Wind {
	return Wind{
		Kind:        WindSinWave,
		MaxVelocity: maxVelocity,
		Frequency:   frequency,
		Normalize:   normalize,
		Abs:         abs,
	}
}

// DefaultWind is a still, normalized sine wave at 0.5Hz.
func DefaultWind() Wind {
	return SinWaveWind(math.Vec3{}, 0.5, true, false)
}

// CurrentVelocity returns the wind velocity after elapsed seconds.
func (w Wind) CurrentVelocity(elapsed float32) math.Vec3 {
	if w.Kind == WindConstant {
		return w.Velocity
	}
	v := float32(gomath.Sin(float64(elapsed * w.Frequency)))
	if w.Normalize {
		v = (v + 1) / 2
	}
	if w.Abs && v < 0 {
		v = -v
	}
	return w.MaxVelocity.Scale(v)
}

// Winds is the ordered set of wind sources acting on every cloth.
type Winds []Wind

// CurrentVelocity returns the sum of every wind velocity after elapsed seconds.
func (ws Winds) CurrentVelocity(elapsed float32) math.Vec3 {
	var sum math.Vec3
	for _, w := range ws {
		sum = sum.Add(w.CurrentVelocity(elapsed))
	}
	return sum
}
