package cloth

import (
	"fmt"

	"github.com/Faultbox/drape/pkg/math"
)

// DefaultGravity is the default Y component of gravity.
const DefaultGravity = -9.81

// SmoothingMode selects how gravity and wind are scaled each tick.
type SmoothingMode uint8

const (
	// SmoothSquaredDeltaTime multiplies accelerations by dt².
	SmoothSquaredDeltaTime SmoothingMode = iota
	// SmoothFixedCoefficient multiplies accelerations by a constant, which
	// hides frame-rate jitter at the cost of dt accuracy.
	SmoothFixedCoefficient
)

var smoothingModeNames = map[SmoothingMode]string{
	SmoothSquaredDeltaTime: "squared_delta_time",
	SmoothFixedCoefficient: "fixed_coefficient",
}

func (m SmoothingMode) String() string { return enumString(smoothingModeNames, m) }

// MarshalText implements encoding.TextMarshaler.
func (m SmoothingMode) MarshalText() ([]byte, error) { return enumMarshal(smoothingModeNames, m) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *SmoothingMode) UnmarshalText(b []byte) error { return enumUnmarshal(smoothingModeNames, m, b) }

// AccelerationSmoothing defines how gravity and wind are smoothed every tick.
type AccelerationSmoothing struct {
	Mode SmoothingMode `yaml:"mode"`
	// Coefficient is used by SmoothFixedCoefficient. Pick a small value (< 0.1).
	Coefficient float32 `yaml:"coefficient,omitempty"`
}

// SquaredDeltaTime returns the default dt² smoothing.
func SquaredDeltaTime() AccelerationSmoothing {
	return AccelerationSmoothing{Mode: SmoothSquaredDeltaTime}
}

// FixedCoefficient returns a constant smoothing coefficient.
func FixedCoefficient(c float32) AccelerationSmoothing {
	return AccelerationSmoothing{Mode: SmoothFixedCoefficient, Coefficient: c}
}

// FrictionMode selects which terms of the Verlet update friction scales.
type FrictionMode uint8

const (
	// FrictionVelocity computes velocity*friction + acceleration.
	FrictionVelocity FrictionMode = iota
	// FrictionVelocityAndAcceleration computes velocity*friction + acceleration*friction.
	FrictionVelocityAndAcceleration
)

var frictionModeNames = map[FrictionMode]string{
	FrictionVelocity:                "velocity",
	FrictionVelocityAndAcceleration: "velocity_and_acceleration",
}

func (m FrictionMode) String() string { return enumString(frictionModeNames, m) }

// MarshalText implements encoding.TextMarshaler.
func (m FrictionMode) MarshalText() ([]byte, error) { return enumMarshal(frictionModeNames, m) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FrictionMode) UnmarshalText(b []byte) error { return enumUnmarshal(frictionModeNames, m, b) }

// Config holds the physics parameters of a cloth. One value can be shared by
// every cloth or overridden per cloth.
type Config struct {
	Gravity math.Vec3 `yaml:"gravity"`
	// Friction reduces the elasticity of the cloth. It is stored as given and
	// clamped to [0, 1] when used. 0 keeps the whole velocity.
	Friction float32 `yaml:"friction"`
	// SticksComputationDepth is the number of relaxation passes per tick.
	SticksComputationDepth uint8                 `yaml:"sticks_computation_depth"`
	AccelerationSmoothing  AccelerationSmoothing `yaml:"acceleration_smoothing"`
	FrictionMode           FrictionMode          `yaml:"friction_mode"`
}

// DefaultConfig returns the default cloth physics settings.
func DefaultConfig() Config {
	return Config{
		Gravity:                math.Vec3{Y: DefaultGravity},
		Friction:               0.02,
		SticksComputationDepth: 5,
		AccelerationSmoothing:  SquaredDeltaTime(),
		FrictionMode:           FrictionVelocity,
	}
}

// NoGravityConfig returns the default settings without gravity.
func NoGravityConfig() Config {
	c := DefaultConfig()
	c.Gravity = math.Vec3{}
	return c
}

// FrictionCoefficient returns the share of velocity kept each tick.
func (c *Config) FrictionCoefficient() float32 {
	return 1 - min(max(c.Friction, 0), 1)
}

// SmoothValue returns the factor applied to accelerations for a tick of dt seconds.
func (c *Config) SmoothValue(dt float32) float32 {
	if c.AccelerationSmoothing.Mode == SmoothFixedCoefficient {
		return c.AccelerationSmoothing.Coefficient
	}
	return dt * dt
}

// SmoothedAcceleration scales acceleration for a tick of dt seconds.
func (c *Config) SmoothedAcceleration(acceleration math.Vec3, dt float32) math.Vec3 {
	return acceleration.Scale(c.SmoothValue(dt))
}

func enumString[T ~uint8](names map[T]string, v T) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", v)
}

func enumMarshal[T ~uint8](names map[T]string, v T) ([]byte, error) {
	s, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("unknown value %d", v)
	}
	return []byte(s), nil
}

func enumUnmarshal[T ~uint8](names map[T]string, v *T, b []byte) error {
	for k, s := range names {
		if s == string(b) {
			*v = k
			return nil
		}
	}
	return fmt.Errorf("unknown value %q", string(b))
}
