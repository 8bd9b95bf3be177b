package cloth

import "github.com/Faultbox/drape/pkg/math"

// PivotKind selects where an inflator places its pivot point.
type PivotKind uint8

const (
	// PivotCenter is the mean of every point.
	PivotCenter PivotKind = iota
	// PivotAABBCenter is the center of the bounding box.
	PivotAABBCenter
	// PivotCustom is Inflator.CustomPivot, in world space.
	PivotCustom
)

var pivotKindNames = map[PivotKind]string{
	PivotCenter:     "center",
	PivotAABBCenter: "aabb_center",
	PivotCustom:     "custom",
}

func (k PivotKind) String() string { return enumString(pivotKindNames, k) }

// MarshalText implements encoding.TextMarshaler.
func (k PivotKind) MarshalText() ([]byte, error) { return enumMarshal(pivotKindNames, k) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PivotKind) UnmarshalText(b []byte) error { return enumUnmarshal(pivotKindNames, k, b) }

// Inflator keeps a closed cloth inflated by tying every point to a free pivot
// point.
type Inflator struct {
	Pivot       PivotKind `yaml:"pivot"`
	CustomPivot math.Vec3 `yaml:"custom_pivot,omitempty"`
	// Amount scales the pivot stick lengths. Values below 1 deflate.
	Amount float32 `yaml:"amount"`
	// Mode is the mode of the pivot sticks.
	Mode StickMode `yaml:"mode"`
}

// inflatorMaxStretch is the default pivot stick stretch ratio, high enough
// that pivot sticks in practice only push outwards.
const inflatorMaxStretch = 100

// DefaultInflator returns an inflator at the point centroid whose sticks only
// resist compression.
func DefaultInflator() Inflator {
	return Inflator{
		Pivot:  PivotCenter,
		Amount: 1,
		Mode:   SpringStickMode(1, inflatorMaxStretch),
	}
}

// PivotPosition returns the world position of the pivot for points.
func (in Inflator) PivotPosition(points []math.Vec3) math.Vec3 {
	switch in.Pivot {
	case PivotCustom:
		return in.CustomPivot
	case PivotAABBCenter:
		return ComputeAABB(points, 0).Center
	}
	if len(points) == 0 {
		return math.Vec3{}
	}
	var sum math.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float32(len(points)))
}

// Inflate appends the pivot point and a stick from it to every mesh vertex.
// It returns the index of the pivot.
func (c *Cloth) Inflate(in Inflator) int {
	pivot := in.PivotPosition(c.current[:c.vertexCount])
	id := c.AddPoint(pivot)
	for i := 0; i < c.vertexCount; i++ {
		d := pivot.Distance(c.current[i])
		if d == 0 {
			continue
		}
		c.AddStick(i, id, d*in.Amount, in.Mode)
	}
	return id
}
