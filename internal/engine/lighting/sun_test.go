package lighting

import (
	"testing"

	"github.com/Faultbox/drape/pkg/math"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		azimuth, elevation float32
		want               math.Vec3
	}{
		{0, 0, math.Vec3{Z: 1}},
		{90, 0, math.Vec3{X: 1}},
		{0, 90, math.Vec3{Y: 1}},
		{180, 0, math.Vec3{Z: -1}},
	}

	for _, tt := range tests {
		got := Sun{Azimuth: tt.azimuth, Elevation: tt.elevation}.Direction()
		if got.Distance(tt.want) > 1e-5 {
			t.Errorf("Direction(%v, %v) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
		}
	}
}

func TestDefaultSunIsNormalized(t *testing.T) {
	d := DefaultSun().Direction()
	if l := d.Length(); l < 0.9999 || l > 1.0001 {
		t.Errorf("direction length = %v, want 1", l)
	}
	if d.Y <= 0 {
		t.Errorf("default sun should be above the horizon, got %v", d)
	}
}
