package geo

import (
	"math"
	"testing"
)

func TestDegreeRoundTrip(t *testing.T) {
	cases := []float64{0, 1.3521, -1.3521, 103.8198, -103.8198, 90, -90}
	for _, deg := range cases {
		q := DegreeToInt(deg)
		got := IntToDegree(q)
		if diff := math.Abs(got - deg); diff > 1e-7 {
			t.Errorf("DegreeToInt/IntToDegree(%v): got %v, diff %v", deg, got, diff)
		}
	}
}

func TestDistanceRoundTrip(t *testing.T) {
	cases := []float64{0, 1.0, 1000.5, 123456.789}
	for _, m := range cases {
		q := DistanceToInt(m)
		got := IntToDistance(q)
		if diff := got - m; diff < -0.001 || diff > 0.001 {
			t.Errorf("DistanceToInt/IntToDistance(%v): got %v", m, got)
		}
	}
}
