package orientation

import (
	"math"
	"testing"
	"time"

	"acmicore/internal/geomath"
)

func TestSynthesize_FewerThanThreeSamplesUsesDefault(t *testing.T) {
	p := geomath.Ellipsoid.ToECEF(10, 20, 1000)
	samples := []Sample{
		{Time: time.Unix(0, 0), Position: p},
		{Time: time.Unix(1, 0), Position: p},
	}
	out := Synthesize(samples, true)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d want 2", len(out))
	}
	want := defaultQuatAt(p)
	if !geomath.QuatsApproxEqual(out[0], want, 1e-12) || !geomath.QuatsApproxEqual(out[1], want, 1e-12) {
		t.Fatalf("out = %v want both %v", out, want)
	}
}

func TestSynthesize_StationarySampleGetsDefaultQuat(t *testing.T) {
	p := geomath.Ellipsoid.ToECEF(0, 0, 0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Time: base, Position: p},
		{Time: base.Add(time.Second), Position: p},
		{Time: base.Add(2 * time.Second), Position: p},
	}
	out := Synthesize(samples, true)
	want := defaultQuatAt(p)
	if !geomath.QuatsApproxEqual(out[0], want, 1e-9) {
		t.Fatalf("out[0] = %v want default %v", out[0], want)
	}
}

func TestSynthesize_TailFillsLastTwoSamples(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]Sample, 5)
	for i := range samples {
		lon := float64(i) * 0.001
		samples[i] = Sample{
			Time:     base.Add(time.Duration(i) * time.Second),
			Position: geomath.Ellipsoid.ToECEF(lon, 0, 1000),
		}
	}
	out := Synthesize(samples, true)
	if !geomath.QuatsApproxEqual(out[2], out[3], 1e-12) || !geomath.QuatsApproxEqual(out[2], out[4], 1e-12) {
		t.Fatalf("last two samples should repeat sample N-3's quaternion: %v", out)
	}
}

func TestSynthesize_StraightFlightProducesNoRoll(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 6
	samples := make([]Sample, n)
	for i := 0; i < n; i++ {
		lon := float64(i) * 0.01
		samples[i] = Sample{
			Time:     base.Add(time.Duration(i) * time.Second),
			Position: geomath.Ellipsoid.ToECEF(lon, 0, 10000),
		}
	}
	out := Synthesize(samples, true)
	for i := 0; i <= n-3; i++ {
		h := headingAt(samples[i].Position, out[i])
		// Flying due east along the equator: heading should be ~90deg
		// and the coordinated-turn roll model should settle near zero.
		if math.Abs(h-math.Pi/2) > 1e-3 {
			t.Fatalf("sample %d heading = %v want ~pi/2", i, h)
		}
		right := geomath.RotateVector(out[i], geomath.Vec3{Y: 1})
		_, _, up := geomath.Ellipsoid.LocalNWUFrameECEF(samples[i].Position)
		if math.Abs(dot(right, up)) > 1e-6 {
			t.Fatalf("sample %d right axis has vertical component %v want ~0 (no roll)", i, dot(right, up))
		}
	}
}

func TestSynthesize_WithoutRollNeverBanks(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	samples := make([]Sample, 5)
	for i := range samples {
		lat := float64(i) * 0.01
		samples[i] = Sample{
			Time:     base.Add(time.Duration(i) * time.Second),
			Position: geomath.Ellipsoid.ToECEF(float64(i)*0.01, lat, 5000),
		}
	}
	out := Synthesize(samples, false)
	for i := 0; i <= len(samples)-3; i++ {
		forward := geomath.RotateVector(out[i], geomath.Vec3{X: 1})
		_, _, up := geomath.Ellipsoid.LocalNWUFrameECEF(samples[i].Position)
		right := geomath.RotateVector(out[i], geomath.Vec3{Y: 1})
		// No roll means the body's right axis should stay in the local
		// horizontal plane: no vertical component along up.
		if math.Abs(dot(right, up)) > 1e-2 {
			t.Fatalf("sample %d right axis has vertical component %v (withRoll=false should keep wings level)", i, dot(right, up))
		}
		if dot(forward, up) > 0.5 {
			t.Fatalf("sample %d forward axis points too far upward: %v", i, forward)
		}
	}
}

func dot(a, b geomath.Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func TestComputeRoll_SnapsSmallAnglesToZero(t *testing.T) {
	var lastRoll float64
	p0 := geomath.Ellipsoid.ToECEF(0, 0, 1000)
	p1 := geomath.Ellipsoid.ToECEF(0.001, 0, 1000)
	q0 := defaultQuatAt(p0)
	q1 := defaultQuatAt(p1)
	roll := computeRoll(p0, q0, p1, q1, 100, 1, &lastRoll)
	if roll != 0 {
		t.Fatalf("roll = %v want 0 (no heading change between identical default quats)", roll)
	}
}

func TestSignOf(t *testing.T) {
	cases := map[float64]float64{1.5: 1, -2.0: -1, 0: 0}
	for in, want := range cases {
		if got := signOf(in); got != want {
			t.Fatalf("signOf(%v) = %v want %v", in, got, want)
		}
	}
}
