// Package orientation synthesizes a plausible attitude quaternion for
// position-only trajectory samples, using a coordinated-turn roll
// model driven by the change in ground track between consecutive
// velocity estimates.
package orientation

import (
	"math"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"acmicore/internal/geomath"
)

const (
	gravityMPS2  = 9.80665
	smoothAlpha  = 0.05
	speedEps     = 1e-6
	rollSnapRad  = 1.0 * math.Pi / 180.0
)

// Sample is the minimal position/time pair orientation synthesis needs.
type Sample struct {
	Time     time.Time
	Position geomath.Vec3
}

// Synthesize returns one quaternion per input sample. Fewer than 3
// samples get the default NWU-aligned quaternion at each position;
// otherwise a coordinated-turn roll model drives quaternions for
// samples [0, N-3], and the last two samples repeat sample N-3's
// quaternion.
func Synthesize(samples []Sample, withRoll bool) []geomath.Quaternion {
	n := len(samples)
	out := make([]geomath.Quaternion, n)
	if n < 3 {
		for i, s := range samples {
			out[i] = defaultQuatAt(s.Position)
		}
		return out
	}

	var lastRoll float64
	for i := 0; i <= n-3; i++ {
		out[i] = synthesizeOne(samples, i, withRoll, &lastRoll)
	}
	out[n-2] = out[n-3]
	out[n-1] = out[n-3]
	return out
}

func synthesizeOne(samples []Sample, i int, withRoll bool, lastRoll *float64) geomath.Quaternion {
	p0, p1 := samples[i].Position, samples[i+1].Position
	dt0 := samples[i+1].Time.Sub(samples[i].Time).Seconds()
	if dt0 <= 0 {
		return defaultQuatAt(p0)
	}

	v0 := r3.Scale(1/dt0, r3.Sub(p1, p0))
	speed := r3.Norm(v0)
	if speed <= speedEps {
		return defaultQuatAt(p0)
	}
	vhat0 := r3.Scale(1/speed, v0)
	forward0, right0, up0 := rotationBasisFromVelocity(p0, vhat0)
	q0 := geomath.QuatFromOrthonormalBasis(forward0, right0, up0)

	roll := 0.0
	if withRoll && i+2 < len(samples) {
		p2 := samples[i+2].Position
		dt1 := samples[i+2].Time.Sub(samples[i+1].Time).Seconds()
		if dt1 > 0 {
			v1 := r3.Scale(1/dt1, r3.Sub(p2, p1))
			speed1 := r3.Norm(v1)
			if speed1 > speedEps {
				vhat1 := r3.Scale(1/speed1, v1)
				forward1, right1, up1 := rotationBasisFromVelocity(p1, vhat1)
				q1 := geomath.QuatFromOrthonormalBasis(forward1, right1, up1)
				roll = computeRoll(p0, q0, p1, q1, speed, dt0, lastRoll)
			}
		}
	}

	qRoll := geomath.QuatFromAxisAngle(vhat0, roll)
	return quat.Mul(qRoll, q0)
}

// rotationBasisFromVelocity builds a right-handed (forward, right, up)
// basis at p with forward locked to vhat and up re-orthogonalized
// against the ellipsoid's local vertical.
func rotationBasisFromVelocity(p, vhat geomath.Vec3) (forward, right, up geomath.Vec3) {
	approxUp := geomath.Ellipsoid.SurfaceNormal(p)
	right = r3.Unit(r3.Cross(approxUp, vhat))
	up = r3.Unit(r3.Cross(vhat, right))
	return vhat, right, up
}

// defaultQuatAt returns the quaternion for heading=pitch=roll=0 in the
// local NWU frame at p: the NWU-frame-to-world rotation itself.
func defaultQuatAt(p geomath.Vec3) geomath.Quaternion {
	north, west, up := geomath.Ellipsoid.LocalNWUFrameECEF(p)
	return geomath.QuatFromOrthonormalBasis(north, west, up)
}

// headingAt recovers the compass heading (radians, [0, 2π), clockwise
// from north) implied by q's forward axis at position p.
func headingAt(p geomath.Vec3, q geomath.Quaternion) float64 {
	forward := geomath.RotateVector(q, geomath.Vec3{X: 1})
	north, west, _ := geomath.Ellipsoid.LocalNWUFrameECEF(p)
	east := r3.Scale(-1, west)
	h := math.Atan2(r3.Dot(forward, east), r3.Dot(forward, north))
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}

func computeRoll(p0 geomath.Vec3, q0 geomath.Quaternion, p1 geomath.Vec3, q1 geomath.Quaternion, speed, dt float64, lastRoll *float64) float64 {
	h0 := headingAt(p0, q0)
	h1 := headingAt(p1, q1)

	delta := h1 - h0
	var angle float64
	if math.Abs(delta) > math.Pi {
		angle = 2*math.Pi - math.Abs(delta)
		delta = 2*math.Pi + delta
	} else {
		angle = math.Abs(delta)
	}

	turn := signOf(delta) * angle
	raw := math.Atan(speed * turn / (gravityMPS2 * dt))

	smooth := smoothAlpha*raw + (1-smoothAlpha)*(*lastRoll)
	if math.Abs(smooth) < rollSnapRad {
		smooth = 0
	}
	*lastRoll = smooth
	return smooth
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
