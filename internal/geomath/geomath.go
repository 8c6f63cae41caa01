// Package geomath provides the small set of 3-vector, quaternion, and
// WGS84 ellipsoid primitives shared by the trajectory builder and the
// orientation synthesizer.
//
// Vectors are gonum's spatial/r3.Vec and rotations are gonum's
// num/quat.Number; this package only adds the aviation-specific
// geometry (geodetic-to-ECEF conversion, local tangent frames, and
// heading/pitch/roll composition) that gonum itself does not provide.
package geomath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or free vector in meters, aliased directly onto
// gonum's r3.Vec so callers can use r3's Add/Sub/Scale/Cross/Dot/Norm
// functions without a conversion step.
type Vec3 = r3.Vec

// Quaternion is a unit rotation, aliased onto gonum's quat.Number.
type Quaternion = quat.Number

// IdentityQuaternion is the no-rotation quaternion.
var IdentityQuaternion = Quaternion{Real: 1}

// WGS84 is the World Geodetic System 1984 reference ellipsoid.
type WGS84 struct {
	SemiMajorAxis float64 // a, meters
	Flattening    float64 // f
}

// Ellipsoid is the shared WGS84 reference ellipsoid used throughout the
// trajectory builder and orientation synthesizer.
var Ellipsoid = WGS84{
	SemiMajorAxis: 6378137.0,
	Flattening:    1.0 / 298.257223563,
}

func (e WGS84) semiMinorAxis() float64 {
	return e.SemiMajorAxis * (1 - e.Flattening)
}

func (e WGS84) eccentricitySquared() float64 {
	f := e.Flattening
	return f * (2 - f)
}

// ToECEF converts a geodetic position (degrees, degrees, meters above
// the ellipsoid) to an Earth-Centered-Earth-Fixed Cartesian position in
// meters.
func (e WGS84) ToECEF(lonDeg, latDeg, altM float64) Vec3 {
	lat := Radians(latDeg)
	lon := Radians(lonDeg)
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	e2 := e.eccentricitySquared()
	n := e.SemiMajorAxis / math.Sqrt(1-e2*sinLat*sinLat)

	return Vec3{
		X: (n + altM) * cosLat * cosLon,
		Y: (n + altM) * cosLat * sinLon,
		Z: (n*(1-e2) + altM) * sinLat,
	}
}

// SurfaceNormal approximates the outward geodetic vertical ("up") at an
// ECEF position by the gradient of the ellipsoid's implicit quadratic
// form, x²/a² + y²/a² + z²/b² = 1. This is exact at the reference
// ellipsoid's surface and differs from the true geodetic normal by a
// few arcseconds at typical flight altitudes, which is well within the
// tolerance of the orientation synthesizer that consumes it.
func (e WGS84) SurfaceNormal(p Vec3) Vec3 {
	b := e.semiMinorAxis()
	a2, b2 := e.SemiMajorAxis*e.SemiMajorAxis, b*b
	return r3.Unit(Vec3{X: p.X / a2, Y: p.Y / a2, Z: p.Z / b2})
}

// LocalNWUFrameGeodetic returns the local tangent-plane basis (north,
// west, up), each a unit vector expressed in ECEF axes, at the given
// geodetic longitude/latitude (degrees).
func (e WGS84) LocalNWUFrameGeodetic(lonDeg, latDeg float64) (north, west, up Vec3) {
	lat, lon := Radians(latDeg), Radians(lonDeg)
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	up = Vec3{X: cosLat * cosLon, Y: cosLat * sinLon, Z: sinLat}
	north = Vec3{X: -sinLat * cosLon, Y: -sinLat * sinLon, Z: cosLat}
	east := Vec3{X: -sinLon, Y: cosLon}
	west = r3.Scale(-1, east)
	return north, west, up
}

// LocalNWUFrameECEF returns an approximate local tangent-plane basis
// (north, west, up) at an ECEF position, without requiring an inverse
// geodetic conversion: up is SurfaceNormal(p) and north is the
// projection of the polar axis onto the plane orthogonal to up.
func (e WGS84) LocalNWUFrameECEF(p Vec3) (north, west, up Vec3) {
	up = e.SurfaceNormal(p)
	pole := Vec3{Z: 1}
	north = r3.Unit(r3.Sub(pole, r3.Scale(r3.Dot(pole, up), up)))
	west = r3.Cross(up, north)
	return north, west, up
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// QuatFromAxisAngle builds the unit quaternion that rotates by angle
// (radians) about the given axis, which need not be normalized.
func QuatFromAxisAngle(axis Vec3, angle float64) Quaternion {
	u := r3.Unit(axis)
	if u == (Vec3{}) {
		return IdentityQuaternion
	}
	half := angle / 2
	s := math.Sin(half)
	return Quaternion{Real: math.Cos(half), Imag: u.X * s, Jmag: u.Y * s, Kmag: u.Z * s}
}

// QuatFromEulerZYX builds the quaternion for the intrinsic rotation
// sequence Rz(yaw) * Ry(pitch) * Rx(roll) applied to a right-handed,
// z-up local frame, i.e. the body-to-local rotation for a heading
// (about +z), pitch (about the rotated +y) and roll (about the rotated
// +x), each in radians.
func QuatFromEulerZYX(yaw, pitch, roll float64) Quaternion {
	qz := QuatFromAxisAngle(Vec3{Z: 1}, yaw)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, pitch)
	qx := QuatFromAxisAngle(Vec3{X: 1}, roll)
	return quat.Mul(quat.Mul(qz, qy), qx)
}

// QuatFromOrthonormalBasis builds the rotation quaternion whose columns,
// applied to the world frame's unit axes, are the given right-handed
// orthonormal basis (forward, right, up). Uses Shepperd's method.
func QuatFromOrthonormalBasis(forward, right, up Vec3) Quaternion {
	// Columns of the rotation matrix are (forward, right, up); rows are
	// accessed individually for Shepperd's trace-based conversion.
	m00, m01, m02 := forward.X, right.X, up.X
	m10, m11, m12 := forward.Y, right.Y, up.Y
	m20, m21, m22 := forward.Z, right.Z, up.Z

	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return Quaternion{
			Real: 0.25 / s,
			Imag: (m21 - m12) * s,
			Jmag: (m02 - m20) * s,
			Kmag: (m10 - m01) * s,
		}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		return Quaternion{
			Real: (m21 - m12) / s,
			Imag: 0.25 * s,
			Jmag: (m01 + m10) / s,
			Kmag: (m02 + m20) / s,
		}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		return Quaternion{
			Real: (m02 - m20) / s,
			Imag: (m01 + m10) / s,
			Jmag: 0.25 * s,
			Kmag: (m12 + m21) / s,
		}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		return Quaternion{
			Real: (m10 - m01) / s,
			Imag: (m02 + m20) / s,
			Jmag: (m12 + m21) / s,
			Kmag: 0.25 * s,
		}
	}
}

// RotateVector rotates v by the unit quaternion q.
func RotateVector(q Quaternion, v Vec3) Vec3 {
	p := Quaternion{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// QuatsApproxEqual reports whether two quaternions are equal within eps
// componentwise.
func QuatsApproxEqual(a, b Quaternion, eps float64) bool {
	return math.Abs(a.Real-b.Real) < eps &&
		math.Abs(a.Imag-b.Imag) < eps &&
		math.Abs(a.Jmag-b.Jmag) < eps &&
		math.Abs(a.Kmag-b.Kmag) < eps
}

// VecsApproxEqual reports whether two vectors are equal within eps in
// every component.
func VecsApproxEqual(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}
