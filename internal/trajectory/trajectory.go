// Package trajectory samples an AcmiData's per-frame scenes into
// per-entity, time-ordered position/orientation sequences.
package trajectory

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/num/quat"

	"acmicore/internal/acmimodel"
	"acmicore/internal/geomath"
	"acmicore/internal/orientation"
)

const (
	posEps  = 1e-6
	quatEps = 1e-6
	tsEps   = 1e-9
)

// Options configures sampling.
type Options struct {
	// SampleRate is the sampling interval in seconds. Defaults to 1
	// when <= 0.
	SampleRate float64
	// EmulateOrientation synthesizes an attitude for entities whose
	// samples carry no orientation at all.
	EmulateOrientation bool
}

// Sample is one entity's state at a point in time.
type Sample struct {
	Time        time.Time
	Position    geomath.Vec3
	Orientation *geomath.Quaternion
	LastFrame   bool
}

// Trajectory is one entity's sampled state history.
type Trajectory struct {
	EntityID uint64
	Samples  []Sample
}

// Build samples data's frames at opts.SampleRate, returning one
// Trajectory per entity that appears in any sampled frame.
func Build(data *acmimodel.AcmiData, opts Options) map[uint64]*Trajectory {
	out := make(map[uint64]*Trajectory)
	if data == nil || !data.TimeSpan.Valid() {
		return out
	}

	sampleRate := opts.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1
	}
	duration := data.TimeSpan.Duration()

	var timestamps []float64
	for ts := 0.0; ts <= duration+tsEps; ts += sampleRate {
		timestamps = append(timestamps, ts)
	}

	// Frame timestamps count from ReferenceTime while ts counts from
	// TimeSpan.Start, which sits at the first non-empty frame.
	offset := 0.0
	for _, f := range data.Frames {
		if f.Scene.Len() > 0 {
			offset = f.TimeStamp
			break
		}
	}

	for _, ts := range timestamps {
		frame, ok := getFrame(data.Frames, offset+ts+tsEps)
		if !ok {
			continue
		}
		appendSamples(out, frame, data.TimeSpan.Start.Add(secondsToDuration(ts)), false)
	}

	overshot := len(timestamps) == 0 || math.Abs(timestamps[len(timestamps)-1]-duration) > tsEps
	if overshot {
		if frame, ok := getFrame(data.Frames, offset+duration+tsEps); ok {
			appendSamples(out, frame, data.TimeSpan.End, true)
		}
	}

	if opts.EmulateOrientation {
		for _, traj := range out {
			emulateIfNeeded(traj)
		}
	}
	return out
}

func appendSamples(out map[uint64]*Trajectory, frame *acmimodel.Frame, t time.Time, lastFrame bool) {
	frame.Scene.Each(func(id uint64, tr acmimodel.Transform) {
		pos := geomath.Ellipsoid.ToECEF(tr.Longitude, tr.Latitude, tr.Altitude)

		var orient *geomath.Quaternion
		if tr.Yaw != nil {
			q := buildOrientationQuat(tr)
			orient = &q
		}

		traj, ok := out[id]
		if !ok {
			traj = &Trajectory{EntityID: id}
			out[id] = traj
		}

		if !lastFrame && len(traj.Samples) > 0 {
			prev := traj.Samples[len(traj.Samples)-1]
			if samplesEqual(prev, pos, orient) {
				return
			}
		}

		traj.Samples = append(traj.Samples, Sample{Time: t, Position: pos, Orientation: orient, LastFrame: lastFrame})
	})
}

// buildOrientationQuat composes the body-to-NWU rotation with the
// NWU-frame-to-world rotation at the transform's geodetic position.
func buildOrientationQuat(tr acmimodel.Transform) geomath.Quaternion {
	heading := *tr.Yaw
	pitch := 0.0
	if tr.Pitch != nil {
		pitch = *tr.Pitch
	}
	roll := 0.0
	if tr.Roll != nil {
		roll = *tr.Roll
	}

	bodyToNWU := geomath.QuatFromEulerZYX(-heading, -pitch, roll)
	north, west, up := geomath.Ellipsoid.LocalNWUFrameGeodetic(tr.Longitude, tr.Latitude)
	frameToWorld := geomath.QuatFromOrthonormalBasis(north, west, up)
	return quat.Mul(frameToWorld, bodyToNWU)
}

func samplesEqual(prev Sample, pos geomath.Vec3, orient *geomath.Quaternion) bool {
	if !geomath.VecsApproxEqual(prev.Position, pos, posEps) {
		return false
	}
	if (prev.Orientation == nil) != (orient == nil) {
		return false
	}
	if prev.Orientation != nil && orient != nil && !geomath.QuatsApproxEqual(*prev.Orientation, *orient, quatEps) {
		return false
	}
	return true
}

// getFrame returns the frame with the largest TimeStamp <= timeStamp.
func getFrame(frames []acmimodel.Frame, timeStamp float64) (*acmimodel.Frame, bool) {
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].TimeStamp > timeStamp })
	idx--
	if idx < 0 {
		return nil, false
	}
	return &frames[idx], true
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func emulateIfNeeded(traj *Trajectory) {
	if len(traj.Samples) == 0 || traj.Samples[0].Orientation != nil {
		return
	}
	in := make([]orientation.Sample, len(traj.Samples))
	for i, s := range traj.Samples {
		in[i] = orientation.Sample{Time: s.Time, Position: s.Position}
	}
	quats := orientation.Synthesize(in, true)
	for i := range traj.Samples {
		q := quats[i]
		traj.Samples[i].Orientation = &q
	}
}
