package acmimodel

// Frame is a scene snapshot valid from TimeStamp (seconds since
// ReferenceTime) until the next frame's TimeStamp.
type Frame struct {
	TimeStamp float64
	Scene     *Scene
}

// NewFrame returns a Frame at timeStamp seeded with a clone of prior's
// scene (or an empty scene if prior is nil). Cloning gives each frame
// its own copy-on-write scene: mutating the new frame never touches
// the prior one.
func NewFrame(timeStamp float64, prior *Frame) Frame {
	if prior == nil {
		return Frame{TimeStamp: timeStamp, Scene: NewScene()}
	}
	return Frame{TimeStamp: timeStamp, Scene: prior.Scene.Clone()}
}
