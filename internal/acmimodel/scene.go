package acmimodel

import (
	"strconv"

	"github.com/iancoleman/orderedmap"
)

// Scene is the current Transform for every entity visible at a given
// timestamp, ordered by first insertion into this scene.
type Scene struct {
	m *orderedmap.OrderedMap
}

// NewScene returns an empty Scene.
func NewScene() *Scene {
	return &Scene{m: orderedmap.New()}
}

func sceneKey(id uint64) string { return strconv.FormatUint(id, 10) }

// Set records or replaces the Transform for id.
func (s *Scene) Set(id uint64, t Transform) {
	s.m.Set(sceneKey(id), t)
}

// Get returns the Transform for id, if present.
func (s *Scene) Get(id uint64) (Transform, bool) {
	v, ok := s.m.Get(sceneKey(id))
	if !ok {
		return Transform{}, false
	}
	t, _ := v.(Transform)
	return t, true
}

// Delete removes id from the scene.
func (s *Scene) Delete(id uint64) {
	s.m.Delete(sceneKey(id))
}

// Len reports how many entities are present.
func (s *Scene) Len() int {
	return len(s.m.Keys())
}

// IDs returns the entity ids in insertion order.
func (s *Scene) IDs() []uint64 {
	keys := s.m.Keys()
	out := make([]uint64, 0, len(keys))
	for _, k := range keys {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Each calls fn for every (id, Transform) pair in insertion order.
func (s *Scene) Each(fn func(id uint64, t Transform)) {
	for _, id := range s.IDs() {
		t, ok := s.Get(id)
		if ok {
			fn(id, t)
		}
	}
}

// Clone returns an independent copy-on-write snapshot: a new Scene
// backed by a fresh ordered map, seeded with clones of every current
// Transform, so mutating the clone never affects the original and vice
// versa. Each new Frame gets its own full copy of the prior frame's
// scene this way; nothing is shared between frames.
func (s *Scene) Clone() *Scene {
	out := NewScene()
	s.Each(func(id uint64, t Transform) {
		out.Set(id, t.Clone())
	})
	return out
}
