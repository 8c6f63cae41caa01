package acmimodel

import (
	"time"

	"github.com/iancoleman/orderedmap"
)

// GlobalProperties holds the document-wide "0,Name=Value" fields.
// ReferenceLongitude and ReferenceLatitude default to 0 per spec;
// everything else is the zero value until a matching key is observed.
type GlobalProperties struct {
	ReferenceTime      time.Time
	ReferenceLongitude float64
	ReferenceLatitude  float64

	DataSource    string
	DataRecorder  string
	RecordingTime time.Time
	Author        string
	Title         string
	Category      string
	Briefing      string
	Debriefing    string
	Comments      string

	// AdditionalProps preserves every Name=Value pair that did not map
	// to a recognized field above, in first-seen order.
	AdditionalProps *AdditionalProps
}

// NewGlobalProperties returns a GlobalProperties with its
// AdditionalProps map ready to use.
func NewGlobalProperties() GlobalProperties {
	return GlobalProperties{AdditionalProps: NewAdditionalProps()}
}

// AdditionalProps is an insertion-ordered string->string map, used for
// a document's unrecognized global properties, kept in insertion order
// so two parses of the same bytes produce identical iteration order.
type AdditionalProps struct {
	m *orderedmap.OrderedMap
}

// NewAdditionalProps returns an empty, ready-to-use AdditionalProps.
func NewAdditionalProps() *AdditionalProps {
	return &AdditionalProps{m: orderedmap.New()}
}

// Set records value under key, preserving the position of the first
// Set call for a given key across subsequent updates.
func (p *AdditionalProps) Set(key, value string) {
	p.m.Set(key, value)
}

// Get returns the value stored under key, if any.
func (p *AdditionalProps) Get(key string) (string, bool) {
	v, ok := p.m.Get(key)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, true
}

// Keys returns the keys in first-seen order.
func (p *AdditionalProps) Keys() []string {
	return p.m.Keys()
}

// Len reports the number of stored keys.
func (p *AdditionalProps) Len() int {
	return len(p.m.Keys())
}

// Clone returns a deep, independent copy.
func (p *AdditionalProps) Clone() *AdditionalProps {
	out := NewAdditionalProps()
	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		out.Set(k, v)
	}
	return out
}

// Transform is an entity's position/orientation at a point in time.
// Longitude and latitude are absolute decimal degrees (the document's
// active reference has already been applied); Altitude is meters above
// the WGS84 ellipsoid. Roll/Pitch/Yaw are radians and optional: a nil
// pointer means "not yet observed for this entity", distinct from an
// observed value of exactly zero.
type Transform struct {
	Longitude float64
	Latitude  float64
	Altitude  float64

	Roll  *float64
	Pitch *float64
	Yaw   *float64
}

// Clone returns an independent copy; the optional angle pointers are
// copied by value so mutating the clone never affects the original.
func (t Transform) Clone() Transform {
	out := t
	if t.Roll != nil {
		v := *t.Roll
		out.Roll = &v
	}
	if t.Pitch != nil {
		v := *t.Pitch
		out.Pitch = &v
	}
	if t.Yaw != nil {
		v := *t.Yaw
		out.Yaw = &v
	}
	return out
}
