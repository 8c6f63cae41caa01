package record

import (
	"testing"
	"time"

	"acmicore/internal/acmimodel"
)

func newState() *State {
	return New(acmimodel.NewAcmiData(), nil, nil, nil)
}

func TestDecodeLine_GlobalPropertiesAndReference(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z,ReferenceLongitude=10,ReferenceLatitude=20,Author=Test", 3)

	gp := s.Data.GlobalProperties
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !gp.ReferenceTime.Equal(want) {
		t.Fatalf("ReferenceTime = %v want %v", gp.ReferenceTime, want)
	}
	if gp.ReferenceLongitude != 10 || gp.ReferenceLatitude != 20 {
		t.Fatalf("reference = (%v,%v)", gp.ReferenceLongitude, gp.ReferenceLatitude)
	}
	if gp.Author != "Test" {
		t.Fatalf("Author = %q", gp.Author)
	}
}

func TestDecodeLine_UnknownGlobalKeyGoesToAdditionalProps(t *testing.T) {
	s := newState()
	s.DecodeLine("0,CustomKey=CustomValue", 3)
	v, ok := s.Data.GlobalProperties.AdditionalProps.Get("CustomKey")
	if !ok || v != "CustomValue" {
		t.Fatalf("AdditionalProps[CustomKey] = %q ok=%v", v, ok)
	}
}

func TestDecodeLine_EventRowDiscarded(t *testing.T) {
	s := newState()
	s.DecodeLine("0,Event,Message=hello", 3)
	if s.Data.GlobalProperties.AdditionalProps.Len() != 0 {
		t.Fatalf("expected no additional props from an event row")
	}
}

func TestDecodeLine_EntityUpsertAndTransform(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z,ReferenceLongitude=10,ReferenceLatitude=20", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("64,Name=F-16,Type=Air+Friendly+FixedWing,T=1|2|1000||||0|10|90", 5)

	e, ok := s.Data.Entities.Get(0x64)
	if !ok {
		t.Fatalf("entity 0x64 not found")
	}
	if e.Name != "F-16" {
		t.Fatalf("Name = %q", e.Name)
	}
	if len(e.Types) != 3 || e.Types[0] != "Air" {
		t.Fatalf("Types = %v", e.Types)
	}

	tr, ok := s.currentFrame.Scene.Get(0x64)
	if !ok {
		t.Fatalf("transform not set in current frame")
	}
	if tr.Longitude != 11 || tr.Latitude != 22 {
		t.Fatalf("lon/lat = (%v,%v) want (11,22)", tr.Longitude, tr.Latitude)
	}
	if tr.Yaw == nil || *tr.Yaw == 0 {
		t.Fatalf("yaw not decoded")
	}
}

func TestDecodeLine_FilterExcludesType(t *testing.T) {
	s := New(acmimodel.NewAcmiData(), nil, map[string]bool{"Decoy": true}, nil)
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("1,Name=Flare,Type=Decoy", 5)

	if _, ok := s.Data.Entities.Get(1); ok {
		t.Fatalf("filtered entity should not be stored")
	}
	if _, ok := s.currentFrame.Scene.Get(1); ok {
		t.Fatalf("filtered entity should not appear in scene")
	}
}

func TestDecodeLine_FilterExclusionPersistsAcrossLaterRows(t *testing.T) {
	s := New(acmimodel.NewAcmiData(), nil, map[string]bool{"Air": true}, nil)
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("a,Type=Air,Name=Bandit", 5)
	// A later row for the same id with no Type= field must not be
	// treated as a fresh, untyped entity that passes the filter.
	s.DecodeLine("a,T=0.0001|0|100", 6)

	if _, ok := s.Data.Entities.Get(0xa); ok {
		t.Fatalf("entity excluded by the type filter must stay excluded on later rows")
	}
	if _, ok := s.currentFrame.Scene.Get(0xa); ok {
		t.Fatalf("excluded entity must never appear in the scene")
	}
}

func TestDecodeLine_RemovalMarksPendingDestroyedAtNextMarker(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("1,Name=Bandit,T=0|0|0", 5)
	s.DecodeLine("-1", 6)

	if _, ok := s.currentFrame.Scene.Get(1); !ok {
		t.Fatalf("entity should still be present in the current frame after removal, before next marker")
	}

	s.DecodeLine("#1", 7)
	if _, ok := s.currentFrame.Scene.Get(1); ok {
		t.Fatalf("entity should be gone from the scene after the next time marker")
	}

	e, _ := s.Data.Entities.Get(1)
	if e.TimeSpan.End.IsZero() {
		t.Fatalf("TimeSpan.End should be set on removal")
	}
}

func TestDecodeLine_RemovalKeepsEntityInPushedFrameAtDeathTimestamp(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#2", 4)
	s.DecodeLine("a,Name=Bandit,T=0|0|0", 5)
	s.DecodeLine("-a", 6)
	s.DecodeLine("#3", 7)
	s.Finalize()

	// The initial empty frame at t=0 is pushed by "#2", so the frames are
	// t=0 (empty), t=2 and t=3.
	if len(s.Data.Frames) != 3 {
		t.Fatalf("Frames = %d want 3", len(s.Data.Frames))
	}
	if s.Data.Frames[1].TimeStamp != 2 || s.Data.Frames[2].TimeStamp != 3 {
		t.Fatalf("timestamps = %v, %v", s.Data.Frames[1].TimeStamp, s.Data.Frames[2].TimeStamp)
	}
	if _, ok := s.Data.Frames[1].Scene.Get(0xa); !ok {
		t.Fatalf("entity removed at t=2 must still appear in the t=2 frame")
	}
	if _, ok := s.Data.Frames[2].Scene.Get(0xa); ok {
		t.Fatalf("entity removed at t=2 must be gone starting at t=3")
	}
}

func TestDecodeLine_TimeMarkerPushesFrame(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("1,Name=A,T=0|0|0", 5)
	s.DecodeLine("#5.5", 6)
	s.DecodeLine("2,Name=B,T=0|0|0", 7)
	s.Finalize()

	if len(s.Data.Frames) != 2 {
		t.Fatalf("Frames = %d want 2", len(s.Data.Frames))
	}
	if s.Data.Frames[0].TimeStamp != 0 || s.Data.Frames[1].TimeStamp != 5.5 {
		t.Fatalf("timestamps = %v, %v", s.Data.Frames[0].TimeStamp, s.Data.Frames[1].TimeStamp)
	}
	// Frame-to-frame inheritance: entity 1 set in frame 0 persists into frame 1.
	if _, ok := s.Data.Frames[1].Scene.Get(1); !ok {
		t.Fatalf("entity 1 should be inherited into frame 1")
	}
}

func TestDecodeLine_MalformedFieldMarksInvalid(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("1,NoEqualsHere", 5)
	if s.Data.IsValid {
		t.Fatalf("expected IsValid=false after a malformed field")
	}
}

func TestDecodeLine_NoCommaMarksInvalid(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("64", 5)
	if s.Data.IsValid {
		t.Fatalf("expected IsValid=false for an entity row with no comma")
	}
}

func TestFinalize_StartUsesFirstNonEmptyFrameTimeStamp(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("#2", 5)
	s.DecodeLine("1,Name=A,T=0|0|0", 6)
	s.DecodeLine("#10", 7)
	s.Finalize()

	want := time.Date(2024, 1, 1, 0, 0, 2, 0, time.UTC)
	if !s.Data.TimeSpan.Start.Equal(want) {
		t.Fatalf("TimeSpan.Start = %v want %v (first non-empty frame is at t=2, not t=0)", s.Data.TimeSpan.Start, want)
	}
}

func TestFinalize_ComputesTimeSpanAndFillsEntityEnd(t *testing.T) {
	s := newState()
	s.DecodeLine("0,ReferenceTime=2024-01-01T00:00:00Z", 3)
	s.DecodeLine("#0", 4)
	s.DecodeLine("1,Name=A,T=0|0|0", 5)
	s.DecodeLine("#10", 6)
	s.Finalize()

	if !s.Data.TimeSpan.Valid() {
		t.Fatalf("expected a valid TimeSpan")
	}
	if s.Data.TimeSpan.Duration() != 10 {
		t.Fatalf("duration = %v want 10", s.Data.TimeSpan.Duration())
	}
	e, _ := s.Data.Entities.Get(1)
	if !e.TimeSpan.End.Equal(s.Data.TimeSpan.End) {
		t.Fatalf("entity end = %v want %v", e.TimeSpan.End, s.Data.TimeSpan.End)
	}
}
