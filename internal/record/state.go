package record

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"acmicore/internal/acmierr"
	"acmicore/internal/acmimodel"
	"acmicore/internal/geoid"
)

// State holds every piece of mutable scratch state a single Parser
// instance needs while decoding logical lines: the current timestamp,
// the in-progress frame, destruction bookkeeping and the kept-entity
// set. It is owned exclusively by its Parser; nothing here is shared
// across Parser instances.
type State struct {
	Data *acmimodel.AcmiData

	geoid      *geoid.Grid
	typeFilter map[string]bool
	log        *logrus.Logger

	currentTimeStamp float64
	currentFrame     acmimodel.Frame
	pendingDestroy   []uint64
	keptSet          map[uint64]bool
	excludedSet      map[uint64]bool

	lineNo int
}

// New returns a State ready to decode the body of a document into data.
// geoidGrid may be nil (geoid height treated as 0). typeFilter may be
// nil (no entities excluded). logger may be nil (a discard logger is
// used).
func New(data *acmimodel.AcmiData, geoidGrid *geoid.Grid, typeFilter map[string]bool, logger *logrus.Logger) *State {
	if logger == nil {
		logger = discardLogger()
	}
	return &State{
		Data:         data,
		geoid:        geoidGrid,
		typeFilter:   typeFilter,
		log:          logger,
		currentFrame: acmimodel.NewFrame(0, nil),
		keptSet:      make(map[uint64]bool),
		excludedSet:  make(map[uint64]bool),
	}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = discardWriter{}
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func (s *State) markInvalid(reason error, offender string) {
	s.Data.IsValid = false
	s.log.WithFields(logrus.Fields{"line": s.lineNo, "reason": reason, "text": offender}).Warn("acmi: skipping malformed record")
}

// DecodeLine dispatches one logical line (already stripped of comments,
// blanks and continuation joins) by its leading character.
func (s *State) DecodeLine(line string, lineNo int) {
	s.lineNo = lineNo
	switch {
	case line == "":
		return
	case line[0] == '#':
		s.handleTimeMarker(line[1:])
	case line[0] == '-':
		s.handleRemoval(line[1:])
	case strings.HasPrefix(line, "0,") || line == "0":
		s.handleGlobal(line)
	default:
		s.handleUpsert(line)
	}
}

func (s *State) handleTimeMarker(raw string) {
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || t < 0 {
		s.markInvalid(acmierr.ErrMalformedRecord, raw)
		return
	}

	if t != s.currentTimeStamp {
		pushed := s.currentFrame
		pushed.TimeStamp = s.currentTimeStamp
		s.Data.Frames = append(s.Data.Frames, pushed)
		s.currentTimeStamp = t
		s.currentFrame = acmimodel.NewFrame(t, &pushed)
	}

	for _, id := range s.pendingDestroy {
		s.currentFrame.Scene.Delete(id)
	}
	s.pendingDestroy = s.pendingDestroy[:0]
}

func (s *State) handleRemoval(hexID string) {
	id, err := strconv.ParseUint(hexID, 16, 64)
	if err != nil {
		s.markInvalid(acmierr.ErrMalformedRecord, hexID)
		return
	}

	if e, ok := s.Data.Entities.Get(id); ok {
		e.TimeSpan.End = s.referenceInstant()
	}
	if s.keptSet[id] {
		s.pendingDestroy = append(s.pendingDestroy, id)
	}
}

func (s *State) handleGlobal(line string) {
	fields := splitFields(line)
	rest := fields[1:]
	if len(rest) > 0 && rest[0] == "Event" {
		// Event records carry a reserved location payload; discarded.
		return
	}
	for _, f := range rest {
		key, value, ok := splitKeyValue(f)
		if !ok {
			s.markInvalid(acmierr.ErrMalformedRecord, f)
			continue
		}
		s.applyGlobalProperty(key, value)
	}
}

func (s *State) applyGlobalProperty(key, value string) {
	gp := &s.Data.GlobalProperties
	switch key {
	case "ReferenceTime":
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			gp.ReferenceTime = t
		} else {
			s.markInvalid(acmierr.ErrMalformedRecord, key)
		}
	case "RecordingTime":
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			gp.RecordingTime = t
		} else {
			s.markInvalid(acmierr.ErrMalformedRecord, key)
		}
	case "ReferenceLongitude":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			gp.ReferenceLongitude = v
		} else {
			s.markInvalid(acmierr.ErrMalformedRecord, key)
		}
	case "ReferenceLatitude":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			gp.ReferenceLatitude = v
		} else {
			s.markInvalid(acmierr.ErrMalformedRecord, key)
		}
	case "DataSource":
		gp.DataSource = value
	case "DataRecorder":
		gp.DataRecorder = value
	case "Author":
		gp.Author = value
	case "Title":
		gp.Title = value
	case "Category":
		gp.Category = value
	case "Briefing":
		gp.Briefing = value
	case "Debriefing":
		gp.Debriefing = value
	case "Comments":
		gp.Comments = value
	default:
		gp.AdditionalProps.Set(key, value)
	}
}

func (s *State) handleUpsert(line string) {
	fields := splitFields(line)
	if len(fields) < 2 {
		s.markInvalid(acmierr.ErrMalformedRecord, line)
		return
	}
	id, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		s.markInvalid(acmierr.ErrMalformedRecord, fields[0])
		return
	}
	if s.excludedSet[id] {
		return
	}

	e, exists := s.Data.Entities.Get(id)
	newEntity := !exists
	if newEntity {
		e = &acmimodel.EntityProps{ID: id}
		e.TimeSpan.Start = s.referenceInstant()
	}

	transformValue := ""
	hasTransform := false

	for _, f := range fields[1:] {
		key, value, ok := splitKeyValue(f)
		if !ok {
			s.markInvalid(acmierr.ErrMalformedRecord, f)
			continue
		}
		switch key {
		case "T":
			transformValue = value
			hasTransform = true
		case "Name":
			e.Name = value
		case "Type":
			e.Types = strings.Split(value, "+")
		case "CallSign":
			e.CallSign = value
		case "Pilot":
			e.Pilot = value
		case "Group":
			e.Group = value
		case "Country":
			e.Country = value
		case "Coalition":
			e.Coalition = value
		case "Color":
			e.Color = value
		case "destroyed":
			if value == "1" {
				e.TimeSpan.End = s.referenceInstant()
			}
		}
	}

	if newEntity {
		if !s.filterKeep(e) {
			s.excludedSet[id] = true
			return
		}
		s.Data.Entities.Put(e)
		s.keptSet[id] = true
	} else {
		s.Data.Entities.Put(e)
	}

	if s.keptSet[id] && hasTransform {
		prior, priorOK := s.currentFrame.Scene.Get(id)
		transform, ok := decodeTransform(transformValue, s.Data.GlobalProperties.ReferenceLongitude, s.Data.GlobalProperties.ReferenceLatitude, s.geoid, prior, priorOK)
		if !ok {
			s.markInvalid(acmierr.ErrMalformedRecord, transformValue)
			return
		}
		s.currentFrame.Scene.Set(id, transform)
	}
}

// filterKeep applies the type exclusion filter to a newly seen entity.
func (s *State) filterKeep(e *acmimodel.EntityProps) bool {
	if len(s.typeFilter) == 0 {
		return true
	}
	if len(e.Types) == 0 {
		return !s.typeFilter["Untyped"]
	}
	for _, t := range e.Types {
		if s.typeFilter[t] {
			return false
		}
	}
	return true
}

func (s *State) referenceInstant() time.Time {
	return s.Data.GlobalProperties.ReferenceTime.Add(secondsToDuration(s.currentTimeStamp))
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Finalize pushes the in-flight frame as the document's last frame,
// computes the document's overall time span, and fills in any
// entity's still-unset TimeSpan.End with the document's end. Call this
// exactly once, after the last logical line has been decoded.
func (s *State) Finalize() {
	pushed := s.currentFrame
	pushed.TimeStamp = s.currentTimeStamp
	s.Data.Frames = append(s.Data.Frames, pushed)

	refTime := s.Data.GlobalProperties.ReferenceTime
	firstNonEmpty := -1
	for i, f := range s.Data.Frames {
		if f.Scene.Len() > 0 {
			firstNonEmpty = i
			break
		}
	}
	if refTime.IsZero() || firstNonEmpty < 0 {
		s.markInvalid(acmierr.ErrInvalidTimeSpan, "")
		return
	}

	last := s.Data.Frames[len(s.Data.Frames)-1]
	s.Data.TimeSpan = acmimodel.TimeSpan{
		Start: refTime.Add(secondsToDuration(s.Data.Frames[firstNonEmpty].TimeStamp)),
		End:   refTime.Add(secondsToDuration(last.TimeStamp)),
	}

	s.Data.Entities.Each(func(e *acmimodel.EntityProps) {
		if e.TimeSpan.End.IsZero() {
			e.TimeSpan.End = s.Data.TimeSpan.End
		}
	})
}
