// Package acmi decodes ACMI/TacView flight-recording documents into an
// in-memory scene history and resamples that history into per-entity
// trajectories.
package acmi

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"acmicore/internal/acmierr"
	"acmicore/internal/acmimodel"
	"acmicore/internal/geoid"
	"acmicore/internal/record"
	"acmicore/internal/scanner"
	"acmicore/internal/trajectory"
)

// ZipExtractor unwraps a single-entry ZIP container into its raw ACMI
// text content. The core decoder depends only on this interface; a
// default archive/zip-backed implementation lives in cmd/acmidump.
type ZipExtractor interface {
	Extract(ctx context.Context, data []byte) ([]byte, error)
}

// Options configures a Parser.
type Options struct {
	// ZipExtractor handles ".zip.acmi" containers. Required only when
	// compressed input is passed to Parse.
	ZipExtractor ZipExtractor
	// Geoid supplies EGM2008-style height-above-ellipsoid correction
	// for T= altitudes. Nil treats geoid height as 0 everywhere.
	Geoid *geoid.Grid
	// TypeFilter excludes newly-seen entities whose Type list
	// intersects this set; an untyped entity is excluded iff the set
	// contains "Untyped".
	TypeFilter []string
	// Logger receives Warn diagnostics for header problems and
	// malformed records; container errors are returned from Parse, not
	// logged. Nil uses a discard logger.
	Logger *logrus.Logger
}

// Parser decodes ACMI documents. A Parser holds no state across calls
// to Parse beyond its immutable configuration, so one Parser value may
// be reused (but not shared concurrently with overlapping in-flight
// calls mutating the same geoid or logger in a data-racy way, neither
// of which this package does).
type Parser struct {
	zipExtractor ZipExtractor
	geoid        *geoid.Grid
	typeFilter   map[string]bool
	logger       *logrus.Logger
}

// NewParser returns a Parser configured by opts.
func NewParser(opts Options) *Parser {
	filter := make(map[string]bool, len(opts.TypeFilter))
	for _, t := range opts.TypeFilter {
		filter[t] = true
	}
	return &Parser{
		zipExtractor: opts.ZipExtractor,
		geoid:        opts.Geoid,
		typeFilter:   filter,
		logger:       opts.Logger,
	}
}

// Parse decodes an ACMI document from data, which may be either raw
// ACMI text or a ".zip.acmi" container (detected by its "PK" magic).
// Structural text errors degrade the returned AcmiData (IsValid=false)
// rather than returning an error; only container failures and
// cancellation are returned as errors.
func (p *Parser) Parse(ctx context.Context, data []byte) (*acmimodel.AcmiData, error) {
	if len(data) >= 2 && data[0] == 'P' && data[1] == 'K' {
		if p.zipExtractor == nil {
			return nil, fmt.Errorf("acmi: %w", acmierr.ErrCorruptContainer)
		}
		extracted, err := p.zipExtractor.Extract(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("acmi: %w", err)
		}
		data = extracted
	}

	result := acmimodel.NewAcmiData()
	sc := scanner.New(data)
	logger := p.logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	header, ok := readHeader(sc)
	result.Header = header
	if !ok {
		logger.WithField("reason", acmierr.ErrHeaderMissing).Warn("acmi: header missing")
		result.IsValid = false
		return result, nil
	}
	if header.FileType != "text/acmi/tacview" {
		logger.WithField("reason", acmierr.ErrHeaderWrongType).Warn("acmi: unexpected FileType")
		result.IsValid = false
		return result, nil
	}
	if !acmimodel.SupportedVersions[header.FileVersion] {
		logger.WithField("reason", acmierr.ErrHeaderUnsupportedVersion).Warn("acmi: unsupported FileVersion")
		result.IsValid = false
		return result, nil
	}

	st := record.New(result, p.geoid, p.typeFilter, p.logger)
	lineNo := 2
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acmi: %w: %w", acmierr.ErrCancelled, ctx.Err())
		default:
		}

		line, ok := sc.NextLogicalLine()
		if !ok {
			break
		}
		lineNo++
		st.DecodeLine(line, lineNo)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("acmi: %w", err)
	}

	st.Finalize()
	return result, nil
}

// readHeader consumes the two header physical lines.
func readHeader(sc *scanner.Scanner) (acmimodel.Header, bool) {
	line1, ok := sc.NextPhysicalLine()
	if !ok {
		return acmimodel.Header{}, false
	}
	line2, ok := sc.NextPhysicalLine()
	if !ok {
		return acmimodel.Header{}, false
	}

	h := acmimodel.Header{}
	if k, v, ok := splitHeaderLine(line1); ok && k == "FileType" {
		h.FileType = v
	}
	if k, v, ok := splitHeaderLine(line2); ok && k == "FileVersion" {
		h.FileVersion = v
	}
	return h, true
}

func splitHeaderLine(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

// CreateSampledTrajectories resamples data's frame history into
// per-entity trajectories. Invalid data yields an empty map.
func CreateSampledTrajectories(data *acmimodel.AcmiData, opts trajectory.Options) map[uint64]*trajectory.Trajectory {
	if data == nil || !data.IsValid {
		return map[uint64]*trajectory.Trajectory{}
	}
	return trajectory.Build(data, opts)
}
