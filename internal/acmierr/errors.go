// Package acmierr declares the sentinel error kinds shared by the ACMI
// decoder and its ZIP extractor, so callers can use errors.Is instead of
// string matching.
package acmierr

import "errors"

var (
	// ErrHeaderMissing is the logged reason when the byte stream ends
	// before the two-line FileType/FileVersion header is fully read.
	// Parse then returns the data with IsValid=false and no error.
	ErrHeaderMissing = errors.New("acmi: header missing")

	// ErrHeaderWrongType is the logged reason when the first header line
	// is not "FileType=text/acmi/tacview" (IsValid=false, no error).
	ErrHeaderWrongType = errors.New("acmi: unsupported file type")

	// ErrHeaderUnsupportedVersion is the logged reason when FileVersion
	// is not one of the whitelisted versions ("2.1", "2.2")
	// (IsValid=false, no error).
	ErrHeaderUnsupportedVersion = errors.New("acmi: unsupported file version")

	// ErrMalformedRecord marks a structural defect in a single logical
	// line (missing '=', missing ',', bad numeric token). It never
	// aborts parsing; it only clears AcmiData.IsValid.
	ErrMalformedRecord = errors.New("acmi: malformed record")

	// ErrCorruptContainer is returned when the ZIP extractor fails, or
	// the archive does not contain exactly one member.
	ErrCorruptContainer = errors.New("acmi: corrupt container")

	// ErrCancelled is returned when the parse context is cancelled.
	ErrCancelled = errors.New("acmi: parse cancelled")

	// ErrInvalidTimeSpan is the logged reason when the document has no
	// usable reference time or no non-empty frames; it only clears
	// AcmiData.IsValid.
	ErrInvalidTimeSpan = errors.New("acmi: invalid time span")
)
