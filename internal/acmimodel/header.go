package acmimodel

// Header is the two-line FileType/FileVersion preamble every ACMI
// document starts with.
type Header struct {
	FileType    string
	FileVersion string
}

// SupportedVersions lists the FileVersion values this decoder accepts.
var SupportedVersions = map[string]bool{
	"2.1": true,
	"2.2": true,
}

// Valid reports whether the header carries the expected ACMI file type
// and a whitelisted version.
func (h Header) Valid() bool {
	return h.FileType == "text/acmi/tacview" && SupportedVersions[h.FileVersion]
}
