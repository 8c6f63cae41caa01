// Package record decodes ACMI logical lines into mutations against an
// in-flight acmimodel.AcmiData, mirroring the field-splitting and
// incremental-state-update style of a NMEA sentence decoder.
package record

import "strings"

// splitFields splits s on commas that are not preceded by a backslash.
// The backslash escape itself is left in the returned field verbatim;
// ACMI values keep their escapes rather than having them stripped.
func splitFields(s string) []string {
	var fields []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ',' {
			// Count trailing backslashes already written to cur.
			escaped := false
			buf := cur.String()
			n := 0
			for j := len(buf) - 1; j >= 0 && buf[j] == '\\'; j-- {
				n++
			}
			if n%2 == 1 {
				escaped = true
			}
			if escaped {
				cur.WriteByte(c)
				continue
			}
			fields = append(fields, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(c)
	}
	fields = append(fields, cur.String())
	return fields
}

// splitKeyValue splits a "Name=Value" field on the first '='. ok is
// false if no '=' is present, signalling a malformed record. The value
// is returned verbatim: a "\," escape stays in the value as written,
// backslash included.
func splitKeyValue(field string) (key, value string, ok bool) {
	idx := strings.IndexByte(field, '=')
	if idx < 0 {
		return "", "", false
	}
	return field[:idx], field[idx+1:], true
}
