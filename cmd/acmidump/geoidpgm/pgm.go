// Package geoidpgm loads an EGM2008-style geoid raster from a
// PGM-family file (P2 ASCII or P5 binary, 16-bit samples) into an
// internal/geoid.Grid. This is demonstration-CLI plumbing only; the
// decoder core depends on geoid.Grid, never on this loader.
package geoidpgm

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"acmicore/internal/geoid"
)

// Metadata carries the raster's geographic placement, which PGM itself
// has no field for. Callers supply it alongside the file (e.g. from a
// sibling config value or a convention for the specific raster in use).
type Metadata struct {
	DLat, DLon float64
	Lat0, Lon0 float64
}

// Load parses raw as a P2 or P5 PGM file of int16 samples and returns a
// Grid built from its raster plus meta.
func Load(raw []byte, meta Metadata) (*geoid.Grid, error) {
	r := bufio.NewReader(bytes.NewReader(raw))

	magic, err := readToken(r)
	if err != nil {
		return nil, fmt.Errorf("geoidpgm: %w", err)
	}

	width, err := readIntToken(r)
	if err != nil {
		return nil, fmt.Errorf("geoidpgm: width: %w", err)
	}
	height, err := readIntToken(r)
	if err != nil {
		return nil, fmt.Errorf("geoidpgm: height: %w", err)
	}
	maxVal, err := readIntToken(r)
	if err != nil {
		return nil, fmt.Errorf("geoidpgm: maxval: %w", err)
	}
	_ = maxVal

	heights := make([]int16, width*height)
	switch magic {
	case "P2":
		for i := range heights {
			v, err := readIntToken(r)
			if err != nil {
				return nil, fmt.Errorf("geoidpgm: sample %d: %w", i, err)
			}
			heights[i] = int16(v)
		}
	case "P5":
		// Exactly one whitespace byte separates the header from binary
		// data; readIntToken for maxval already consumed up to and
		// including it via its trailing whitespace skip, so the reader
		// is correctly positioned.
		buf := make([]byte, 2)
		for i := range heights {
			if _, err := readFull(r, buf); err != nil {
				return nil, fmt.Errorf("geoidpgm: sample %d: %w", i, err)
			}
			heights[i] = int16(uint16(buf[0])<<8 | uint16(buf[1]))
		}
	default:
		return nil, fmt.Errorf("geoidpgm: unsupported magic %q", magic)
	}

	return geoid.NewGrid(height, width, meta.DLat, meta.DLon, meta.Lat0, meta.Lon0, heights), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		k, err := r.Read(buf[n:])
		n += k
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// readToken reads a whitespace-delimited token, skipping "#" comments
// to end-of-line.
func readToken(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			for {
				c, err := r.ReadByte()
				if err != nil || c == '\n' {
					break
				}
			}
			continue
		}
		if isPGMSpace(b) {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(b)
	}
}

func readIntToken(r *bufio.Reader) (int, error) {
	tok, err := readToken(r)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(tok)
}

func isPGMSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
