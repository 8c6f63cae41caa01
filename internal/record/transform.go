package record

import (
	"math"
	"strconv"
	"strings"

	"acmicore/internal/acmimodel"
	"acmicore/internal/geoid"
)

// tokenState distinguishes an empty T= slot (inherit/default) from one
// that holds unparseable text (malformed record).
type tokenState int

const (
	tokenEmpty tokenState = iota
	tokenInvalid
	tokenValid
)

// decodeTransform parses a "T=..." value into a Transform, given the
// active reference longitude/latitude, an optional geoid model, and the
// entity's transform from the prior frame (for inheritance of empty
// tokens). priorOK is false when the entity has no prior transform.
// ok is false both for a slot count other than 3 or 6 to 9 and for any
// consumed slot holding text that fails to parse as a number.
func decodeTransform(value string, refLon, refLat float64, g *geoid.Grid, prior acmimodel.Transform, priorOK bool) (acmimodel.Transform, bool) {
	tokens := strings.Split(value, "|")
	if len(tokens) != 3 && (len(tokens) < 6 || len(tokens) > 9) {
		return acmimodel.Transform{}, false
	}

	lonOffTok, latOffTok, altTok := tokens[0], tokens[1], tokens[2]

	var rollTok, pitchTok, yawTok string
	if len(tokens) >= 6 {
		// Last three slots of a 6-to-9 slot row are always roll,pitch,yaw;
		// any slots between altitude and those three are ignored unparsed.
		rollTok, pitchTok, yawTok = tokens[len(tokens)-3], tokens[len(tokens)-2], tokens[len(tokens)-1]
	}

	out := acmimodel.Transform{}

	lonOff, lonState := parseFloatToken(lonOffTok)
	latOff, latState := parseFloatToken(latOffTok)
	altVal, altState := parseFloatToken(altTok)
	if lonState == tokenInvalid || latState == tokenInvalid || altState == tokenInvalid {
		return acmimodel.Transform{}, false
	}

	switch {
	case lonState == tokenValid:
		out.Longitude = refLon + lonOff
	case priorOK:
		out.Longitude = prior.Longitude
	default:
		out.Longitude = refLon
	}

	switch {
	case latState == tokenValid:
		out.Latitude = refLat + latOff
	case priorOK:
		out.Latitude = prior.Latitude
	default:
		out.Latitude = refLat
	}

	switch {
	case altState == tokenValid:
		geoidHeight := 0.0
		if g != nil {
			geoidHeight = g.HeightAt(out.Latitude, out.Longitude)
		}
		out.Altitude = altVal + geoidHeight
	case priorOK:
		out.Altitude = prior.Altitude
	default:
		out.Altitude = 0
	}

	roll, rollInvalid := inheritAngle(rollTok, priorAngle(priorOK, prior.Roll))
	pitch, pitchInvalid := inheritAngle(pitchTok, priorAngle(priorOK, prior.Pitch))
	yaw, yawInvalid := inheritAngle(yawTok, priorAngle(priorOK, prior.Yaw))
	if rollInvalid || pitchInvalid || yawInvalid {
		return acmimodel.Transform{}, false
	}
	out.Roll, out.Pitch, out.Yaw = roll, pitch, yaw

	return out, true
}

func priorAngle(priorOK bool, p *float64) *float64 {
	if !priorOK {
		return nil
	}
	return p
}

// inheritAngle parses tok as radians-from-degrees. An empty token
// inherits fallback (which may itself be nil, meaning "still unset").
// invalid is true when tok is non-empty but fails to parse.
func inheritAngle(tok string, fallback *float64) (value *float64, invalid bool) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return fallback, false
	}
	deg, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, true
	}
	rad := deg * (math.Pi / 180.0)
	return &rad, false
}

// parseFloatToken parses tok as a float64, reporting whether the slot
// was empty, held unparseable text, or parsed cleanly.
func parseFloatToken(tok string) (float64, tokenState) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return 0, tokenEmpty
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, tokenInvalid
	}
	return v, tokenValid
}
