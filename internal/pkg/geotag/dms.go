package geotag

import (
	"fmt"
	"strings"
)

// DMS is an angle in degrees, minutes and seconds with its hemisphere
// reference (N, S, E or W), as stored in EXIF GPS tags.
type DMS struct {
	Degrees float64
	Minutes float64
	Seconds float64
	Ref     string
}

// Decimal converts the angle to signed decimal degrees. Southern and western
// hemispheres are negative.
func (a DMS) Decimal() float64 {
	decimal := a.Degrees + a.Minutes/60 + a.Seconds/3600
	switch normalizeRef(a.Ref) {
	case "S", "W":
		return -decimal
	}
	return decimal
}

func (a DMS) String() string {
	return fmt.Sprintf("%g°%g'%g\"%s", a.Degrees, a.Minutes, a.Seconds, normalizeRef(a.Ref))
}

// normalizeRef strips the NUL padding and whitespace some cameras leave
// around the reference letter.
func normalizeRef(ref string) string {
	return strings.ToUpper(strings.Trim(ref, "\x00 "))
}
