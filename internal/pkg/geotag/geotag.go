// Package geotag reads the GPS position embedded in photo EXIF metadata.
//
// Parse exposes why a position is unavailable through the sentinel errors
// below. Extract and Resolver.Resolve collapse every such failure into a nil
// result, so a photo without usable metadata never blocks an upload.
package geotag

import (
	"errors"
	"fmt"
	"io"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

var (
	// ErrUnreadable means the image could not be opened.
	ErrUnreadable = errors.New("geotag: image unreadable")
	// ErrNoMetadata means the image carries no EXIF block.
	ErrNoMetadata = errors.New("geotag: no exif metadata")
	// ErrNoGPS means the EXIF block has no GPS sub-directory.
	ErrNoGPS = errors.New("geotag: no gps directory")
	// ErrIncomplete means one of latitude, longitude or their references is missing.
	ErrIncomplete = errors.New("geotag: incomplete gps fields")
	// ErrMalformed means the GPS fields exist but cannot be interpreted.
	ErrMalformed = errors.New("geotag: malformed gps fields")
)

// Parse decodes the EXIF metadata in r and returns the GPS position in
// decimal degrees.
func Parse(r io.Reader) (p domain.GeoPoint, err error) {
	defer func() {
		// goexif indexes raw tag data and can panic on truncated directories.
		if rec := recover(); rec != nil {
			p, err = domain.GeoPoint{}, fmt.Errorf("%w: %v", ErrMalformed, rec)
		}
	}()

	x, err := exif.Decode(r)
	if x == nil {
		if err == nil {
			err = errors.New("empty exif")
		}
		return domain.GeoPoint{}, fmt.Errorf("%w: %v", ErrNoMetadata, err)
	}
	// A non-critical decode error still leaves x usable.

	if _, err := x.Get(exif.GPSInfoIFDPointer); err != nil {
		return domain.GeoPoint{}, ErrNoGPS
	}

	lat, err := readAngle(x, exif.GPSLatitude, exif.GPSLatitudeRef, "N", "S")
	if err != nil {
		return domain.GeoPoint{}, err
	}
	lon, err := readAngle(x, exif.GPSLongitude, exif.GPSLongitudeRef, "E", "W")
	if err != nil {
		return domain.GeoPoint{}, err
	}

	p = domain.GeoPoint{Lat: lat.Decimal(), Lon: lon.Decimal()}
	if !p.Valid() {
		return domain.GeoPoint{}, fmt.Errorf("%w: %s out of range", ErrMalformed, p)
	}
	return p, nil
}

// Extract returns the GPS position embedded in an image, or nil when there
// is none or it cannot be read.
func Extract(r io.Reader) *domain.GeoPoint {
	p, err := Parse(r)
	if err != nil {
		return nil
	}
	return &p
}

func readAngle(x *exif.Exif, field, refField exif.FieldName, positive, negative string) (DMS, error) {
	tag, err := x.Get(field)
	if err != nil {
		return DMS{}, fmt.Errorf("%w: %s missing", ErrIncomplete, field)
	}
	refTag, err := x.Get(refField)
	if err != nil {
		return DMS{}, fmt.Errorf("%w: %s missing", ErrIncomplete, refField)
	}

	ref, err := refTag.StringVal()
	if err != nil {
		return DMS{}, fmt.Errorf("%w: %s: %v", ErrMalformed, refField, err)
	}
	ref = normalizeRef(ref)
	if ref != positive && ref != negative {
		return DMS{}, fmt.Errorf("%w: %s is %q", ErrMalformed, refField, ref)
	}

	if tag.Count < 3 {
		return DMS{}, fmt.Errorf("%w: %s has %d values", ErrMalformed, field, tag.Count)
	}
	var parts [3]float64
	for i := range parts {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return DMS{}, fmt.Errorf("%w: %s: %v", ErrMalformed, field, err)
		}
		switch {
		case num == 0 && den == 0 && i > 0:
			// Some phones write 0/0 for unused minutes or seconds. Degrees
			// of 0/0 is a "no fix" placeholder, not a position.
			parts[i] = 0
		case den <= 0 || num < 0:
			return DMS{}, fmt.Errorf("%w: %s has %d/%d", ErrMalformed, field, num, den)
		default:
			parts[i] = float64(num) / float64(den)
		}
	}

	return DMS{Degrees: parts[0], Minutes: parts[1], Seconds: parts[2], Ref: ref}, nil
}
