package services

import (
	"bytes"
	"fmt"
	"math"

	"github.com/rwcarlsen/goexif/exif"
)

// GPSData contains extracted GPS coordinates from an image.
// A nil field means the coordinate was absent or malformed.
type GPSData struct {
	Latitude  *float64
	Longitude *float64
}

// EXIFService extracts GPS metadata from images
type EXIFService struct{}

// NewEXIFService creates a new EXIFService
func NewEXIFService() *EXIFService {
	return &EXIFService{}
}

// ExtractGPS extracts GPS coordinates from image bytes. Extraction never
// fails: any decode problem or malformed tag yields absent coordinates.
func (s *EXIFService) ExtractGPS(data []byte) *GPSData {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return &GPSData{}
	}

	return &GPSData{
		Latitude:  coordinateFromTag(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S"),
		Longitude: coordinateFromTag(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W"),
	}
}

// coordinateFromTag reads an EXIF coordinate tag, normalizes it and applies
// the hemisphere reference sign.
func coordinateFromTag(x *exif.Exif, field, refField exif.FieldName, negativeRef string) *float64 {
	tag, err := x.Get(field)
	if err != nil {
		return nil
	}

	vals := make([]float64, 0, int(tag.Count))
	for i := 0; i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return nil
		}
		vals = append(vals, float64(num)/float64(den))
	}

	decimal, ok := NormalizeCoordinate(vals)
	if !ok {
		return nil
	}

	if refTag, err := x.Get(refField); err == nil {
		if ref, err := refTag.StringVal(); err == nil && ref == negativeRef {
			decimal = -decimal
		}
	}

	return &decimal
}

// NormalizeCoordinate converts an EXIF location field into decimal degrees.
// A single value is taken as-is, a degree/minute/second triple is converted
// with d + m/60 + s/3600. Any other arity is reported as absent. No rounding
// or range validation happens here: out-of-range values pass through
// unchecked, matching how the coordinates were recorded.
func NormalizeCoordinate(vals []float64) (float64, bool) {
	switch len(vals) {
	case 1:
		return vals[0], true
	case 3:
		return vals[0] + vals[1]/60 + vals[2]/3600, true
	default:
		return 0, false
	}
}

// FormatCoordinates formats lat/lng as a readable string
func FormatCoordinates(lat, lng float64) string {
	latDir := "N"
	if lat < 0 {
		latDir = "S"
		lat = math.Abs(lat)
	}
	lngDir := "E"
	if lng < 0 {
		lngDir = "W"
		lng = math.Abs(lng)
	}
	return fmt.Sprintf("%.6f°%s, %.6f°%s", lat, latDir, lng, lngDir)
}
