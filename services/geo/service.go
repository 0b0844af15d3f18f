package geo

import (
	"bytes"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/utils"
)

type geoService struct {
	log logger.Logger
}

func NewGeoService(log logger.Logger) interfaces.GeoService {
	return &geoService{
		log: log,
	}
}

// Extract reads EXIF GPS tags from raw image bytes and converts them to
// decimal degrees. Every failure mode collapses to nil: callers must not
// see an error for a corrupt or untagged image. Altitude alone is not a
// usable signal, so it is only reported alongside coordinates.
func (s *geoService) Extract(imageData []byte) (location *interfaces.GeoLocation) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warnf("exif parse panic recovered: %v", r)
			location = nil
		}
	}()

	x, err := exif.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil
	}

	lat, ok := coordinate(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S")
	if !ok {
		return nil
	}
	lon, ok := coordinate(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W")
	if !ok {
		return nil
	}

	location = &interfaces.GeoLocation{
		Latitude:  lat,
		Longitude: lon,
	}
	if alt, ok := altitude(x); ok {
		location.Altitude = utils.Float64Ptr(alt)
	}
	return location
}

// coordinate reads one degrees/minutes/seconds triple plus its hemisphere
// reference and returns the signed decimal value
func coordinate(x *exif.Exif, tagName, refName exif.FieldName, negativeRef string) (float64, bool) {
	tag, err := x.Get(tagName)
	if err != nil || tag.Count < 3 {
		return 0, false
	}

	var parts [3]float64
	for i := 0; i < 3; i++ {
		num, den, err := tag.Rat2(i)
		if err != nil || den == 0 {
			return 0, false
		}
		parts[i] = float64(num) / float64(den)
	}

	decimal := DMSToDecimal(parts[0], parts[1], parts[2])

	refTag, err := x.Get(refName)
	if err == nil {
		if ref, err := refTag.StringVal(); err == nil &&
			strings.EqualFold(strings.TrimSpace(ref), negativeRef) {
			decimal = -decimal
		}
	}
	return decimal, true
}

func altitude(x *exif.Exif) (float64, bool) {
	tag, err := x.Get(exif.GPSAltitude)
	if err != nil || tag.Count < 1 {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	alt := float64(num) / float64(den)

	// Altitude ref 1 means below sea level
	if refTag, err := x.Get(exif.GPSAltitudeRef); err == nil {
		if ref, err := refTag.Int(0); err == nil && ref == 1 {
			alt = -alt
		}
	}
	return alt, true
}

// DMSToDecimal converts a degrees/minutes/seconds triple to decimal degrees
func DMSToDecimal(deg, min, sec float64) float64 {
	return deg + min/60 + sec/3600
}
