package interfaces

// GeoLocation is a decimal-degree coordinate triple extracted from EXIF
// GPS tags. Altitude is optional even when coordinates are present.
type GeoLocation struct {
	Latitude  float64
	Longitude float64
	Altitude  *float64
}

// GeoService extracts GPS coordinates from raw image bytes. Extract
// returns nil for anything it cannot read: non-images, images without
// EXIF, images without GPS tags, corrupt data. It never panics and never
// returns an error.
type GeoService interface {
	Extract(imageData []byte) *GeoLocation
}
