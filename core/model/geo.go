package model

// GeoPoint is a geocoded location in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeocodingStatus reports how a location was obtained.
type GeocodingStatus string

const (
	GeocodingPending GeocodingStatus = "pending"
	GeocodingOK      GeocodingStatus = "ok"
	GeocodingManual  GeocodingStatus = "manual"
	GeocodingError   GeocodingStatus = "error"
)
