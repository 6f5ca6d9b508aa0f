package utils

import (
	"fmt"
)

// ValidateLocation checks if location coordinates are valid
func ValidateLocation(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude: must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("invalid longitude: must be between -180 and 180")
	}
	return nil
}

// ParseGeoPoint reads a {"lat": .., "lon": ..} object from event metadata.
// ok is false when v is not an object with two numeric coordinates.
func ParseGeoPoint(v interface{}) (lat, lon float64, ok bool) {
	m, isMap := v.(map[string]interface{})
	if !isMap {
		return 0, 0, false
	}
	lat, latOK := toFloat(m["lat"])
	lon, lonOK := toFloat(m["lon"])
	if !latOK || !lonOK {
		return 0, 0, false
	}
	return lat, lon, true
}

// ValidateGeoPoint validates an optional metadata geo point. A nil value is valid.
func ValidateGeoPoint(v interface{}) error {
	if v == nil {
		return nil
	}
	lat, lon, ok := ParseGeoPoint(v)
	if !ok {
		return fmt.Errorf("invalid location: expected {\"lat\": number, \"lon\": number}")
	}
	return ValidateLocation(lat, lon)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
