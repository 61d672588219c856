package types

import "fmt"

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks the coordinate ranges.
func (p GeoPoint) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range [-90,90]", p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range [-180,180]", p.Longitude)
	}
	return nil
}

// LocationDetails carries the address fragments attached to a feature.
type LocationDetails struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// TouristSpot is a normalized geographic feature returned by a spot search.
// Identity is the upstream feature id; the aggregator guarantees uniqueness
// across query passes.
type TouristSpot struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Location        GeoPoint          `json:"location"`
	Tags            map[string]string `json:"tags"`
	LocationDetails LocationDetails   `json:"location_details"`
}
