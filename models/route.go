package models

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Route is a named sailing route from the catalog.
// Coordinates is nil when the catalog entry lacks a latitude or a longitude.
type Route struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are known
func (r Route) HasCoordinates() bool {
	return r.Coordinates != nil
}
