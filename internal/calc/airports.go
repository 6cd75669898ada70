package calc

import (
	"fmt"
	"math"
	"strings"

	"github.com/evergrid/emissary/internal/common"
)

type coordinates struct {
	lat float64
	lon float64
}

// Coordinates for the airports we see most often on travel receipts.
// Extend as new routes show up in production documents.
var airports = map[string]coordinates{
	"AMS": {52.3105, 4.7683},
	"ATL": {33.6407, -84.4277},
	"BOS": {42.3656, -71.0096},
	"CDG": {49.0097, 2.5479},
	"DEN": {39.8561, -104.6737},
	"DFW": {32.8998, -97.0403},
	"DXB": {25.2532, 55.3657},
	"FRA": {50.0379, 8.5622},
	"HKG": {22.3080, 113.9185},
	"HND": {35.5494, 139.7798},
	"JFK": {40.6413, -73.7781},
	"LAX": {33.9416, -118.4085},
	"LHR": {51.4700, -0.4543},
	"MIA": {25.7959, -80.2870},
	"NRT": {35.7720, 140.3929},
	"ORD": {41.9742, -87.9073},
	"SEA": {47.4502, -122.3088},
	"SFO": {37.6213, -122.3790},
	"SIN": {1.3644, 103.9915},
	"SYD": {-33.9399, 151.1753},
	"YYZ": {43.6777, -79.6248},
}

const earthRadiusKm = 6371.0

// AirportDistanceKm returns the great-circle distance between two IATA
// airport codes.
func AirportDistanceKm(origin, destination string) (float64, error) {
	from, ok := airports[strings.ToUpper(strings.TrimSpace(origin))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown airport code %q", common.ErrInvalidField, origin)
	}
	to, ok := airports[strings.ToUpper(strings.TrimSpace(destination))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown airport code %q", common.ErrInvalidField, destination)
	}
	return haversineKm(from, to), nil
}

func haversineKm(a, b coordinates) float64 {
	lat1 := a.lat * math.Pi / 180
	lat2 := b.lat * math.Pi / 180
	dLat := (b.lat - a.lat) * math.Pi / 180
	dLon := (b.lon - a.lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
