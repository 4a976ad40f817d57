package service

import (
	"math"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

const earthRadiusMeters = 6371000

// Distance returns the great-circle distance in meters between a and b.
func Distance(a, b domain.Coordinate) float64 {
	return haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// Classify compares a device coordinate against the configured geofence.
// The radius is inclusive.
func Classify(cfg domain.GeofenceConfig, device domain.Coordinate) domain.GateResult {
	dist := Distance(device, cfg.Target)
	if dist <= cfg.AllowedRadiusMeters {
		return domain.Allowed(dist)
	}
	return domain.OutOfRange(dist)
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
