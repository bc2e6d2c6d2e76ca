package server

import "math"

const earthRadiusM = 6371000

// distanceM returns the approximate distance in meters between two
// coordinates using the equirectangular projection. Good to well under a
// percent at zone scale, which is all the nearest-zone scan needs.
func distanceM(lat1, lng1, lat2, lng2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dLat := la2 - la1
	dLng := (lng2 - lng1) * math.Pi / 180

	x := dLng * math.Cos((la1+la2)/2)
	return earthRadiusM * math.Sqrt(x*x+dLat*dLat)
}

// nearestZone scans locs linearly and returns the closest one to (lat, lng)
// together with its distance. ok is false when locs is empty.
func nearestZone(locs []zoneLocation, lat, lng float64) (best zoneLocation, dist float64, ok bool) {
	dist = math.Inf(1)
	for _, l := range locs {
		if d := distanceM(lat, lng, l.Lat, l.Lng); d < dist {
			best, dist, ok = l, d, true
		}
	}
	return best, dist, ok
}

func validCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
