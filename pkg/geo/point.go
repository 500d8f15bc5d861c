package geo

// LatLon is a plain-degree coordinate pair, used for pillar-node
// geometry that has already been dequantized for the caller.
type LatLon struct {
	Lat, Lon float64
}
