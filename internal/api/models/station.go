package models

// StationListResponse is the body of GET /api/stations.
type StationListResponse struct {
	Stations []string `json:"stations"`
}

// StationLocation is one live station on the city map, proxied from
// the upstream AQI provider. AQI is a string because the provider
// reports "-" for stations without a current index.
type StationLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AQI       string  `json:"aqi"`
}
