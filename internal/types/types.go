package types

import "time"

// Coordinates is a geocoded place: the point plus the provider's canonical
// display name.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// DayAggregate is one day of weather reduced to daily values. Intensive
// quantities (temperature, wind, humidity, pressure, cloud cover) are means
// over 24 hourly samples; precipitation and snow are sums. Immutable once
// produced.
type DayAggregate struct {
	Date             time.Time `json:"date"`
	DayName          string    `json:"day_name"`
	TemperatureC     float64   `json:"temperature_c"`
	WindSpeedKmh     float64   `json:"wind_speed_kmh"`
	WindDirectionDeg float64   `json:"wind_direction_deg"`
	PrecipitationMm  float64   `json:"precipitation_mm"`
	SnowMm           float64   `json:"snow_mm"`
	HumidityPct      float64   `json:"humidity_pct"`
	PressureHPa      float64   `json:"pressure_hpa"`
	CloudCoverPct    float64   `json:"cloud_cover_pct"`
}
