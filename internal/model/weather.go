package model

import "time"

// WeatherObservation is a stored weather document for the configured airport's
// city. Observations arrive from an external feed and are served as-is.
type WeatherObservation struct {
	City        string    `json:"city"`
	Condition   string    `json:"condition"`
	TempCelsius float64   `json:"temp_celsius"`
	WindKph     float64   `json:"wind_kph"`
	Humidity    int       `json:"humidity"`
	ObservedAt  time.Time `json:"observed_at"`
}
