package models

import "time"

// Reading is one normalized sensor snapshot.
// Nil pointers mean the source did not provide the value.
type Reading struct {
	TemperatureC *float64       `json:"temperature_c"`
	HumidityPct  *float64       `json:"humidity_pct"`
	HeatIndexC   *float64       `json:"heat_index_c"`
	SourceName   string         `json:"source_name"` // catalog entry that produced it
	CapturedAt   time.Time      `json:"captured_at"`
	Extra        map[string]any `json:"extra,omitempty"` // device id, quality score, trends...

	// Earlier holds the batch samples that preceded this one, oldest first.
	// Only batch shapes fill it; sinks use it to rebuild chart history.
	Earlier []Reading `json:"-"`
}

// HasMeasurement reports whether temperature or humidity is present.
func (r Reading) HasMeasurement() bool {
	return r.TemperatureC != nil || r.HumidityPct != nil
}

// Float returns a pointer to v, handy when building readings by hand.
func Float(v float64) *float64 {
	return &v
}
