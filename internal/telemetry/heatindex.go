package telemetry

// heatIndexThresholdF is the lowest temperature the NWS regression is defined for.
const heatIndexThresholdF = 80.0

// HeatIndex returns the apparent temperature in °C for the given air temperature (°C)
// and relative humidity (%). Below 80°F the input temperature is returned unchanged;
// above it the NWS Rothfusz regression is applied in °F and converted back.
func HeatIndex(tempC, humidityPct float64) float64 {
	t := tempC*9/5 + 32
	if t < heatIndexThresholdF {
		return tempC
	}
	rh := humidityPct
	hi := -42.379 +
		2.04901523*t +
		10.14333127*rh -
		0.22475541*t*rh -
		6.83783e-3*t*t -
		5.481717e-2*rh*rh +
		1.22874e-3*t*t*rh +
		8.5282e-4*t*rh*rh -
		1.99e-6*t*t*rh*rh
	return (hi - 32) * 5 / 9
}
