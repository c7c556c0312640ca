package telemetry

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// strictFloat coerces a JSON value to a finite float64.
// Numbers and numeric strings are accepted; everything else is rejected.
func strictFloat(r gjson.Result) (float64, bool) {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// optionalFloat is strictFloat returning nil for absent or non-numeric values.
func optionalFloat(r gjson.Result) *float64 {
	v, ok := strictFloat(r)
	if !ok {
		return nil
	}
	return &v
}
