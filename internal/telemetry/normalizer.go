package telemetry

import (
	"time"

	"sensor_dashboard/internal/models"

	"github.com/tidwall/gjson"
)

// Normalize maps a raw backend payload of the declared shape into a Reading.
// It never panics; any mismatch is reported as *NormalizationError.
// now is used as CapturedAt when the shape carries no timestamp of its own.
func Normalize(payload []byte, shape Shape, now time.Time) (models.Reading, error) {
	if !gjson.ValidBytes(payload) {
		return models.Reading{}, &NormalizationError{Shape: shape, Reason: "payload is not valid JSON"}
	}
	root := gjson.ParseBytes(payload)

	var (
		r   models.Reading
		err error
	)
	switch shape {
	case ShapeDashboard:
		r, err = fromDashboard(root)
	case ShapeReadingsList:
		r, err = fromReadingsList(root)
	case ShapeSummary:
		r, err = fromSummary(root)
	case ShapeThingSpeakBatch:
		r, err = fromThingSpeakBatch(root)
	case ShapeThingSpeakSingle:
		r, err = fromThingSpeakSingle(root)
	default:
		return models.Reading{}, &NormalizationError{Shape: shape, Reason: "unsupported shape"}
	}
	if err != nil {
		return models.Reading{}, err
	}

	if !r.HasMeasurement() {
		return models.Reading{}, &NormalizationError{Shape: shape, Reason: "neither temperature nor humidity is numeric"}
	}
	finish(&r, now)

	earlier := r.Earlier[:0]
	for _, e := range r.Earlier {
		if !e.HasMeasurement() {
			continue
		}
		finish(&e, now)
		earlier = append(earlier, e)
	}
	r.Earlier = nil
	if len(earlier) > 0 {
		r.Earlier = earlier
	}
	return r, nil
}

func finish(r *models.Reading, now time.Time) {
	if r.HeatIndexC == nil && r.TemperatureC != nil && r.HumidityPct != nil {
		r.HeatIndexC = models.Float(HeatIndex(*r.TemperatureC, *r.HumidityPct))
	}
	if r.CapturedAt.IsZero() {
		r.CapturedAt = now.UTC()
	}
	if len(r.Extra) == 0 {
		r.Extra = nil
	}
}

func fromDashboard(root gjson.Result) (models.Reading, error) {
	if !root.IsObject() {
		return models.Reading{}, notAn(ShapeDashboard, "object")
	}
	cm := root.Get("current_metrics")
	if !cm.IsObject() {
		return models.Reading{}, &NormalizationError{Shape: ShapeDashboard, Reason: "current_metrics is missing"}
	}
	r := models.Reading{
		TemperatureC: optionalFloat(cm.Get("temperature.average")),
		HumidityPct:  optionalFloat(cm.Get("humidity.average")),
		HeatIndexC:   optionalFloat(cm.Get("heat_index.average")),
		Extra:        map[string]any{},
	}
	putExtra(r.Extra, "data_quality", cm.Get("data_quality_score"))
	putExtra(r.Extra, "total_readings", root.Get("summary.total_readings"))
	putExtra(r.Extra, "alerts", root.Get("alerts"))
	putExtra(r.Extra, "trends", root.Get("trends"))
	return r, nil
}

func fromReadingsList(root gjson.Result) (models.Reading, error) {
	if !root.IsObject() {
		return models.Reading{}, notAn(ShapeReadingsList, "object")
	}
	list := root.Get("readings")
	if !list.IsArray() {
		return models.Reading{}, &NormalizationError{Shape: ShapeReadingsList, Reason: "readings is not an array"}
	}
	items := list.Array()
	if len(items) == 0 {
		return models.Reading{}, &NormalizationError{Shape: ShapeReadingsList, Reason: "readings is empty"}
	}
	first := items[0]
	if !first.IsObject() {
		return models.Reading{}, &NormalizationError{Shape: ShapeReadingsList, Reason: "readings[0] is not an object"}
	}
	r := models.Reading{
		TemperatureC: optionalFloat(first.Get("temperature")),
		HumidityPct:  optionalFloat(first.Get("humidity")),
		HeatIndexC:   optionalFloat(first.Get("heat_index")),
		Extra:        map[string]any{},
	}
	putExtra(r.Extra, "device_id", first.Get("device_id"))
	putExtra(r.Extra, "data_quality", first.Get("data_quality_score"))
	putExtra(r.Extra, "recorded_at", first.Get("recorded_at"))
	return r, nil
}

func fromSummary(root gjson.Result) (models.Reading, error) {
	if !root.IsObject() {
		return models.Reading{}, notAn(ShapeSummary, "object")
	}
	r := models.Reading{
		TemperatureC: optionalFloat(root.Get("temperature.average")),
		HumidityPct:  optionalFloat(root.Get("humidity.average")),
		HeatIndexC:   optionalFloat(root.Get("heat_index.average")),
		Extra:        map[string]any{},
	}
	putRange(r.Extra, "temperature_range", root.Get("temperature"))
	putRange(r.Extra, "humidity_range", root.Get("humidity"))
	putExtra(r.Extra, "data_quality", root.Get("data_quality.average_score"))
	putExtra(r.Extra, "timeframe", root.Get("timeframe"))
	return r, nil
}

// fromThingSpeakBatch picks the last sample, assuming sample_data is sorted
// ascending by creation time. The array is not re-sorted. The preceding
// samples travel in Earlier so the chart can show the whole batch.
func fromThingSpeakBatch(root gjson.Result) (models.Reading, error) {
	if !root.IsObject() {
		return models.Reading{}, notAn(ShapeThingSpeakBatch, "object")
	}
	samples := root.Get("sample_data")
	if !samples.IsArray() {
		return models.Reading{}, &NormalizationError{Shape: ShapeThingSpeakBatch, Reason: "sample_data is not an array"}
	}
	items := samples.Array()
	if len(items) == 0 {
		return models.Reading{}, &NormalizationError{Shape: ShapeThingSpeakBatch, Reason: "sample_data is empty"}
	}
	last := items[len(items)-1]
	if !last.IsObject() {
		return models.Reading{}, &NormalizationError{Shape: ShapeThingSpeakBatch, Reason: "last sample is not an object"}
	}
	r := thingSpeakSample(last)
	r.Extra["sample_count"] = len(items)

	for _, item := range items[:len(items)-1] {
		if item.IsObject() {
			r.Earlier = append(r.Earlier, thingSpeakSample(item))
		}
	}
	return r, nil
}

func thingSpeakSample(item gjson.Result) models.Reading {
	r := models.Reading{
		TemperatureC: optionalFloat(item.Get("temperature")),
		HumidityPct:  optionalFloat(item.Get("humidity")),
		Extra:        map[string]any{},
	}
	created := item.Get("thingspeak_created_at")
	if ts, err := time.Parse(time.RFC3339, created.String()); err == nil {
		r.CapturedAt = ts.UTC()
	} else {
		putExtra(r.Extra, "created_at", created)
	}
	putExtra(r.Extra, "device_id", item.Get("device_id"))
	putExtra(r.Extra, "entry_id", item.Get("entry_id"))
	return r
}

func fromThingSpeakSingle(root gjson.Result) (models.Reading, error) {
	if !root.IsObject() {
		return models.Reading{}, notAn(ShapeThingSpeakSingle, "object")
	}
	r := models.Reading{
		TemperatureC: optionalFloat(root.Get("temperature")),
		HumidityPct:  optionalFloat(root.Get("humidity")),
		Extra:        map[string]any{},
	}
	if root.Get("simulated").Bool() {
		r.Extra["simulated"] = true
	}
	return r, nil
}

func notAn(shape Shape, kind string) error {
	return &NormalizationError{Shape: shape, Reason: "payload is not an " + kind}
}

func putExtra(extra map[string]any, key string, r gjson.Result) {
	if !r.Exists() || r.Type == gjson.Null {
		return
	}
	extra[key] = r.Value()
}

// putRange copies minimum/maximum of a summary block, when numeric.
func putRange(extra map[string]any, key string, block gjson.Result) {
	lo, okLo := strictFloat(block.Get("minimum"))
	hi, okHi := strictFloat(block.Get("maximum"))
	if !okLo || !okHi {
		return
	}
	extra[key] = map[string]float64{"min": lo, "max": hi}
}
