package telemetry

import (
	"fmt"
	"strings"
)

// Shape tags the response layout a catalog entry is expected to return.
type Shape string

const (
	ShapeDashboard        Shape = "DASHBOARD"
	ShapeReadingsList     Shape = "READINGS_LIST"
	ShapeSummary          Shape = "SUMMARY"
	ShapeThingSpeakBatch  Shape = "THINGSPEAK_BATCH"
	ShapeThingSpeakSingle Shape = "THINGSPEAK_SINGLE"
)

// ParseShape accepts the canonical tag in any case.
func ParseShape(s string) (Shape, error) {
	switch sh := Shape(strings.ToUpper(strings.TrimSpace(s))); sh {
	case ShapeDashboard, ShapeReadingsList, ShapeSummary, ShapeThingSpeakBatch, ShapeThingSpeakSingle:
		return sh, nil
	default:
		return "", fmt.Errorf("unknown shape %q", s)
	}
}
