package telemetry

import (
	"fmt"
	"strings"
)

// EndpointDescriptor is one candidate backend endpoint.
type EndpointDescriptor struct {
	Name  string `json:"name" mapstructure:"name"`
	Path  string `json:"path" mapstructure:"path"`
	Shape Shape  `json:"shape" mapstructure:"shape"`
}

// IsAbsolute reports whether Path is a full URL rather than a path relative to the base URL.
func (d EndpointDescriptor) IsAbsolute() bool {
	return strings.HasPrefix(d.Path, "http://") || strings.HasPrefix(d.Path, "https://")
}

// Catalog is the ordered, immutable list of endpoints tried on every pass.
// Order defines trial priority.
type Catalog struct {
	entries []EndpointDescriptor
}

// NewCatalog validates and freezes the given descriptors.
func NewCatalog(entries []EndpointDescriptor) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, &ConfigError{Field: "catalog", Reason: "at least one endpoint is required"}
	}
	names := make(map[string]struct{}, len(entries))
	paths := make(map[string]struct{}, len(entries))
	frozen := make([]EndpointDescriptor, 0, len(entries))

	for i, e := range entries {
		field := fmt.Sprintf("catalog[%d]", i)
		e.Name = strings.TrimSpace(e.Name)
		e.Path = strings.TrimSpace(e.Path)
		if e.Name == "" {
			return nil, &ConfigError{Field: field, Reason: "name is required"}
		}
		if e.Path == "" {
			return nil, &ConfigError{Field: field, Reason: "path is required"}
		}
		shape, err := ParseShape(string(e.Shape))
		if err != nil {
			return nil, &ConfigError{Field: field, Reason: err.Error()}
		}
		e.Shape = shape
		if _, dup := names[e.Name]; dup {
			return nil, &ConfigError{Field: field, Reason: fmt.Sprintf("duplicate name %q", e.Name)}
		}
		if _, dup := paths[e.Path]; dup {
			return nil, &ConfigError{Field: field, Reason: fmt.Sprintf("duplicate path %q", e.Path)}
		}
		names[e.Name] = struct{}{}
		paths[e.Path] = struct{}{}
		frozen = append(frozen, e)
	}
	return &Catalog{entries: frozen}, nil
}

// DefaultDescriptors is the endpoint order the browser dashboard has always used.
func DefaultDescriptors() []EndpointDescriptor {
	return []EndpointDescriptor{
		{Name: "Dados ThingSpeak", Path: "/api/sensors/thingspeak?results=10", Shape: ShapeThingSpeakBatch},
		{Name: "Leituras dos Sensores", Path: "/api/sensors/readings?limit=8", Shape: ShapeReadingsList},
		{Name: "Dashboard Analytics", Path: "/api/analytics/dashboard", Shape: ShapeDashboard},
	}
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// At returns the i-th entry in priority order.
func (c *Catalog) At(i int) EndpointDescriptor { return c.entries[i] }

// Descriptors returns a copy of the entries in priority order.
func (c *Catalog) Descriptors() []EndpointDescriptor {
	out := make([]EndpointDescriptor, len(c.entries))
	copy(out, c.entries)
	return out
}
