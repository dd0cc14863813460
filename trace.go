package compose

import (
	"encoding/json"
	"sort"

	"github.com/goliatone/go-compose/layering"
)

// Trace captures provenance for one feature name across the host chain that
// produced the resolved plan entry.
type Trace struct {
	Feature string       `json:"feature"`
	Steps   []Provenance `json:"steps"`
}

// Provenance details how a single class contributed to a traced feature.
type Provenance struct {
	Type       string         `json:"type"`
	Op         string         `json:"op"`
	Config     map[string]any `json:"config,omitempty"`
	Properties []string       `json:"properties,omitempty"`
	Enabled    *bool          `json:"enabled,omitempty"`
}

// Provenance operations.
const (
	OpProvide   = "provide"
	OpConfigure = "configure"
	OpDisable   = "disable"
)

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload previously generated via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Explain re-walks hostType's chain and reports every declaration that
// touched the named feature, root-first. Pure diagnostics: the walk is never
// memoized and has no effect on Resolve.
func (r *Resolver) Explain(hostType *Type, feature string) Trace {
	trace := Trace{Feature: feature}

	for _, t := range chainFor(hostType, KindHost) {
		meta := t.meta
		if meta == nil {
			continue
		}
		if def, ok := meta.provides[feature]; ok {
			trace.Steps = append(trace.Steps, Provenance{
				Type:    t.name,
				Op:      OpProvide,
				Config:  layering.Clone(def.Config),
				Enabled: def.Enabled,
			})
		}
		if entry, ok := meta.configures[feature]; ok {
			op := OpConfigure
			if entry.Disable {
				op = OpDisable
			}
			trace.Steps = append(trace.Steps, Provenance{
				Type:       t.name,
				Op:         op,
				Config:     layering.Clone(entry.Config),
				Properties: overriddenNames(entry.Properties),
			})
		}
	}

	return trace
}

func overriddenNames(overrides map[string]PropertyOverride) []string {
	if len(overrides) == 0 {
		return nil
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
