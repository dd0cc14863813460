package compose

import "github.com/goliatone/go-compose/layering"

// Factory constructs one feature instance against a live host. The config it
// receives is the resolved final configuration, already copied per instance.
type Factory func(host Host, config map[string]any) Feature

// FeatureDefinition identifies a feature implementation together with its
// default configuration. Type may be nil for features that declare no
// reactive properties or styles of their own. A nil Enabled means enabled;
// an explicit false drops the feature during resolution. ActivateWhen holds
// an optional activation expression evaluated per host instance.
type FeatureDefinition struct {
	Type         *Type
	New          Factory
	Config       map[string]any
	Enabled      *bool
	ActivateWhen string
}

func (d FeatureDefinition) clone() FeatureDefinition {
	cloned := d
	cloned.Config = layering.Clone(d.Config)
	if d.Enabled != nil {
		enabled := *d.Enabled
		cloned.Enabled = &enabled
	}
	return cloned
}

func (d FeatureDefinition) disabled() bool {
	return d.Enabled != nil && !*d.Enabled
}

// PropertyOverride adjusts one reactive property inherited from a feature
// class. Disable removes the property; otherwise Decl replaces it.
type PropertyOverride struct {
	Disable bool
	Decl    PropertyDecl
}

// DisableProperty returns an override that removes a property from the
// resolved set.
func DisableProperty() PropertyOverride {
	return PropertyOverride{Disable: true}
}

// OverrideProperty returns an override that replaces a property declaration.
func OverrideProperty(decl PropertyDecl) PropertyOverride {
	return PropertyOverride{Decl: decl}
}

// ConfigureEntry layers an override onto a provided or inherited feature.
// Disable drops the feature entirely unless a descendant class provides it
// again. Config deep-merges onto the accumulated configuration; Properties
// override the feature's property declarations key by key.
type ConfigureEntry struct {
	Disable    bool
	Config     map[string]any
	Properties map[string]PropertyOverride
}

// DisableFeature returns the configure entry that drops a feature.
func DisableFeature() ConfigureEntry {
	return ConfigureEntry{Disable: true}
}

func (e ConfigureEntry) clone() ConfigureEntry {
	cloned := e
	cloned.Config = layering.Clone(e.Config)
	if e.Properties != nil {
		cloned.Properties = make(map[string]PropertyOverride, len(e.Properties))
		for name, override := range e.Properties {
			cloned.Properties[name] = override
		}
	}
	return cloned
}

// mergeOnto folds e onto the accumulated entry. Disable short-circuits and
// survives subsequent config merges; only a fresh provide clears it.
func (e ConfigureEntry) mergeOnto(accumulated ConfigureEntry) ConfigureEntry {
	merged := ConfigureEntry{
		Disable: accumulated.Disable || e.Disable,
		Config:  layering.Merge(accumulated.Config, e.Config),
	}
	if len(accumulated.Properties) > 0 || len(e.Properties) > 0 {
		merged.Properties = make(map[string]PropertyOverride, len(accumulated.Properties)+len(e.Properties))
		for name, override := range accumulated.Properties {
			merged.Properties[name] = override
		}
		for name, override := range e.Properties {
			merged.Properties[name] = override
		}
	}
	return merged
}

// Meta holds the feature declarations owned by one Type: provided feature
// definitions, configure overrides, and the reactive properties plus styles
// the type declares for itself. Created lazily on first write; never shared
// between types.
type Meta struct {
	provides      map[string]FeatureDefinition
	provideOrder  []string
	configures    map[string]ConfigureEntry
	properties    map[string]PropertyDecl
	propertyOrder []string
	styles        []Style
}

func newMeta() *Meta {
	return &Meta{
		provides:   map[string]FeatureDefinition{},
		configures: map[string]ConfigureEntry{},
		properties: map[string]PropertyDecl{},
	}
}

func (m *Meta) provide(name string, def FeatureDefinition) {
	if _, exists := m.provides[name]; !exists {
		m.provideOrder = append(m.provideOrder, name)
	}
	m.provides[name] = def.clone()
}

func (m *Meta) configure(name string, entry ConfigureEntry) {
	if existing, exists := m.configures[name]; exists {
		m.configures[name] = entry.clone().mergeOnto(existing)
		return
	}
	m.configures[name] = entry.clone()
}

func (m *Meta) declareProperty(name string, decl PropertyDecl) {
	if _, exists := m.properties[name]; !exists {
		m.propertyOrder = append(m.propertyOrder, name)
	}
	m.properties[name] = decl
}

func (m *Meta) declareStyles(styles []Style) {
	m.styles = append(m.styles, styles...)
}
