package compose

import "github.com/goliatone/go-compose/layering"

// ResolvedFeature is one active entry of a resolved plan: the feature's
// implementation, its fully merged configuration, and the property and style
// set accumulated across the feature's own class chain.
type ResolvedFeature struct {
	Name         string
	Type         *Type
	New          Factory
	Config       map[string]any
	ActivateWhen string
	Properties   map[string]PropertyDecl
	Styles       []Style

	propertyOrder []string
}

func (f ResolvedFeature) clone() ResolvedFeature {
	cloned := f
	cloned.Config = layering.Clone(f.Config)
	cloned.Properties = clonePropertyDecls(f.Properties)
	cloned.Styles = append([]Style(nil), f.Styles...)
	cloned.propertyOrder = append([]string(nil), f.propertyOrder...)
	return cloned
}

// ResolvedFeatures is the frozen plan computed once per host type: the
// flattened reactive property set, the concatenated style blocks, and the
// active features in declaration order. All accessors return defensive
// copies so the cached plan can never be mutated after resolution.
type ResolvedFeatures struct {
	properties    map[string]PropertyDecl
	propertyOrder []string
	styles        []Style
	features      []ResolvedFeature
	index         map[string]int
}

// Properties returns the flattened reactive property declarations of every
// active feature.
func (r *ResolvedFeatures) Properties() map[string]PropertyDecl {
	if r == nil {
		return nil
	}
	return clonePropertyDecls(r.properties)
}

// PropertyNames returns the flattened property names in declaration order.
func (r *ResolvedFeatures) PropertyNames() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.propertyOrder...)
}

// Styles returns the style blocks of every active feature, concatenated in
// provide order.
func (r *ResolvedFeatures) Styles() []Style {
	if r == nil {
		return nil
	}
	return append([]Style(nil), r.styles...)
}

// Features returns the active features in declaration order.
func (r *ResolvedFeatures) Features() []ResolvedFeature {
	if r == nil {
		return nil
	}
	out := make([]ResolvedFeature, len(r.features))
	for i := range r.features {
		out[i] = r.features[i].clone()
	}
	return out
}

// Feature returns the named entry when the plan includes it.
func (r *ResolvedFeatures) Feature(name string) (ResolvedFeature, bool) {
	if r == nil {
		return ResolvedFeature{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return ResolvedFeature{}, false
	}
	return r.features[i].clone(), true
}

// Len returns the number of active features.
func (r *ResolvedFeatures) Len() int {
	if r == nil {
		return 0
	}
	return len(r.features)
}

func clonePropertyDecls(src map[string]PropertyDecl) map[string]PropertyDecl {
	if src == nil {
		return nil
	}
	dst := make(map[string]PropertyDecl, len(src))
	for name, decl := range src {
		dst[name] = decl
	}
	return dst
}
