package compose

// Kind marks where a Type sits in the composition model. The chain walker
// stops at the first ancestor whose kind differs from the one it walks for,
// so unmarked base types bound both hierarchies.
type Kind int

const (
	// KindUnmarked identifies plain base types outside either hierarchy.
	KindUnmarked Kind = iota
	// KindHost marks composable host component types.
	KindHost
	// KindFeature marks feature implementation types.
	KindFeature
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindFeature:
		return "feature"
	default:
		return "unmarked"
	}
}

// Type is an explicit descriptor for one class in a component hierarchy: a
// name, a parent pointer, a hierarchy marker, and lazily created metadata.
// Identity is pointer identity; the resolver memoizes per *Type. Types are
// built at program initialization and treated as immutable afterwards, so no
// locking guards the metadata.
type Type struct {
	name   string
	kind   Kind
	parent *Type
	meta   *Meta
}

// NewHostType declares a composable host component type extending parent.
// A nil parent or a parent outside the host hierarchy makes this type the
// root of its chain.
func NewHostType(name string, parent *Type) *Type {
	return &Type{name: name, kind: KindHost, parent: parent}
}

// NewFeatureType declares a feature implementation type extending parent.
func NewFeatureType(name string, parent *Type) *Type {
	return &Type{name: name, kind: KindFeature, parent: parent}
}

// NewType declares an unmarked base type. It participates in no chain but
// can sit above marked types, bounding their traversal.
func NewType(name string, parent *Type) *Type {
	return &Type{name: name, kind: KindUnmarked, parent: parent}
}

// Name returns the declared type name.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Kind returns the hierarchy marker.
func (t *Type) Kind() Kind {
	if t == nil {
		return KindUnmarked
	}
	return t.kind
}

// Parent returns the immediate ancestor, nil at the hierarchy root.
func (t *Type) Parent() *Type {
	if t == nil {
		return nil
	}
	return t.parent
}

// Provide declares that this type and its descendants carry the named
// feature with the given definition. A descendant's Provide fully replaces
// an ancestor's definition for the same name. Returns t for chaining.
func (t *Type) Provide(name string, def FeatureDefinition) *Type {
	t.ensureMeta().provide(name, def)
	return t
}

// Configure layers an override onto a feature provided at or above this
// type. Configuring a name nothing provides is inert. Returns t for
// chaining.
func (t *Type) Configure(name string, entry ConfigureEntry) *Type {
	t.ensureMeta().configure(name, entry)
	return t
}

// DeclareProperty registers a reactive property this type contributes.
// Meaningful on feature types; later declarations for the same name replace
// earlier ones. Returns t for chaining.
func (t *Type) DeclareProperty(name string, decl PropertyDecl) *Type {
	t.ensureMeta().declareProperty(name, decl)
	return t
}

// DeclareStyles appends style blocks this type contributes. Returns t for
// chaining.
func (t *Type) DeclareStyles(styles ...Style) *Type {
	t.ensureMeta().declareStyles(styles)
	return t
}

func (t *Type) ensureMeta() *Meta {
	if t.meta == nil {
		t.meta = newMeta()
	}
	return t.meta
}
