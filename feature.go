package compose

import (
	"reflect"

	"github.com/goliatone/go-compose/internal/hydrate"
	"github.com/goliatone/go-compose/layering"
)

// Feature is satisfied by any type embedding *FeatureBase.
type Feature interface {
	Base() *FeatureBase
}

// FeatureBase is the runtime every feature embeds. It owns the instance's
// configuration copy, an internal cache of reactive property values, the set
// of properties the feature declared, and the update-suspend flag the
// composer uses to batch construction-time writes.
//
// The base starts with update requests suspended so default writes during
// construction collapse into the composer's single consolidated update; the
// composer resumes it once every feature is attached. Standalone users call
// Resume themselves.
type FeatureBase struct {
	host       Host
	name       string
	config     map[string]any
	values     map[string]any
	declared   map[string]PropertyDecl
	suspended  bool
	reconciled bool
}

// NewFeatureBase constructs the runtime for one feature instance. The config
// is cloned so instances of the same feature on different hosts never share
// mutable state.
func NewFeatureBase(host Host, config map[string]any) *FeatureBase {
	return &FeatureBase{
		host:      host,
		config:    layering.Clone(config),
		values:    map[string]any{},
		declared:  map[string]PropertyDecl{},
		suspended: true,
	}
}

// Base returns the runtime itself, satisfying Feature for embedders.
func (b *FeatureBase) Base() *FeatureBase {
	return b
}

// Host returns the component this feature is attached to.
func (b *FeatureBase) Host() Host {
	return b.host
}

// Name returns the feature name the resolver assigned.
func (b *FeatureBase) Name() string {
	return b.name
}

// Config returns a copy of the instance configuration.
func (b *FeatureBase) Config() map[string]any {
	return layering.Clone(b.config)
}

// Declared reports whether the feature declared the named reactive property.
func (b *FeatureBase) Declared(name string) bool {
	_, ok := b.declared[name]
	return ok
}

// Get returns the internally cached value for the named property.
func (b *FeatureBase) Get(name string) any {
	return b.values[name]
}

// Set writes a property value through the anti-feedback guards:
//
//  1. A value identical to the internal cache is already applied; no-op.
//  2. A value identical to the host's current value only mirrors into the
//     cache, avoiding a redundant host round-trip.
//  3. Otherwise the value propagates to the host, mirrors into the cache,
//     and requests a host update unless updates are suspended.
//
// A host-driven and a feature-driven write to the same property therefore
// converge in either arrival order with at most one update request.
func (b *FeatureBase) Set(name string, value any) {
	if current, ok := b.values[name]; ok && identical(value, current) {
		return
	}
	hostValue, defined := b.host.PropertyValue(name)
	if defined && identical(value, hostValue) {
		b.values[name] = value
		return
	}
	b.host.SetPropertyValue(name, value)
	b.values[name] = value
	if !b.suspended {
		b.host.RequestUpdate(name, hostValue)
	}
}

// Suspend stops Set from issuing host update requests. Host and cache writes
// still happen.
func (b *FeatureBase) Suspend() {
	b.suspended = true
}

// Resume re-enables host update requests.
func (b *FeatureBase) Resume() {
	b.suspended = false
}

// Suspended reports the current suspend state.
func (b *FeatureBase) Suspended() bool {
	return b.suspended
}

// bind assigns the resolved feature name and property set and seeds the
// cache with declared defaults. Defaults only reach the host when the host
// carries no value of its own; a host-supplied value wins at reconciliation.
func (b *FeatureBase) bind(name string, properties map[string]PropertyDecl) {
	b.name = name
	b.declared = clonePropertyDecls(properties)
	if b.declared == nil {
		b.declared = map[string]PropertyDecl{}
	}
	for propName, decl := range b.declared {
		if decl.Default == nil {
			continue
		}
		if _, ok := b.values[propName]; ok {
			continue
		}
		if _, defined := b.host.PropertyValue(propName); defined {
			continue
		}
		b.Set(propName, decl.Default)
	}
}

// reconcile runs once after the host's first update pass. A defined host
// value that differs from the cache wins and is pulled in; with no host
// value, a cached feature default is pushed out; with neither, nothing
// happens.
func (b *FeatureBase) reconcile() {
	if b.reconciled {
		return
	}
	b.reconciled = true
	for name := range b.declared {
		hostValue, defined := b.host.PropertyValue(name)
		cached, haveCached := b.values[name]
		switch {
		case defined && (!haveCached || !identical(hostValue, cached)):
			b.values[name] = hostValue
		case !defined && haveCached && cached != nil:
			b.host.SetPropertyValue(name, cached)
		}
	}
}

// syncFromHost mirrors host values into the cache for the properties changed
// during an update pass. One-way by design: the change originated on the
// host side, so the write guards must not run.
func (b *FeatureBase) syncFromHost(changed []string) {
	for _, name := range changed {
		if _, ok := b.declared[name]; !ok {
			continue
		}
		if value, defined := b.host.PropertyValue(name); defined {
			b.values[name] = value
		}
	}
}

// identical reports value identity: comparable values compare with ==,
// reference kinds compare by pointer. Distinct but deep-equal containers are
// intentionally not identical; the guards care about "the same value",
// not equivalence.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	default:
		if !va.Type().Comparable() {
			return false
		}
		return a == b
	}
}

// DecodeConfig hydrates a feature's untyped configuration into T. When T
// implements Validate() error the decoded value is validated before being
// returned.
func DecodeConfig[T any](f Feature) (T, error) {
	base := f.Base()
	decoder := hydrate.New[T]()
	decoded, err := decoder.Decode(hydrate.Context{Feature: base.Name()}, base.config)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := validateValue(decoded); err != nil {
		var zero T
		return zero, err
	}
	return decoded, nil
}

func validateValue[T any](value T) error {
	if v, ok := any(value).(interface{ Validate() error }); ok {
		return v.Validate()
	}
	if rv := reflect.ValueOf(&value); rv.Kind() == reflect.Pointer {
		if v, ok := rv.Interface().(interface{ Validate() error }); ok {
			return v.Validate()
		}
	}
	return nil
}
