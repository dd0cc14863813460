package compose

import (
	"context"
	"sync"

	"github.com/goliatone/go-compose/layering"
	"github.com/goliatone/go-compose/pkg/activity"
)

// Resolver folds the provide and configure declarations of a host type's
// ancestry into one frozen plan, memoized per type. The cache is write-once:
// a type resolves at most once for the resolver's lifetime and every host
// instance of that type shares the result.
type Resolver struct {
	mu       sync.RWMutex
	cache    map[*Type]*ResolvedFeatures
	warnings WarningLogger
	emitter  *activity.Emitter
}

// ResolverOption configures a Resolver instance.
type ResolverOption func(*Resolver)

// WithResolverWarningLogger attaches a warning logger for property
// collisions detected during plan assembly.
func WithResolverWarningLogger(logger WarningLogger) ResolverOption {
	return func(r *Resolver) {
		if logger == nil {
			r.warnings = noopWarningLogger{}
			return
		}
		r.warnings = logger
	}
}

// WithResolverActivityHooks attaches activity hooks notified as features
// resolve, drop, or collide.
func WithResolverActivityHooks(hooks activity.Hooks) ResolverOption {
	return func(r *Resolver) {
		r.emitter = activity.NewEmitter(hooks, activity.Config{Enabled: hooks.Enabled()})
	}
}

// NewResolver constructs a Resolver with an empty cache.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cache:    map[*Type]*ResolvedFeatures{},
		warnings: noopWarningLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// DefaultResolver backs the package-level Resolve call. Libraries composing
// hosts through NewComposer use it unless WithResolver overrides it.
var DefaultResolver = NewResolver()

// Resolve computes the feature plan for hostType using DefaultResolver.
func Resolve(hostType *Type) *ResolvedFeatures {
	return DefaultResolver.Resolve(hostType)
}

// providedState tracks the running fold for one feature name.
type providedState struct {
	def     FeatureDefinition
	cfg     ConfigureEntry
	ordered bool
}

// Resolve walks hostType's chain root-first, folds every provide and
// configure declaration, resolves the surviving features' own class chains,
// and freezes the result. Absent metadata resolves as empty; a configure
// entry without a matching provide is inert. Resolve never fails.
func (r *Resolver) Resolve(hostType *Type) *ResolvedFeatures {
	r.mu.RLock()
	cached, ok := r.cache[hostType]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	resolved := r.assemble(hostType)

	r.mu.Lock()
	if existing, ok := r.cache[hostType]; ok {
		// Lost the race; the first write wins so idempotence holds.
		r.mu.Unlock()
		return existing
	}
	r.cache[hostType] = resolved
	r.mu.Unlock()
	return resolved
}

func (r *Resolver) assemble(hostType *Type) *ResolvedFeatures {
	states, order := foldChain(chainFor(hostType, KindHost))

	resolved := &ResolvedFeatures{
		properties: map[string]PropertyDecl{},
		index:      map[string]int{},
	}

	for _, name := range order {
		state := states[name]
		if state.cfg.Disable || state.def.disabled() {
			r.emit(activity.Event{
				Verb:      activity.VerbFeatureDisabled,
				Component: hostType.Name(),
				Feature:   name,
			})
			continue
		}

		feature := resolveFeature(name, state)
		resolved.index[name] = len(resolved.features)
		resolved.features = append(resolved.features, feature)
		resolved.styles = append(resolved.styles, feature.Styles...)

		for _, propName := range feature.propertyOrder {
			if _, exists := resolved.properties[propName]; exists {
				r.warnings.LogWarning(Warning{
					Message:   "reactive property declared by more than one feature; last declaration wins",
					Component: hostType.Name(),
					Feature:   name,
					Property:  propName,
				})
				r.emit(activity.Event{
					Verb:      activity.VerbPropertyCollided,
					Component: hostType.Name(),
					Feature:   name,
					Property:  propName,
				})
			} else {
				resolved.propertyOrder = append(resolved.propertyOrder, propName)
			}
			resolved.properties[propName] = feature.Properties[propName]
		}

		r.emit(activity.Event{
			Verb:      activity.VerbFeatureResolved,
			Component: hostType.Name(),
			Feature:   name,
		})
	}

	return resolved
}

// foldChain accumulates provide and configure declarations root-first. A
// provide fully replaces the running definition for its name and clears any
// accumulated disable, so the last provide/disable in chain order wins;
// configure entries deep-merge onto the accumulated override.
func foldChain(chain []*Type) (map[string]*providedState, []string) {
	states := map[string]*providedState{}
	var order []string

	for _, t := range chain {
		meta := t.meta
		if meta == nil {
			continue
		}
		for _, name := range meta.provideOrder {
			def := meta.provides[name].clone()
			state, exists := states[name]
			if !exists {
				state = &providedState{}
				states[name] = state
			}
			state.def = def
			state.cfg.Disable = false
			if !state.ordered {
				state.ordered = true
				order = append(order, name)
			}
		}
		for name, entry := range meta.configures {
			state, exists := states[name]
			if !exists {
				// A configure without a provide anywhere in the chain is
				// inert; the state accumulates but never joins the order.
				state = &providedState{}
				states[name] = state
			}
			state.cfg = entry.clone().mergeOnto(state.cfg)
		}
	}

	return states, order
}

// resolveFeature walks the feature's own class chain to accumulate declared
// properties and styles, applies the configure entry's property overrides,
// and deep-merges the final configuration with configure winning on
// conflicting leaves.
func resolveFeature(name string, state *providedState) ResolvedFeature {
	feature := ResolvedFeature{
		Name:         name,
		Type:         state.def.Type,
		New:          state.def.New,
		ActivateWhen: state.def.ActivateWhen,
		Properties:   map[string]PropertyDecl{},
	}

	for _, t := range chainFor(state.def.Type, KindFeature) {
		meta := t.meta
		if meta == nil {
			continue
		}
		for _, propName := range meta.propertyOrder {
			if _, exists := feature.Properties[propName]; !exists {
				feature.propertyOrder = append(feature.propertyOrder, propName)
			}
			feature.Properties[propName] = meta.properties[propName]
		}
		feature.Styles = append(feature.Styles, meta.styles...)
	}

	for propName, override := range state.cfg.Properties {
		if override.Disable {
			if _, exists := feature.Properties[propName]; exists {
				delete(feature.Properties, propName)
				feature.propertyOrder = removeName(feature.propertyOrder, propName)
			}
			continue
		}
		if _, exists := feature.Properties[propName]; !exists {
			feature.propertyOrder = append(feature.propertyOrder, propName)
		}
		feature.Properties[propName] = override.Decl
	}

	feature.Config = layering.Merge(state.def.Config, state.cfg.Config)
	return feature
}

func removeName(names []string, name string) []string {
	for i, candidate := range names {
		if candidate == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}

func (r *Resolver) emit(event activity.Event) {
	if r.emitter == nil {
		return
	}
	_ = r.emitter.Emit(context.Background(), event)
}
