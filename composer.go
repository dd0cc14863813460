package compose

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-compose/pkg/activity"
)

// CollisionPrefix prepends attach names when a feature name collides with an
// existing host field.
const CollisionPrefix = "feature-"

// Option configures a Composer.
type Option func(*composerConfig)

type composerConfig struct {
	resolver      *Resolver
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	evalLogger    EvaluatorLogger
	warnings      WarningLogger
	activityHooks activity.Hooks
}

func applyOptions(opts []Option) composerConfig {
	cfg := composerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithResolver makes the composer resolve through resolver instead of
// DefaultResolver.
func WithResolver(resolver *Resolver) Option {
	return func(cfg *composerConfig) {
		cfg.resolver = resolver
	}
}

// WithActivityHooks attaches activity hooks notified as features attach,
// rename, or skip during composition.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(cfg *composerConfig) {
		cfg.activityHooks = hooks
	}
}

type attachedFeature struct {
	name    string
	feature Feature
}

// Composer owns the feature instances of one host: it consumes the resolved
// plan, instantiates each active feature, attaches them to the host, and
// fans lifecycle events out in declaration order.
type Composer struct {
	id        string
	host      Host
	hostType  *Type
	plan      *ResolvedFeatures
	instances []attachedFeature
	cfg       composerConfig
	emitter   *activity.Emitter
}

// NewComposer resolves hostType (hitting the per-type cache), instantiates
// every active feature in declaration order with update requests suspended,
// attaches each to the host, then resumes them and issues one consolidated
// update request covering all construction-time default writes.
//
// A feature whose name collides with an existing host field attaches under
// CollisionPrefix plus its name and a warning is logged. Activation rules,
// when present, run per host instance; an evaluation failure is returned to
// the caller.
func NewComposer(host Host, hostType *Type, opts ...Option) (*Composer, error) {
	cfg := applyOptions(opts)
	if cfg.warnings == nil {
		cfg.warnings = noopWarningLogger{}
	}
	resolver := cfg.resolver
	if resolver == nil {
		resolver = DefaultResolver
	}

	c := &Composer{
		id:       uuid.NewString(),
		host:     host,
		hostType: hostType,
		plan:     resolver.Resolve(hostType),
		cfg:      cfg,
		emitter:  activity.NewEmitter(cfg.activityHooks, activity.Config{Enabled: cfg.activityHooks.Enabled()}),
	}

	for _, entry := range c.plan.Features() {
		if entry.ActivateWhen != "" {
			active, err := c.evaluateActivation(entry)
			if err != nil {
				return nil, err
			}
			if !active {
				c.emit(activity.Event{
					Verb:      activity.VerbFeatureSkipped,
					Component: hostType.Name(),
					Feature:   entry.Name,
				})
				continue
			}
		}

		feature := entry.New(host, entry.Config)
		base := feature.Base()
		base.bind(entry.Name, entry.Properties)
		base.Suspend()

		name := entry.Name
		if host.HasField(name) {
			name = CollisionPrefix + name
			c.cfg.warnings.LogWarning(Warning{
				Message:    "feature name collides with an existing host field; attached under prefixed name",
				Component:  hostType.Name(),
				Feature:    entry.Name,
				AttachedAs: name,
			})
			c.emit(activity.Event{
				Verb:       activity.VerbFeatureRenamed,
				Component:  hostType.Name(),
				Feature:    entry.Name,
				AttachedAs: name,
			})
		}
		host.AttachFeature(name, feature)
		c.instances = append(c.instances, attachedFeature{name: name, feature: feature})
		c.emit(activity.Event{
			Verb:       activity.VerbFeatureAttached,
			Component:  hostType.Name(),
			Feature:    entry.Name,
			AttachedAs: name,
		})
	}

	for _, attached := range c.instances {
		attached.feature.Base().Resume()
	}
	if len(c.instances) > 0 {
		host.RequestUpdate("", nil)
	}
	return c, nil
}

// ID returns the composer's instance identifier.
func (c *Composer) ID() string {
	return c.id
}

// Plan returns the resolved plan this composer instantiated.
func (c *Composer) Plan() *ResolvedFeatures {
	return c.plan
}

// Feature returns the instance attached under name, trying the prefixed
// collision name as a fallback.
func (c *Composer) Feature(name string) (Feature, bool) {
	for _, attached := range c.instances {
		if attached.name == name || attached.name == CollisionPrefix+name {
			return attached.feature, true
		}
	}
	return nil, false
}

// Features returns the attached instances in declaration order.
func (c *Composer) Features() []Feature {
	out := make([]Feature, len(c.instances))
	for i, attached := range c.instances {
		out[i] = attached.feature
	}
	return out
}

// Dispatch fans the lifecycle event out to every attached feature in
// declaration order. The first hook error aborts the remaining hooks of the
// pass and propagates to the caller, exactly as if the host's own lifecycle
// code had failed; there is no per-feature isolation.
func (c *Composer) Dispatch(event LifecycleEvent) error {
	for _, attached := range c.instances {
		if err := dispatchTo(attached.feature, event); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composer) emit(event activity.Event) {
	if c.emitter == nil {
		return
	}
	_ = c.emitter.Emit(context.Background(), event)
}
