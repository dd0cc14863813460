package compose

import (
	"time"
)

// Style is an opaque block of styling contributed by a feature class. The
// engine only orders and concatenates blocks; parsing and application belong
// to the host rendering layer.
type Style string

// PropertyDecl describes a reactive property a feature contributes to its
// host. Beyond the Default used for reconciliation the declaration is
// pass-through data for the host's own property machinery.
type PropertyDecl struct {
	Type      string
	Attribute string
	Reflect   bool
	Default   any
}

// Host is the boundary contract a reactive component satisfies so the
// composition layer can attach features. An empty name passed to
// RequestUpdate asks for one consolidated update covering every pending
// property write.
type Host interface {
	PropertyValue(name string) (value any, defined bool)
	SetPropertyValue(name string, value any)
	RequestUpdate(name string, oldValue any)
	HasField(name string) bool
	AttachFeature(name string, feature Feature)
}

// Snapshotter is optionally implemented by hosts that expose their current
// property state as a map. Activation rules evaluate against this snapshot
// when present.
type Snapshotter interface {
	Snapshot() map[string]any
}

// Stage identifies a host lifecycle transition fanned out to features.
type Stage int

const (
	StageWillConnect Stage = iota + 1
	StageConnected
	StageWillDisconnect
	StageDisconnected
	StageWillUpdate
	StageUpdated
	StageWillFirstUpdate
	StageFirstUpdated
	StageAttributeChanged
)

func (s Stage) String() string {
	switch s {
	case StageWillConnect:
		return "will-connect"
	case StageConnected:
		return "connected"
	case StageWillDisconnect:
		return "will-disconnect"
	case StageDisconnected:
		return "disconnected"
	case StageWillUpdate:
		return "will-update"
	case StageUpdated:
		return "updated"
	case StageWillFirstUpdate:
		return "will-first-update"
	case StageFirstUpdated:
		return "first-updated"
	case StageAttributeChanged:
		return "attribute-changed"
	default:
		return "unknown"
	}
}

// LifecycleEvent carries a lifecycle stage and its payload through Dispatch.
// Changed holds the property names touched during update stages; the
// attribute fields apply to StageAttributeChanged only.
type LifecycleEvent struct {
	Stage     Stage
	Changed   []string
	Attribute string
	OldValue  string
	NewValue  string
}

// RuleContext carries the inputs an activation expression evaluates against.
type RuleContext struct {
	Host     any
	Config   map[string]any
	Feature  string
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) featureLabel() string {
	if ctx.Feature != "" {
		return ctx.Feature
	}
	return "unknown"
}

// Evaluator executes activation expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

func snapshotAsMap(value any) map[string]any {
	if value == nil {
		return map[string]any{}
	}
	switch typed := value.(type) {
	case map[string]any:
		return typed
	case Snapshotter:
		if snapshot := typed.Snapshot(); snapshot != nil {
			return snapshot
		}
	}
	return map[string]any{}
}

// Bool returns a pointer to value, convenient for the optional Enabled flag
// on a FeatureDefinition.
func Bool(value bool) *bool {
	return &value
}
