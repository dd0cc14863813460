package compose

import (
	"errors"
	"testing"
)

type connectRecorder struct {
	*FeatureBase
	log *[]string
	tag string
	err error
}

func (r *connectRecorder) HostConnected() error {
	*r.log = append(*r.log, r.tag)
	return r.err
}

func recorderFactory(log *[]string, tag string, err error) Factory {
	return func(host Host, config map[string]any) Feature {
		return &connectRecorder{FeatureBase: NewFeatureBase(host, config), log: log, tag: tag, err: err}
	}
}

func TestComposerAttachesInDeclarationOrder(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("first", FeatureDefinition{New: plainFactory}).
		Provide("second", FeatureDefinition{New: plainFactory})
	host := newFakeHost()

	composer, err := NewComposer(host, hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(composer.Features()) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(composer.Features()))
	}
	if host.order[0] != "first" || host.order[1] != "second" {
		t.Errorf("attach order = %v", host.order)
	}
}

func TestComposerBatchesConstructionWrites(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("a", FeatureDefinition{New: defaultWriterFactory("alpha", 1)}).
		Provide("b", FeatureDefinition{New: defaultWriterFactory("beta", 2)}).
		Provide("c", FeatureDefinition{New: defaultWriterFactory("gamma", 3)})
	host := newFakeHost()

	if _, err := NewComposer(host, hostType, WithResolver(NewResolver())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(host.requests) != 1 {
		t.Fatalf("expected one consolidated update request, got %d", len(host.requests))
	}
	if host.requests[0].name != "" {
		t.Errorf("expected consolidated request, got %q", host.requests[0].name)
	}
	for _, prop := range []string{"alpha", "beta", "gamma"} {
		if _, defined := host.PropertyValue(prop); !defined {
			t.Errorf("expected construction write for %s to reach the host", prop)
		}
	}
}

func TestComposerNoUpdateWithoutInstances(t *testing.T) {
	hostType := NewHostType("card", nil)
	host := newFakeHost()

	if _, err := NewComposer(host, hostType, WithResolver(NewResolver())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(host.requests) != 0 {
		t.Errorf("expected no update with zero features, got %d", len(host.requests))
	}
}

func TestComposerCollisionRename(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("title", FeatureDefinition{New: plainFactory})
	host := newFakeHost("title")

	var warnings []Warning
	composer, err := NewComposer(host, hostType,
		WithResolver(NewResolver()),
		WithWarningLogger(WarningLoggerFunc(func(w Warning) {
			warnings = append(warnings, w)
		})),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := host.attached["feature-title"]; !ok {
		t.Fatalf("expected feature to attach under prefixed name, attached: %v", host.order)
	}
	if len(warnings) != 1 || warnings[0].AttachedAs != "feature-title" {
		t.Errorf("unexpected warnings: %+v", warnings)
	}
	if _, ok := composer.Feature("title"); !ok {
		t.Error("expected lookup by original name to find the renamed instance")
	}
}

func TestComposerActivationRuleSkips(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("premium", FeatureDefinition{New: plainFactory, ActivateWhen: `config.tier == "pro"`, Config: map[string]any{"tier": "free"}}).
		Provide("basic", FeatureDefinition{New: plainFactory})
	host := newFakeHost()

	composer, err := NewComposer(host, hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := composer.Feature("premium"); ok {
		t.Error("expected the inactive feature to be skipped")
	}
	if _, ok := composer.Feature("basic"); !ok {
		t.Error("expected the unconditional feature to attach")
	}
}

func TestComposerActivationRuleAgainstHostState(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("expanded", FeatureDefinition{New: plainFactory, ActivateWhen: `open == true`})

	openHost := newFakeHost()
	openHost.props["open"] = true
	composer, err := NewComposer(openHost, hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := composer.Feature("expanded"); !ok {
		t.Error("expected the rule to activate against host state")
	}

	closedHost := newFakeHost()
	closedHost.props["open"] = false
	composer, err = NewComposer(closedHost, hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := composer.Feature("expanded"); ok {
		t.Error("expected the same type to deactivate on a different host instance")
	}
}

func TestComposerActivationErrorPropagates(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("broken", FeatureDefinition{New: plainFactory, ActivateWhen: `this is not an expression`})
	host := newFakeHost()

	if _, err := NewComposer(host, hostType, WithResolver(NewResolver())); err == nil {
		t.Fatal("expected an activation evaluation error")
	}
}

func TestDispatchDeclarationOrderAndAbort(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	hostType := NewHostType("card", nil).
		Provide("a", FeatureDefinition{New: recorderFactory(&log, "a", nil)}).
		Provide("b", FeatureDefinition{New: recorderFactory(&log, "b", boom)}).
		Provide("c", FeatureDefinition{New: recorderFactory(&log, "c", nil)})
	host := newFakeHost()

	composer, err := NewComposer(host, hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = composer.Dispatch(LifecycleEvent{Stage: StageConnected})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the hook error to propagate, got %v", err)
	}
	if len(log) != 2 || log[0] != "a" || log[1] != "b" {
		t.Errorf("expected the pass to abort after the failing hook, log = %v", log)
	}
}

func TestDispatchFirstUpdatedReconciles(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("panel", FeatureDefinition{
			Type: NewFeatureType("panel", nil).DeclareProperty("size", PropertyDecl{Type: "string", Default: "small"}),
			New:  plainFactory,
		})
	host := newFakeHost()

	composer, err := NewComposer(host, hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Simulate a host-supplied value landing before the first update pass.
	host.props["size"] = "large"
	if err := composer.Dispatch(LifecycleEvent{Stage: StageFirstUpdated}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feature, _ := composer.Feature("panel")
	if got := feature.Base().Get("size"); got != "large" {
		t.Errorf("expected reconciliation to pull the host value, got %v", got)
	}
}

func TestDispatchUpdatedSyncsChanged(t *testing.T) {
	hostType := NewHostType("card", nil).
		Provide("panel", FeatureDefinition{
			Type: NewFeatureType("panel", nil).DeclareProperty("open", PropertyDecl{Type: "bool"}),
			New:  plainFactory,
		})
	host := newFakeHost()

	composer, err := NewComposer(host, hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	host.props["open"] = true
	if err := composer.Dispatch(LifecycleEvent{Stage: StageUpdated, Changed: []string{"open"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feature, _ := composer.Feature("panel")
	if feature.Base().Get("open") != true {
		t.Error("expected the host-driven change to mirror into the feature cache")
	}
}

func TestComposerIDsAreUnique(t *testing.T) {
	hostType := NewHostType("card", nil)
	a, err := NewComposer(newFakeHost(), hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewComposer(newFakeHost(), hostType, WithResolver(NewResolver()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty composer IDs, got %q and %q", a.ID(), b.ID())
	}
}
