package compose

// Shared fakes for the composition tests: an in-memory host recording every
// property write and update request, plus a minimal feature implementation.

type updateRequest struct {
	name string
	old  any
}

type fakeHost struct {
	props    map[string]any
	fields   map[string]bool
	attached map[string]Feature
	order    []string
	writes   []string
	requests []updateRequest
}

func newFakeHost(fields ...string) *fakeHost {
	h := &fakeHost{
		props:    map[string]any{},
		fields:   map[string]bool{},
		attached: map[string]Feature{},
	}
	for _, field := range fields {
		h.fields[field] = true
	}
	return h
}

func (h *fakeHost) PropertyValue(name string) (any, bool) {
	value, ok := h.props[name]
	return value, ok
}

func (h *fakeHost) SetPropertyValue(name string, value any) {
	h.props[name] = value
	h.writes = append(h.writes, name)
}

func (h *fakeHost) RequestUpdate(name string, oldValue any) {
	h.requests = append(h.requests, updateRequest{name: name, old: oldValue})
}

func (h *fakeHost) HasField(name string) bool {
	if h.fields[name] {
		return true
	}
	_, ok := h.attached[name]
	return ok
}

func (h *fakeHost) AttachFeature(name string, feature Feature) {
	h.attached[name] = feature
	h.order = append(h.order, name)
}

func (h *fakeHost) Snapshot() map[string]any {
	snapshot := make(map[string]any, len(h.props))
	for name, value := range h.props {
		snapshot[name] = value
	}
	return snapshot
}

// plainFeature is the minimal feature: just the embedded base.
type plainFeature struct {
	*FeatureBase
}

func plainFactory(host Host, config map[string]any) Feature {
	return &plainFeature{FeatureBase: NewFeatureBase(host, config)}
}

// defaultWriter writes one property during construction, exercising the
// suspended batching path.
type defaultWriter struct {
	*FeatureBase
}

func defaultWriterFactory(property string, value any) Factory {
	return func(host Host, config map[string]any) Feature {
		f := &defaultWriter{FeatureBase: NewFeatureBase(host, config)}
		f.Set(property, value)
		return f
	}
}
