package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context carries identifiers tied to a configuration payload.
type Context struct {
	Component string
	Feature   string
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the hydrated struct after
// decoding.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts untyped feature configuration maps into strongly typed
// structs via a JSON round trip.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	strict    bool
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithStrict rejects payload keys the target type does not declare.
func WithStrict[T any](strict bool) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = strict
	}
}

// New constructs a Decoder with the supplied options.
func New[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode hydrates payload into T, running pre hooks on the raw map and post
// hooks on the decoded value. A nil payload decodes to the zero value.
func (d *Decoder[T]) Decode(ctx Context, payload map[string]any) (T, error) {
	var decoded T

	working := payload
	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, working)
		if err != nil {
			return decoded, fmt.Errorf("hydrate: pre hook for feature %q: %w", ctx.Feature, err)
		}
		working = next
	}

	if working != nil {
		raw, err := json.Marshal(working)
		if err != nil {
			return decoded, fmt.Errorf("hydrate: encode config for feature %q: %w", ctx.Feature, err)
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		if d.strict {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&decoded); err != nil {
			return decoded, fmt.Errorf("hydrate: decode config for feature %q: %w", ctx.Feature, err)
		}
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &decoded); err != nil {
			return decoded, fmt.Errorf("hydrate: post hook for feature %q: %w", ctx.Feature, err)
		}
	}

	return decoded, nil
}
