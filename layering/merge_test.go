package layering

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMergeFromFixture(t *testing.T) {
	fx := loadMergeFixture(t, "merge_cases.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			got := Merge(tc.Base, tc.Overlay)
			if !reflect.DeepEqual(tc.Expect, got) {
				t.Errorf("merged config mismatch:\nwant: %#v\n got: %#v", tc.Expect, got)
			}
		})
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"nested": map[string]any{"a": float64(1)}}
	overlay := map[string]any{"nested": map[string]any{"b": float64(2)}}

	merged := Merge(base, overlay)

	merged["nested"].(map[string]any)["a"] = float64(99)
	if got := base["nested"].(map[string]any)["a"]; got != float64(1) {
		t.Fatalf("expected base to remain untouched, got %v", got)
	}
	if _, ok := overlay["nested"].(map[string]any)["a"]; ok {
		t.Fatal("expected overlay to remain untouched")
	}
}

func TestMergeAllFoldsLeftToRight(t *testing.T) {
	got := MergeAll(
		map[string]any{"x": 1, "keep": true},
		nil,
		map[string]any{"x": 2},
		map[string]any{"x": 3},
	)
	if got["x"] != 3 {
		t.Fatalf("expected last layer to win, got %v", got["x"])
	}
	if got["keep"] != true {
		t.Fatalf("expected earlier keys to survive, got %v", got["keep"])
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	got := Merge(nil, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %#v", got)
	}
}

func TestCloneDetachesNestedState(t *testing.T) {
	type channel struct {
		Labels []string
		Volume *int
	}
	type settings struct {
		Limits  map[string]int
		Channel *channel
	}

	volume := 5
	original := settings{
		Limits:  map[string]int{"daily": 10},
		Channel: &channel{Labels: []string{"email"}, Volume: &volume},
	}

	cloned := Clone(original)
	cloned.Limits["daily"] = 99
	cloned.Channel.Labels[0] = "sms"
	*cloned.Channel.Volume = 42

	if original.Limits["daily"] != 10 {
		t.Fatalf("expected original map untouched, got %d", original.Limits["daily"])
	}
	if original.Channel.Labels[0] != "email" {
		t.Fatalf("expected original slice untouched, got %s", original.Channel.Labels[0])
	}
	if *original.Channel.Volume != 5 {
		t.Fatalf("expected original pointer untouched, got %d", *original.Channel.Volume)
	}
}

func TestCloneNilInputs(t *testing.T) {
	if got := Clone[map[string]any](nil); got != nil {
		t.Fatalf("expected nil map clone, got %#v", got)
	}
	if got := Clone[[]string](nil); got != nil {
		t.Fatalf("expected nil slice clone, got %#v", got)
	}
}

type mergeFixture struct {
	Description string             `json:"description"`
	Cases       []mergeFixtureCase `json:"cases"`
}

type mergeFixtureCase struct {
	Name    string         `json:"name"`
	Base    map[string]any `json:"base"`
	Overlay map[string]any `json:"overlay"`
	Expect  map[string]any `json:"expect"`
	Notes   string         `json:"notes,omitempty"`
}

func loadMergeFixture(t *testing.T, name string) mergeFixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read merge fixture %q: %v", name, err)
	}
	var fx mergeFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal merge fixture %q: %v", name, err)
	}
	return fx
}
