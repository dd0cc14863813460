package layering

// Merge deep-merges overlay onto base and returns a freshly allocated map.
// Keys present in overlay win on leaf conflicts; when both sides hold a
// nested map for the same key the nested maps merge recursively. Neither
// input is mutated, and every container in the result is cloned so callers
// can hold onto it without aliasing the inputs.
func Merge(base, overlay map[string]any) map[string]any {
	if len(base) == 0 && len(overlay) == 0 {
		return map[string]any{}
	}

	merged := make(map[string]any, len(base)+len(overlay))
	for key, value := range base {
		merged[key] = cloneAny(value)
	}
	for key, value := range overlay {
		existing, ok := merged[key]
		if !ok {
			merged[key] = cloneAny(value)
			continue
		}
		existingMap, existingIsMap := existing.(map[string]any)
		valueMap, valueIsMap := value.(map[string]any)
		if existingIsMap && valueIsMap {
			merged[key] = Merge(existingMap, valueMap)
			continue
		}
		merged[key] = cloneAny(value)
	}
	return merged
}

// MergeAll folds layers left to right, each subsequent layer merged onto the
// accumulated result. Nil layers are skipped.
func MergeAll(layers ...map[string]any) map[string]any {
	merged := map[string]any{}
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		merged = Merge(merged, layer)
	}
	return merged
}

func cloneAny(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for key, nested := range typed {
			clone[key] = cloneAny(nested)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, nested := range typed {
			clone[i] = cloneAny(nested)
		}
		return clone
	default:
		return value
	}
}
