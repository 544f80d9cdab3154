package util

// Pick returns the entries of m whose keys are in keys.
func Pick[V any](m map[string]V, keys []string) map[string]V {
	out := make(map[string]V, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}

// CompactNil returns a copy of m without nil values.
func CompactNil(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

// Merge returns a new map with the entries of every map, later maps winning.
func Merge[V any](maps ...map[string]V) map[string]V {
	out := make(map[string]V)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
