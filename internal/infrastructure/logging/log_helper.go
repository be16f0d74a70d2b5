package logging

import (
	"slices"
)

// extraPairs flattens extra into sorted key/value pairs, the shape both the
// sugared zap logger and zerolog's Fields accept.
func extraPairs(extra map[ExtraKey]any) []any {
	keys := make([]ExtraKey, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		v := extra[k]
		if err, ok := v.(error); ok && err != nil {
			v = err.Error()
		}
		pairs = append(pairs, string(k), v)
	}

	return pairs
}
