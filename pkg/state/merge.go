package state

import (
	"hoardmap/pkg/model"
)

// DeepMerge overlays src onto dst, key by key. Mapping values recurse,
// everything else overwrites the destination leaf. A mapping arriving on
// top of a scalar replaces the scalar with a fresh sub-tree. dst is
// mutated in place and also returned for chaining.
func DeepMerge(src map[string]any, dst model.State) model.State {
	if dst == nil {
		dst = model.State{}
	}
	for key, value := range src {
		if m, ok := asMap(value); ok {
			node, ok := asMap(dst[key])
			if !ok {
				node = map[string]any{}
				dst[key] = node
			}
			for k, v := range m {
				mergeInto(k, v, node)
			}
			continue
		}
		dst[key] = value
	}
	return dst
}

func mergeInto(key string, value any, dst map[string]any) {
	if m, ok := asMap(value); ok {
		node, ok := asMap(dst[key])
		if !ok {
			node = map[string]any{}
			dst[key] = node
		}
		for k, v := range m {
			mergeInto(k, v, node)
		}
		return
	}
	dst[key] = value
}

// DeepCopy returns a snapshot of s that shares no mutable structure with
// the original. The reconstructor keeps mutating its accumulator, so every
// snapshot handed to a track point must be detached first.
func DeepCopy(s model.State) model.State {
	if s == nil {
		return nil
	}
	out := make(model.State, len(s))
	for k, v := range s {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case model.State:
		return map[string]any(DeepCopy(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = copyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = copyValue(inner)
		}
		return out
	default:
		return v
	}
}

// asMap unwraps the two mapping shapes that show up in practice: State
// values built in code and plain maps produced by encoding/json.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case model.State:
		return m, true
	}
	return nil, false
}
