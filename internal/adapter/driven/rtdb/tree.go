package rtdb

import (
	"strconv"
	"strings"
)

// tree is the local mirror of a streamed location. Values are decoded JSON:
// map[string]any for objects, scalars otherwise. Arrays are stored as maps
// keyed by index, matching how the database addresses their children.
type tree struct {
	root any
}

// set replaces the value at path ("/" is the root). A nil value deletes the
// node, and parents left empty are pruned.
func (t *tree) set(path string, value any) {
	segments := splitPath(path)
	value = normalize(value)

	if len(segments) == 0 {
		t.root = value
		return
	}

	root, _ := t.root.(map[string]any)
	if root == nil {
		if value == nil {
			return
		}
		root = map[string]any{}
	}
	t.root = setIn(root, segments, value)
}

// merge applies a patch event: each key of children is set under path.
func (t *tree) merge(path string, children map[string]any) {
	base := strings.TrimSuffix(path, "/")
	for key, value := range children {
		t.set(base+"/"+key, value)
	}
}

// setIn returns node with value placed at segments, or nil when the result
// is empty.
func setIn(node map[string]any, segments []string, value any) any {
	key := segments[0]
	if len(segments) == 1 {
		if value == nil {
			delete(node, key)
		} else {
			node[key] = value
		}
	} else {
		child, _ := node[key].(map[string]any)
		if child == nil {
			if value == nil {
				return nodeOrNil(node)
			}
			child = map[string]any{}
		}
		if updated := setIn(child, segments[1:], value); updated == nil {
			delete(node, key)
		} else {
			node[key] = updated
		}
	}
	return nodeOrNil(node)
}

func nodeOrNil(node map[string]any) any {
	if len(node) == 0 {
		return nil
	}
	return node
}

// normalize converts arrays to index-keyed maps, dropping null elements,
// and recurses into objects.
func normalize(v any) any {
	switch val := v.(type) {
	case []any:
		m := make(map[string]any, len(val))
		for i, item := range val {
			if item = normalize(item); item != nil {
				m[strconv.Itoa(i)] = item
			}
		}
		return nodeOrNil(m)
	case map[string]any:
		for k, item := range val {
			if item = normalize(item); item == nil {
				delete(val, k)
			} else {
				val[k] = item
			}
		}
		return nodeOrNil(val)
	default:
		return v
	}
}

func splitPath(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
