package matching

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type jsonKind int

const (
	kindObject jsonKind = iota
	kindArray
	kindString
	kindNumber
)

// shape mirrors the wire structs so that decoder errors can be traced back to a full path.
type shape struct {
	kind   jsonKind
	fields []namedShape
	items  *shape
}

type namedShape struct {
	name  string
	shape *shape
}

var (
	stringShape = &shape{kind: kindString}
	numberShape = &shape{kind: kindNumber}

	skillShape = &shape{kind: kindObject, fields: []namedShape{
		{"name", stringShape},
		{"level", stringShape},
	}}

	profileShape = &shape{kind: kindObject, fields: []namedShape{
		{"name", stringShape},
		{"location", stringShape},
		{"availability", &shape{kind: kindArray, items: stringShape}},
		{"trustScore", numberShape},
		{"skillsOffered", &shape{kind: kindArray, items: skillShape}},
		{"skillsDesired", &shape{kind: kindArray, items: skillShape}},
	}}

	requestShape = &shape{kind: kindObject, fields: []namedShape{
		{"currentUser", profileShape},
		{"otherUsers", &shape{kind: kindArray, items: profileShape}},
	}}
)

// parseTree reads body without range checks on numbers. It returns false when body is not JSON.
func parseTree(body []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, false
	}
	return tree, true
}

// unknownFieldPath returns the full path of the first key named name that the wire shape does
// not declare. Keys match case-insensitively, as encoding/json does.
func unknownFieldPath(body []byte, name string) string {
	tree, ok := parseTree(body)
	if !ok {
		return ""
	}
	return findUnknown(tree, requestShape, "", name)
}

func findUnknown(v any, s *shape, path, name string) string {
	switch s.kind {
	case kindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return ""
		}

		for _, key := range sortedKeys(obj) {
			if key == name && s.field(key) == nil {
				return joinPath(path, key)
			}
		}

		for _, field := range s.fields {
			child, ok := lookup(obj, field.name)
			if !ok {
				continue
			}
			if found := findUnknown(child, field.shape, joinPath(path, field.name), name); found != "" {
				return found
			}
		}
	case kindArray:
		items, ok := v.([]any)
		if !ok {
			return ""
		}
		for idx, item := range items {
			if found := findUnknown(item, s.items, fmt.Sprintf("%s[%d]", path, idx), name); found != "" {
				return found
			}
		}
	}
	return ""
}

// typeErrorPath returns the full path of the first value whose JSON type does not fit the wire
// shape and whose index-free path equals field.
func typeErrorPath(body []byte, field string) string {
	tree, ok := parseTree(body)
	if !ok {
		return ""
	}
	return findMismatch(tree, requestShape, "", field)
}

func findMismatch(v any, s *shape, path, field string) string {
	if v == nil {
		return ""
	}

	if !s.accepts(v) {
		if stripIndexes(path) == field {
			return path
		}
		return ""
	}

	switch s.kind {
	case kindObject:
		obj := v.(map[string]any)
		for _, f := range s.fields {
			child, ok := lookup(obj, f.name)
			if !ok {
				continue
			}
			if found := findMismatch(child, f.shape, joinPath(path, f.name), field); found != "" {
				return found
			}
		}
	case kindArray:
		for idx, item := range v.([]any) {
			if found := findMismatch(item, s.items, fmt.Sprintf("%s[%d]", path, idx), field); found != "" {
				return found
			}
		}
	}
	return ""
}

func (s *shape) accepts(v any) bool {
	switch v.(type) {
	case map[string]any:
		return s.kind == kindObject
	case []any:
		return s.kind == kindArray
	case string:
		return s.kind == kindString
	case json.Number:
		return s.kind == kindNumber
	default:
		return false
	}
}

func (s *shape) field(key string) *shape {
	for _, f := range s.fields {
		if strings.EqualFold(f.name, key) {
			return f.shape
		}
	}
	return nil
}

// lookup prefers an exact key and falls back to a case-insensitive one.
func lookup(obj map[string]any, name string) (any, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	for _, key := range sortedKeys(obj) {
		if strings.EqualFold(key, name) {
			return obj[key], true
		}
	}
	return nil, false
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func stripIndexes(path string) string {
	var b strings.Builder
	depth := 0
	for _, r := range path {
		switch {
		case r == '[':
			depth++
		case r == ']':
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
