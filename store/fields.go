package store

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flatten turns nested objects into dotted leaf paths:
// {"a": {"b": 1, "c": [2]}} -> {"a.b": 1, "a.c": [2]}. Lists are leaves and
// empty objects contribute nothing.
func Flatten(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto(out, "", m)
	return out
}

func flattenInto(out map[string]interface{}, prefix string, m map[string]interface{}) {
	for k, v := range m {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := asMap(v); ok {
			flattenInto(out, path, nested)
			continue
		}
		out[path] = v
	}
}

// Overlaps reports whether writing path p and path q would touch the same field,
// i.e. they are equal or one is an ancestor of the other.
func Overlaps(p, q string) bool {
	if p == q {
		return true
	}
	return strings.HasPrefix(p, q+".") || strings.HasPrefix(q, p+".")
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case bson.M:
		return map[string]interface{}(t), true
	case primitive.D:
		return map[string]interface{}(t.Map()), true
	}
	return nil, false
}

// getPath resolves a dotted path inside doc.
func getPath(doc bson.M, path string) (interface{}, bool) {
	var cur interface{} = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath assigns value at a dotted path, creating intermediate documents.
func setPath(doc bson.M, path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		var m bson.M
		switch t := next.(type) {
		case bson.M:
			m = t
		case map[string]interface{}:
			m = bson.M(t)
		case primitive.D:
			m = bson.M(t.Map())
		}
		if !ok || m == nil {
			m = bson.M{}
		}
		cur[part] = m
		cur = m
	}
	cur[parts[len(parts)-1]] = value
}

// Lookup resolves a dotted path inside doc.
func Lookup(doc bson.M, path string) (interface{}, bool) {
	return getPath(doc, path)
}

// ToDocument encodes v with its bson tags and returns the resulting map.
func ToDocument(v interface{}) (bson.M, error) {
	return toDoc(v)
}
