// Package entity holds the JSON documents returned by the Canvas API and the
// rules for picking a single one of them out of a listing.
package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind names a category of entity. It doubles as the top-level key of a
// cache file.
type Kind string

const (
	KindCourse          Kind = "course"
	KindAssignment      Kind = "assignment"
	KindSubmission      Kind = "submission"
	KindGroupCategory   Kind = "gcat"
	KindGroupCategories Kind = "group_categories"
	KindGroup           Kind = "group"
	KindGroups          Kind = "groups"
	KindSection         Kind = "section"
	KindStudents        Kind = "students"
	KindUser            Kind = "user"
)

// Entity is an opaque JSON object. Only a handful of fields are ever
// inspected; everything else is carried along untouched.
type Entity map[string]any

// List is an ordered sequence of entities as returned by the server.
type List []Entity

// ID returns the integer id of the entity.
func (e Entity) ID() (int64, bool) {
	return toInt(e["id"])
}

// MustID returns the id or zero when the entity carries none.
func (e Entity) MustID() int64 {
	id, _ := e.ID()
	return id
}

// Name returns the entity's name field.
func (e Entity) Name() string {
	return e.String("name")
}

// String returns the string value of key, or "" if absent or not a string.
func (e Entity) String(key string) string {
	s, _ := e[key].(string)
	return s
}

// Int returns the integer value of key.
func (e Entity) Int(key string) (int64, bool) {
	return toInt(e[key])
}

// Has reports whether key is present.
func (e Entity) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Clone returns a deep copy of the entity.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	return cloneValue(map[string]any(e)).(map[string]any)
}

// Label formats the entity as "id (name)" for diagnostics.
func (e Entity) Label() string {
	id, ok := e.ID()
	if !ok {
		return fmt.Sprintf("? (%s)", e.Name())
	}
	return fmt.Sprintf("%d (%s)", id, e.Name())
}

// IDs returns the ids of all entities in the list, in order.
func (l List) IDs() []int64 {
	ids := make([]int64, 0, len(l))
	for _, e := range l {
		if id, ok := e.ID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Names returns the names of all entities in the list, in order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, e := range l {
		names[i] = e.Name()
	}
	return names
}

// Clone deep copies every entity of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, e := range l {
		out[i] = e.Clone()
	}
	return out
}

// Decode parses a JSON body into one entity per element. An array yields its
// elements, a single object yields a one-element list.
func Decode(body []byte) (List, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return List{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	raw = Normalize(raw)

	switch v := raw.(type) {
	case []any:
		out := make(List, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is a %T, not an object", i, item)
			}
			out = append(out, Entity(obj))
		}
		return out, nil
	case map[string]any:
		return List{Entity(v)}, nil
	case nil:
		return List{}, nil
	default:
		return nil, fmt.Errorf("unexpected JSON %T in response", raw)
	}
}

// FromValue converts a decoded YAML or JSON value into a list. A mapping is a
// single entity, a sequence of mappings is a list.
func FromValue(v any) (List, error) {
	switch t := Normalize(v).(type) {
	case map[string]any:
		return List{Entity(t)}, nil
	case []any:
		out := make(List, 0, len(t))
		for i, item := range t {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is a %T, not a mapping", i, item)
			}
			out = append(out, Entity(obj))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a mapping or a sequence, got %T", v)
	}
}

// Normalize rewrites numbers so that JSON and YAML decoding agree: integral
// values become int64, others float64. Typed entities and lists become plain
// maps and slices.
func Normalize(v any) any {
	switch t := v.(type) {
	case Entity:
		return Normalize(map[string]any(t))
	case List:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		for k, item := range t {
			t[k] = Normalize(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = Normalize(item)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return Normalize(f)
		}
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return t
	default:
		return v
	}
}

func toInt(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case Entity:
		return Entity(cloneValue(map[string]any(t)).(map[string]any))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
