package entity

// redactions lists, per kind, the fields that describe the requesting
// session rather than the entity itself. They are dropped before caching.
var redactions = map[Kind][]string{
	KindCourse:          {"enrollments"},
	KindGroupCategory:   {"is_member"},
	KindGroupCategories: {"is_member"},
	KindGroup:           {"is_member"},
	KindGroups:          {"is_member"},
	KindSection:         {"students"},
}

// RedactedFields returns the fields stripped from entities of kind k.
func RedactedFields(k Kind) []string {
	return redactions[k]
}

// PublicView returns a deep copy of v with the kind's redacted fields
// removed. v may be an Entity, a List, or a plain decoded value; the input is
// never modified.
func PublicView(k Kind, v any) any {
	fields := RedactedFields(k)

	switch t := v.(type) {
	case Entity:
		return Normalize(strip(t.Clone(), fields))
	case map[string]any:
		return Normalize(strip(Entity(t).Clone(), fields))
	case List:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(strip(e.Clone(), fields))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			if obj, ok := item.(map[string]any); ok {
				out[i] = Normalize(strip(Entity(obj).Clone(), fields))
				continue
			}
			out[i] = Normalize(cloneValue(item))
		}
		return out
	default:
		return Normalize(cloneValue(v))
	}
}

func strip(e Entity, fields []string) Entity {
	for _, f := range fields {
		delete(e, f)
	}
	return e
}
