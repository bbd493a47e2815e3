package toolcall

import "encoding/json"

// Kind discriminates the closed set of normalized value shapes.
type Kind int

const (
	// KindNull means nothing usable was found.
	KindNull Kind = iota
	// KindObject is a JSON object.
	KindObject
	// KindArray is a JSON array.
	KindArray
	// KindRaw is unparseable text carried through for debugging.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindRaw:
		return "raw"
	}
	return "unknown"
}

// Value is a normalized JSON-shaped value: exactly one of object, array,
// raw text, or null. The zero Value is Null.
type Value struct {
	kind Kind
	obj  map[string]any
	arr  []any
	raw  string
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Object wraps a JSON object.
func Object(m map[string]any) Value {
	return Value{kind: KindObject, obj: m}
}

// Array wraps a JSON array.
func Array(a []any) Value {
	return Value{kind: KindArray, arr: a}
}

// Raw wraps unparseable text.
func Raw(s string) Value {
	return Value{kind: KindRaw, raw: s}
}

// Kind returns the value's shape.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsObject returns the object payload, or false for any other kind.
func (v Value) AsObject() (map[string]any, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// AsArray returns the array payload, or false for any other kind.
func (v Value) AsArray() ([]any, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// RawText returns the raw text payload, or false for any other kind.
func (v Value) RawText() (string, bool) {
	if v.kind != KindRaw {
		return "", false
	}
	return v.raw, true
}

// Interface returns the value as plain Go data: map, slice, a
// {"raw": text} map, or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindObject:
		return v.obj
	case KindArray:
		return v.arr
	case KindRaw:
		return map[string]any{"raw": v.raw}
	}
	return nil
}

// MarshalJSON renders the value as its underlying JSON shape. Raw text is
// rendered as a {"raw": ...} object, null as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
