package value

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind is a value type that a resource schema can declare for an attribute.
type Kind string

// Value kinds.
const (
	KindString   Kind = "string"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindArray    Kind = "array"
	KindNull     Kind = "null"
	KindHref     Kind = "href"     // "/gallery/1"
	KindHrefList Kind = "hreflist" // ["/gallery/1", "/gallery/2"]
)

var kinds = map[string]Kind{
	"string":   KindString,
	"int":      KindInt,
	"float":    KindFloat,
	"bool":     KindBool,
	"array":    KindArray,
	"null":     KindNull,
	"href":     KindHref,
	"hreflist": KindHrefList,
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, bool) {
	k, ok := kinds[s]
	return k, ok
}

// Value is a JSON-representable value. The set of implementations is closed.
type Value interface {
	json.Marshaler
	// Kind reports the inferred kind of the value.
	Kind() Kind
	sealed()
}

// String is a JSON string.
type String string

// Int is an integral JSON number that fits in int64.
type Int int64

// Float is any other JSON number.
type Float float64

// Bool is a JSON boolean.
type Bool bool

// Null is the JSON null literal.
type Null struct{}

// List is a JSON array.
type List []Value

func (String) Kind() Kind { return KindString }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (Bool) Kind() Kind   { return KindBool }
func (Null) Kind() Kind   { return KindNull }
func (List) Kind() Kind   { return KindArray }

func (String) sealed() {}
func (Int) sealed()    {}
func (Float) sealed()  {}
func (Bool) sealed()   {}
func (Null) sealed()   {}
func (List) sealed()   {}

func (s String) MarshalJSON() ([]byte, error) { return json.Marshal(string(s)) }
func (i Int) MarshalJSON() ([]byte, error)    { return strconv.AppendInt(nil, int64(i), 10), nil }
func (b Bool) MarshalJSON() ([]byte, error)   { return strconv.AppendBool(nil, bool(b)), nil }
func (Null) MarshalJSON() ([]byte, error)     { return []byte("null"), nil }

// MarshalJSON always writes a fractional part so the value decodes back as a Float.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, &json.UnsupportedValueError{Str: strconv.FormatFloat(v, 'g', -1, 64)}
	}
	b := strconv.AppendFloat(nil, v, 'g', -1, 64)
	for _, c := range b {
		if c == '.' || c == 'e' || c == 'E' {
			return b, nil
		}
	}
	return append(b, '.', '0'), nil
}

// MarshalJSON writes the list; a nil list is written as [].
func (l List) MarshalJSON() ([]byte, error) {
	buf := []byte{'['}
	for i, v := range l {
		if i > 0 {
			buf = append(buf, ',')
		}
		b, err := marshal(v)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return append(buf, ']'), nil
}

func marshal(v Value) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return v.MarshalJSON()
}

// Empty returns the empty payload used for bodiless results.
func Empty() Value {
	return List{}
}

// Infer reports the runtime kind of v. A nil Value is null.
func Infer(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// Equal reports whether a and b are identical: same variant, same value and,
// for objects, the same keys in the same order.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	switch av := a.(type) {
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok {
			return false
		}
		return av.equal(bv)
	default:
		return a == b
	}
}

// IsEmpty reports whether v carries no content: null, an empty list or an
// empty object.
func IsEmpty(v Value) bool {
	switch tv := v.(type) {
	case nil, Null:
		return true
	case List:
		return len(tv) == 0
	case *Object:
		return tv.Len() == 0
	default:
		return false
	}
}
