package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Parse decodes a single JSON document, keeping object key order.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decode(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("value: trailing data after JSON document")
	}
	return v, nil
}

// ParseObject decodes a JSON document that must be an object.
func ParseObject(data []byte) (*Object, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func decode(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("value: unexpected object key %v", kt)
				}
				v, err := decode(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			list := List{}
			for dec.More() {
				v, err := decode(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("value: unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		return number(t)
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("value: unexpected token %v", tok)
	}
}

// ErrNumberRange is returned for a number that does not fit in a float64.
var ErrNumberRange = errors.New("value: number out of range")

func number(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNumberRange, s)
	}
	return Float(f), nil
}

// finite returns Float(f), or Null when f is infinite or NaN.
func finite(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Null{}
	}
	return Float(f)
}

// FromAny converts a decoded Go value (from encoding/json, yaml.v3 or a
// literal) into a Value. Maps with non-string keys have their keys formatted
// with fmt; map keys are sorted since Go maps carry no order. Numbers that
// have no JSON form (infinities, NaN, out of range) become Null.
func FromAny(v any) Value {
	switch tv := v.(type) {
	case nil:
		return Null{}
	case Value:
		return tv
	case string:
		return String(tv)
	case bool:
		return Bool(tv)
	case int:
		return Int(tv)
	case int8:
		return Int(tv)
	case int16:
		return Int(tv)
	case int32:
		return Int(tv)
	case int64:
		return Int(tv)
	case uint8:
		return Int(tv)
	case uint16:
		return Int(tv)
	case uint32:
		return Int(tv)
	case uint64:
		if tv <= math.MaxInt64 {
			return Int(tv)
		}
		return Float(tv)
	case float32:
		return finite(float64(tv))
	case float64:
		return finite(tv)
	case json.Number:
		v, err := number(tv)
		if err != nil {
			return Null{}
		}
		return v
	case []any:
		out := make(List, len(tv))
		for i, item := range tv {
			out[i] = FromAny(item)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(tv[k]))
		}
		return obj
	case map[any]any:
		m := make(map[string]any, len(tv))
		for k, item := range tv {
			m[fmt.Sprint(k)] = item
		}
		return FromAny(m)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make(List, rv.Len())
		for i := range out {
			out[i] = FromAny(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return FromAny(m)
	}
	return String(fmt.Sprint(v))
}

// ToAny converts v into the representation produced by encoding/json with
// UseNumber: map[string]any, []any, json.Number, string, bool and nil.
func ToAny(v Value) any {
	switch tv := v.(type) {
	case nil, Null:
		return nil
	case String:
		return string(tv)
	case Bool:
		return bool(tv)
	case Int:
		return json.Number(strconv.FormatInt(int64(tv), 10))
	case Float:
		return json.Number(strconv.FormatFloat(float64(tv), 'g', -1, 64))
	case List:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = ToAny(item)
		}
		return out
	case *Object:
		out := make(map[string]any, tv.Len())
		tv.Range(func(k string, item Value) bool {
			out[k] = ToAny(item)
			return true
		})
		return out
	}
	return nil
}
