package p3d

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
)

type nodeView struct {
	Offset   int     `json:"offset" yaml:"offset"`
	Tag      string  `json:"tag" yaml:"tag"`
	Header   Header  `json:"header" yaml:"header"`
	Kind     string  `json:"kind" yaml:"kind"`
	Variant  Variant `json:"variant" yaml:"variant"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

func (n *Node) view() nodeView {
	return nodeView{
		Offset:   n.Offset,
		Tag:      TagName(n.Header.Tag),
		Header:   n.Header,
		Kind:     n.Variant.Kind(),
		Variant:  n.Variant,
		Children: n.Children,
	}
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(JSONValue(n.view()))
}

func (n *Node) MarshalYAML() (interface{}, error) {
	return n.view(), nil
}

// JSONValue converts decoded data into plain maps and slices that
// encoding/json accepts. Non-finite floats become the strings "NaN",
// "+Inf" and "-Inf". Struct fields follow their json tags.
func JSONValue(v interface{}) interface{} {
	return jsonValue(reflect.ValueOf(v))
}

var nodeType = reflect.TypeOf((*Node)(nil))

func jsonValue(v reflect.Value) interface{} {
	if !v.IsValid() {
		return nil
	}
	if v.Type() == nodeType {
		if v.IsNil() {
			return nil
		}
		return jsonValue(reflect.ValueOf(v.Interface().(*Node).view()))
	}

	switch v.Kind() {
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return jsonValue(v.Elem())
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch {
		case math.IsNaN(f):
			return "NaN"
		case math.IsInf(f, 1):
			return "+Inf"
		case math.IsInf(f, -1):
			return "-Inf"
		}
		return v.Interface()
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		return jsonList(v)
	case reflect.Array:
		return jsonList(v)
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]interface{}, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = jsonValue(iter.Value())
		}
		return out
	case reflect.Struct:
		out := make(map[string]interface{}, v.NumField())
		jsonFields(v, out)
		return out
	}
	return v.Interface()
}

func jsonList(v reflect.Value) []interface{} {
	out := make([]interface{}, v.Len())
	for i := range out {
		out[i] = jsonValue(v.Index(i))
	}
	return out
}

// jsonFields adds the exported fields of struct v to out. Untagged embedded
// structs are flattened like encoding/json does.
func jsonFields(v reflect.Value, out map[string]interface{}) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !f.Anonymous {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := v.Field(i)

		if f.Anonymous && name == "" {
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				jsonFields(fv, out)
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.Contains(opts, "omitempty") && isEmptyValue(fv) {
			continue
		}
		out[name] = jsonValue(fv)
	}
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return v.IsZero()
}
