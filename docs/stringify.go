package docs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Circular replaces a value that was already written once.
const Circular = "[Circular]"

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

// Stringify encodes v as JSON, indented with indent when it is not empty.
// A pointer, map or slice that appears a second time anywhere in v is
// written as "[Circular]", so cyclic values encode instead of recursing.
func Stringify(v any, indent string) (string, error) {
	w := &walker{seen: make(map[identity]bool)}
	tree := w.walk(reflect.ValueOf(v))

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(tree); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

type identity struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type walker struct {
	seen map[identity]bool
}

// visit reports whether the reference was seen before and records it.
func (w *walker) visit(v reflect.Value) bool {
	id := identity{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		id.len = v.Len()
	}
	if w.seen[id] {
		return true
	}
	w.seen[id] = true
	return false
}

func (w *walker) walk(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if v.Type().Implements(marshalerType) && v.CanInterface() {
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return nil
		}
		return v.Interface()
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return w.walk(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		if w.visit(v) {
			return Circular
		}
		return w.walk(v.Elem())
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		if w.visit(v) {
			return Circular
		}
		return w.walkMap(v)
	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes()
		}
		if v.Len() > 0 && w.visit(v) {
			return Circular
		}
		return w.walkList(v)
	case reflect.Array:
		return w.walkList(v)
	case reflect.Struct:
		return w.walkStruct(v)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v)
	}
	if v.CanInterface() {
		return v.Interface()
	}
	return fmt.Sprint(v)
}

func (w *walker) walkList(v reflect.Value) []any {
	out := make([]any, v.Len())
	for i := range out {
		out[i] = w.walk(v.Index(i))
	}
	return out
}

func (w *walker) walkMap(v reflect.Value) object {
	keys := v.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = fmt.Sprint(k.Interface())
	}
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return names[idx[a]] < names[idx[b]] })

	out := make(object, 0, len(keys))
	for _, i := range idx {
		out = append(out, member{name: names[i], value: w.walk(v.MapIndex(keys[i]))})
	}
	return out
}

func (w *walker) walkStruct(v reflect.Value) object {
	fields := structFields(v, 0, nil)
	out := make(object, 0, len(fields))
	for i, f := range fields {
		if dominant(fields, f.name) != i {
			continue
		}
		out = append(out, member{name: f.name, value: w.walk(f.value)})
	}
	return out
}

// dominant returns the index of the field encoded under name, or -1. The
// shallowest field wins; a tie goes to the only tagged field, otherwise
// the name is dropped, as encoding/json does.
func dominant(fields []structField, name string) int {
	winner, depth, tagged, ties := -1, 0, 0, 0
	for i, f := range fields {
		if f.name != name {
			continue
		}
		if winner == -1 || f.depth < depth {
			winner, depth, ties, tagged = i, f.depth, 0, 0
		} else if f.depth > depth {
			continue
		} else {
			ties++
		}
		if f.tagged {
			tagged++
			if tagged == 1 {
				winner = i
			}
		}
	}
	if ties > 0 && tagged != 1 {
		return -1
	}
	return winner
}

type structField struct {
	name   string
	depth  int
	tagged bool
	value  reflect.Value
}

// structFields lists the encoded fields of v in order, promoting the
// fields of untagged embedded structs.
func structFields(v reflect.Value, depth int, out []structField) []structField {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, hasTag := field.Tag.Lookup("json")
		if tag == "-" {
			continue
		}
		tagName, opts, _ := strings.Cut(tag, ",")
		fv := v.Field(i)

		if field.Anonymous && tagName == "" {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if fv.Kind() == reflect.Pointer {
					if fv.IsNil() || !field.IsExported() {
						continue
					}
					fv = fv.Elem()
				}
				out = structFields(fv, depth+1, out)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if hasTag && strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		name := field.Name
		if tagName != "" {
			name = tagName
		}
		out = append(out, structField{name: name, depth: depth, tagged: tagName != "", value: fv})
	}
	return out
}

type member struct {
	name  string
	value any
}

// object is a JSON object that keeps its members in order.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(m.value); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
