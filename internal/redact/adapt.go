package redact

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// FromAny converts an arbitrary Go value into the closed payload union.
//
// Maps become mappings (keys stringified and sorted, since Go map iteration
// order is unstable), structs become mappings over their exported fields in
// declaration order (json tags honored), slices and arrays become sequences,
// pointers and interfaces are dereferenced, and everything else becomes a
// scalar.
//
// Cyclic structures are handled here, not in the sanitizer: the walk tracks
// the identity of every map, slice, and pointer on the current path and
// substitutes CircularPlaceholder on revisit, so the resulting Value is
// always a finite tree and downstream recursion is total.
func FromAny(v any) Value {
	return fromReflect(reflect.ValueOf(v), make(map[uintptr]bool))
}

func fromReflect(rv reflect.Value, visiting map[uintptr]bool) Value {
	if !rv.IsValid() {
		return Scalar(nil)
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return Scalar(nil)
		}
		if rv.Kind() == reflect.Pointer {
			ptr := rv.Pointer()
			if visiting[ptr] {
				return Scalar(CircularPlaceholder)
			}
			visiting[ptr] = true
			defer delete(visiting, ptr)
		}
		return fromReflect(rv.Elem(), visiting)

	case reflect.Map:
		if rv.IsNil() {
			return Scalar(nil)
		}
		ptr := rv.Pointer()
		if visiting[ptr] {
			return Scalar(CircularPlaceholder)
		}
		visiting[ptr] = true
		defer delete(visiting, ptr)

		keys := rv.MapKeys()
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			members = append(members, Member{
				Key: stringifyKey(k),
				Val: fromReflect(rv.MapIndex(k), visiting),
			})
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Key < members[j].Key })
		return Value{kind: KindMapping, members: members}

	case reflect.Slice:
		if rv.IsNil() {
			return Scalar(nil)
		}
		ptr := rv.Pointer()
		if visiting[ptr] {
			return Scalar(CircularPlaceholder)
		}
		visiting[ptr] = true
		defer delete(visiting, ptr)
		return sequenceFrom(rv, visiting)

	case reflect.Array:
		return sequenceFrom(rv, visiting)

	case reflect.Struct:
		// time.Time stays a leaf; its fields are unexported anyway and the
		// formatter renders it as a timestamp string.
		if t, ok := rv.Interface().(time.Time); ok {
			return Scalar(t)
		}
		return mappingFromStruct(rv, visiting)

	default:
		return Scalar(rv.Interface())
	}
}

// mappingFromStruct exposes exported fields as mapping members so that
// field names flow through the sensitive-key check exactly like map keys.
// Field order mirrors declaration order; json tags rename or skip fields.
func mappingFromStruct(rv reflect.Value, visiting map[uintptr]bool) Value {
	t := rv.Type()
	members := make([]Member, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		members = append(members, Member{
			Key: name,
			Val: fromReflect(rv.Field(i), visiting),
		})
	}
	return Value{kind: KindMapping, members: members}
}

func sequenceFrom(rv reflect.Value, visiting map[uintptr]bool) Value {
	elems := make([]Value, rv.Len())
	for i := range elems {
		elems[i] = fromReflect(rv.Index(i), visiting)
	}
	return Value{kind: KindSequence, elems: elems}
}

func stringifyKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
