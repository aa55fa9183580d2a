package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"bizpos-backend/internal/domain"
)

// fieldIndexes caches json name -> field index per struct type.
var fieldIndexes sync.Map // map[reflect.Type]map[string]int

func jsonFields(t reflect.Type) map[string]int {
	if cached, ok := fieldIndexes.Load(t); ok {
		return cached.(map[string]int)
	}
	fields := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields[name] = i
	}
	actual, _ := fieldIndexes.LoadOrStore(t, fields)
	return actual.(map[string]int)
}

func fieldByJSONName(t reflect.Type, name string) (int, bool) {
	idx, ok := jsonFields(t)[name]
	return idx, ok
}

func splitPath(p string) []string {
	p = strings.Trim(strings.TrimSpace(p), ".")
	if p == "" {
		return nil
	}
	return strings.Split(p, ".")
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// recordFunc mutates a private, addressable copy of the record found at path.
type recordFunc func(rec reflect.Value, path string) error

// modifySection returns a copy of tree in which the record at sectionPath has
// been passed through fn. Only the structs on the way from the root to that
// record are copied; every other section, record and slice is shared with
// tree.
func modifySection(tree *domain.BusinessSettings, sectionPath string, fn recordFunc) (*domain.BusinessSettings, error) {
	segs := splitPath(sectionPath)
	if tree == nil || len(segs) == 0 {
		return nil, pathErr(sectionPath, ErrInvalidSectionPath)
	}
	out, err := rewrite(reflect.ValueOf(tree), segs, "", fn)
	if err != nil {
		return nil, err
	}
	return out.Interface().(*domain.BusinessSettings), nil
}

func rewrite(v reflect.Value, segs []string, walked string, fn recordFunc) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Value{}, pathErr(walked, ErrInvalidSectionPath)
		}
		inner, err := rewrite(v.Elem(), segs, walked, fn)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(inner)
		return out, nil
	case reflect.Struct:
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		if len(segs) == 0 {
			if err := fn(cp, walked); err != nil {
				return reflect.Value{}, err
			}
			return cp, nil
		}
		next := joinPath(walked, segs[0])
		idx, ok := fieldByJSONName(v.Type(), segs[0])
		if !ok {
			return reflect.Value{}, pathErr(next, ErrInvalidSectionPath)
		}
		child, err := rewrite(v.Field(idx), segs[1:], next, fn)
		if err != nil {
			return reflect.Value{}, err
		}
		cp.Field(idx).Set(child)
		return cp, nil
	default:
		return reflect.Value{}, pathErr(walked, ErrInvalidSectionPath)
	}
}

// lookup resolves a dotted path to the value stored there.
func lookup(tree *domain.BusinessSettings, path string) (reflect.Value, error) {
	if tree == nil {
		return reflect.Value{}, pathErr(path, ErrInvalidSectionPath)
	}
	v := reflect.ValueOf(tree)
	walked := ""
	for _, seg := range splitPath(path) {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, pathErr(walked, ErrInvalidSectionPath)
			}
			v = v.Elem()
		}
		walked = joinPath(walked, seg)
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, pathErr(walked, ErrInvalidSectionPath)
		}
		idx, ok := fieldByJSONName(v.Type(), seg)
		if !ok {
			return reflect.Value{}, pathErr(walked, ErrInvalidSectionPath)
		}
		v = v.Field(idx)
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return reflect.Value{}, pathErr(walked, ErrInvalidSectionPath)
	}
	return v, nil
}

// assign stores value into dst. Values of an assignable Go type are copied
// directly; anything else (decoded JSON numbers and objects in particular)
// goes through a strict JSON round trip into dst's type.
func assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(value)
	if src.Kind() == reflect.Pointer && !src.IsNil() && src.Elem().Type().AssignableTo(dst.Type()) {
		src = src.Elem()
	}
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(deepCopy(src))
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	tmp := reflect.New(dst.Type())
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(tmp.Interface()); err != nil {
		return fmt.Errorf("%w: cannot store %T in %s", ErrTypeMismatch, value, dst.Type())
	}
	dst.Set(tmp.Elem())
	return nil
}

// deepCopy copies slices, maps and pointers reachable from v, so a value
// stored in the tree shares no backing memory with the caller's value.
func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			switch v.Field(i).Kind() {
			case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Struct:
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}

type listInfo struct {
	path    string
	kind    string
	idIndex int
}

// listField resolves a list of identified records inside rec.
func listField(rec reflect.Value, path, name string) (reflect.Value, listInfo, error) {
	lp := joinPath(path, name)
	idx, ok := fieldByJSONName(rec.Type(), name)
	if !ok {
		return reflect.Value{}, listInfo{}, pathErr(lp, ErrInvalidSectionPath)
	}
	f := rec.Field(idx)
	if !isRecordList(f.Type()) {
		return reflect.Value{}, listInfo{}, pathErr(lp, ErrNotAList)
	}
	idIdx, _ := fieldByJSONName(f.Type().Elem(), "id")
	kind := rec.Type().Field(idx).Tag.Get("kind")
	if kind == "" {
		kind = strings.TrimSuffix(name, "s")
	}
	return f, listInfo{path: lp, kind: kind, idIndex: idIdx}, nil
}

func indexOf(list reflect.Value, info listInfo, id string) int {
	for i := 0; i < list.Len(); i++ {
		if list.Index(i).Field(info.idIndex).String() == id {
			return i
		}
	}
	return -1
}

// copyList returns a fresh slice holding the same elements as list.
func copyList(list reflect.Value) reflect.Value {
	out := reflect.MakeSlice(list.Type(), list.Len(), list.Len())
	reflect.Copy(out, list)
	return out
}
