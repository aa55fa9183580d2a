package editor

import (
	"reflect"

	"bizpos-backend/internal/domain"
)

// Normalize returns tree with every empty list set to nil, the form
// RemoveListItem leaves behind when it drops the last item. Trees decoded
// from JSON (where "[]" yields an empty, non-nil slice) go through Normalize
// before they are edited, so adding and then removing an item gives back an
// equal tree. Records that need no change are shared with tree.
func Normalize(tree *domain.BusinessSettings) *domain.BusinessSettings {
	if tree == nil {
		return nil
	}
	out, changed := compactLists(reflect.ValueOf(tree))
	if !changed {
		return tree
	}
	return out.Interface().(*domain.BusinessSettings)
}

func compactLists(v reflect.Value) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v, false
		}
		inner, changed := compactLists(v.Elem())
		if !changed {
			return v, false
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(inner)
		return out, true
	case reflect.Struct:
		var cp reflect.Value
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			f := v.Field(i)
			var next reflect.Value
			changed := false
			switch {
			case isRecordList(f.Type()):
				if !f.IsNil() && f.Len() == 0 {
					next, changed = reflect.Zero(f.Type()), true
				}
			case f.Kind() == reflect.Pointer || f.Kind() == reflect.Struct:
				next, changed = compactLists(f)
			}
			if !changed {
				continue
			}
			if !cp.IsValid() {
				cp = reflect.New(v.Type()).Elem()
				cp.Set(v)
			}
			cp.Field(i).Set(next)
		}
		if !cp.IsValid() {
			return v, false
		}
		return cp, true
	default:
		return v, false
	}
}

// isRecordList reports whether t is a slice of records with a string id.
func isRecordList(t reflect.Type) bool {
	if t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.Struct {
		return false
	}
	idx, ok := fieldByJSONName(t.Elem(), "id")
	return ok && t.Elem().Field(idx).Type.Kind() == reflect.String
}
