// Package editor applies section-scoped edits to a business settings tree.
//
// Every operation takes the current tree and returns a new one; the input is
// never modified. Sections and records off the edited path are shared between
// the two trees, so callers may compare untouched sections by pointer.
//
// Sections are addressed by their JSON names, optionally dotted to reach a
// nested record ("general.localization"). Lists are the slices of records that
// carry an "id" field, such as "general.locations" or "pricing.priceLevels".
// An empty list is nil; see Normalize.
package editor

import (
	"reflect"
	"strconv"
	"time"

	"bizpos-backend/internal/domain"
)

// Editor performs copy-on-write edits. The zero value is not usable; use New.
type Editor struct {
	now func() time.Time
}

type Option func(*Editor)

// WithClock overrides the clock used to generate list item ids.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

func New(opts ...Option) *Editor {
	e := &Editor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEditor = New()

// Get returns the value stored at a dotted path.
func Get(tree *domain.BusinessSettings, path string) (any, error) {
	v, err := lookup(tree, path)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// SetField returns a tree whose sectionPath.fieldName holds value. No range or
// consistency checks happen here; see the validation package.
func (e *Editor) SetField(tree *domain.BusinessSettings, sectionPath, fieldName string, value any) (*domain.BusinessSettings, error) {
	return modifySection(tree, sectionPath, func(rec reflect.Value, path string) error {
		fp := joinPath(path, fieldName)
		idx, ok := fieldByJSONName(rec.Type(), fieldName)
		if !ok {
			return pathErr(fp, ErrUnknownField)
		}
		if err := assign(rec.Field(idx), value); err != nil {
			return pathErr(fp, err)
		}
		return nil
	})
}

// AddListItem appends item to a list and returns the new tree together with
// the id generated for the item. Any id already present on item is replaced.
func (e *Editor) AddListItem(tree *domain.BusinessSettings, sectionPath, listName string, item any) (*domain.BusinessSettings, string, error) {
	var id string
	out, err := modifySection(tree, sectionPath, func(rec reflect.Value, path string) error {
		list, info, err := listField(rec, path, listName)
		if err != nil {
			return err
		}
		elem := reflect.New(list.Type().Elem()).Elem()
		if err := assign(elem, item); err != nil {
			return pathErr(info.path, err)
		}
		id = e.newID(list, info)
		elem.Field(info.idIndex).SetString(id)

		next := reflect.MakeSlice(list.Type(), 0, list.Len()+1)
		next = reflect.AppendSlice(next, list)
		list.Set(reflect.Append(next, elem))
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return out, id, nil
}

// RemoveListItem drops the item with itemID. When no item matches, tree is
// returned as is.
func (e *Editor) RemoveListItem(tree *domain.BusinessSettings, sectionPath, listName, itemID string) (*domain.BusinessSettings, error) {
	found := false
	out, err := modifySection(tree, sectionPath, func(rec reflect.Value, path string) error {
		list, info, err := listField(rec, path, listName)
		if err != nil {
			return err
		}
		i := indexOf(list, info, itemID)
		if i < 0 {
			return nil
		}
		found = true
		if list.Len() == 1 {
			list.Set(reflect.Zero(list.Type()))
			return nil
		}
		next := reflect.MakeSlice(list.Type(), 0, list.Len()-1)
		next = reflect.AppendSlice(next, list.Slice(0, i))
		next = reflect.AppendSlice(next, list.Slice(i+1, list.Len()))
		list.Set(next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return tree, nil
	}
	return out, nil
}

// UpdateListItem sets one field of the item with itemID.
func (e *Editor) UpdateListItem(tree *domain.BusinessSettings, sectionPath, listName, itemID, fieldName string, value any) (*domain.BusinessSettings, error) {
	return modifySection(tree, sectionPath, func(rec reflect.Value, path string) error {
		list, info, err := listField(rec, path, listName)
		if err != nil {
			return err
		}
		fp := joinPath(info.path, fieldName)
		idx, ok := fieldByJSONName(list.Type().Elem(), fieldName)
		if !ok {
			return pathErr(fp, ErrUnknownField)
		}
		if idx == info.idIndex {
			return pathErr(fp, ErrReadOnlyField)
		}
		i := indexOf(list, info, itemID)
		if i < 0 {
			return pathErr(info.path+"["+itemID+"]", ErrItemNotFound)
		}
		next := copyList(list)
		if err := assign(next.Index(i).Field(idx), value); err != nil {
			return pathErr(fp, err)
		}
		list.Set(next)
		return nil
	})
}

// SetExclusiveFlag sets flagName on the item with itemID and clears it on
// every other item of the list, so afterwards exactly that item is flagged.
func (e *Editor) SetExclusiveFlag(tree *domain.BusinessSettings, sectionPath, listName, itemID, flagName string) (*domain.BusinessSettings, error) {
	return modifySection(tree, sectionPath, func(rec reflect.Value, path string) error {
		list, info, err := listField(rec, path, listName)
		if err != nil {
			return err
		}
		fp := joinPath(info.path, flagName)
		idx, ok := fieldByJSONName(list.Type().Elem(), flagName)
		if !ok {
			return pathErr(fp, ErrUnknownField)
		}
		if list.Type().Elem().Field(idx).Type.Kind() != reflect.Bool {
			return pathErr(fp, ErrTypeMismatch)
		}
		target := indexOf(list, info, itemID)
		if target < 0 {
			return pathErr(info.path+"["+itemID+"]", ErrItemNotFound)
		}
		next := copyList(list)
		for i := 0; i < next.Len(); i++ {
			next.Index(i).Field(idx).SetBool(i == target)
		}
		list.Set(next)
		return nil
	})
}

// UpdatePriceLevel sets one field of a pricing price level.
func (e *Editor) UpdatePriceLevel(tree *domain.BusinessSettings, priceLevelID, fieldName string, value any) (*domain.BusinessSettings, error) {
	return e.UpdateListItem(tree, "pricing", "priceLevels", priceLevelID, fieldName, value)
}

// newID builds "<kind>-<unix millis>", suffixed when the list already holds
// an item created in the same millisecond.
func (e *Editor) newID(list reflect.Value, info listInfo) string {
	base := info.kind + "-" + strconv.FormatInt(e.now().UnixMilli(), 10)
	id := base
	for n := 2; indexOf(list, info, id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

func SetField(tree *domain.BusinessSettings, sectionPath, fieldName string, value any) (*domain.BusinessSettings, error) {
	return defaultEditor.SetField(tree, sectionPath, fieldName, value)
}

func AddListItem(tree *domain.BusinessSettings, sectionPath, listName string, item any) (*domain.BusinessSettings, string, error) {
	return defaultEditor.AddListItem(tree, sectionPath, listName, item)
}

func RemoveListItem(tree *domain.BusinessSettings, sectionPath, listName, itemID string) (*domain.BusinessSettings, error) {
	return defaultEditor.RemoveListItem(tree, sectionPath, listName, itemID)
}

func UpdateListItem(tree *domain.BusinessSettings, sectionPath, listName, itemID, fieldName string, value any) (*domain.BusinessSettings, error) {
	return defaultEditor.UpdateListItem(tree, sectionPath, listName, itemID, fieldName, value)
}

func SetExclusiveFlag(tree *domain.BusinessSettings, sectionPath, listName, itemID, flagName string) (*domain.BusinessSettings, error) {
	return defaultEditor.SetExclusiveFlag(tree, sectionPath, listName, itemID, flagName)
}
