package editor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"bizpos-backend/internal/domain"
)

// Row is one leaf of a flattened settings tree.
type Row struct {
	Path  string
	Value string
}

// Flatten lists every leaf of tree as a path/value row, sorted by path. List
// items are addressed by id when they have one and by index otherwise, e.g.
// "payment.methods[payment-method-cash].isDefault" or
// "payment.tipping.suggestions[0]".
func Flatten(tree *domain.BusinessSettings) ([]Row, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	var rows []Row
	flattenValue("", doc, &rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows, nil
}

func flattenValue(path string, v any, rows *[]Row) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			flattenValue(joinPath(path, k), child, rows)
		}
	case []any:
		if len(t) == 0 {
			*rows = append(*rows, Row{Path: path, Value: "[]"})
			return
		}
		for i, child := range t {
			key := fmt.Sprintf("%d", i)
			if obj, ok := child.(map[string]any); ok {
				if id, ok := obj["id"].(string); ok && id != "" {
					key = id
				}
			}
			flattenValue(path+"["+key+"]", child, rows)
		}
	case nil:
		*rows = append(*rows, Row{Path: path, Value: ""})
	case string:
		*rows = append(*rows, Row{Path: path, Value: t})
	default:
		*rows = append(*rows, Row{Path: path, Value: fmt.Sprint(t)})
	}
}
