package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"bizpos-backend/internal/domain"
	"bizpos-backend/internal/editor"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Export is a rendered settings file.
type Export struct {
	Data        []byte
	ContentType string
	Extension   string
}

// ExportSettings renders every leaf of the tree as one section/path/value row.
func ExportSettings(s *domain.BusinessSettings, format string) (*Export, error) {
	rows, err := editor.Flatten(s)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", FormatCSV:
		data, err := exportCSV(rows)
		if err != nil {
			return nil, err
		}
		return &Export{Data: data, ContentType: "text/csv; charset=utf-8", Extension: FormatCSV}, nil
	case FormatXLSX, "excel":
		data, err := exportXLSX(rows)
		if err != nil {
			return nil, err
		}
		return &Export{
			Data:        data,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Extension:   FormatXLSX,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use csv or xlsx)", ErrUnsupportedFormat, format)
	}
}

func sectionOf(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

func exportCSV(rows []editor.Row) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"section", "path", "value"})
	for _, row := range rows {
		_ = w.Write([]string{sectionOf(row.Path), row.Path, row.Value})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func exportXLSX(rows []editor.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Settings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Section", "Path", "Value"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range rows {
		values := []string{sectionOf(row.Path), row.Path, row.Value}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellStr(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	_ = f.SetColWidth(sheet, "C", "C", 32)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "C1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
