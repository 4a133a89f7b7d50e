package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/wonny/nvdbdq/internal/pipeline"
	"github.com/wonny/nvdbdq/internal/table"
)

// Workbook sheet names
const (
	SheetData         = "Data"
	SheetMissing      = "Manglende"
	SheetCompleteness = "Kompletthet"
)

// ContentTypeXLSX is the media type of an exported workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX exports a result as a workbook with the scored table, the
// missing counts and the score distribution
func WriteXLSX(w io.Writer, r *pipeline.Result) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes the workbook of WriteXLSX to filename
func SaveXLSX(filename string, r *pipeline.Result) error {
	f, err := buildWorkbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", filename, err)
	}
	return nil
}

func buildWorkbook(r *pipeline.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{SheetMissing, SheetCompleteness} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	steps := []func(*excelize.File, *pipeline.Result, int) error{
		writeDataSheet,
		writeMissingSheet,
		writeCompletenessSheet,
	}
	for _, step := range steps {
		if err := step(f, r, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	if len(headers) == 0 {
		return nil
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style header %s: %w", h, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func writeDataSheet(f *excelize.File, r *pipeline.Result, style int) error {
	tbl := r.Table
	if tbl == nil {
		tbl = table.New()
	}

	columns := tbl.Columns()
	if err := writeHeader(f, SheetData, columns, style); err != nil {
		return err
	}

	for i := 0; i < tbl.Len(); i++ {
		values := make([]interface{}, len(columns))
		for j, col := range columns {
			if v, ok := tbl.Value(i, col); ok {
				values[j] = cellValue(v)
			}
		}
		if err := setRow(f, SheetData, i+2, values...); err != nil {
			return err
		}
	}
	return nil
}

func writeMissingSheet(f *excelize.File, r *pipeline.Result, style int) error {
	if err := writeHeader(f, SheetMissing, []string{"Egenskap", "Mangler", "Har verdi", "Andel mangler"}, style); err != nil {
		return err
	}

	present := make(map[string]int, len(r.Present))
	for _, c := range r.Present {
		present[c.Column] = c.Count
	}

	for i, c := range r.Missing {
		share := 0.0
		if r.RowCount > 0 {
			share = float64(c.Count) / float64(r.RowCount)
		}
		if err := setRow(f, SheetMissing, i+2, c.Column, c.Count, present[c.Column], share); err != nil {
			return err
		}
	}
	return nil
}

func writeCompletenessSheet(f *excelize.File, r *pipeline.Result, style int) error {
	if err := writeHeader(f, SheetCompleteness, []string{"Fra", "Til", "Antall objekter"}, style); err != nil {
		return err
	}

	row := 2
	for _, b := range r.Histogram {
		if err := setRow(f, SheetCompleteness, row, b.Lower, b.Upper, b.Count); err != nil {
			return err
		}
		row++
	}

	summary := [][]interface{}{
		{"Objekttype", r.ObjectTypeID},
		{"Navn", r.Name},
		{"Viktighet", string(r.Filter)},
		{"Fylke", r.Region},
		{"Objekter", r.RowCount},
		{"Gjennomsnitt", r.MeanScore},
		{"Kjøring", r.RunID},
	}
	row++
	for _, kv := range summary {
		if err := setRow(f, SheetCompleteness, row, kv...); err != nil {
			return err
		}
		row++
	}
	return nil
}

// cellValue keeps scalars as typed cells and serializes nested values
func cellValue(v interface{}) interface{} {
	switch v.(type) {
	case string, bool, float64, float32, int, int64, int32:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
