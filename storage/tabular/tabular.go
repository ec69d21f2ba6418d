// Package tabular reads and writes spreadsheet (.xlsx) files as plain rows.
package tabular

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet names the sheet written by Writer when none is set.
const DefaultSheet = "Отчёт"

// ReadFile returns the rows of the first sheet of the workbook at path.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening spreadsheet")
	}
	defer func() { _ = f.Close() }()
	return ReadRows(f)
}

// ReadRows returns the rows of the first sheet. Cells are returned raw, so
// date cells come back as date serials.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading spreadsheet")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	return rows, nil
}

// Writer writes rows as a single-sheet workbook to an io.Writer.
type Writer struct {
	out   io.Writer
	Sheet string
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out, Sheet: DefaultSheet}
}

func (w *Writer) Write(rows [][]interface{}) error {
	f, err := build(w.Sheet, rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w.out); err != nil {
		return errors.Wrap(err, "writing spreadsheet")
	}
	return nil
}

// FileWriter writes rows as a single-sheet workbook at Path.
type FileWriter struct {
	Path  string
	Sheet string
}

func (w FileWriter) Write(rows [][]interface{}) error {
	sheet := w.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	f, err := build(sheet, rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(w.Path); err != nil {
		return errors.Wrapf(err, "saving %s", w.Path)
	}
	return nil
}

func build(sheet string, rows [][]interface{}) (*excelize.File, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheet)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "creating sheet")
	}
	f.SetActiveSheet(idx)
	if first := f.GetSheetName(0); first != sheet {
		if err := f.DeleteSheet(first); err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "removing default sheet")
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrap(err, "addressing row")
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "writing row %d", i+1)
		}
	}
	return f, nil
}
