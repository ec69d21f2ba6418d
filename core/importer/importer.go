// Package importer maps a header-labelled table into pupil insertions under one class.
package importer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/pupil"
)

// Required header labels.
const (
	HeaderSurname    = "Фамилия"
	HeaderName       = "Имя"
	HeaderPatronymic = "Отчество"
	HeaderBirthDate  = "Дата рождения"
	HeaderAddress    = "Домашний адрес"
	HeaderGender     = "Пол"
)

// RequiredHeaders lists the labels every import file must carry, in reporting order.
var RequiredHeaders = []string{
	HeaderSurname, HeaderName, HeaderPatronymic, HeaderBirthDate, HeaderAddress, HeaderGender,
}

// Spreadsheet date serials: day 0 is 1899-12-30, which absorbs the 1900 leap-year bug.
const (
	minDateSerial = 1000
	maxDateSerial = 100000
)

var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	// errors
	errEmptyFile       = errors.New("the file has no header row")
	errMissingSurname  = errors.New("surname is required")
	errMissingName     = errors.New("name is required")
	errMissingNameBoth = errors.New("surname and name are required")
)

type (
	// RowError is a problem with a single source row. Row is 1-based and counts the header.
	RowError struct {
		Row int
		Err error
	}

	Result struct {
		BatchID     uuid.UUID
		Form        form.Form
		FormCreated bool
		Inserted    int
		Errors      []RowError
	}
)

func (re RowError) Error() string {
	return fmt.Sprintf("row %d: %v", re.Row, re.Err)
}

type Service struct {
	forms  *form.Service
	pupils *pupil.Service
	log    core.Logger
}

func NewService(forms *form.Service, pupils *pupil.Service, log core.Logger) *Service {
	return &Service{forms: forms, pupils: pupils, log: log}
}

// Import inserts every usable row of rows (header first) as a pupil of the class
// numbered classNumber, creating the class if needed. A missing header fails the
// whole import before anything is written; row problems are collected in the
// Result and the remaining rows are still imported.
func (svc *Service) Import(ctx context.Context, rows [][]string, classNumber string) (Result, error) {
	if len(rows) == 0 {
		return Result{}, core.NewFieldValidationError("file", errEmptyFile.Error())
	}
	cols, err := mapHeader(rows[0])
	if err != nil {
		return Result{}, err
	}

	frm, created, err := svc.forms.GetOrCreate(ctx, classNumber)
	if err != nil {
		return Result{}, err
	}
	res := Result{BatchID: uuid.New(), Form: frm, FormCreated: created}

	for i, row := range rows[1:] {
		rowNum := i + 2
		rec, skip, err := parseRow(row, cols)
		if skip {
			continue
		}
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Err: err})
			continue
		}
		if _, err := svc.pupils.Create(ctx, rec.WithForm(frm.ID)); err != nil {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Err: err})
			continue
		}
		res.Inserted++
	}

	svc.log.Info("pupils imported", map[string]interface{}{
		"batch": res.BatchID.String(), "form": frm.Number, "form_created": created,
		"inserted": res.Inserted, "errors": len(res.Errors),
	})
	return res, nil
}

type columns map[string]int

// mapHeader finds the required labels (exact, case-sensitive) in the header row.
func mapHeader(header []string) (columns, error) {
	cols := make(columns, len(RequiredHeaders))
	for i, label := range header {
		if _, seen := cols[label]; !seen {
			cols[label] = i
		}
	}
	var missing []string
	for _, label := range RequiredHeaders {
		if _, ok := cols[label]; !ok {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		msg := "missing required columns: " + strings.Join(missing, ", ")
		flds := make([]core.FieldError, 0, len(missing))
		for _, label := range missing {
			flds = append(flds, core.FieldError{Field: label, Error: "column is missing"})
		}
		return nil, core.NewValidationError(errors.New(msg), flds...)
	}
	return cols, nil
}

func (cols columns) cell(row []string, label string) string {
	idx := cols[label]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow builds a record from a data row. skip is set for a fully blank name.
func parseRow(row []string, cols columns) (rec pupil.Record, skip bool, err error) {
	rec = pupil.Record{
		Surname:    cols.cell(row, HeaderSurname),
		Name:       cols.cell(row, HeaderName),
		Patronymic: cols.cell(row, HeaderPatronymic),
		BirthDate:  NormalizeDate(cols.cell(row, HeaderBirthDate)),
		Address:    cols.cell(row, HeaderAddress),
		Gender:     cols.cell(row, HeaderGender),
	}
	switch {
	case rec.Surname == "" && rec.Name == "" && rec.Patronymic == "":
		return pupil.Record{}, true, nil
	case rec.Surname == "" && rec.Name == "":
		return pupil.Record{}, false, errMissingNameBoth
	case rec.Surname == "":
		return pupil.Record{}, false, errMissingSurname
	case rec.Name == "":
		return pupil.Record{}, false, errMissingName
	}
	return rec, false, nil
}

// NormalizeDate converts a spreadsheet date serial (an integer in 1000..100000)
// to yyyy-mm-dd. Anything else is returned unchanged.
func NormalizeDate(value string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || f != math.Trunc(f) || f < minDateSerial || f > maxDateSerial {
		return value
	}
	return serialEpoch.AddDate(0, 0, int(f)).Format("2006-01-02")
}
