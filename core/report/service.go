// Package report builds ad-hoc rosters and the per-program census, and
// exports the current result to a tabular file.
package report

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/program"
	"github.com/sveduch/sveduch/core/pupil"
)

var (
	// errors
	errNoColumns = errors.New("choose at least one column")
	errNoData    = errors.New("there is nothing to export; run a query first")
)

type Mode int

const (
	ModeRoster Mode = iota
	ModeCensus
)

type (
	// Query selects pupils by class and/or program. In ModeCensus without a
	// program the result is the per-program headcount instead; with a program
	// it lists that program's pupils across all classes.
	Query struct {
		FormID    null.Int64
		ProgramID null.Int64
		Mode      Mode
		Columns   []string // catalog keys; ignored for an aggregate result
	}

	Result struct {
		Aggregate bool
		Headers   []string
		Rows      [][]string
		Census    []program.Census // set when Aggregate
	}

	// Writer persists a header row followed by data rows.
	Writer interface {
		Write(rows [][]interface{}) error
	}
)

type Service struct {
	pupils   pupil.Repository
	forms    form.Repository
	programs program.Repository
}

func NewService(pupils pupil.Repository, forms form.Repository, programs program.Repository) *Service {
	return &Service{pupils: pupils, forms: forms, programs: programs}
}

// Run evaluates q. Class and program names are resolved against lookups
// rebuilt on every call so renames are always reflected.
func (svc *Service) Run(ctx context.Context, q Query) (Result, error) {
	if q.Mode == ModeCensus && !q.ProgramID.Valid {
		return svc.census(ctx)
	}

	cols, err := selectColumns(q.Columns)
	if err != nil {
		return Result{}, err
	}

	filter := pupil.QueryFilter{FormID: q.FormID, ProgramID: q.ProgramID}
	if q.Mode == ModeCensus {
		filter.FormID = null.Int64{}
	}
	pupils, err := svc.query(ctx, filter)
	if err != nil {
		return Result{}, err
	}

	forms, err := svc.forms.QueryForms(ctx)
	if err != nil {
		return Result{}, err
	}
	progs, err := svc.programs.QueryPrograms(ctx)
	if err != nil {
		return Result{}, err
	}
	formLookup, progLookup := form.NewLookup(forms), program.NewLookup(progs)

	res := Result{Headers: make([]string, 0, len(cols)), Rows: make([][]string, 0, len(pupils))}
	for _, c := range cols {
		res.Headers = append(res.Headers, c.Title)
	}
	for _, p := range pupils {
		row := make([]string, 0, len(cols))
		for _, c := range cols {
			row = append(row, c.value(p, formLookup, progLookup))
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// query narrows by class in storage; a program on top of a class is applied
// to the class roster so the class ordering is kept.
func (svc *Service) query(ctx context.Context, filter pupil.QueryFilter) ([]pupil.Pupil, error) {
	if !filter.FormID.Valid || !filter.ProgramID.Valid {
		return svc.pupils.QueryPupils(ctx, filter)
	}
	roster, err := svc.pupils.QueryPupils(ctx, pupil.QueryFilter{FormID: filter.FormID})
	if err != nil {
		return nil, err
	}
	pupils := make([]pupil.Pupil, 0, len(roster))
	for _, p := range roster {
		if p.ProgramID == filter.ProgramID {
			pupils = append(pupils, p)
		}
	}
	return pupils, nil
}

func (svc *Service) census(ctx context.Context) (Result, error) {
	census, err := svc.programs.CountPupilsByProgram(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Aggregate: true,
		Headers:   []string{"id", "Программа", "Версия", "Количество учеников"},
		Rows:      make([][]string, 0, len(census)),
		Census:    census,
	}
	for _, c := range census {
		res.Rows = append(res.Rows, []string{
			strconv.FormatInt(c.ProgramID, 10), c.Name, c.Version, strconv.Itoa(c.Count),
		})
	}
	return res, nil
}

// Export writes res through w. A census is written as program, version and
// headcount; a roster is written as displayed.
func (svc *Service) Export(res Result, w Writer) error {
	if len(res.Rows) == 0 {
		return core.NewValidationError(errNoData)
	}

	out := make([][]interface{}, 0, len(res.Rows)+1)
	if res.Aggregate {
		out = append(out, stringsToRow(CensusHeaders))
		for _, c := range res.Census {
			out = append(out, []interface{}{c.Name, c.Version, c.Count})
		}
	} else {
		out = append(out, stringsToRow(res.Headers))
		for _, r := range res.Rows {
			out = append(out, stringsToRow(r))
		}
	}
	if err := w.Write(out); err != nil {
		return errors.Wrap(err, "exporting report")
	}
	return nil
}

func selectColumns(keys []string) ([]Column, error) {
	if len(keys) == 0 {
		return nil, core.NewValidationError(errNoColumns, core.FieldError{Field: "columns", Error: errNoColumns.Error()})
	}
	picked := make(map[string]bool, len(keys))
	for _, k := range keys {
		picked[k] = true
	}
	cols := make([]Column, 0, len(keys))
	for _, c := range Columns {
		if picked[c.Key] {
			cols = append(cols, c)
			delete(picked, c.Key)
		}
	}
	for k := range picked {
		msg := "unknown column " + strconv.Quote(k)
		return nil, core.NewFieldValidationError("columns", msg)
	}
	return cols, nil
}

func stringsToRow(ss []string) []interface{} {
	row := make([]interface{}, len(ss))
	for i, s := range ss {
		row[i] = s
	}
	return row
}
