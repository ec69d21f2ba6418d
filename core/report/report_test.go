package report_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/pupil"
	"github.com/sveduch/sveduch/core/report"
	"github.com/sveduch/sveduch/storage/database/sqlite"
	"github.com/sveduch/sveduch/tests"
)

type memWriter struct {
	rows [][]interface{}
}

func (w *memWriter) Write(rows [][]interface{}) error {
	w.rows = rows
	return nil
}

func TestColumnsCatalog(t *testing.T) {
	assert.Len(t, report.Columns, 19)
	seen := make(map[string]bool)
	for _, c := range report.Columns {
		assert.False(t, seen[c.Key], "duplicate column %s", c.Key)
		seen[c.Key] = true
		assert.NotEmpty(t, c.Title)
	}
}

func TestService_Run(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	forms := sqliterepos.NewFormRepository(db)
	progs := sqliterepos.NewProgramRepository(db)
	pupils := sqliterepos.NewPupilRepository(db)
	svc := report.NewService(pupils, forms, progs)

	f5 := testutil.CreateForm(t, forms, "5А")
	f6 := testutil.CreateForm(t, forms, "6А")
	aoop := testutil.CreateProgram(t, progs, "АООП", "7.2")
	unused := testutil.CreateProgram(t, progs, "Индивидуальная", "1")
	testutil.CreatePupil(t, pupils, f5.ID, "Иванов", "Пётр", "Сергеевич", aoop.ID)
	testutil.CreatePupil(t, pupils, f5.ID, "Белова", "Ольга", "")
	testutil.CreatePupil(t, pupils, f6.ID, "Авдеев", "Олег", "", aoop.ID)

	tests := []struct {
		name        string
		q           report.Query
		wantHeaders []string
		wantRows    [][]string
	}{
		{
			name:        "roster of a class",
			q:           report.Query{FormID: null.Int64From(f5.ID), Columns: []string{report.ColSurname, report.ColClass, report.ColProgramName}},
			wantHeaders: []string{"Класс", "Фамилия", "Программа"},
			wantRows:    [][]string{{"5А", "Белова", ""}, {"5А", "Иванов", "АООП"}},
		},
		{
			name:        "class and program",
			q:           report.Query{FormID: null.Int64From(f5.ID), ProgramID: null.Int64From(aoop.ID), Columns: []string{report.ColSurname, report.ColProgramVersion, report.ColRecSpec1}},
			wantHeaders: []string{"Фамилия", "Версия", "Рек.1"},
			wantRows:    [][]string{{"Иванов", "7.2", pupil.NoRecommendation}},
		},
		{
			name:        "everybody",
			q:           report.Query{Columns: []string{report.ColSurname}},
			wantHeaders: []string{"Фамилия"},
			wantRows:    [][]string{{"Белова"}, {"Иванов"}, {"Авдеев"}},
		},
		{
			name:        "census of one program ignores the class",
			q:           report.Query{Mode: report.ModeCensus, FormID: null.Int64From(f6.ID), ProgramID: null.Int64From(aoop.ID), Columns: []string{report.ColClass, report.ColSurname}},
			wantHeaders: []string{"Класс", "Фамилия"},
			wantRows:    [][]string{{"5А", "Иванов"}, {"6А", "Авдеев"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Run(ctx, tt.q)
			require.NoError(t, err)
			assert.False(t, res.Aggregate)
			assert.Equal(t, tt.wantHeaders, res.Headers)
			assert.Equal(t, tt.wantRows, res.Rows)
		})
	}

	t.Run("no columns", func(t *testing.T) {
		_, err := svc.Run(ctx, report.Query{FormID: null.Int64From(f5.ID)})
		assert.True(t, core.IsValidation(err), "got %v", err)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := svc.Run(ctx, report.Query{Columns: []string{"lol"}})
		assert.True(t, core.IsValidation(err), "got %v", err)
	})

	t.Run("census", func(t *testing.T) {
		res, err := svc.Run(ctx, report.Query{Mode: report.ModeCensus, FormID: null.Int64From(f5.ID)})
		require.NoError(t, err)
		assert.True(t, res.Aggregate)
		require.Len(t, res.Census, 2)
		assert.Equal(t, aoop.ID, res.Census[0].ProgramID)
		assert.Equal(t, 2, res.Census[0].Count)
		assert.Equal(t, unused.ID, res.Census[1].ProgramID)
		assert.Equal(t, 0, res.Census[1].Count)

		var w memWriter
		require.NoError(t, svc.Export(res, &w))
		assert.Equal(t, [][]interface{}{
			{"Программа", "Версия", "Количество учеников"},
			{"АООП", "7.2", 2},
			{"Индивидуальная", "1", 0},
		}, w.rows)
	})

	t.Run("renames are picked up", func(t *testing.T) {
		_, err := forms.UpdateForm(ctx, form.Form{ID: f6.ID, Number: "6Б"})
		require.NoError(t, err)
		res, err := svc.Run(ctx, report.Query{FormID: null.Int64From(f6.ID), Columns: []string{report.ColClass}})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"6Б"}}, res.Rows)
	})

	t.Run("export roster", func(t *testing.T) {
		res, err := svc.Run(ctx, report.Query{FormID: null.Int64From(f5.ID), Columns: []string{report.ColName}})
		require.NoError(t, err)
		var w memWriter
		require.NoError(t, svc.Export(res, &w))
		assert.Equal(t, [][]interface{}{{"Имя"}, {"Ольга"}, {"Пётр"}}, w.rows)
	})

	t.Run("export nothing", func(t *testing.T) {
		var w memWriter
		err := svc.Export(report.Result{}, &w)
		assert.True(t, core.IsValidation(err), "got %v", err)
		assert.Nil(t, w.rows)
	})
}
