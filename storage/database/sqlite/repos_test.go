package sqliterepos

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/archive"
	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/program"
	"github.com/sveduch/sveduch/core/pupil"
	"github.com/sveduch/sveduch/core/recommendation"
	"github.com/sveduch/sveduch/core/settings"
	"github.com/sveduch/sveduch/tests"
)

func TestFormRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewFormRepository(db)
	pupils := NewPupilRepository(db)

	f5 := testutil.CreateForm(t, repo, "5А")
	f10 := testutil.CreateForm(t, repo, "10Б")

	t.Run("duplicate number", func(t *testing.T) {
		_, err := repo.CreateForm(ctx, "5А")
		assert.True(t, core.IsConstraintViolation(err), "got %v", err)
		assert.True(t, errors.Is(err, form.ErrExists), "got %v", err)
	})

	t.Run("ordered by number", func(t *testing.T) {
		forms, err := repo.QueryForms(ctx)
		require.NoError(t, err)
		assert.Equal(t, []form.Form{f10, f5}, forms)
	})

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetFormByNumber(ctx, "5А")
		require.NoError(t, err)
		assert.Equal(t, f5, got)

		_, err = repo.GetFormByID(ctx, 999)
		assert.Equal(t, form.ErrNotFound, err)
		_, err = repo.GetFormByNumber(ctx, "7В")
		assert.Equal(t, form.ErrNotFound, err)
	})

	t.Run("rename onto an existing number", func(t *testing.T) {
		_, err := repo.UpdateForm(ctx, form.Form{ID: f10.ID, Number: "5А"})
		assert.True(t, core.IsConstraintViolation(err), "got %v", err)
	})

	t.Run("delete referenced", func(t *testing.T) {
		testutil.CreatePupil(t, pupils, f5.ID, "Иванов", "Пётр", "")
		cnt, err := repo.CountPupils(ctx, f5.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)

		err = repo.DeleteForm(ctx, f5.ID)
		assert.True(t, core.IsConstraintViolation(err), "got %v", err)
		assert.True(t, errors.Is(err, form.ErrInUse), "got %v", err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteForm(ctx, f10.ID))
		assert.Equal(t, form.ErrNotFound, repo.DeleteForm(ctx, f10.ID))
	})
}

func TestProgramRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewProgramRepository(db)
	forms := NewFormRepository(db)
	pupils := NewPupilRepository(db)

	frm := testutil.CreateForm(t, forms, "3А")
	aoop := testutil.CreateProgram(t, repo, "АООП", "7.2")
	empty := testutil.CreateProgram(t, repo, "АООП", "8.1")
	other := testutil.CreateProgram(t, repo, "Адаптированная", "1")

	testutil.CreatePupil(t, pupils, frm.ID, "Иванов", "Пётр", "", aoop.ID)
	testutil.CreatePupil(t, pupils, frm.ID, "Петров", "Иван", "", aoop.ID)
	testutil.CreatePupil(t, pupils, frm.ID, "Сидоров", "Олег", "", other.ID)
	testutil.CreatePupil(t, pupils, frm.ID, "Смирнов", "Юрий", "")

	t.Run("census", func(t *testing.T) {
		census, err := repo.CountPupilsByProgram(ctx)
		require.NoError(t, err)
		assert.Equal(t, []program.Census{
			{ProgramID: aoop.ID, Name: "АООП", Version: "7.2", Count: 2},
			{ProgramID: empty.ID, Name: "АООП", Version: "8.1", Count: 0},
			{ProgramID: other.ID, Name: "Адаптированная", Version: "1", Count: 1},
		}, census)

		var sum int
		for _, c := range census {
			sum += c.Count
		}
		assigned, err := pupils.QueryPupils(ctx, pupil.QueryFilter{})
		require.NoError(t, err)
		var withProgram int
		for _, p := range assigned {
			if p.ProgramID.Valid {
				withProgram++
			}
		}
		assert.Equal(t, withProgram, sum)
	})

	t.Run("update", func(t *testing.T) {
		got, err := repo.UpdateProgram(ctx, program.Program{ID: empty.ID, Name: "АООП", Version: "8.2"})
		require.NoError(t, err)
		assert.Equal(t, "8.2", got.Version)

		_, err = repo.UpdateProgram(ctx, program.Program{ID: 999, Name: "x", Version: "y"})
		assert.Equal(t, program.ErrNotFound, err)
	})

	t.Run("delete clears pupils' program", func(t *testing.T) {
		require.NoError(t, repo.DeleteProgram(ctx, other.ID))
		left, err := pupils.QueryPupils(ctx, pupil.QueryFilter{ProgramID: null.Int64From(other.ID)})
		require.NoError(t, err)
		assert.Empty(t, left)

		all, err := pupils.QueryPupils(ctx, pupil.QueryFilter{FormID: null.Int64From(frm.ID)})
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}

func TestRecommendationRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewRecommendationRepository(db)

	add := func(spec, rec string) recommendation.Recommendation {
		t.Helper()
		r, err := repo.CreateRecommendation(ctx, recommendation.Recommendation{Specialist: spec, Recommendation: rec})
		require.NoError(t, err)
		return r
	}

	first := add("Логопед", "Артикуляция")
	add("Психолог", "Игровая терапия")
	add("Логопед", "Дыхание")
	again := add("Логопед", "Артикуляция")

	t.Run("idempotent insert", func(t *testing.T) {
		assert.Equal(t, first, again)
		all, err := repo.QueryRecommendations(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("by specialist", func(t *testing.T) {
		recs, err := repo.QueryBySpecialist(ctx, "Логопед")
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "Артикуляция", recs[0].Recommendation)
		assert.Equal(t, "Дыхание", recs[1].Recommendation)
	})

	t.Run("specialists in first-insertion order", func(t *testing.T) {
		add("Дефектолог", "Сенсорика")
		add("Тьютор", "Сопровождение")
		add("Афанасьев", "Консультация")
		add("Зубов", "Шестой")

		specs, err := repo.QuerySpecialists(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Логопед", "Психолог", "Дефектолог", "Тьютор", "Афанасьев"}, specs)
	})

	t.Run("slots survive deletion", func(t *testing.T) {
		psy, err := repo.QueryBySpecialist(ctx, "Психолог")
		require.NoError(t, err)
		require.Len(t, psy, 1)
		require.NoError(t, repo.DeleteRecommendation(ctx, psy[0].ID))

		specs, err := repo.QuerySpecialists(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Психолог", specs[1])
		assert.Equal(t, recommendation.ErrNotFound, repo.DeleteRecommendation(ctx, psy[0].ID))
	})
}

func TestPupilRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewPupilRepository(db)
	forms := NewFormRepository(db)
	progs := NewProgramRepository(db)

	f5 := testutil.CreateForm(t, forms, "5А")
	f6 := testutil.CreateForm(t, forms, "6А")
	prog := testutil.CreateProgram(t, progs, "АООП", "7.2")

	t.Run("store defaults", func(t *testing.T) {
		p, err := repo.CreatePupil(ctx, pupil.Record{FormID: f5.ID, Surname: "Иванов", Name: "Пётр"})
		require.NoError(t, err)
		assert.NotZero(t, p.ID)
		assert.Equal(t, "", p.Patronymic)
		assert.False(t, p.ProgramID.Valid)
		for _, slot := range p.Recommendations() {
			assert.Equal(t, pupil.NoRecommendation, slot)
		}
	})

	t.Run("missing class is rejected", func(t *testing.T) {
		_, err := repo.CreatePupil(ctx, pupil.Record{FormID: 999, Surname: "Нет", Name: "Класса"})
		assert.True(t, core.IsConstraintViolation(err), "got %v", err)
	})

	b := testutil.CreatePupil(t, repo, f5.ID, "Андреев", "Борис", "", prog.ID)
	testutil.CreatePupil(t, repo, f6.ID, "Яковлев", "Антон", "", prog.ID)
	testutil.CreatePupil(t, repo, f6.ID, "Абрамов", "Егор", "")

	t.Run("filters", func(t *testing.T) {
		tests := []struct {
			name         string
			filter       pupil.QueryFilter
			wantSurnames []string
		}{
			{name: "all", filter: pupil.QueryFilter{}, wantSurnames: []string{"Андреев", "Иванов", "Абрамов", "Яковлев"}},
			{name: "class", filter: pupil.QueryFilter{FormID: null.Int64From(f6.ID)}, wantSurnames: []string{"Абрамов", "Яковлев"}},
			{name: "program", filter: pupil.QueryFilter{ProgramID: null.Int64From(prog.ID)}, wantSurnames: []string{"Андреев", "Яковлев"}},
			{name: "both", filter: pupil.QueryFilter{FormID: null.Int64From(f5.ID), ProgramID: null.Int64From(prog.ID)}, wantSurnames: []string{"Андреев"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.QueryPupils(ctx, tt.filter)
				require.NoError(t, err)
				surnames := make([]string, 0, len(got))
				for _, p := range got {
					surnames = append(surnames, p.Surname)
				}
				assert.Equal(t, tt.wantSurnames, surnames)
			})
		}
	})

	t.Run("update", func(t *testing.T) {
		rec := b.Record.WithForm(f6.ID).WithRecommendation(2, "  ")
		rec.Address = "ул. Ленина, 1"
		got, err := repo.UpdatePupil(ctx, pupil.Pupil{ID: b.ID, Record: rec})
		require.NoError(t, err)
		assert.Equal(t, f6.ID, got.FormID)
		assert.Equal(t, "ул. Ленина, 1", got.Address)
		assert.Equal(t, pupil.NoRecommendation, got.RecSpec3)

		_, err = repo.UpdatePupil(ctx, pupil.Pupil{ID: 999, Record: rec})
		assert.Equal(t, pupil.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeletePupil(ctx, b.ID))
		_, err := repo.GetPupil(ctx, b.ID)
		assert.Equal(t, pupil.ErrNotFound, err)
		assert.Equal(t, pupil.ErrNotFound, repo.DeletePupil(ctx, b.ID))
	})
}

func TestArchiveRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewArchiveRepository(db)
	forms := NewFormRepository(db)

	frm := testutil.CreateForm(t, forms, "11Б")
	rec := pupil.Record{FormID: frm.ID, Surname: "Иванова", Name: "Анна", Gender: "ж"}.WithSlotDefaults()

	older, err := repo.CreateEntry(ctx, rec, "20.06.2023", "")
	require.NoError(t, err)
	assert.Equal(t, rec, older.Record)
	newer, err := repo.CreateEntry(ctx, rec.WithForm(frm.ID), "01.02.2024", "Переезд")
	require.NoError(t, err)
	latest, err := repo.CreateEntry(ctx, rec, "15.01.2025", "Выпуск")
	require.NoError(t, err)

	t.Run("snapshot outlives its class", func(t *testing.T) {
		require.NoError(t, forms.DeleteForm(ctx, frm.ID))
		entries, err := repo.QueryEntries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, frm.ID, entries[0].FormID)
	})

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.QueryEntries(ctx)
		require.NoError(t, err)
		ids := []int64{entries[0].ID, entries[1].ID, entries[2].ID}
		assert.Equal(t, []int64{latest.ID, newer.ID, older.ID}, ids)
		assert.Equal(t, archive.Entry{ID: newer.ID, Record: rec, TransferDate: "01.02.2024", TransferReason: "Переезд"}, entries[1])
	})
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	repo := NewSettingsRepository(db)

	_, err := repo.GetSetting(ctx, settings.KeyTheme)
	assert.Equal(t, settings.ErrNotFound, err)

	_, err = repo.SetSetting(ctx, settings.Setting{Key: settings.KeyTheme, Value: settings.ThemeDark})
	require.NoError(t, err)
	saved, err := repo.SetSetting(ctx, settings.Setting{Key: settings.KeyTheme, Value: settings.ThemeLight})
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeLight, saved.Value)

	_, err = repo.SetSetting(ctx, settings.Setting{Key: settings.KeyFontSize, Value: "12"})
	require.NoError(t, err)

	all, err := repo.QuerySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []settings.Setting{
		{Key: settings.KeyFontSize, Value: "12"},
		{Key: settings.KeyTheme, Value: settings.ThemeLight},
	}, all)
}
