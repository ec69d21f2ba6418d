package sqliterepos

import (
	"context"
	"strings"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/pupil"
)

const recordColumns = `form_id, surname, name, patronymic, birth_date, address, gender,
	pmpk_date, pmpk_number, program_id, order_number, order_date,
	rec_spec_1, rec_spec_2, rec_spec_3, rec_spec_4, rec_spec_5`

const recordParams = `:form_id, :surname, :name, :patronymic, :birth_date, :address, :gender,
	:pmpk_date, :pmpk_number, :program_id, :order_number, :order_date,
	:rec_spec_1, :rec_spec_2, :rec_spec_3, :rec_spec_4, :rec_spec_5`

const pupilColumns = `id, ` + recordColumns

type pupilRepository struct {
	baseRepo
}

var _ pupil.Repository = (*pupilRepository)(nil) // interface compliance check

func NewPupilRepository(exec core.DBExecutor) *pupilRepository {
	return &pupilRepository{baseRepo{exec: exec}}
}

// storable applies the store defaults: blank slots hold pupil.NoRecommendation.
func storable(rec pupil.Record) pupil.Record {
	return rec.WithSlotDefaults()
}

func (repo pupilRepository) CreatePupil(ctx context.Context, rec pupil.Record, exec ...core.DBExecutor) (pupil.Pupil, error) {
	exe := repo.getExec(exec)
	q, args, err := exe.BindNamed(
		`INSERT INTO pupils (`+recordColumns+`) VALUES (`+recordParams+`) RETURNING `+pupilColumns, storable(rec))
	if err != nil {
		return pupil.Pupil{}, trapErr(err, "binding pupil", nil, nil)
	}
	var p pupil.Pupil
	if err := exe.GetContext(ctx, &p, q, args...); err != nil {
		return pupil.Pupil{}, trapErr(err, "inserting pupil", nil, nil)
	}
	return p, nil
}

func (repo pupilRepository) UpdatePupil(ctx context.Context, p pupil.Pupil, exec ...core.DBExecutor) (pupil.Pupil, error) {
	exe := repo.getExec(exec)
	p.Record = storable(p.Record)
	q, args, err := exe.BindNamed(`
		UPDATE pupils SET
			form_id = :form_id, surname = :surname, name = :name, patronymic = :patronymic,
			birth_date = :birth_date, address = :address, gender = :gender,
			pmpk_date = :pmpk_date, pmpk_number = :pmpk_number, program_id = :program_id,
			order_number = :order_number, order_date = :order_date,
			rec_spec_1 = :rec_spec_1, rec_spec_2 = :rec_spec_2, rec_spec_3 = :rec_spec_3,
			rec_spec_4 = :rec_spec_4, rec_spec_5 = :rec_spec_5
		WHERE id = :id
		RETURNING `+pupilColumns, p)
	if err != nil {
		return pupil.Pupil{}, trapErr(err, "binding pupil", nil, nil)
	}
	var updated pupil.Pupil
	if err := exe.GetContext(ctx, &updated, q, args...); err != nil {
		return pupil.Pupil{}, trapErr(err, "updating pupil", pupil.ErrNotFound, nil)
	}
	return updated, nil
}

func (repo pupilRepository) GetPupil(ctx context.Context, id int64, exec ...core.DBExecutor) (pupil.Pupil, error) {
	var p pupil.Pupil
	if err := repo.getExec(exec).GetContext(ctx, &p, `SELECT `+pupilColumns+` FROM pupils WHERE id = ?`, id); err != nil {
		return pupil.Pupil{}, trapErr(err, "finding pupil by ID", pupil.ErrNotFound, nil)
	}
	return p, nil
}

// QueryPupils lists a class by surname and name; wider listings are grouped by class first.
func (repo pupilRepository) QueryPupils(ctx context.Context, filter pupil.QueryFilter, exec ...core.DBExecutor) ([]pupil.Pupil, error) {
	var (
		where []string
		args  []interface{}
	)
	ordering := []core.DBOrdering{
		{Field: "form_id", Ascending: true},
		{Field: "surname", Ascending: true},
		{Field: "name", Ascending: true},
	}
	if filter.FormID.Valid {
		where = append(where, "form_id = ?")
		args = append(args, filter.FormID.Int64)
		ordering = ordering[1:]
	}
	if filter.ProgramID.Valid {
		where = append(where, "program_id = ?")
		args = append(args, filter.ProgramID.Int64)
	}

	var q strings.Builder
	q.WriteString(`SELECT ` + pupilColumns + ` FROM pupils`)
	if len(where) > 0 {
		q.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderList = append(orderList, ord.String())
	}
	q.WriteString(" ORDER BY " + strings.Join(orderList, ", "))

	pupils := make([]pupil.Pupil, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &pupils, q.String(), args...); err != nil {
		return nil, trapErr(err, "querying pupils", nil, nil)
	}
	return pupils, nil
}

func (repo pupilRepository) DeletePupil(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM pupils WHERE id = ?`, id)
	if err != nil {
		return trapErr(err, "deleting pupil", nil, nil)
	}
	return checkAffected(res, "deleting pupil", pupil.ErrNotFound)
}
