package sqliterepos

import (
	"context"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/form"
)

type formRepository struct {
	baseRepo
}

var _ form.Repository = (*formRepository)(nil) // interface compliance check

func NewFormRepository(exec core.DBExecutor) *formRepository {
	return &formRepository{baseRepo{exec: exec}}
}

func (repo formRepository) CreateForm(ctx context.Context, number string, exec ...core.DBExecutor) (form.Form, error) {
	var frm form.Form
	err := repo.getExec(exec).GetContext(ctx, &frm,
		`INSERT INTO forms (number) VALUES (?) RETURNING id, number`, number)
	if err != nil {
		return form.Form{}, trapErr(err, "inserting class", nil, form.ErrExists)
	}
	return frm, nil
}

func (repo formRepository) QueryForms(ctx context.Context, exec ...core.DBExecutor) ([]form.Form, error) {
	forms := make([]form.Form, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &forms, `SELECT id, number FROM forms ORDER BY number`); err != nil {
		return nil, trapErr(err, "querying classes", nil, nil)
	}
	return forms, nil
}

func (repo formRepository) GetFormByID(ctx context.Context, id int64, exec ...core.DBExecutor) (form.Form, error) {
	var frm form.Form
	if err := repo.getExec(exec).GetContext(ctx, &frm, `SELECT id, number FROM forms WHERE id = ?`, id); err != nil {
		return form.Form{}, trapErr(err, "finding class by ID", form.ErrNotFound, nil)
	}
	return frm, nil
}

func (repo formRepository) GetFormByNumber(ctx context.Context, number string, exec ...core.DBExecutor) (form.Form, error) {
	var frm form.Form
	if err := repo.getExec(exec).GetContext(ctx, &frm, `SELECT id, number FROM forms WHERE number = ?`, number); err != nil {
		return form.Form{}, trapErr(err, "finding class by number", form.ErrNotFound, nil)
	}
	return frm, nil
}

func (repo formRepository) UpdateForm(ctx context.Context, frm form.Form, exec ...core.DBExecutor) (form.Form, error) {
	var updated form.Form
	err := repo.getExec(exec).GetContext(ctx, &updated,
		`UPDATE forms SET number = ? WHERE id = ? RETURNING id, number`, frm.Number, frm.ID)
	if err != nil {
		return form.Form{}, trapErr(err, "updating class", form.ErrNotFound, form.ErrExists)
	}
	return updated, nil
}

func (repo formRepository) CountPupils(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error) {
	var cnt int
	if err := repo.getExec(exec).GetContext(ctx, &cnt, `SELECT COUNT(*) FROM pupils WHERE form_id = ?`, id); err != nil {
		return 0, trapErr(err, "counting class pupils", nil, nil)
	}
	return cnt, nil
}

func (repo formRepository) DeleteForm(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return trapErr(err, "deleting class", nil, form.ErrInUse)
	}
	return checkAffected(res, "deleting class", form.ErrNotFound)
}
