package sqliterepos

import (
	"context"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/program"
)

type programRepository struct {
	baseRepo
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(exec core.DBExecutor) *programRepository {
	return &programRepository{baseRepo{exec: exec}}
}

func (repo programRepository) CreateProgram(ctx context.Context, prog program.Program, exec ...core.DBExecutor) (program.Program, error) {
	var created program.Program
	err := repo.getExec(exec).GetContext(ctx, &created,
		`INSERT INTO programs (name, version) VALUES (?, ?) RETURNING id, name, version`, prog.Name, prog.Version)
	if err != nil {
		return program.Program{}, trapErr(err, "inserting program", nil, nil)
	}
	return created, nil
}

func (repo programRepository) QueryPrograms(ctx context.Context, exec ...core.DBExecutor) ([]program.Program, error) {
	progs := make([]program.Program, 0)
	err := repo.getExec(exec).SelectContext(ctx, &progs, `SELECT id, name, version FROM programs ORDER BY name, version`)
	if err != nil {
		return nil, trapErr(err, "querying programs", nil, nil)
	}
	return progs, nil
}

func (repo programRepository) GetProgramByID(ctx context.Context, id int64, exec ...core.DBExecutor) (program.Program, error) {
	var prog program.Program
	err := repo.getExec(exec).GetContext(ctx, &prog, `SELECT id, name, version FROM programs WHERE id = ?`, id)
	if err != nil {
		return program.Program{}, trapErr(err, "finding program by ID", program.ErrNotFound, nil)
	}
	return prog, nil
}

func (repo programRepository) UpdateProgram(ctx context.Context, prog program.Program, exec ...core.DBExecutor) (program.Program, error) {
	var updated program.Program
	err := repo.getExec(exec).GetContext(ctx, &updated,
		`UPDATE programs SET name = ?, version = ? WHERE id = ? RETURNING id, name, version`,
		prog.Name, prog.Version, prog.ID)
	if err != nil {
		return program.Program{}, trapErr(err, "updating program", program.ErrNotFound, nil)
	}
	return updated, nil
}

// DeleteProgram removes a program; pupils assigned to it are left without one.
func (repo programRepository) DeleteProgram(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return trapErr(err, "deleting program", nil, nil)
	}
	return checkAffected(res, "deleting program", program.ErrNotFound)
}

func (repo programRepository) CountPupilsByProgram(ctx context.Context, exec ...core.DBExecutor) ([]program.Census, error) {
	census := make([]program.Census, 0)
	err := repo.getExec(exec).SelectContext(ctx, &census, `
		SELECT p.id AS program_id, p.name AS program_name, p.version AS program_version,
		       COUNT(pu.id) AS pupils_count
		FROM programs p
		LEFT JOIN pupils pu ON pu.program_id = p.id
		GROUP BY p.id
		ORDER BY p.name, p.version`)
	if err != nil {
		return nil, trapErr(err, "counting pupils by program", nil, nil)
	}
	return census, nil
}
