// Package program manages curriculum programs a pupil may be assigned to.
package program

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/sveduch/sveduch/core"
)

var (
	// errors
	ErrNotFound = errors.New("program not found")
)

type Program struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name" validate:"notblank"`
	Version string `db:"version" json:"version" validate:"notblank"`
}

// Label is the display form used by pickers: "name (version)".
func (p Program) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Version)
}

// Census is one row of the per-program pupil count.
type Census struct {
	ProgramID int64  `db:"program_id" json:"program_id"`
	Name      string `db:"program_name" json:"name"`
	Version   string `db:"program_version" json:"version"`
	Count     int    `db:"pupils_count" json:"count"`
}

type (
	Repository interface {
		CreateProgram(ctx context.Context, prog Program, exec ...core.DBExecutor) (Program, error)
		QueryPrograms(ctx context.Context, exec ...core.DBExecutor) ([]Program, error)
		GetProgramByID(ctx context.Context, id int64, exec ...core.DBExecutor) (Program, error)
		UpdateProgram(ctx context.Context, prog Program, exec ...core.DBExecutor) (Program, error)
		DeleteProgram(ctx context.Context, id int64, exec ...core.DBExecutor) error
		// CountPupilsByProgram is a left-outer aggregate: programs without pupils have Count 0.
		CountPupilsByProgram(ctx context.Context, exec ...core.DBExecutor) ([]Census, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) clean(prog Program) (Program, error) {
	prog.Name = core.CleanString(prog.Name)
	prog.Version = core.CleanString(prog.Version)
	if err := core.ValidateStruct(prog); err != nil {
		return Program{}, err
	}
	return prog, nil
}

func (svc *Service) Create(ctx context.Context, name, version string) (Program, error) {
	prog, err := svc.clean(Program{Name: name, Version: version})
	if err != nil {
		return Program{}, err
	}
	return svc.repo.CreateProgram(ctx, prog)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Program, error) {
	return svc.repo.QueryPrograms(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Program, error) {
	return svc.repo.GetProgramByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int64, name, version string) (Program, error) {
	prog, err := svc.clean(Program{ID: id, Name: name, Version: version})
	if err != nil {
		return Program{}, err
	}
	if _, err := svc.repo.GetProgramByID(ctx, id); err != nil {
		return Program{}, err
	}
	return svc.repo.UpdateProgram(ctx, prog)
}

// Delete removes a program; active pupils assigned to it are left without a program.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	if _, err := svc.repo.GetProgramByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteProgram(ctx, id)
}

func (svc *Service) Census(ctx context.Context) ([]Census, error) {
	return svc.repo.CountPupilsByProgram(ctx)
}

// Lookup maps program ids to programs.
type Lookup map[int64]Program

func NewLookup(progs []Program) Lookup {
	lkp := make(Lookup, len(progs))
	for _, p := range progs {
		lkp[p.ID] = p
	}
	return lkp
}
