// Package pupil holds the active roster: pupil records, the rules applied
// before every write and the roster queries.
package pupil

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/sveduch/sveduch/core"
)

var (
	// errors
	ErrNotFound = errors.New("pupil not found")
)

type (
	Repository interface {
		CreatePupil(ctx context.Context, rec Record, exec ...core.DBExecutor) (Pupil, error)
		UpdatePupil(ctx context.Context, p Pupil, exec ...core.DBExecutor) (Pupil, error)
		GetPupil(ctx context.Context, id int64, exec ...core.DBExecutor) (Pupil, error)
		// QueryPupils applies AND on the set QueryFilter fields.
		QueryPupils(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Pupil, error)
		DeletePupil(ctx context.Context, id int64, exec ...core.DBExecutor) error
	}

	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (svc *Service) prepare(rec Record) (Record, error) {
	rec = Normalize(rec)
	if err := Validate(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (svc *Service) Create(ctx context.Context, rec Record, exec ...core.DBExecutor) (Pupil, error) {
	rec, err := svc.prepare(rec)
	if err != nil {
		return Pupil{}, err
	}
	return svc.repo.CreatePupil(ctx, rec, exec...)
}

func (svc *Service) Update(ctx context.Context, id int64, rec Record, exec ...core.DBExecutor) (Pupil, error) {
	rec, err := svc.prepare(rec)
	if err != nil {
		return Pupil{}, err
	}
	if _, err := svc.repo.GetPupil(ctx, id, exec...); err != nil {
		return Pupil{}, err
	}
	return svc.repo.UpdatePupil(ctx, Pupil{ID: id, Record: rec}, exec...)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Pupil, error) {
	return svc.repo.GetPupil(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Pupil, error) {
	return svc.repo.QueryPupils(ctx, filter)
}

// Search lists pupils (of one class, if set) whose name parts contain the given fragments.
func (svc *Service) Search(ctx context.Context, filter SearchFilter) ([]Pupil, error) {
	filter.Clean()
	pupils, err := svc.repo.QueryPupils(ctx, QueryFilter{FormID: filter.FormID})
	if err != nil {
		return nil, err
	}
	found := make([]Pupil, 0, len(pupils))
	for _, p := range pupils {
		if !containsFold(p.Surname, filter.Surname) ||
			!containsFold(p.Name, filter.Name) ||
			!containsFold(p.Patronymic, filter.Patronymic) {
			continue
		}
		found = append(found, p)
	}
	return found, nil
}

func containsFold(s, lowerSub string) bool {
	return lowerSub == "" || strings.Contains(strings.ToLower(s), lowerSub)
}

// Delete destroys a pupil row. There is no way back short of restoring a backup;
// use the transfer engine to archive a pupil instead.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	p, err := svc.repo.GetPupil(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeletePupil(ctx, id); err != nil {
		return err
	}
	svc.log.Info("pupil deleted", map[string]interface{}{"id": id, "name": p.FullName(), "form_id": p.FormID})
	return nil
}

// Page is one page of a listing.
type Page struct {
	Number int // 1-based; 0 when the listing is empty
	Total  int
	Start  int // 1-based index of the first row; 0 when empty
	End    int
	Pupils []Pupil
}

// Paginate slices pupils into the page-th page (0-based) of size rows.
// Out-of-range pages are clamped.
func Paginate(pupils []Pupil, page, size int) Page {
	total := len(pupils)
	if total == 0 || size <= 0 {
		return Page{Total: total}
	}
	last := (total - 1) / size
	if page < 0 {
		page = 0
	} else if page > last {
		page = last
	}
	start := page * size
	end := start + size
	if end > total {
		end = total
	}
	return Page{Number: page + 1, Total: total, Start: start + 1, End: end, Pupils: pupils[start:end]}
}
