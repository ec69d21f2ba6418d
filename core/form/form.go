// Package form manages classes (grade sections such as "5А").
package form

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sveduch/sveduch/core"
)

var (
	// errors
	ErrNotFound = errors.New("class not found")
	ErrExists   = errors.New("a class with this number already exists")
	ErrInUse    = errors.New("class still has pupils")
)

type Form struct {
	ID     int64  `db:"id" json:"id"`
	Number string `db:"number" json:"number"`
}

type (
	Repository interface {
		CreateForm(ctx context.Context, number string, exec ...core.DBExecutor) (Form, error)
		QueryForms(ctx context.Context, exec ...core.DBExecutor) ([]Form, error)
		GetFormByID(ctx context.Context, id int64, exec ...core.DBExecutor) (Form, error)
		GetFormByNumber(ctx context.Context, number string, exec ...core.DBExecutor) (Form, error)
		UpdateForm(ctx context.Context, frm Form, exec ...core.DBExecutor) (Form, error)
		CountPupils(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error)
		DeleteForm(ctx context.Context, id int64, exec ...core.DBExecutor) error
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

func NewService(db core.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

func cleanNumber(number string) (string, error) {
	number = core.CleanString(number)
	if number == "" {
		return "", core.NewFieldValidationError("number", "class number is required")
	}
	return number, nil
}

// Create adds a class. A duplicate number is a *core.ConstraintViolation.
func (svc *Service) Create(ctx context.Context, number string) (Form, error) {
	number, err := cleanNumber(number)
	if err != nil {
		return Form{}, err
	}
	return svc.repo.CreateForm(ctx, number)
}

// GetOrCreate returns the class with the given number, creating it when absent.
func (svc *Service) GetOrCreate(ctx context.Context, number string, exec ...core.DBExecutor) (Form, bool, error) {
	number, err := cleanNumber(number)
	if err != nil {
		return Form{}, false, err
	}
	frm, err := svc.repo.GetFormByNumber(ctx, number, exec...)
	if err == nil {
		return frm, false, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Form{}, false, err
	}
	frm, err = svc.repo.CreateForm(ctx, number, exec...)
	if err != nil {
		return Form{}, false, err
	}
	return frm, true, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Form, error) {
	return svc.repo.QueryForms(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Form, error) {
	return svc.repo.GetFormByID(ctx, id)
}

func (svc *Service) GetByNumber(ctx context.Context, number string) (Form, error) {
	return svc.repo.GetFormByNumber(ctx, core.CleanString(number))
}

func (svc *Service) Rename(ctx context.Context, id int64, number string) (Form, error) {
	number, err := cleanNumber(number)
	if err != nil {
		return Form{}, err
	}
	if _, err := svc.repo.GetFormByID(ctx, id); err != nil {
		return Form{}, err
	}
	return svc.repo.UpdateForm(ctx, Form{ID: id, Number: number})
}

// Delete removes a class. It is refused while active pupils still reference it;
// archived snapshots are not considered.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	return core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetFormByID(ctx, id, tx); err != nil {
			return err
		}
		cnt, err := svc.repo.CountPupils(ctx, id, tx)
		if err != nil {
			return err
		}
		if cnt > 0 {
			return core.NewConstraintViolation("deleting class", errors.Wrapf(ErrInUse, "%d pupil(s)", cnt))
		}
		return svc.repo.DeleteForm(ctx, id, tx)
	})
}

// Lookup maps class ids to numbers.
type Lookup map[int64]string

// NewLookup builds a Lookup from a fresh listing.
func NewLookup(forms []Form) Lookup {
	lkp := make(Lookup, len(forms))
	for _, f := range forms {
		lkp[f.ID] = f.Number
	}
	return lkp
}
