// Package transfer moves pupils out of the active roster (into the archive)
// and between classes and programs, one at a time or a whole class at once.
package transfer

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/archive"
	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/program"
	"github.com/sveduch/sveduch/core/pupil"
)

var (
	// errors
	errNothingToChange = errors.New("choose a new class and/or program")
	errSameAssignment  = errors.New("the pupil already has this class and program")
)

type (
	// ExternalRequest archives one pupil (leaving the school or graduating).
	ExternalRequest struct {
		PupilID        int64  `json:"pupil" validate:"required"`
		TransferDate   string `json:"transfer_date" validate:"notblank"`
		TransferReason string `json:"transfer_reason"`
	}

	// InternalRequest reassigns one pupil's class and/or program. Unset targets are kept.
	InternalRequest struct {
		PupilID   int64      `json:"pupil" validate:"required"`
		FormID    null.Int64 `json:"form_id"`
		ProgramID null.Int64 `json:"program_id"`
	}

	// PromoteRequest advances the checked pupils of a class to the next grade,
	// or archives them when the class is graduating.
	PromoteRequest struct {
		FormID         int64   `json:"form" validate:"required"`
		PupilIDs       []int64 `json:"pupils" validate:"required,min=1"`
		TransferDate   string  `json:"transfer_date" validate:"notblank"`
		TransferReason string  `json:"transfer_reason"`
	}

	PromoteResult struct {
		From          form.Form
		Graduated     bool
		Target        form.Form // zero when Graduated
		TargetCreated bool
		Promoted      []int64
		Archived      []archive.Entry
	}
)

type (
	Deps struct {
		DB       core.DB
		Pupils   pupil.Repository
		Archive  archive.Repository
		Forms    form.Repository
		Programs program.Repository
		Log      core.Logger
	}

	Service struct {
		db       core.DB
		pupils   pupil.Repository
		archive  archive.Repository
		formRepo form.Repository
		forms    *form.Service
		programs program.Repository
		log      core.Logger
	}
)

func NewService(deps Deps) *Service {
	return &Service{
		db:       deps.DB,
		pupils:   deps.Pupils,
		archive:  deps.Archive,
		formRepo: deps.Forms,
		forms:    form.NewService(deps.DB, deps.Forms),
		programs: deps.Programs,
		log:      deps.Log,
	}
}

// archivePupil snapshots the pupil into the archive and removes it from the roster.
// It must run inside a transaction.
func (svc *Service) archivePupil(ctx context.Context, tx core.DBExecutor, id int64, date, reason string) (archive.Entry, error) {
	p, err := svc.pupils.GetPupil(ctx, id, tx)
	if err != nil {
		return archive.Entry{}, err
	}
	entry, err := svc.archive.CreateEntry(ctx, p.Record, date, reason, tx)
	if err != nil {
		return archive.Entry{}, err
	}
	if err := svc.pupils.DeletePupil(ctx, id, tx); err != nil {
		return archive.Entry{}, err
	}
	return entry, nil
}

// TransferOut archives a single pupil. The archive row and the roster removal
// are written in one transaction.
func (svc *Service) TransferOut(ctx context.Context, req ExternalRequest) (archive.Entry, error) {
	req.TransferDate = core.CleanString(req.TransferDate)
	req.TransferReason = core.CleanString(req.TransferReason)
	if err := core.ValidateStruct(req); err != nil {
		return archive.Entry{}, err
	}

	var entry archive.Entry
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		entry, err = svc.archivePupil(ctx, tx, req.PupilID, req.TransferDate, req.TransferReason)
		return err
	})
	if err != nil {
		return archive.Entry{}, err
	}
	svc.log.Info("pupil archived", map[string]interface{}{
		"pupil": req.PupilID, "archive": entry.ID, "date": entry.TransferDate, "reason": entry.TransferReason,
	})
	return entry, nil
}

// Move reassigns a pupil's class and/or program in place; every other field is kept.
func (svc *Service) Move(ctx context.Context, req InternalRequest) (pupil.Pupil, error) {
	if err := core.ValidateStruct(req); err != nil {
		return pupil.Pupil{}, err
	}
	if !req.FormID.Valid && !req.ProgramID.Valid {
		return pupil.Pupil{}, core.NewValidationError(errNothingToChange,
			core.FieldError{Field: "form_id", Error: errNothingToChange.Error()},
			core.FieldError{Field: "program_id", Error: errNothingToChange.Error()})
	}

	var moved pupil.Pupil
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		p, err := svc.pupils.GetPupil(ctx, req.PupilID, tx)
		if err != nil {
			return err
		}
		rec := p.Record
		if req.FormID.Valid {
			if _, err := svc.formRepo.GetFormByID(ctx, req.FormID.Int64, tx); err != nil {
				return err
			}
			rec = rec.WithForm(req.FormID.Int64)
		}
		if req.ProgramID.Valid {
			if _, err := svc.programs.GetProgramByID(ctx, req.ProgramID.Int64, tx); err != nil {
				return err
			}
			rec = rec.WithProgram(req.ProgramID)
		}
		if rec == p.Record {
			return core.NewValidationError(errSameAssignment, core.FieldError{Field: "form_id", Error: errSameAssignment.Error()})
		}
		moved, err = svc.pupils.UpdatePupil(ctx, pupil.Pupil{ID: p.ID, Record: rec}, tx)
		return err
	})
	if err != nil {
		return pupil.Pupil{}, err
	}
	svc.log.Info("pupil moved", map[string]interface{}{
		"pupil": moved.ID, "form_id": moved.FormID, "program_id": moved.ProgramID.Ptr(),
	})
	return moved, nil
}

// Promote advances the checked pupils of a class. A class numbered "11..." is
// graduating: its checked pupils are archived. Any other class number has its
// grade incremented ("5А" -> "6А"); the target class is looked up or created
// and the pupils are reassigned to it without an archive record.
// The whole checklist is handled in one transaction.
func (svc *Service) Promote(ctx context.Context, req PromoteRequest) (PromoteResult, error) {
	req.TransferDate = core.CleanString(req.TransferDate)
	req.TransferReason = core.CleanString(req.TransferReason)
	if err := core.ValidateStruct(req); err != nil {
		return PromoteResult{}, err
	}
	ids := uniqueIDs(req.PupilIDs)

	var res PromoteResult
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		from, err := svc.formRepo.GetFormByID(ctx, req.FormID, tx)
		if err != nil {
			return err
		}
		res.From = from

		roster, err := svc.pupils.QueryPupils(ctx, pupil.QueryFilter{FormID: null.Int64From(from.ID)}, tx)
		if err != nil {
			return err
		}
		members := make(map[int64]pupil.Pupil, len(roster))
		for _, p := range roster {
			members[p.ID] = p
		}
		for _, id := range ids {
			if _, ok := members[id]; !ok {
				msg := fmt.Sprintf("pupil %d is not in class %s", id, from.Number)
				return core.NewFieldValidationError("pupils", msg)
			}
		}

		if IsGraduating(from.Number) {
			res.Graduated = true
			for _, id := range ids {
				entry, err := svc.archivePupil(ctx, tx, id, req.TransferDate, req.TransferReason)
				if err != nil {
					return err
				}
				res.Archived = append(res.Archived, entry)
			}
			return nil
		}

		next, ok := IncrementClassNumber(from.Number)
		if !ok {
			msg := fmt.Sprintf("class number %q has no grade to increment; rename the class manually", from.Number)
			return core.NewFieldValidationError("form", msg)
		}
		target, created, err := svc.forms.GetOrCreate(ctx, next, tx)
		if err != nil {
			return err
		}
		res.Target, res.TargetCreated = target, created

		for _, id := range ids {
			p := members[id]
			if _, err := svc.pupils.UpdatePupil(ctx, pupil.Pupil{ID: p.ID, Record: p.Record.WithForm(target.ID)}, tx); err != nil {
				return err
			}
			res.Promoted = append(res.Promoted, id)
		}
		return nil
	})
	if err != nil {
		return PromoteResult{}, err
	}

	if res.Graduated {
		svc.log.Info("class graduated", map[string]interface{}{
			"form": res.From.Number, "archived": len(res.Archived), "date": req.TransferDate, "reason": req.TransferReason,
		})
	} else {
		// the reason is not part of any record for a promotion
		svc.log.Info("class promoted", map[string]interface{}{
			"from": res.From.Number, "to": res.Target.Number, "created": res.TargetCreated,
			"pupils": len(res.Promoted), "date": req.TransferDate, "reason": req.TransferReason,
		})
	}
	return res, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
