// Package recommendation manages specialist recommendations and the five
// specialist slots every pupil record carries.
package recommendation

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sveduch/sveduch/core"
)

// SlotCount is the number of recommendation slots on a pupil record.
const SlotCount = 5

// EmptySlot is displayed for a slot with no specialist assigned yet.
const EmptySlot = "—"

var (
	// errors
	ErrNotFound = errors.New("recommendation not found")
)

type Recommendation struct {
	ID             int64  `db:"id" json:"id"`
	Specialist     string `db:"specialist_name" json:"specialist" validate:"notblank"`
	Recommendation string `db:"recommendation_name" json:"recommendation" validate:"notblank"`
}

type (
	Repository interface {
		// CreateRecommendation is idempotent: an existing (specialist, recommendation)
		// pair is returned instead of failing.
		CreateRecommendation(ctx context.Context, rec Recommendation, exec ...core.DBExecutor) (Recommendation, error)
		QueryRecommendations(ctx context.Context, exec ...core.DBExecutor) ([]Recommendation, error)
		QueryBySpecialist(ctx context.Context, specialist string, exec ...core.DBExecutor) ([]Recommendation, error)
		DeleteRecommendation(ctx context.Context, id int64, exec ...core.DBExecutor) error
		// QuerySpecialists returns up to SlotCount specialist names in slot order.
		QuerySpecialists(ctx context.Context, exec ...core.DBExecutor) ([]string, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Add(ctx context.Context, specialist, recommendation string) (Recommendation, error) {
	rec := Recommendation{
		Specialist:     core.CleanString(specialist),
		Recommendation: core.CleanString(recommendation),
	}
	if err := core.ValidateStruct(rec); err != nil {
		return Recommendation{}, err
	}
	return svc.repo.CreateRecommendation(ctx, rec)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Recommendation, error) {
	return svc.repo.QueryRecommendations(ctx)
}

func (svc *Service) BySpecialist(ctx context.Context, specialist string) ([]Recommendation, error) {
	return svc.repo.QueryBySpecialist(ctx, core.CleanString(specialist))
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteRecommendation(ctx, id)
}

// Specialists lists the specialists occupying the slots, in slot order.
func (svc *Service) Specialists(ctx context.Context) ([]string, error) {
	return svc.repo.QuerySpecialists(ctx)
}

// Slots returns exactly SlotCount specialist names, padding free slots with EmptySlot.
func (svc *Service) Slots(ctx context.Context) ([SlotCount]string, error) {
	var slots [SlotCount]string
	specs, err := svc.repo.QuerySpecialists(ctx)
	if err != nil {
		return slots, err
	}
	return PadSpecialists(specs), nil
}

func PadSpecialists(specs []string) [SlotCount]string {
	var slots [SlotCount]string
	for i := range slots {
		slots[i] = EmptySlot
		if i < len(specs) {
			slots[i] = specs[i]
		}
	}
	return slots
}
