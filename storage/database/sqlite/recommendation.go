package sqliterepos

import (
	"context"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/recommendation"
)

type recommendationRepository struct {
	baseRepo
}

var _ recommendation.Repository = (*recommendationRepository)(nil) // interface compliance check

func NewRecommendationRepository(exec core.DBExecutor) *recommendationRepository {
	return &recommendationRepository{baseRepo{exec: exec}}
}

const recColumns = `id, specialist_name, recommendation_name`

// CreateRecommendation inserts the pair unless it exists, then gives the
// specialist the next free slot if it has none and one is left.
func (repo recommendationRepository) CreateRecommendation(ctx context.Context, rec recommendation.Recommendation, exec ...core.DBExecutor) (recommendation.Recommendation, error) {
	exe := repo.getExec(exec)

	_, err := exe.ExecContext(ctx, `
		INSERT INTO recommendations (specialist_name, recommendation_name) VALUES (?, ?)
		ON CONFLICT (specialist_name, recommendation_name) DO NOTHING`,
		rec.Specialist, rec.Recommendation)
	if err != nil {
		return recommendation.Recommendation{}, trapErr(err, "inserting recommendation", nil, nil)
	}

	var created recommendation.Recommendation
	err = exe.GetContext(ctx, &created,
		`SELECT `+recColumns+` FROM recommendations WHERE specialist_name = ? AND recommendation_name = ?`,
		rec.Specialist, rec.Recommendation)
	if err != nil {
		return recommendation.Recommendation{}, trapErr(err, "finding recommendation", recommendation.ErrNotFound, nil)
	}

	_, err = exe.ExecContext(ctx, `
		INSERT INTO specialist_slots (slot, specialist_name)
		SELECT next_slot, ? FROM (SELECT COALESCE(MAX(slot), 0) + 1 AS next_slot FROM specialist_slots)
		WHERE next_slot <= ?
		  AND NOT EXISTS (SELECT 1 FROM specialist_slots WHERE specialist_name = ?)`,
		rec.Specialist, recommendation.SlotCount, rec.Specialist)
	if err != nil {
		return recommendation.Recommendation{}, trapErr(err, "assigning specialist slot", nil, nil)
	}
	return created, nil
}

func (repo recommendationRepository) QueryRecommendations(ctx context.Context, exec ...core.DBExecutor) ([]recommendation.Recommendation, error) {
	recs := make([]recommendation.Recommendation, 0)
	err := repo.getExec(exec).SelectContext(ctx, &recs,
		`SELECT `+recColumns+` FROM recommendations ORDER BY specialist_name, recommendation_name`)
	if err != nil {
		return nil, trapErr(err, "querying recommendations", nil, nil)
	}
	return recs, nil
}

func (repo recommendationRepository) QueryBySpecialist(ctx context.Context, specialist string, exec ...core.DBExecutor) ([]recommendation.Recommendation, error) {
	recs := make([]recommendation.Recommendation, 0)
	err := repo.getExec(exec).SelectContext(ctx, &recs,
		`SELECT `+recColumns+` FROM recommendations WHERE specialist_name = ? ORDER BY recommendation_name`, specialist)
	if err != nil {
		return nil, trapErr(err, "querying recommendations by specialist", nil, nil)
	}
	return recs, nil
}

// DeleteRecommendation keeps the specialist's slot even when its last recommendation goes.
func (repo recommendationRepository) DeleteRecommendation(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, `DELETE FROM recommendations WHERE id = ?`, id)
	if err != nil {
		return trapErr(err, "deleting recommendation", nil, nil)
	}
	return checkAffected(res, "deleting recommendation", recommendation.ErrNotFound)
}

func (repo recommendationRepository) QuerySpecialists(ctx context.Context, exec ...core.DBExecutor) ([]string, error) {
	specs := make([]string, 0, recommendation.SlotCount)
	err := repo.getExec(exec).SelectContext(ctx, &specs,
		`SELECT specialist_name FROM specialist_slots ORDER BY slot LIMIT ?`, recommendation.SlotCount)
	if err != nil {
		return nil, trapErr(err, "querying specialists", nil, nil)
	}
	return specs, nil
}
