// Package archive holds pupils that left the active roster. It is append-only.
package archive

import (
	"context"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/pupil"
)

// Entry is an archived pupil. FormID and ProgramID are snapshots taken at
// transfer time and may point at classes or programs that no longer exist.
type Entry struct {
	ID int64 `db:"id" json:"id"`
	pupil.Record
	TransferDate   string `db:"transfer_date" json:"transfer_date"`
	TransferReason string `db:"transfer_reason" json:"transfer_reason"`
}

type (
	Repository interface {
		CreateEntry(ctx context.Context, rec pupil.Record, transferDate, transferReason string, exec ...core.DBExecutor) (Entry, error)
		// QueryEntries orders by transfer date (newest first), then surname and name.
		QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]Entry, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Entry, error) {
	return svc.repo.QueryEntries(ctx)
}
