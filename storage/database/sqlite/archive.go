package sqliterepos

import (
	"context"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/archive"
	"github.com/sveduch/sveduch/core/pupil"
)

const entryColumns = `id, COALESCE(form_id, 0) AS form_id, surname, name, patronymic, birth_date, address, gender,
	pmpk_date, pmpk_number, program_id, order_number, order_date,
	rec_spec_1, rec_spec_2, rec_spec_3, rec_spec_4, rec_spec_5,
	transfer_date, transfer_reason`

// transferDayOrder turns a dd.mm.yyyy transfer date into a sortable yyyymmdd key.
// Dates in any other shape sort as written.
const transferDayOrder = `CASE WHEN transfer_date GLOB '[0-9][0-9].[0-9][0-9].[0-9][0-9][0-9][0-9]'
	THEN substr(transfer_date, 7, 4) || substr(transfer_date, 4, 2) || substr(transfer_date, 1, 2)
	ELSE transfer_date END`

type archiveRepository struct {
	baseRepo
}

var _ archive.Repository = (*archiveRepository)(nil) // interface compliance check

func NewArchiveRepository(exec core.DBExecutor) *archiveRepository {
	return &archiveRepository{baseRepo{exec: exec}}
}

func (repo archiveRepository) CreateEntry(ctx context.Context, rec pupil.Record, transferDate, transferReason string, exec ...core.DBExecutor) (archive.Entry, error) {
	exe := repo.getExec(exec)
	entry := archive.Entry{Record: storable(rec), TransferDate: transferDate, TransferReason: transferReason}
	q, args, err := exe.BindNamed(
		`INSERT INTO pupils_history (`+recordColumns+`, transfer_date, transfer_reason)
		VALUES (`+recordParams+`, :transfer_date, :transfer_reason)
		RETURNING `+entryColumns, entry)
	if err != nil {
		return archive.Entry{}, trapErr(err, "binding archive entry", nil, nil)
	}
	var created archive.Entry
	if err := exe.GetContext(ctx, &created, q, args...); err != nil {
		return archive.Entry{}, trapErr(err, "inserting archive entry", nil, nil)
	}
	return created, nil
}

func (repo archiveRepository) QueryEntries(ctx context.Context, exec ...core.DBExecutor) ([]archive.Entry, error) {
	entries := make([]archive.Entry, 0)
	err := repo.getExec(exec).SelectContext(ctx, &entries,
		`SELECT `+entryColumns+` FROM pupils_history ORDER BY `+transferDayOrder+` DESC, surname, name`)
	if err != nil {
		return nil, trapErr(err, "querying archive", nil, nil)
	}
	return entries, nil
}
