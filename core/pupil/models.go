package pupil

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/recommendation"
)

// NoRecommendation is the sentinel stored in a recommendation slot with nothing chosen.
const NoRecommendation = "нет"

// SelectionSeparator joins recommendation names chosen for one slot.
const SelectionSeparator = "; "

// Record holds every pupil field except the surrogate id. It is a value type:
// the With* methods return modified copies, so a Record taken from storage
// is a safe snapshot to hand to the archive or to another writer.
type Record struct {
	FormID      int64      `db:"form_id" json:"form_id" validate:"required"`
	Surname     string     `db:"surname" json:"surname" validate:"notblank"`
	Name        string     `db:"name" json:"name" validate:"notblank"`
	Patronymic  string     `db:"patronymic" json:"patronymic"`
	BirthDate   string     `db:"birth_date" json:"birth_date"`
	Address     string     `db:"address" json:"address"`
	Gender      string     `db:"gender" json:"gender"`
	PMPKDate    string     `db:"pmpk_date" json:"pmpk_date"`
	PMPKNumber  string     `db:"pmpk_number" json:"pmpk_number"`
	ProgramID   null.Int64 `db:"program_id" json:"program_id"`
	OrderNumber string     `db:"order_number" json:"order_number"`
	OrderDate   string     `db:"order_date" json:"order_date"`
	RecSpec1    string     `db:"rec_spec_1" json:"rec_spec_1"`
	RecSpec2    string     `db:"rec_spec_2" json:"rec_spec_2"`
	RecSpec3    string     `db:"rec_spec_3" json:"rec_spec_3"`
	RecSpec4    string     `db:"rec_spec_4" json:"rec_spec_4"`
	RecSpec5    string     `db:"rec_spec_5" json:"rec_spec_5"`
}

type Pupil struct {
	ID int64 `db:"id" json:"id"`
	Record
}

// Recommendations returns the five slots in slot order.
func (r Record) Recommendations() [recommendation.SlotCount]string {
	return [recommendation.SlotCount]string{r.RecSpec1, r.RecSpec2, r.RecSpec3, r.RecSpec4, r.RecSpec5}
}

func (r Record) WithRecommendations(slots [recommendation.SlotCount]string) Record {
	r.RecSpec1, r.RecSpec2, r.RecSpec3, r.RecSpec4, r.RecSpec5 = slots[0], slots[1], slots[2], slots[3], slots[4]
	return r
}

// WithRecommendation sets a single slot (0-based).
func (r Record) WithRecommendation(slot int, text string) Record {
	slots := r.Recommendations()
	if slot >= 0 && slot < len(slots) {
		slots[slot] = text
	}
	return r.WithRecommendations(slots)
}

func (r Record) WithForm(formID int64) Record {
	r.FormID = formID
	return r
}

func (r Record) WithProgram(programID null.Int64) Record {
	r.ProgramID = programID
	return r
}

// WithSlotDefaults replaces blank recommendation slots with NoRecommendation.
func (r Record) WithSlotDefaults() Record {
	slots := r.Recommendations()
	for i, s := range slots {
		slots[i] = NormalizeSlot(s)
	}
	return r.WithRecommendations(slots)
}

// FullName is "surname name patronymic" without empty parts.
func (r Record) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Surname, r.Name, r.Patronymic} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeSlot collapses blank text to NoRecommendation and keeps anything else verbatim.
func NormalizeSlot(text string) string {
	if strings.TrimSpace(text) == "" {
		return NoRecommendation
	}
	return text
}

// JoinSelection serializes the recommendations picked for one slot.
func JoinSelection(names []string) string {
	picked := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			picked = append(picked, n)
		}
	}
	if len(picked) == 0 {
		return NoRecommendation
	}
	return strings.Join(picked, SelectionSeparator)
}

// SplitSelection is the inverse of JoinSelection; NoRecommendation yields nil.
func SplitSelection(text string) []string {
	if text == "" || text == NoRecommendation {
		return nil
	}
	var names []string
	for _, n := range strings.Split(text, ";") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// QueryFilter narrows a listing to a class and/or a program.
type QueryFilter struct {
	FormID    null.Int64
	ProgramID null.Int64
}

// SearchFilter adds case-insensitive substring matching on the name parts.
type SearchFilter struct {
	FormID     null.Int64
	Surname    string
	Name       string
	Patronymic string
}

func (sf *SearchFilter) Clean() {
	sf.Surname = core.CleanString(sf.Surname, true /* lower */)
	sf.Name = core.CleanString(sf.Name, true /* lower */)
	sf.Patronymic = core.CleanString(sf.Patronymic, true /* lower */)
}
