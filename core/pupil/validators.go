package pupil

import (
	"github.com/sveduch/sveduch/core"
)

// Entry-surface limits. The store does not enforce them.
const (
	MaxAddressLen = 50
	MaxGenderLen  = 4
)

// field labels used in validation messages; checked in this order: class, surname, name.
var fieldLabels = map[string]string{
	"form_id": "class",
}

// Normalize applies the pre-write shaping every caller goes through:
// surrounding whitespace is dropped from free-text fields and blank
// recommendation slots collapse to NoRecommendation.
func Normalize(rec Record) Record {
	rec.Surname = core.CleanString(rec.Surname)
	rec.Name = core.CleanString(rec.Name)
	rec.Patronymic = core.CleanString(rec.Patronymic)
	rec.BirthDate = core.CleanString(rec.BirthDate)
	rec.Address = core.CleanString(rec.Address)
	rec.Gender = core.CleanString(rec.Gender)
	rec.PMPKDate = core.CleanString(rec.PMPKDate)
	rec.PMPKNumber = core.CleanString(rec.PMPKNumber)
	rec.OrderNumber = core.CleanString(rec.OrderNumber)
	rec.OrderDate = core.CleanString(rec.OrderDate)
	if rec.ProgramID.Valid && rec.ProgramID.Int64 == 0 {
		rec.ProgramID.Valid = false
	}
	return rec.WithSlotDefaults()
}

// Validate checks the required fields. The returned *core.ValidationError
// names the first missing one.
func Validate(rec Record) error {
	return core.ValidateStruct(rec, fieldLabels)
}

// Shape cuts address and gender to the lengths the entry surface accepts.
func Shape(rec Record) Record {
	rec.Address = core.TruncateRunes(rec.Address, MaxAddressLen)
	rec.Gender = core.TruncateRunes(rec.Gender, MaxGenderLen)
	return rec
}
