package report

import (
	"strconv"

	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/program"
	"github.com/sveduch/sveduch/core/pupil"
)

// Column keys of a roster report.
const (
	ColID             = "id"
	ColClass          = "class"
	ColSurname        = "surname"
	ColName           = "name"
	ColPatronymic     = "patronymic"
	ColBirthDate      = "birth_date"
	ColAddress        = "address"
	ColGender         = "gender"
	ColPMPKDate       = "pmpk_date"
	ColPMPKNumber     = "pmpk_number"
	ColProgramName    = "program_name"
	ColProgramVersion = "program_version"
	ColOrderNumber    = "order_number"
	ColOrderDate      = "order_date"
	ColRecSpec1       = "rec_spec_1"
	ColRecSpec2       = "rec_spec_2"
	ColRecSpec3       = "rec_spec_3"
	ColRecSpec4       = "rec_spec_4"
	ColRecSpec5       = "rec_spec_5"
)

type Column struct {
	Key   string
	Title string
	value func(p pupil.Pupil, forms form.Lookup, progs program.Lookup) string
}

// Columns is the fixed catalog, in display order. Birth date and address carry
// the bulk-import header labels so an exported roster can be imported back.
var Columns = []Column{
	{ColID, "id", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return strconv.FormatInt(p.ID, 10) }},
	{ColClass, "Класс", classCell},
	{ColSurname, "Фамилия", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.Surname }},
	{ColName, "Имя", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.Name }},
	{ColPatronymic, "Отчество", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.Patronymic }},
	{ColBirthDate, "Дата рождения", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.BirthDate }},
	{ColAddress, "Домашний адрес", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.Address }},
	{ColGender, "Пол", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.Gender }},
	{ColPMPKDate, "ПМПК дата", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.PMPKDate }},
	{ColPMPKNumber, "ПМПК №", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.PMPKNumber }},
	{ColProgramName, "Программа", func(p pupil.Pupil, _ form.Lookup, progs program.Lookup) string { return programOf(p, progs).Name }},
	{ColProgramVersion, "Версия", func(p pupil.Pupil, _ form.Lookup, progs program.Lookup) string { return programOf(p, progs).Version }},
	{ColOrderNumber, "Приказ №", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.OrderNumber }},
	{ColOrderDate, "Дата приказа", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.OrderDate }},
	{ColRecSpec1, "Рек.1", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.RecSpec1 }},
	{ColRecSpec2, "Рек.2", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.RecSpec2 }},
	{ColRecSpec3, "Рек.3", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.RecSpec3 }},
	{ColRecSpec4, "Рек.4", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.RecSpec4 }},
	{ColRecSpec5, "Рек.5", func(p pupil.Pupil, _ form.Lookup, _ program.Lookup) string { return p.RecSpec5 }},
}

// CensusHeaders is the fixed shape of an exported program census.
var CensusHeaders = []string{"Программа", "Версия", "Количество учеников"}

// AllColumnKeys lists every catalog key.
func AllColumnKeys() []string {
	keys := make([]string, 0, len(Columns))
	for _, c := range Columns {
		keys = append(keys, c.Key)
	}
	return keys
}

func classCell(p pupil.Pupil, forms form.Lookup, _ program.Lookup) string {
	if num, ok := forms[p.FormID]; ok {
		return num
	}
	return strconv.FormatInt(p.FormID, 10)
}

func programOf(p pupil.Pupil, progs program.Lookup) program.Program {
	if !p.ProgramID.Valid {
		return program.Program{}
	}
	return progs[p.ProgramID.Int64]
}
