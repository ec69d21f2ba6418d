package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/pupil"
)

// recordFlags are the entry fields shared by "pupil add" and "pupil edit".
type recordFlags struct {
	class, surname, name, patronymic *string
	birthDate, address, gender       *string
	pmpkDate, pmpkNumber             *string
	program                          *int64
	orderNumber, orderDate           *string
	recs                             [5]*string
}

func newRecordFlags(fs *flag.FlagSet) *recordFlags {
	rf := &recordFlags{
		class:       fs.String("class", "", "The class number, ie. 5А."),
		surname:     fs.String("surname", "", "Surname."),
		name:        fs.String("name", "", "Name."),
		patronymic:  fs.String("patronymic", "", "Patronymic."),
		birthDate:   fs.String("birth", "", "Birth date (dd.mm.yyyy)."),
		address:     fs.String("address", "", "Home address."),
		gender:      fs.String("gender", "", "Gender."),
		pmpkDate:    fs.String("pmpk-date", "", "PMPK assessment date."),
		pmpkNumber:  fs.String("pmpk-number", "", "PMPK assessment number."),
		program:     fs.Int64("program", 0, "The program ID (0 for none)."),
		orderNumber: fs.String("order-number", "", "Order number."),
		orderDate:   fs.String("order-date", "", "Order date."),
	}
	for i := range rf.recs {
		rf.recs[i] = fs.String(fmt.Sprintf("rec%d", i+1), "", fmt.Sprintf("Recommendations of specialist slot %d, \"; \"-separated.", i+1))
	}
	return rf
}

// apply copies the flags that were set onto rec.
func (rf *recordFlags) apply(ctx context.Context, cli *commandLine, rec pupil.Record, set map[string]bool) (pupil.Record, error) {
	if set["class"] {
		rec = rec.WithForm(0)
		if *rf.class != "" {
			frm, err := cli.forms.GetByNumber(ctx, *rf.class)
			if err != nil {
				if err == form.ErrNotFound {
					return rec, fmt.Errorf("class %q not found", *rf.class)
				}
				return rec, err
			}
			rec = rec.WithForm(frm.ID)
		}
	}
	str := map[string]*string{
		"surname": &rec.Surname, "name": &rec.Name, "patronymic": &rec.Patronymic,
		"birth": &rec.BirthDate, "address": &rec.Address, "gender": &rec.Gender,
		"pmpk-date": &rec.PMPKDate, "pmpk-number": &rec.PMPKNumber,
		"order-number": &rec.OrderNumber, "order-date": &rec.OrderDate,
	}
	src := map[string]*string{
		"surname": rf.surname, "name": rf.name, "patronymic": rf.patronymic,
		"birth": rf.birthDate, "address": rf.address, "gender": rf.gender,
		"pmpk-date": rf.pmpkDate, "pmpk-number": rf.pmpkNumber,
		"order-number": rf.orderNumber, "order-date": rf.orderDate,
	}
	for name, dst := range str {
		if set[name] {
			*dst = *src[name]
		}
	}
	if set["program"] {
		rec = rec.WithProgram(null.NewInt64(*rf.program, *rf.program != 0))
	}
	for i, r := range rf.recs {
		if set[fmt.Sprintf("rec%d", i+1)] {
			rec = rec.WithRecommendation(i, pupil.JoinSelection(pupil.SplitSelection(*r)))
		}
	}
	return pupil.Shape(rec), nil
}

func (cli *commandLine) pupil(args []string) error {
	ctx := context.Background()
	sub, rest := subcommand(args)

	switch sub {
	case "add":
		fs := cli.newFlagSet("pupil add")
		rf := newRecordFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		rec, err := rf.apply(ctx, cli, pupil.Record{}, visited(fs))
		if err != nil {
			return err
		}
		p, err := cli.pupils.Create(ctx, rec)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "pupil %s added (id %d)\n", p.FullName(), p.ID)
		return nil
	case "edit":
		fs := cli.newFlagSet("pupil edit")
		id := fs.Int64("id", 0, "The pupil ID.")
		rf := newRecordFlags(fs)
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		p, err := cli.pupils.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		rec, err := rf.apply(ctx, cli, p.Record, visited(fs))
		if err != nil {
			return err
		}
		if p, err = cli.pupils.Update(ctx, p.ID, rec); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "pupil %d updated\n", p.ID)
		return nil
	case "show":
		fs := cli.newFlagSet("pupil show")
		id := fs.Int64("id", 0, "The pupil ID.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		p, err := cli.pupils.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		return cli.showPupil(ctx, p)
	case "list":
		fs := cli.newFlagSet("pupil list")
		class := fs.String("class", "", "Only this class.")
		prog := fs.Int64("program", 0, "Only this program ID.")
		page := fs.Int("page", 1, "The page to show.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		formID, err := cli.classFilter(ctx, *class)
		if err != nil {
			return err
		}
		pupils, err := cli.pupils.Filter(ctx, pupil.QueryFilter{FormID: formID, ProgramID: null.NewInt64(*prog, *prog != 0)})
		if err != nil {
			return err
		}
		return cli.listPupils(ctx, pupils, *page)
	case "find":
		fs := cli.newFlagSet("pupil find")
		class := fs.String("class", "", "Only this class.")
		sf := pupil.SearchFilter{}
		fs.StringVar(&sf.Surname, "surname", "", "Surname fragment.")
		fs.StringVar(&sf.Name, "name", "", "Name fragment.")
		fs.StringVar(&sf.Patronymic, "patronymic", "", "Patronymic fragment.")
		page := fs.Int("page", 1, "The page to show.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		var err error
		if sf.FormID, err = cli.classFilter(ctx, *class); err != nil {
			return err
		}
		pupils, err := cli.pupils.Search(ctx, sf)
		if err != nil {
			return err
		}
		return cli.listPupils(ctx, pupils, *page)
	case "delete":
		fs := cli.newFlagSet("pupil delete")
		id := fs.Int64("id", 0, "The pupil ID.")
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := cli.confirm(fmt.Sprintf("Delete pupil %d permanently? Use \"transfer out\" to archive instead.", *id), *yes); err != nil {
			return err
		}
		if err := cli.pupils.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "pupil %d deleted\n", *id)
		return nil
	default:
		fmt.Fprintln(cli.out, "Usage: pupil add|edit -id ID|show -id ID|list|find|delete -id ID [-yes] (-h for flags)")
		return errHelp
	}
}

func (cli *commandLine) classFilter(ctx context.Context, number string) (null.Int64, error) {
	if number == "" {
		return null.Int64{}, nil
	}
	frm, err := cli.forms.GetByNumber(ctx, number)
	if err != nil {
		return null.Int64{}, err
	}
	return null.Int64From(frm.ID), nil
}

func (cli *commandLine) listPupils(ctx context.Context, pupils []pupil.Pupil, page int) error {
	forms, err := cli.forms.QueryAll(ctx)
	if err != nil {
		return err
	}
	classes := form.NewLookup(forms)

	pg := pupil.Paginate(pupils, page-1, cli.conf.PageSize)
	tw := cli.table()
	fmt.Fprintln(tw, "ID\tCLASS\tSURNAME\tNAME\tPATRONYMIC\tBIRTH DATE")
	for _, p := range pg.Pupils {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, classes[p.FormID], p.Surname, p.Name, p.Patronymic, p.BirthDate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if pg.Total > 0 {
		fmt.Fprintf(cli.out, "%d-%d of %d (page %d)\n", pg.Start, pg.End, pg.Total, pg.Number)
	} else {
		fmt.Fprintln(cli.out, "no pupils")
	}
	return nil
}

func (cli *commandLine) showPupil(ctx context.Context, p pupil.Pupil) error {
	class := fmt.Sprint(p.FormID)
	if frm, err := cli.forms.GetByID(ctx, p.FormID); err == nil {
		class = frm.Number
	}
	prog := ""
	if p.ProgramID.Valid {
		if pr, err := cli.programs.GetByID(ctx, p.ProgramID.Int64); err == nil {
			prog = pr.Label()
		}
	}
	slots, err := cli.recs.Slots(ctx)
	if err != nil {
		return err
	}

	tw := cli.table()
	fmt.Fprintf(tw, "ID\t%d\n", p.ID)
	fmt.Fprintf(tw, "Класс\t%s\n", class)
	fmt.Fprintf(tw, "ФИО\t%s\n", p.FullName())
	fmt.Fprintf(tw, "Дата рождения\t%s\n", p.BirthDate)
	fmt.Fprintf(tw, "Домашний адрес\t%s\n", p.Address)
	fmt.Fprintf(tw, "Пол\t%s\n", p.Gender)
	fmt.Fprintf(tw, "ПМПК\t%s %s\n", p.PMPKDate, p.PMPKNumber)
	fmt.Fprintf(tw, "Программа\t%s\n", prog)
	fmt.Fprintf(tw, "Приказ\t%s %s\n", p.OrderNumber, p.OrderDate)
	for i, r := range p.Recommendations() {
		fmt.Fprintf(tw, "%s\t%s\n", slots[i], r)
	}
	return tw.Flush()
}
