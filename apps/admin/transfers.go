package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/pupil"
	"github.com/sveduch/sveduch/core/transfer"
)

func (cli *commandLine) transfer(args []string) error {
	ctx := context.Background()
	sub, rest := subcommand(args)

	switch sub {
	case "out":
		fs := cli.newFlagSet("transfer out")
		id := fs.Int64("id", 0, "The pupil ID.")
		date := fs.String("date", "", "Transfer date (dd.mm.yyyy).")
		reason := fs.String("reason", "", "Transfer reason.")
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := cli.confirm(fmt.Sprintf("Archive pupil %d?", *id), *yes); err != nil {
			return err
		}
		entry, err := cli.transfers.TransferOut(ctx, transfer.ExternalRequest{
			PupilID: *id, TransferDate: *date, TransferReason: *reason,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "pupil %s archived on %s (archive id %d)\n", entry.FullName(), entry.TransferDate, entry.ID)
		return nil
	case "move":
		fs := cli.newFlagSet("transfer move")
		id := fs.Int64("id", 0, "The pupil ID.")
		class := fs.String("class", "", "The new class number.")
		prog := fs.Int64("program", 0, "The new program ID.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		formID, err := cli.classFilter(ctx, *class)
		if err != nil {
			return err
		}
		p, err := cli.transfers.Move(ctx, transfer.InternalRequest{
			PupilID: *id, FormID: formID, ProgramID: null.NewInt64(*prog, *prog != 0),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "pupil %s moved\n", p.FullName())
		return nil
	case "promote":
		fs := cli.newFlagSet("transfer promote")
		class := fs.String("class", "", "The class number to promote.")
		idList := fs.String("ids", "", "Comma-separated pupil IDs to promote.")
		all := fs.Bool("all", false, "Promote every pupil of the class.")
		date := fs.String("date", "", "Transfer date (dd.mm.yyyy).")
		reason := fs.String("reason", "", "Transfer reason.")
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		frm, err := cli.forms.GetByNumber(ctx, *class)
		if err != nil {
			if err == form.ErrNotFound {
				return fmt.Errorf("class %q not found", *class)
			}
			return err
		}
		ids, err := cli.checklist(ctx, frm, *idList, *all)
		if err != nil {
			return err
		}

		action := "Promote"
		if transfer.IsGraduating(frm.Number) {
			action = "Graduate (archive)"
		}
		if err := cli.confirm(fmt.Sprintf("%s %d pupil(s) of class %s?", action, len(ids), frm.Number), *yes); err != nil {
			return err
		}
		res, err := cli.transfers.Promote(ctx, transfer.PromoteRequest{
			FormID: frm.ID, PupilIDs: ids, TransferDate: *date, TransferReason: *reason,
		})
		if err != nil {
			return err
		}
		if res.Graduated {
			fmt.Fprintf(cli.out, "class %s graduated: %d pupil(s) archived\n", res.From.Number, len(res.Archived))
		} else {
			created := ""
			if res.TargetCreated {
				created = " (new class)"
			}
			fmt.Fprintf(cli.out, "%d pupil(s) promoted from %s to %s%s\n", len(res.Promoted), res.From.Number, res.Target.Number, created)
		}
		return nil
	default:
		fmt.Fprintln(cli.out, "Usage: transfer out -id ID -date D [-reason R] | move -id ID [-class N] [-program ID] | promote -class N (-ids 1,2|-all) -date D [-reason R]")
		return errHelp
	}
}

// checklist resolves the pupils to promote: the listed IDs, or the whole class.
func (cli *commandLine) checklist(ctx context.Context, frm form.Form, idList string, all bool) ([]int64, error) {
	if !all {
		if strings.TrimSpace(idList) == "" {
			return nil, fmt.Errorf("%w: -ids or -all", errNeedsArgs)
		}
		return parseIDs(idList)
	}
	roster, err := cli.pupils.Filter(ctx, pupil.QueryFilter{FormID: null.Int64From(frm.ID)})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(roster))
	for _, p := range roster {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (cli *commandLine) archiveCmd(args []string) error {
	sub, _ := subcommand(args)
	if sub != "list" {
		fmt.Fprintln(cli.out, "Usage: archive list")
		return errHelp
	}
	entries, err := cli.archive.QueryAll(context.Background())
	if err != nil {
		return err
	}
	tw := cli.table()
	fmt.Fprintln(tw, "ID\tDATE\tSURNAME\tNAME\tPATRONYMIC\tREASON")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.TransferDate, e.Surname, e.Name, e.Patronymic, e.TransferReason)
	}
	return tw.Flush()
}
