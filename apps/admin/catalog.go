package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sveduch/sveduch/core/recommendation"
)

func (cli *commandLine) form(args []string) error {
	ctx := context.Background()
	sub, rest := subcommand(args)

	switch sub {
	case "add":
		fs := cli.newFlagSet("form add")
		number := fs.String("number", "", "The class number, ie. 5А.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		frm, err := cli.forms.Create(ctx, *number)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "class %s added (id %d)\n", frm.Number, frm.ID)
		return nil
	case "list":
		forms, err := cli.forms.QueryAll(ctx)
		if err != nil {
			return err
		}
		tw := cli.table()
		fmt.Fprintln(tw, "ID\tNUMBER")
		for _, f := range forms {
			fmt.Fprintf(tw, "%d\t%s\n", f.ID, f.Number)
		}
		return tw.Flush()
	case "rename":
		fs := cli.newFlagSet("form rename")
		id := fs.Int64("id", 0, "The class ID.")
		number := fs.String("number", "", "The new class number.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		frm, err := cli.forms.Rename(ctx, *id, *number)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "class %d renamed to %s\n", frm.ID, frm.Number)
		return nil
	case "delete":
		fs := cli.newFlagSet("form delete")
		id := fs.Int64("id", 0, "The class ID.")
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := cli.confirm(fmt.Sprintf("Delete class %d?", *id), *yes); err != nil {
			return err
		}
		if err := cli.forms.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "class %d deleted\n", *id)
		return nil
	default:
		fmt.Fprintln(cli.out, "Usage: form add -number N | list | rename -id ID -number N | delete -id ID [-yes]")
		return errHelp
	}
}

func (cli *commandLine) program(args []string) error {
	ctx := context.Background()
	sub, rest := subcommand(args)

	switch sub {
	case "add":
		fs := cli.newFlagSet("program add")
		name := fs.String("name", "", "The program name.")
		version := fs.String("version", "", "The program version.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		prog, err := cli.programs.Create(ctx, *name, *version)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "program %s added (id %d)\n", prog.Label(), prog.ID)
		return nil
	case "list":
		progs, err := cli.programs.QueryAll(ctx)
		if err != nil {
			return err
		}
		tw := cli.table()
		fmt.Fprintln(tw, "ID\tNAME\tVERSION")
		for _, p := range progs {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, p.Version)
		}
		return tw.Flush()
	case "update":
		fs := cli.newFlagSet("program update")
		id := fs.Int64("id", 0, "The program ID.")
		name := fs.String("name", "", "The program name.")
		version := fs.String("version", "", "The program version.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		prog, err := cli.programs.Update(ctx, *id, *name, *version)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "program %d updated: %s\n", prog.ID, prog.Label())
		return nil
	case "delete":
		fs := cli.newFlagSet("program delete")
		id := fs.Int64("id", 0, "The program ID.")
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := cli.confirm(fmt.Sprintf("Delete program %d? Its pupils will be left without a program.", *id), *yes); err != nil {
			return err
		}
		if err := cli.programs.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "program %d deleted\n", *id)
		return nil
	default:
		fmt.Fprintln(cli.out, "Usage: program add -name N -version V | list | update -id ID -name N -version V | delete -id ID [-yes]")
		return errHelp
	}
}

func (cli *commandLine) rec(args []string) error {
	ctx := context.Background()
	sub, rest := subcommand(args)

	switch sub {
	case "add":
		fs := cli.newFlagSet("rec add")
		spec := fs.String("specialist", "", "The specialist, ie. Логопед.")
		text := fs.String("rec", "", "The recommendation.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		r, err := cli.recs.Add(ctx, *spec, *text)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "recommendation %d: %s / %s\n", r.ID, r.Specialist, r.Recommendation)
		return nil
	case "list":
		fs := cli.newFlagSet("rec list")
		spec := fs.String("specialist", "", "Only this specialist's recommendations.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		var (
			recs []recommendation.Recommendation
			err  error
		)
		if strings.TrimSpace(*spec) != "" {
			recs, err = cli.recs.BySpecialist(ctx, *spec)
		} else {
			recs, err = cli.recs.QueryAll(ctx)
		}
		if err != nil {
			return err
		}
		tw := cli.table()
		fmt.Fprintln(tw, "ID\tSPECIALIST\tRECOMMENDATION")
		for _, r := range recs {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", r.ID, r.Specialist, r.Recommendation)
		}
		return tw.Flush()
	case "delete":
		fs := cli.newFlagSet("rec delete")
		id := fs.Int64("id", 0, "The recommendation ID.")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		if err := cli.recs.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "recommendation %d deleted\n", *id)
		return nil
	case "specialists":
		slots, err := cli.recs.Slots(ctx)
		if err != nil {
			return err
		}
		for i, s := range slots {
			fmt.Fprintln(cli.out, "Рек."+strconv.Itoa(i+1)+": "+s)
		}
		return nil
	default:
		fmt.Fprintln(cli.out, "Usage: rec add -specialist S -rec R | list [-specialist S] | delete -id ID | specialists")
		return errHelp
	}
}
