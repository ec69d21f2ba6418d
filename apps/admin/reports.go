package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/sveduch/sveduch/core/report"
	"github.com/sveduch/sveduch/storage/tabular"
)

var readRowsFunc = tabular.ReadFile // mockable

func (cli *commandLine) report(args []string) error {
	ctx := context.Background()
	sub, rest := subcommand(args)

	q := report.Query{Mode: report.ModeRoster}
	switch sub {
	case "roster":
	case "census":
		q.Mode = report.ModeCensus
	default:
		fmt.Fprintln(cli.out, "Usage: report roster|census [-class N] [-program ID] [-columns k1,k2|all] [-out FILE.xlsx]")
		fmt.Fprintln(cli.out, "Columns: "+strings.Join(report.AllColumnKeys(), ", "))
		return errHelp
	}

	fs := cli.newFlagSet("report " + sub)
	class := fs.String("class", "", "Only this class (roster).")
	prog := fs.Int64("program", 0, "Only this program ID.")
	cols := fs.String("columns", "all", "Comma-separated column keys, or all.")
	out := fs.String("out", "", "Export the result to this .xlsx file.")
	if err := parseFlags(fs, rest); err != nil {
		return err
	}

	var err error
	if q.FormID, err = cli.classFilter(ctx, *class); err != nil {
		return err
	}
	q.ProgramID = null.NewInt64(*prog, *prog != 0)
	if strings.TrimSpace(*cols) == "all" {
		q.Columns = report.AllColumnKeys()
	} else {
		for _, c := range strings.Split(*cols, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Columns = append(q.Columns, c)
			}
		}
	}

	res, err := cli.reports.Run(ctx, q)
	if err != nil {
		return err
	}
	if *out != "" {
		if err := cli.reports.Export(res, tabular.FileWriter{Path: *out}); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%d row(s) exported to %s\n", len(res.Rows), *out)
		return nil
	}

	tw := cli.table()
	fmt.Fprintln(tw, strings.Join(res.Headers, "\t"))
	for _, r := range res.Rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d row(s)\n", len(res.Rows))
	return nil
}

func (cli *commandLine) importCmd(args []string) error {
	fs := cli.newFlagSet("import")
	file := fs.String("file", "", "The .xlsx file to import.")
	class := fs.String("class", "", "The class number the pupils are imported into (created if missing).")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *file == "" || strings.TrimSpace(*class) == "" {
		fs.Usage()
		return errHelp
	}

	rows, err := readRowsFunc(*file)
	if err != nil {
		return err
	}
	res, err := cli.importer.Import(context.Background(), rows, *class)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%d pupil(s) imported into class %s\n", res.Inserted, res.Form.Number)
	for _, e := range res.Errors {
		fmt.Fprintln(cli.out, "  "+e.Error())
	}
	return nil
}
