package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/sveduch/sveduch/core"
	"github.com/sveduch/sveduch/core/archive"
	"github.com/sveduch/sveduch/core/form"
	"github.com/sveduch/sveduch/core/importer"
	"github.com/sveduch/sveduch/core/program"
	"github.com/sveduch/sveduch/core/pupil"
	"github.com/sveduch/sveduch/core/recommendation"
	"github.com/sveduch/sveduch/core/report"
	"github.com/sveduch/sveduch/core/settings"
	"github.com/sveduch/sveduch/core/transfer"
	"github.com/sveduch/sveduch/storage/database/sqlite"
)

var (
	isTerminalFunc = term.IsTerminal // mockable
	stdin          io.Reader = os.Stdin

	errHelp      = errors.New("help provided")
	errAborted   = errors.New("aborted")
	errNeedsYes  = errors.New("not a terminal: pass -yes to confirm")
	errNeedsArgs = errors.New("missing arguments")
)

type commandLine struct {
	db   *sqlx.DB
	conf *core.Config
	log  core.Logger
	out  io.Writer

	forms     *form.Service
	programs  *program.Service
	recs      *recommendation.Service
	pupils    *pupil.Service
	archive   *archive.Service
	transfers *transfer.Service
	reports   *report.Service
	importer  *importer.Service
	settings  *settings.Service
}

func newCommandLine(db *sqlx.DB, conf *core.Config, lgr core.Logger, out io.Writer) *commandLine {
	formRepo := sqliterepos.NewFormRepository(db)
	progRepo := sqliterepos.NewProgramRepository(db)
	pupilRepo := sqliterepos.NewPupilRepository(db)
	archiveRepo := sqliterepos.NewArchiveRepository(db)

	forms := form.NewService(db, formRepo)
	pupils := pupil.NewService(pupilRepo, lgr)
	return &commandLine{
		db:       db,
		conf:     conf,
		log:      lgr,
		out:      out,
		forms:    forms,
		programs: program.NewService(progRepo),
		recs:     recommendation.NewService(sqliterepos.NewRecommendationRepository(db)),
		pupils:   pupils,
		archive:  archive.NewService(archiveRepo),
		transfers: transfer.NewService(transfer.Deps{
			DB:       db,
			Pupils:   pupilRepo,
			Archive:  archiveRepo,
			Forms:    formRepo,
			Programs: progRepo,
			Log:      lgr,
		}),
		reports:  report.NewService(pupilRepo, formRepo, progRepo),
		importer: importer.NewService(forms, pupils, lgr),
		settings: settings.NewService(sqliterepos.NewSettingsRepository(db)),
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                       - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  form add|list|rename|delete                  - manage classes")
	fmt.Fprintln(cli.out, "  program add|list|update|delete               - manage programs")
	fmt.Fprintln(cli.out, "  rec add|list|delete|specialists              - manage specialist recommendations")
	fmt.Fprintln(cli.out, "  pupil add|edit|show|find|list|delete         - manage the active roster")
	fmt.Fprintln(cli.out, "  transfer out|move|promote                    - archive, reassign or promote pupils")
	fmt.Fprintln(cli.out, "  archive list                                 - list archived pupils")
	fmt.Fprintln(cli.out, "  report roster|census                         - build (and export) a report")
	fmt.Fprintln(cli.out, "  import -file FILE -class NUMBER              - import pupils from a spreadsheet")
	fmt.Fprintln(cli.out, "  backup -dest PATH                            - copy the database file")
	fmt.Fprintln(cli.out, "  restore -src FILE                            - replace the database file with a backup")
	fmt.Fprintln(cli.out, "  settings get|set|list                        - application preferences")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	rest := args[2:]
	switch args[1] {
	case "migrate":
		if len(rest) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(rest)
	case "form":
		return cli.form(rest)
	case "program":
		return cli.program(rest)
	case "rec":
		return cli.rec(rest)
	case "pupil":
		return cli.pupil(rest)
	case "transfer":
		return cli.transfer(rest)
	case "archive":
		return cli.archiveCmd(rest)
	case "report":
		return cli.report(rest)
	case "import":
		return cli.importCmd(rest)
	case "backup":
		return cli.backup(rest)
	case "restore":
		return cli.restore(rest)
	case "settings":
		return cli.settingsCmd(rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

// newFlagSet returns a flag set writing its usage to the CLI output.
func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

// visited returns the names of the flags explicitly set on the command line.
func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func subcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

// confirm asks the operator before a destructive operation. Without a
// terminal on stdin the operation must be confirmed with -yes.
func (cli *commandLine) confirm(prompt string, yes bool) error {
	if yes {
		return nil
	}
	if f, ok := stdin.(*os.File); !ok || !isTerminalFunc(int(f.Fd())) {
		return errNeedsYes
	}
	fmt.Fprintf(cli.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "д", "да":
		return nil
	}
	return errAborted
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
}

// describeErr renders err for the operator, listing every offending field of a validation error.
func describeErr(err error) string {
	if vErr, ok := core.AsValidation(err); ok && len(vErr.Fields) > 1 {
		var b strings.Builder
		b.WriteString(vErr.Error())
		for _, f := range vErr.Fields {
			b.WriteString("\n  " + f.Field + ": " + f.Error)
		}
		return b.String()
	}
	return err.Error()
}
