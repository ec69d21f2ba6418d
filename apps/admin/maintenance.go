package main

import (
	"context"
	"fmt"

	"github.com/sveduch/sveduch/storage/database"
)

func (cli *commandLine) backup(args []string) error {
	fs := cli.newFlagSet("backup")
	dest := fs.String("dest", cli.conf.BackupDir, "The backup file, or a directory to create it in.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	path, err := database.Backup(cli.conf.DBPath, *dest)
	if err != nil {
		return err
	}
	cli.log.Info("database backed up", map[string]interface{}{"path": path})
	fmt.Fprintf(cli.out, "backup written to %s\n", path)
	return nil
}

func (cli *commandLine) restore(args []string) error {
	fs := cli.newFlagSet("restore")
	src := fs.String("src", "", "The backup file to restore.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *src == "" {
		fs.Usage()
		return errHelp
	}
	if err := cli.confirm("Replace the current database with "+*src+"?", *yes); err != nil {
		return err
	}
	res, err := database.Restore(cli.db, cli.conf.DBPath, *src)
	if err != nil {
		return err
	}
	cli.log.Warn("database restored", map[string]interface{}{"from": *src, "path": res.Path})
	if res.RestartRequired {
		fmt.Fprintln(cli.out, "database restored; restart the application before continuing")
	}
	return nil
}

func (cli *commandLine) settingsCmd(args []string) error {
	ctx := context.Background()
	sub, rest := subcommand(args)

	switch {
	case sub == "get" && len(rest) == 1:
		v, ok, err := cli.settings.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("setting %q is not set", rest[0])
		}
		fmt.Fprintln(cli.out, v)
		return nil
	case sub == "set" && len(rest) == 2:
		s, err := cli.settings.Set(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s = %s\n", s.Key, s.Value)
		return nil
	case sub == "list":
		all, err := cli.settings.All(ctx)
		if err != nil {
			return err
		}
		tw := cli.table()
		for _, s := range all {
			fmt.Fprintf(tw, "%s\t%s\n", s.Key, s.Value)
		}
		return tw.Flush()
	default:
		fmt.Fprintln(cli.out, "Usage: settings get KEY | set KEY VALUE | list")
		return errHelp
	}
}
