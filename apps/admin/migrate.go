package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	appfs "github.com/trezcool/studyplanner/fs"
	"github.com/trezcool/studyplanner/storage/database"
)

var (
	gooseRunFunc = goose.RunContext // mockable

	errMigrateEngine = errors.New("migrations only apply to the postgres engine")
)

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "migrate COMMAND [ARGS...]",
		Short:              "Run a goose command (up, down, status, ...) against the entry database",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errHelp
			}
			return cli.migrate(cmd.Context(), args)
		},
	}
}

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.conf.Database.Engine != "postgres" {
		return errMigrateEngine
	}
	if err := database.PrepareMigrations(); err != nil {
		return err
	}
	db, err := cli.openDB()
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	if db != nil {
		defer db.Close()
	}
	return gooseRunFunc(ctx, args[0], db, appfs.MigrationsDir, args[1:]...)
}
