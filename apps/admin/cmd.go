package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/storage"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf *core.Config
	out  io.Writer

	openDB     func() (*sql.DB, error)
	openStores func(ctx context.Context) (*storage.Stores, error)
	newMailSvc func() (core.EmailService, error)
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administer the study planner stores",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(cli.migrateCmd())
	root.AddCommand(cli.summaryCmd())
	root.AddCommand(cli.tipsCmd())
	return root
}

// run executes the command named by args (args[0] being the program name).
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) printf(format string, a ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, a...)
}
