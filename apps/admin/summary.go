package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/studyplanner/core/report"
)

func (cli *commandLine) summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Today's study summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "send",
		Short: "Email today's entries to the summary recipient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.sendSummary(cmd)
		},
	})
	return cmd
}

func (cli *commandLine) sendSummary(cmd *cobra.Command) error {
	ctx := cmd.Context()
	stores, err := cli.openStores(ctx)
	if err != nil {
		return errors.Wrap(err, "opening stores")
	}
	defer stores.Close()

	mailSvc, err := cli.newMailSvc()
	if err != nil {
		return err
	}

	svc := report.NewService(stores.Entries, stores.Tips, mailSvc, cli.conf)
	count, err := svc.SendTodaySummary(ctx)
	switch {
	case errors.Cause(err) == report.ErrNoEntriesToday:
		cli.printf("No study entries found for today.\n")
		return nil
	case err != nil:
		return err
	}
	cli.printf("summary sent to %s: %d entries\n", cli.conf.SummaryRecipient().Address, count)
	return nil
}
