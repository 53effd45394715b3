package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	gormrepos "github.com/trezcool/studyplanner/storage/database/gorm"
)

func (cli *commandLine) tipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Manage the study tips store",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create and seed the study tips table (idempotent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withTipStore(func(store *gormrepos.TipStore) error {
				if err := store.Initialize(cmd.Context()); err != nil {
					return err
				}
				tips, err := store.ListTips(cmd.Context())
				if err != nil {
					return err
				}
				cli.printf("study tips initialized: %d tips\n", len(tips))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the study tips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withTipStore(func(store *gormrepos.TipStore) error {
				return cli.listTips(cmd.Context(), store)
			})
		},
	})
	return cmd
}

func (cli *commandLine) withTipStore(fn func(store *gormrepos.TipStore) error) error {
	db, err := gormrepos.Open(cli.conf.TipStore.Path, cli.conf.Debug)
	if err != nil {
		return errors.Wrap(err, "opening tip store")
	}
	defer gormrepos.Close(db)
	return fn(gormrepos.NewTipStore(db))
}

func (cli *commandLine) listTips(ctx context.Context, store *gormrepos.TipStore) error {
	tips, err := store.ListTips(ctx)
	if err != nil {
		return err
	}
	for i, t := range tips {
		cli.printf("%d. %s\n", i+1, t)
	}
	return nil
}
