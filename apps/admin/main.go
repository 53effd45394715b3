package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/studyplanner/core"
	emailsvc "github.com/trezcool/studyplanner/services/email"
	logsvc "github.com/trezcool/studyplanner/services/logger"
	"github.com/trezcool/studyplanner/storage"
	"github.com/trezcool/studyplanner/storage/database"
)

func main() {
	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	cli := &commandLine{
		conf: conf,
		out:  os.Stdout,
		openDB: func() (*sql.DB, error) {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
			return database.Open(conf)
		},
		openStores: func(ctx context.Context) (*storage.Stores, error) {
			return storage.Open(ctx, conf)
		},
		newMailSvc: func() (core.EmailService, error) {
			return emailsvc.NewService(conf, logger, std)
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
