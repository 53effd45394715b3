package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	emailsvc "github.com/trezcool/studyplanner/services/email"
	"github.com/trezcool/studyplanner/storage"
	testutil "github.com/trezcool/studyplanner/tests"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	conf := testutil.NewTestConfig()
	conf.TipStore.Path = filepath.Join(t.TempDir(), "study_resources.db")

	out := new(bytes.Buffer)
	cli := &commandLine{
		conf:   conf,
		out:    out,
		openDB: func() (*sql.DB, error) { return nil, nil },
		openStores: func(ctx context.Context) (*storage.Stores, error) {
			return storage.Open(ctx, conf)
		},
		newMailSvc: func() (core.EmailService, error) {
			return emailsvc.NewConsoleServiceMock(conf), nil
		},
	}
	return cli, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_root(t *testing.T) {
	cli, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "tips without subcommand", args: []string{"tips"}, wantErr: errHelp},
		{name: "summary without subcommand", args: []string{"summary"}, wantErr: errHelp},
	})

	t.Run("unknown command", func(t *testing.T) {
		err := cli.run([]string{"admin", "lol"})
		assert.Error(t, err)
	})
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)
	cli.conf.Database.Engine = "postgres"

	gooseRunFunc = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "0"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "add_course_index", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})

	t.Run("non-postgres engine", func(t *testing.T) {
		cli.conf.Database.Engine = "sqlite"
		defer func() { cli.conf.Database.Engine = "postgres" }()
		assert.Equal(t, errMigrateEngine, cli.run([]string{"admin", "migrate", "up"}))
	})
}

func Test_commandLine_tips(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "init", args: []string{"tips", "init"}},
		{name: "init again", args: []string{"tips", "init"}},
		{name: "list", args: []string{"tips", "list"}},
		{name: "extra args", args: []string{"tips", "list", "lol"}, wantErrStr: `unknown command "lol" for "admin tips list"`},
	})

	output := out.String()
	assert.Equal(t, 2, strings.Count(output, "study tips initialized: 3 tips"))
	assert.Contains(t, output, "1. Break your study sessions into focused 25-minute blocks.")
	assert.Contains(t, output, "3. Alternate between different courses to avoid burnout.")
	assert.NotContains(t, output, "4. ")
}

func Test_commandLine_summarySend(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	testutil.FreezeNow(t, now)

	t.Run("no entries today", func(t *testing.T) {
		cli, out := setup(t)
		mailSvc := emailsvc.NewConsoleServiceMock(cli.conf)
		cli.newMailSvc = func() (core.EmailService, error) { return mailSvc, nil }

		require.NoError(t, cli.run([]string{"admin", "summary", "send"}))
		assert.Equal(t, "No study entries found for today.\n", out.String())
		assert.Empty(t, mailSvc.SentMessages())
	})

	t.Run("entries today", func(t *testing.T) {
		cli, out := setup(t)
		mailSvc := emailsvc.NewConsoleServiceMock(cli.conf)
		cli.newMailSvc = func() (core.EmailService, error) { return mailSvc, nil }

		stores, err := storage.Open(context.Background(), cli.conf)
		require.NoError(t, err)
		testutil.CreateEntry(t, stores.Entries, now, "Math", 2, entry.StatusCompleted, "Ch. 3")
		testutil.CreateEntry(t, stores.Entries, now.AddDate(0, 0, -1), "Physics", 1, entry.StatusPlanned)
		cli.openStores = func(ctx context.Context) (*storage.Stores, error) { return stores, nil }

		require.NoError(t, cli.run([]string{"admin", "summary", "send"}))
		assert.Equal(t, "summary sent to student@test.local: 1 entries\n", out.String())

		sent := mailSvc.SentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "Today's Study Summary", sent[0].Subject)
		assert.Contains(t, sent[0].HTMLContent, "<b>Math</b>")
		assert.NotContains(t, sent[0].HTMLContent, "Physics")
	})
}
