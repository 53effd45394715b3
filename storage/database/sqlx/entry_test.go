package sqlxrepos_test

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	"github.com/trezcool/studyplanner/storage/database"
	sqlxrepos "github.com/trezcool/studyplanner/storage/database/sqlx"
	testutil "github.com/trezcool/studyplanner/tests"
)

// prepareDB connects to the TEST postgres database, migrating it.
func prepareDB(t *testing.T) *sqlx.DB {
	if os.Getenv("TEST_DATABASE_HOST") == "" {
		t.Skip("TEST_DATABASE_HOST is not set; skipping postgres tests")
	}
	t.Setenv("ENV", "TEST")

	conf, err := core.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, database.CreateIfNotExist(conf))

	db, err := database.Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	return sqlx.NewDb(db, "postgres")
}

func TestEntryRepository(t *testing.T) {
	db := prepareDB(t)

	testutil.RunEntryRepositoryTests(t, func(t *testing.T) entry.Repository {
		_, err := db.Exec("TRUNCATE study_entries RESTART IDENTITY")
		require.NoError(t, err)
		return sqlxrepos.NewEntryRepository(db)
	})
}
