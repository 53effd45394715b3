package gormrepos_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gormrepos "github.com/trezcool/studyplanner/storage/database/gorm"
)

func TestOpen_pragmasOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	db, err := gormrepos.Open(filepath.Join(t.TempDir(), "study_entries.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormrepos.Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)

	// hold both so the pool has to hand out two distinct connections
	conns := make([]*sql.Conn, 2)
	for i := range conns {
		conns[i], err = sqlDB.Conn(ctx)
		require.NoError(t, err)
		defer conns[i].Close()
	}

	for i, conn := range conns {
		var busyTimeout, synchronous int
		var journalMode string
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&synchronous))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))

		assert.Equal(t, 5000, busyTimeout, "conn %d", i)
		assert.Equal(t, 1, synchronous, "conn %d", i) // NORMAL
		assert.Equal(t, "wal", strings.ToLower(journalMode), "conn %d", i)
	}
}
