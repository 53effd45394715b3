// Package storage opens the entry and tip stores selected by the configuration.
package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/entry"
	"github.com/trezcool/studyplanner/storage/database"
	gormrepos "github.com/trezcool/studyplanner/storage/database/gorm"
	"github.com/trezcool/studyplanner/storage/database/inmem"
	sqlxrepos "github.com/trezcool/studyplanner/storage/database/sqlx"
)

type Stores struct {
	Entries entry.Repository
	Tips    *gormrepos.TipStore

	closers []func() error
}

// Open opens the entry store (migrating it) and the tip store, then initializes the tips.
func Open(ctx context.Context, conf *core.Config) (*Stores, error) {
	s := new(Stores)
	if err := s.openEntries(conf); err != nil {
		_ = s.Close()
		return nil, err
	}

	tipDB, err := gormrepos.Open(conf.TipStore.Path, conf.Debug)
	if err != nil {
		_ = s.Close()
		return nil, errors.Wrap(err, "opening tip store")
	}
	s.closers = append(s.closers, func() error { return gormrepos.Close(tipDB) })

	s.Tips = gormrepos.NewTipStore(tipDB)
	if err = s.Tips.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, errors.Wrap(err, "initializing tip store")
	}
	return s, nil
}

func (s *Stores) openEntries(conf *core.Config) error {
	switch conf.Database.Engine {
	case "postgres":
		if err := database.CreateIfNotExist(conf); err != nil {
			return errors.Wrap(err, "creating database")
		}
		db, err := database.Open(conf)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, db.Close)
		if err = database.Migrate(db); err != nil {
			return err
		}
		s.Entries = sqlxrepos.NewEntryRepository(sqlx.NewDb(db, "postgres"))

	case "sqlite":
		db, err := gormrepos.Open(conf.Database.Path, conf.Debug)
		if err != nil {
			return errors.Wrap(err, "opening entry store")
		}
		s.closers = append(s.closers, func() error { return gormrepos.Close(db) })
		repo, err := gormrepos.NewEntryRepository(db)
		if err != nil {
			return err
		}
		s.Entries = repo

	case "memory":
		db := inmem.Open()
		s.closers = append(s.closers, db.Close)
		s.Entries = inmem.NewEntryRepository(db)

	default:
		return errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}
	return nil
}

// Close closes every opened database, returning the first error.
func (s *Stores) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}
