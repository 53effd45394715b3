package gormrepos

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/studyplanner/core/tip"
)

type studyTip struct {
	ID      int    `gorm:"column:Id;primaryKey;autoIncrement"`
	TipText string `gorm:"column:TipText;not null"`
}

func (studyTip) TableName() string { return "StudyTips" }

type TipStore struct {
	db *gorm.DB
}

var _ tip.Store = (*TipStore)(nil)

func NewTipStore(db *gorm.DB) *TipStore {
	return &TipStore{db: db}
}

// Initialize creates the StudyTips table if absent and seeds it when empty.
// Concurrent callers may both see an empty table; the transaction keeps the seed set whole.
func (s *TipStore) Initialize(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&studyTip{}); err != nil {
		return errors.Wrap(err, "migrating study tips")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&studyTip{}).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting study tips")
		}
		if count > 0 {
			return nil
		}

		tips := make([]studyTip, 0, len(tip.SeedTips))
		for _, text := range tip.SeedTips {
			tips = append(tips, studyTip{TipText: text})
		}
		if err := tx.Create(&tips).Error; err != nil {
			return errors.Wrap(err, "seeding study tips")
		}
		return nil
	})
}

func (s *TipStore) ListTips(ctx context.Context) ([]string, error) {
	var tips []string
	err := s.db.WithContext(ctx).Model(&studyTip{}).Order("Id").Pluck("TipText", &tips).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing study tips")
	}
	return tips, nil
}
