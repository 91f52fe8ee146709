package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"netfence/internal/domain"
)

const rangeInsertBatchSize = 500

// ReplaceBlockedRanges rewrites the Postgres mirror with the given canonical
// forms, preserving set order through the position column.
func ReplaceBlockedRanges(ctx context.Context, cidrs []string, source string) error {
	if DB == nil {
		return errors.New("database not initialised")
	}

	db := DB
	if ctx != nil {
		db = db.WithContext(ctx)
	}

	now := time.Now().UTC()
	records := make([]domain.BlockedRange, 0, len(cidrs))
	for i, c := range cidrs {
		records = append(records, domain.BlockedRange{
			CIDR:       c,
			Source:     source,
			Position:   i,
			LastSeenAt: now,
		})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.BlockedRange{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cidr"}},
			DoUpdates: clause.Assignments(map[string]any{
				"position":     gorm.Expr("EXCLUDED.position"),
				"last_seen_at": gorm.Expr("EXCLUDED.last_seen_at"),
			}),
		}).CreateInBatches(&records, rangeInsertBatchSize).Error
	})
}

// ListBlockedRanges returns the mirrored canonical forms in set order.
func ListBlockedRanges(ctx context.Context) ([]string, error) {
	if DB == nil {
		return nil, errors.New("database not initialised")
	}

	db := DB
	if ctx != nil {
		db = db.WithContext(ctx)
	}

	var cidrs []string
	if err := db.Model(&domain.BlockedRange{}).
		Order("position ASC").
		Pluck("cidr", &cidrs).Error; err != nil {
		return nil, err
	}
	return cidrs, nil
}

// RecordImport stores one import report row.
func RecordImport(ctx context.Context, report domain.ImportReport) error {
	if DB == nil {
		return errors.New("database not initialised")
	}

	db := DB
	if ctx != nil {
		db = db.WithContext(ctx)
	}

	return db.Create(&report).Error
}
