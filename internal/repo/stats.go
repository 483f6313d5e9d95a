// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the presentation layer (e.g., recipes_count in subscription listings).
// Each function is context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
)

// AuthorStats returns aggregate metadata for an author's recipes: the total
// number of rows and the latest publication timestamp among them.
//
// Return values:
//   - count:      total recipes published by authorID
//   - latestPub:  pointer to the greatest PubDate, or nil if no rows
//   - err:        database error, if any
func AuthorStats(ctx context.Context, db *gorm.DB, authorID uint) (count int64, latestPub *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Recipe{}).Where("author_id = ?", authorID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest pub_date (avoid MAX() -> TEXT in SQLite)
	var row struct {
		PubDate time.Time
	}
	if err = q.Select("pub_date").Order("pub_date DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.PubDate, nil
}
