// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for Subscription
// (user follows author) rows.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
)

// CreateSubscription inserts a (user, author) row. A duplicate pair fails on
// the ux_user_author unique index; the raw DB error is propagated.
func CreateSubscription(ctx context.Context, db *gorm.DB, userID, authorID uint) error {
	s := &domain.Subscription{
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(s).Error
}

// DeleteSubscription removes a (user, author) row, or returns ErrNotFound
// when the subscription does not exist.
func DeleteSubscription(ctx context.Context, db *gorm.DB, userID, authorID uint) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsSubscribed reports whether userID follows authorID.
func IsSubscribed(ctx context.Context, db *gorm.DB, userID, authorID uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	return n > 0, err
}

// SubscribedSet returns the subset of authorIDs that userID follows, as a
// membership map, with a single query.
func SubscribedSet(ctx context.Context, db *gorm.DB, userID uint, authorIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return out, nil
	}
	var ids []uint
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CountSubscriptions returns how many authors userID follows.
func CountSubscriptions(ctx context.Context, db *gorm.DB, userID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListSubscribedAuthorsPage returns a page of the authors userID follows,
// oldest subscription first (stable listing order).
func ListSubscribedAuthorsPage(ctx context.Context, db *gorm.DB, userID uint, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
