// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for ShortLink rows.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
)

// CreateShortLink inserts a new short-link row. Both the URL and the code
// carry unique indexes; the raw DB error is propagated on conflict.
func CreateShortLink(ctx context.Context, db *gorm.DB, l *domain.ShortLink) error {
	return db.WithContext(ctx).Create(l).Error
}

// GetShortLinkByURL fetches the short link for originalURL, or ErrNotFound.
func GetShortLinkByURL(ctx context.Context, db *gorm.DB, originalURL string) (*domain.ShortLink, error) {
	var l domain.ShortLink
	err := db.WithContext(ctx).Where("original_url = ?", originalURL).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetShortLinkByCode fetches the short link with the given code, or
// ErrNotFound.
func GetShortLinkByCode(ctx context.Context, db *gorm.DB, code string) (*domain.ShortLink, error) {
	var l domain.ShortLink
	err := db.WithContext(ctx).Where("short_code = ?", code).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}
