// Package services – ShortLinkService
//
// This file implements deterministic short links for recipe pages: the code
// is the md5 hex digest of the original URL truncated to a fixed length, so
// repeated requests for the same URL converge on one row without
// coordination.
package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

// ShortLinkService issues and resolves short links.
type ShortLinkService struct {
	DB *gorm.DB
}

// ShortCode derives the deterministic code for originalURL.
func ShortCode(originalURL string) string {
	sum := md5.Sum([]byte(originalURL))
	return hex.EncodeToString(sum[:])[:domain.ShortCodeLen]
}

// GetOrCreate returns the short link for originalURL, creating the row on
// first request. A concurrent first request may lose the insert race on the
// unique URL index; the winner's row is returned in that case.
func (s *ShortLinkService) GetOrCreate(ctx context.Context, originalURL string) (*domain.ShortLink, error) {
	if l, err := repo.GetShortLinkByURL(ctx, s.DB, originalURL); err == nil {
		return l, nil
	} else if !isNotFound(err) {
		return nil, err
	}

	l := &domain.ShortLink{
		OriginalURL: originalURL,
		ShortCode:   ShortCode(originalURL),
	}
	if err := repo.CreateShortLink(ctx, s.DB, l); err != nil {
		if isDuplicate(err) {
			return repo.GetShortLinkByURL(ctx, s.DB, originalURL)
		}
		return nil, err
	}
	return l, nil
}

// Resolve returns the original URL behind code, or ErrShortLinkNotFound.
func (s *ShortLinkService) Resolve(ctx context.Context, code string) (string, error) {
	l, err := repo.GetShortLinkByCode(ctx, s.DB, code)
	if err != nil {
		if isNotFound(err) {
			return "", ErrShortLinkNotFound
		}
		return "", err
	}
	return l.OriginalURL, nil
}
