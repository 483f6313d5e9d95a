// Package services – SubscriptionService
//
// This file implements following/unfollowing recipe authors. The semantics
// mirror the bookmark toggle (idempotently-guarded add, checked remove) with
// one extra rule: a user can never subscribe to themselves, checked before
// the existence lookup.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

// SubscriptionService implements the follow/unfollow use-cases.
type SubscriptionService struct {
	DB *gorm.DB
}

// Subscribe makes userID follow authorID and returns the followed author.
//
// Errors:
//   - ErrSelfSubscribe when userID == authorID, independent of any state.
//   - ErrUserNotFound when the author does not exist.
//   - ErrAlreadySubscribed when the pair already exists (the unique index
//     arbitrates concurrent duplicates).
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint) (*domain.User, error) {
	if userID == authorID {
		return nil, ErrSelfSubscribe
	}
	author, err := repo.GetUser(ctx, s.DB, authorID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := repo.CreateSubscription(ctx, s.DB, userID, authorID); err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}
	return author, nil
}

// Unsubscribe makes userID stop following authorID.
//
// Errors:
//   - ErrUserNotFound when the author does not exist.
//   - ErrSubscriptionNotFound when the pair does not exist.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := repo.GetUser(ctx, s.DB, authorID); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if err := repo.DeleteSubscription(ctx, s.DB, userID, authorID); err != nil {
		if isNotFound(err) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

// Subscriptions returns one page of the authors userID follows plus the
// total count for pagination metadata.
func (s *SubscriptionService) Subscriptions(ctx context.Context, userID uint, offset, limit int) ([]domain.User, int64, error) {
	total, err := repo.CountSubscriptions(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	authors, err := repo.ListSubscribedAuthorsPage(ctx, s.DB, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}
