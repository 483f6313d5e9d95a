// Package services defines the business logic for recipes, bookmarks,
// subscriptions, the shopping list, short links, and users. This file
// centralizes service-level error values and types so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer; the taxonomy here distinguishes field-scoped validation
// failures, reference lookups, authorization, conflicts, and plain
// not-found.
package services

import (
	"errors"
	"fmt"
)

// ValidationError is a field-scoped validation failure. Handlers serialize
// it as a per-field message map; the request is rejected wholesale.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// IngredientNotFoundError reports a payload referencing an ingredient id
// absent from the catalog. It carries the offending id and surfaces as a
// validation failure on the "ingredients" field.
type IngredientNotFoundError struct {
	ID uint
}

// Error implements the error interface.
func (e *IngredientNotFoundError) Error() string {
	return fmt.Sprintf("ingredient with id=%d does not exist", e.ID)
}

// Field returns the payload field the error belongs to.
func (e *IngredientNotFoundError) Field() string { return "ingredients" }

// Recipe composer validation errors (field-scoped).
var (
	// ErrEmptyTags is returned when a create/update payload carries no tags.
	ErrEmptyTags = &ValidationError{Field: "tags", Message: "at least one tag is required"}

	// ErrDuplicateTags is returned when the tag list repeats an id.
	ErrDuplicateTags = &ValidationError{Field: "tags", Message: "tags must be unique"}

	// ErrTagNotFound is returned when a referenced tag id is absent from the
	// catalog.
	ErrTagNotFound = &ValidationError{Field: "tags", Message: "tag does not exist"}

	// ErrEmptyIngredients is returned when a create/update payload carries no
	// ingredients.
	ErrEmptyIngredients = &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}

	// ErrDuplicateIngredient is returned when the ingredient list repeats an id.
	ErrDuplicateIngredient = &ValidationError{Field: "ingredients", Message: "ingredients must be unique"}

	// ErrAmountRange is returned when an ingredient amount falls outside
	// [1, 32000].
	ErrAmountRange = &ValidationError{Field: "ingredients", Message: "amount must be between 1 and 32000"}

	// ErrCookingTimeRange is returned when cooking_time falls outside
	// [1, 1440] minutes.
	ErrCookingTimeRange = &ValidationError{Field: "cooking_time", Message: "cooking time must be between 1 and 1440 minutes"}

	// ErrImageRequired is returned when a create payload has no image.
	ErrImageRequired = &ValidationError{Field: "image", Message: "image is required"}
)

// User validation errors (field-scoped).
var (
	// ErrBadUsername is returned when a username violates the allowed
	// pattern or uses the reserved value "me".
	ErrBadUsername = &ValidationError{Field: "username", Message: "only letters, digits and @/./+/-/_ are allowed; 'me' is reserved"}

	// ErrEmailTaken / ErrUsernameTaken report uniqueness conflicts on
	// registration.
	ErrEmailTaken    = &ValidationError{Field: "email", Message: "a user with this email already exists"}
	ErrUsernameTaken = &ValidationError{Field: "username", Message: "a user with this username already exists"}

	// ErrAvatarRequired is returned when an avatar update carries no image.
	ErrAvatarRequired = &ValidationError{Field: "avatar", Message: "avatar field is required"}
)

// Reference and authorization errors.
var (
	// ErrRecipeNotFound indicates the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrNotAuthor is returned when an actor other than the recipe's author
	// attempts to mutate it. It is a permission failure, distinct from
	// validation, and is checked before any write.
	ErrNotAuthor = errors.New("only the author may modify this recipe")
)

// Relationship (bookmark/subscription) errors.
var (
	// ErrAlreadyBookmarked is returned when a (user, recipe, kind) pair
	// already exists.
	ErrAlreadyBookmarked = errors.New("recipe is already in the list")

	// ErrBookmarkNotFound is returned when removing a bookmark that does
	// not exist.
	ErrBookmarkNotFound = errors.New("recipe is not in the list")

	// ErrSelfSubscribe is returned on an attempt to follow oneself,
	// independent of any other state.
	ErrSelfSubscribe = errors.New("subscribing to yourself is not allowed")

	// ErrAlreadySubscribed is returned when the (user, author) pair already
	// exists.
	ErrAlreadySubscribed = errors.New("subscription already exists")

	// ErrSubscriptionNotFound is returned when removing a subscription that
	// does not exist.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Shopping list errors.
var (
	// ErrShoppingListEmpty is returned when a report is requested for an
	// empty shopping cart; callers render an explicit "list is empty"
	// message instead of an empty document.
	ErrShoppingListEmpty = errors.New("shopping list is empty")
)

// ErrShortLinkNotFound indicates the requested short code does not exist.
var ErrShortLinkNotFound = errors.New("short link not found")
