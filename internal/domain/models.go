// Package domain defines the persistence models for users, recipes, reference
// data (tags, ingredients), and the membership relations between them. These
// types are mapped with GORM and form the core data layer of the recipe
// service.
package domain

import (
	"time"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Bookmark relation kinds stored in UserRecipeLink.Kind.
const (
	LinkFavorite     = "favorite"
	LinkShoppingCart = "shopping_cart"
)

// User is a registered account. Email and username are unique; the username
// obeys the `^[\w.@+-]+$` pattern enforced at the service layer.
//
// Avatar holds a media-relative file path and is empty when the user has no
// avatar. PasswordHash is a bcrypt hash and never serialized.
type User struct {
	ID           uint      `json:"id"         gorm:"primaryKey"`
	Email        string    `json:"email"      gorm:"type:varchar(254);uniqueIndex;not null"`
	Username     string    `json:"username"   gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(150);not null"`
	LastName     string    `json:"last_name"  gorm:"type:varchar(150);not null"`
	Role         string    `json:"-"          gorm:"type:varchar(16);not null;default:'user';check:role IN ('user','admin')"`
	Avatar       string    `json:"avatar"     gorm:"type:varchar(250)"`
	PasswordHash string    `json:"-"          gorm:"not null"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Tag is immutable, admin-curated reference data used to categorize recipes.
type Tag struct {
	ID   uint   `json:"id"   gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(32);uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"type:varchar(32);uniqueIndex;not null"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// Ingredient is immutable, admin-curated reference data. Name is unique;
// MeasurementUnit is a display attribute ("г", "мл", "шт." and so on).
type Ingredient struct {
	ID              uint   `json:"id"               gorm:"primaryKey"`
	Name            string `json:"name"             gorm:"type:varchar(128);uniqueIndex;not null"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(64);not null"`
}

// TableName returns the database table name for Ingredient.
func (Ingredient) TableName() string { return "ingredients" }

// Recipe is the central entity: a dish published by its author with a photo,
// free-text instructions, a non-empty tag set, and a quantified ingredient
// list held in RecipeIngredient rows.
//
// PubDate is set once on creation and drives the default descending ordering
// of recipe listings.
type Recipe struct {
	ID          uint      `json:"id"           gorm:"primaryKey"`
	Name        string    `json:"name"         gorm:"type:varchar(256);not null"`
	Text        string    `json:"text"         gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time BETWEEN 1 AND 1440"`
	Image       string    `json:"image"        gorm:"type:varchar(250);not null"`
	AuthorID    uint      `json:"-"            gorm:"not null;index"`
	PubDate     time.Time `json:"-"            gorm:"not null;index"`
	UpdatedAt   time.Time `json:"-"`

	Author      User               `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Tags        []Tag              `json:"-" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
}

// TableName returns the database table name for Recipe.
func (Recipe) TableName() string { return "recipes" }

// RecipeIngredient links a recipe to an ingredient with a quantity. The
// (recipe, ingredient) pair is unique; rows are owned by their recipe and
// replaced wholesale on every recipe update.
type RecipeIngredient struct {
	ID           uint `json:"-"      gorm:"primaryKey"`
	RecipeID     uint `json:"-"      gorm:"not null;uniqueIndex:ux_recipe_ingredient"`
	IngredientID uint `json:"id"     gorm:"not null;uniqueIndex:ux_recipe_ingredient"`
	Amount       int  `json:"amount" gorm:"not null;check:amount BETWEEN 1 AND 32000"`

	Recipe     Recipe     `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Ingredient Ingredient `json:"-" gorm:"foreignKey:IngredientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for RecipeIngredient.
func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// UserRecipeLink is the generic bookmark relation: one row states that a user
// holds a recipe in the set named by Kind (favorites or the shopping cart).
// The (user, recipe, kind) triple is unique; under concurrent duplicate adds
// the unique index is the final arbiter.
type UserRecipeLink struct {
	ID        uint      `json:"-"    gorm:"primaryKey"`
	UserID    uint      `json:"-"    gorm:"not null;index;uniqueIndex:ux_user_recipe_kind"`
	RecipeID  uint      `json:"-"    gorm:"not null;index;uniqueIndex:ux_user_recipe_kind"`
	Kind      string    `json:"-"    gorm:"type:varchar(16);not null;uniqueIndex:ux_user_recipe_kind;check:kind IN ('favorite','shopping_cart')"`
	CreatedAt time.Time `json:"-"`

	User   User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserRecipeLink.
func (UserRecipeLink) TableName() string { return "user_recipe_links" }

// Subscription states that User follows Author. The (user, author) pair is
// unique; user != author is enforced at write time by the service layer.
type Subscription struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"not null;index;uniqueIndex:ux_user_author"`
	AuthorID  uint      `json:"-" gorm:"not null;index;uniqueIndex:ux_user_author"`
	CreatedAt time.Time `json:"-"`

	User   User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }

// ShortLink maps an original URL to a deterministic short code
// (content-hash derived when absent).
type ShortLink struct {
	ID          uint   `json:"-"            gorm:"primaryKey"`
	OriginalURL string `json:"original_url" gorm:"type:varchar(250);uniqueIndex;not null"`
	ShortCode   string `json:"short_code"   gorm:"type:varchar(10);uniqueIndex;not null"`
}

// TableName returns the database table name for ShortLink.
func (ShortLink) TableName() string { return "short_links" }
