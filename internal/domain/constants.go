package domain

// Field length limits shared by models, request validation, and migrations.
const (
	MaxDisplayLen        = 32  // truncation limit for log/secondary representations
	MaxTagLen            = 32  // tag name and slug
	MaxUnitLen           = 64  // ingredient measurement unit
	MaxIngredientNameLen = 128 // ingredient name
	MaxNameFieldLen      = 150 // username, first/last name
	MaxURLLen            = 250 // short link original URL
	MaxEmailLen          = 254 // RFC 5321 practical limit
	MaxRecipeNameLen     = 256 // recipe name
)

// Numeric bounds for recipe payloads.
//
// MaxIngredientAmount is a policy constant: the upstream product history
// carried 1440, 20000 and 32000 at different times; 32000 is the value in
// force for new deployments.
const (
	MinCookingTime      = 1
	MaxCookingTime      = 1440 // minutes in a day
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000
)

// ShortCodeLen is the length of a generated short-link code.
const ShortCodeLen = 10

// DefaultPageSize is the page size used when a client does not pass ?limit=.
const DefaultPageSize = 6
