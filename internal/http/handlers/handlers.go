// Handler wiring and shared request helpers.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Service dependencies are
// expressed as interfaces so transport tests can substitute fakes.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/services"
	"github.com/foodgram/backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecipeService defines the recipe composer and read model consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecipeService interface {
	// Create validates and persists a new recipe authored by authorID.
	Create(ctx context.Context, authorID uint, in services.RecipeInput) (*services.RecipeView, error)
	// Update replaces a recipe wholesale on behalf of actorID.
	Update(ctx context.Context, recipeID, actorID uint, in services.RecipeInput) (*services.RecipeView, error)
	// Delete removes a recipe on behalf of actorID.
	Delete(ctx context.Context, recipeID, actorID uint) error
	// Get returns the read model for one recipe as seen by viewerID.
	Get(ctx context.Context, recipeID, viewerID uint) (*services.RecipeView, error)
	// List returns a page of recipe read models plus the total match count.
	List(ctx context.Context, f repo.RecipeFilter, offset, limit int) ([]services.RecipeView, int64, error)
}

// BookmarkService defines the favorite / shopping-cart toggle operations.
type BookmarkService interface {
	// Add puts recipeID into userID's set of the given kind.
	Add(ctx context.Context, userID, recipeID uint, kind string) (*domain.Recipe, error)
	// Remove takes recipeID out of userID's set of the given kind.
	Remove(ctx context.Context, userID, recipeID uint, kind string) error
}

// SubscriptionService defines follow/unfollow operations on authors.
type SubscriptionService interface {
	// Subscribe makes userID follow authorID.
	Subscribe(ctx context.Context, userID, authorID uint) (*domain.User, error)
	// Unsubscribe makes userID stop following authorID.
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	// Subscriptions returns a page of followed authors plus the total count.
	Subscriptions(ctx context.Context, userID uint, offset, limit int) ([]domain.User, int64, error)
}

// ShoppingListService defines the shopping-list aggregation operation.
type ShoppingListService interface {
	// BuildReport aggregates the user's shopping cart into an ordered report.
	BuildReport(ctx context.Context, userID uint) (*services.Report, error)
}

// ShortLinkService defines short-link issuance and resolution.
type ShortLinkService interface {
	// GetOrCreate returns the short link for originalURL, creating it if needed.
	GetOrCreate(ctx context.Context, originalURL string) (*domain.ShortLink, error)
	// Resolve returns the original URL behind code.
	Resolve(ctx context.Context, code string) (string, error)
}

// UserService defines account management operations.
type UserService interface {
	// Register creates a new account.
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	// Get returns the user with the given id.
	Get(ctx context.Context, id uint) (*domain.User, error)
	// List returns a page of users plus the total count.
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	// SetAvatar stores the base64-encoded avatar image for userID.
	SetAvatar(ctx context.Context, userID uint, dataURI string) (*domain.User, error)
	// DeleteAvatar clears the avatar of userID.
	DeleteAvatar(ctx context.Context, userID uint) error
}

//
// Handler wiring
//

// Options carries the presentation settings handlers need beyond their
// service dependencies.
type Options struct {
	// PageSize is the default page size for list endpoints.
	PageSize int
	// PDFLinesPerPage bounds the shopping-list PDF page length.
	PDFLinesPerPage int
	// ShortLinkBase prefixes issued short-link codes.
	ShortLinkBase string
}

// Handlers groups the HTTP endpoints for recipes, reference data, bookmarks,
// subscriptions, users, the shopping list, and short links. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic. The raw DB handle serves the unpaginated reference-data
// reads and the ETag pre-check on author listings.
type Handlers struct {
	db          *gorm.DB
	recipeSvc   RecipeService
	bookmarkSvc BookmarkService
	subSvc      SubscriptionService
	shoppingSvc ShoppingListService
	linkSvc     ShortLinkService
	userSvc     UserService
	opts        Options
}

// New constructs and returns a Handlers instance bound to the given services.
func New(
	db *gorm.DB,
	recipeSvc RecipeService,
	bookmarkSvc BookmarkService,
	subSvc SubscriptionService,
	shoppingSvc ShoppingListService,
	linkSvc ShortLinkService,
	userSvc UserService,
	opts Options,
) *Handlers {
	if opts.PageSize < 1 {
		opts.PageSize = domain.DefaultPageSize
	}
	return &Handlers{
		db:          db,
		recipeSvc:   recipeSvc,
		bookmarkSvc: bookmarkSvc,
		subSvc:      subSvc,
		shoppingSvc: shoppingSvc,
		linkSvc:     linkSvc,
		userSvc:     userSvc,
		opts:        opts,
	}
}

// viewerID extracts the acting user id from Gin context (set by upstream
// middleware) with a fallback to the "X-User-ID" header. Zero means
// anonymous. It never touches c.Request if it's nil.
func viewerID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok && id != 0 {
			return id
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			if n := utils.AtoiDefault(h, 0); n > 0 {
				return uint(n)
			}
		}
	}
	return 0
}

// requireUser resolves the acting user id or aborts with 401. Returns
// (0, false) after aborting.
func requireUser(c *gin.Context) (uint, bool) {
	id := viewerID(c)
	if id == 0 {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return 0, false
	}
	return id, true
}

// idParam parses the numeric :id path parameter; 0 means malformed.
func idParam(c *gin.Context, name string) uint {
	n := utils.AtoiDefault(c.Param(name), 0)
	if n < 1 {
		return 0
	}
	return uint(n)
}

// pageParams reads page/limit query values with the configured default size.
func (h *Handlers) pageParams(c *gin.Context) utils.PageParams {
	return utils.ParsePage(c.Query("page"), c.Query("limit"), h.opts.PageSize)
}

// page assembles the standard paginated envelope for the current request
// path.
func (h *Handlers) page(c *gin.Context, p utils.PageParams, total int64, results any) utils.Page {
	return utils.NewPage(c.Request.URL.Path, p, total, results)
}

// failDetail writes a 400 with a `detail`-style body, the shape used for
// relationship conflicts (duplicate bookmark, self-subscribe) by the
// original API contract.
func failDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// failFromService translates the shared service error taxonomy into HTTP
// responses. Handler-specific mappings (e.g. relationship conflicts) are
// handled at the call site before falling back to this.
func failFromService(c *gin.Context, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		failValidation(c, ve.Field, ve.Message)
		return
	}
	var ie *services.IngredientNotFoundError
	if errors.As(err, &ie) {
		failValidation(c, ie.Field(), ie.Error())
		return
	}
	switch {
	case errors.Is(err, services.ErrRecipeNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrShortLinkNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrNotAuthor):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
