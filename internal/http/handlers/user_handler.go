// User HTTP handlers.
//
// This file exposes REST endpoints for accounts and subscriptions:
//   - POST   /users                      (registration)
//   - GET    /users                      (list, paginated)
//   - GET    /users/{id}                 (profile)
//   - GET    /users/me                   (own profile)
//   - PUT    /users/me/avatar            (set base64 avatar)
//   - DELETE /users/me/avatar            (clear avatar)
//   - POST   /users/{id}/subscribe       (follow)
//   - DELETE /users/{id}/subscribe       (unfollow)
//   - GET    /users/subscriptions        (followed authors with recipes)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/services"
	"github.com/foodgram/backend/internal/utils"
)

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// AvatarRequest is the JSON payload for setting an avatar.
type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

//
// Accounts
//

// RegisterUser creates a new account and returns its public profile.
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	for field, v := range map[string]string{
		"email":      req.Email,
		"username":   req.Username,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"password":   req.Password,
	} {
		if strings.TrimSpace(v) == "" {
			failValidation(c, field, "this field is required")
			return
		}
	}
	if len(req.Email) > domain.MaxEmailLen {
		failValidation(c, "email", "email is too long")
		return
	}
	if len(req.Username) > domain.MaxNameFieldLen {
		failValidation(c, "username", "username is too long")
		return
	}

	u, err := h.userSvc.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, presentUser(u, false))
}

// ListUsers returns a page of user profiles with `is_subscribed` resolved
// for the viewer.
func (h *Handlers) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	p := h.pageParams(c)

	users, total, err := h.userSvc.List(ctx, p.Offset(), p.Limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	subs := map[uint]bool{}
	if viewer := viewerID(c); viewer != 0 && len(users) > 0 {
		ids := make([]uint, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		if subs, err = repo.SubscribedSet(ctx, h.db, viewer, ids); err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
			return
		}
	}

	results := make([]UserResponse, len(users))
	for i := range users {
		results[i] = presentUser(&users[i], subs[users[i].ID])
	}
	ok(c, http.StatusOK, h.page(c, p, total, results))
}

// GetUser returns one public profile by id.
func (h *Handlers) GetUser(c *gin.Context) {
	id := idParam(c, "id")
	if id == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	subscribed := false
	if viewer := viewerID(c); viewer != 0 {
		if subscribed, err = repo.IsSubscribed(c.Request.Context(), h.db, viewer, id); err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
			return
		}
	}
	ok(c, http.StatusOK, presentUser(u, subscribed))
}

// Me returns the current user's own profile.
func (h *Handlers) Me(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), uid)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, presentUser(u, false))
}

// SetAvatar stores the base64 avatar of the current user and returns the
// served URL.
func (h *Handlers) SetAvatar(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	u, err := h.userSvc.SetAvatar(c.Request.Context(), uid, req.Avatar)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"avatar": mediaURL(u.Avatar)})
}

// DeleteAvatar clears the current user's avatar.
func (h *Handlers) DeleteAvatar(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	if err := h.userSvc.DeleteAvatar(c.Request.Context(), uid); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

//
// Subscriptions
//

// Subscribe makes the current user follow the author and returns the author
// with their recipes.
func (h *Handlers) Subscribe(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	authorID := idParam(c, "id")
	if authorID == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	author, err := h.subSvc.Subscribe(c.Request.Context(), uid, authorID)
	if err != nil {
		if errors.Is(err, services.ErrSelfSubscribe) || errors.Is(err, services.ErrAlreadySubscribed) {
			failDetail(c, http.StatusBadRequest, err.Error())
			return
		}
		failFromService(c, err)
		return
	}
	resp, err := h.authorWithRecipes(c, author, utils.AtoiDefault(c.Query("recipes_limit"), 0))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Unsubscribe makes the current user stop following the author.
func (h *Handlers) Unsubscribe(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	authorID := idParam(c, "id")
	if authorID == 0 {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	if err := h.subSvc.Unsubscribe(c.Request.Context(), uid, authorID); err != nil {
		if errors.Is(err, services.ErrSubscriptionNotFound) {
			failDetail(c, http.StatusBadRequest, err.Error())
			return
		}
		failFromService(c, err)
		return
	}
	noContent(c)
}

// ListSubscriptions returns a page of the authors the current user follows,
// each with their recipes (capped by `recipes_limit`) and total recipe
// count.
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	uid, okAuth := requireUser(c)
	if !okAuth {
		return
	}
	p := h.pageParams(c)
	recipesLimit := utils.AtoiDefault(c.Query("recipes_limit"), 0)

	authors, total, err := h.subSvc.Subscriptions(c.Request.Context(), uid, p.Offset(), p.Limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	results := make([]UserWithRecipesResponse, len(authors))
	for i := range authors {
		resp, err := h.authorWithRecipes(c, &authors[i], recipesLimit)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
			return
		}
		results[i] = resp
	}
	ok(c, http.StatusOK, h.page(c, p, total, results))
}

// authorWithRecipes builds the subscription read model: the author marked
// subscribed, their newest recipes capped at limit (0 = all), and the total
// recipe count.
func (h *Handlers) authorWithRecipes(c *gin.Context, author *domain.User, limit int) (UserWithRecipesResponse, error) {
	ctx := c.Request.Context()
	recipes, err := repo.ListAuthorRecipes(ctx, h.db, author.ID, limit)
	if err != nil {
		return UserWithRecipesResponse{}, err
	}
	count, _, err := repo.AuthorStats(ctx, h.db, author.ID)
	if err != nil {
		return UserWithRecipesResponse{}, err
	}
	return presentUserWithRecipes(author, true, recipes, count), nil
}
