package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/config"
	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/storage"
)

func testConfig() config.Config {
	return config.Config{
		APIBasePath:     "/api",
		PageSize:        6,
		PDFLinesPerPage: 30,
		ShortLinkBase:   "https://fg.example/s/",
		RateRPS:         10000,
		RateBurst:       10000,
		Security:        config.SecurityConfig{},
		OTEL:            config.OTELConfig{ServiceName: "test"},
	}
}

// newTestRouter wires a full engine over a throwaway database and media dir.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("router_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	images, err := storage.NewStore(filepath.Join(t.TempDir(), "media"))
	if err != nil {
		t.Fatalf("media store: %v", err)
	}

	r := gin.New()
	RegisterRoutes(r, db, images, images.Root(), testConfig())
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, userID uint, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func registerUser(t *testing.T, r *gin.Engine, username string) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/users", 0, map[string]string{
		"email":      username + "@example.org",
		"username":   username,
		"first_name": "First",
		"last_name":  "Last",
		"password":   "pass-" + username,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		ID uint `json:"id"`
	}
	decode(t, w, &resp)
	return resp.ID
}

var testImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("img"))

func TestAPI_RecipeToShoppingListFlow(t *testing.T) {
	r, db := newTestRouter(t)

	// Reference data is admin-seeded, not part of the public API.
	tag := &domain.Tag{Name: "Dinner", Slug: "dinner"}
	flour := &domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	if err := db.Create(flour).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}

	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	// Alice publishes a recipe.
	w := doJSON(t, r, http.MethodPost, "/api/recipes", alice, map[string]any{
		"name":         "Bread",
		"text":         "bake it",
		"cooking_time": 90,
		"image":        testImage,
		"tags":         []uint{tag.ID},
		"ingredients":  []map[string]any{{"id": flour.ID, "amount": 100}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create recipe: %d %s", w.Code, w.Body.String())
	}
	var recipe struct {
		ID          uint `json:"id"`
		Tags        []struct{ Slug string }
		Ingredients []struct {
			Name   string `json:"name"`
			Amount int    `json:"amount"`
		}
		Author struct {
			ID uint `json:"id"`
		}
	}
	decode(t, w, &recipe)
	if recipe.Author.ID != alice || len(recipe.Ingredients) != 1 || recipe.Ingredients[0].Amount != 100 {
		t.Fatalf("recipe read model: %s", w.Body.String())
	}

	// Anonymous create is rejected.
	if w := doJSON(t, r, http.MethodPost, "/api/recipes", 0, map[string]any{}); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: %d", w.Code)
	}

	// Bob puts the recipe into his cart; the duplicate conflicts.
	path := fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe.ID)
	if w := doJSON(t, r, http.MethodPost, path, bob, nil); w.Code != http.StatusCreated {
		t.Fatalf("cart add: %d %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, path, bob, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate cart add: %d", w.Code)
	}

	// Bob downloads the aggregated PDF.
	w = doJSON(t, r, http.MethodGet, "/api/recipes/download_shopping_cart", bob, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		t.Fatalf("content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}

	// An empty cart is an explicit 400, not an empty document.
	if w := doJSON(t, r, http.MethodGet, "/api/recipes/download_shopping_cart", alice, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart download: %d", w.Code)
	}

	// Bob favorites and filters by it.
	if w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID), bob, nil); w.Code != http.StatusCreated {
		t.Fatalf("favorite: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/recipes?is_favorited=1", bob, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("favorited list: %d", w.Code)
	}
	var page struct {
		Count   int64 `json:"count"`
		Results []struct {
			ID          uint `json:"id"`
			IsFavorited bool `json:"is_favorited"`
		} `json:"results"`
	}
	decode(t, w, &page)
	if page.Count != 1 || len(page.Results) != 1 || !page.Results[0].IsFavorited {
		t.Fatalf("favorited page: %s", w.Body.String())
	}
}

func TestAPI_ShortLinkRoundTrip(t *testing.T) {
	r, db := newTestRouter(t)
	tag := &domain.Tag{Name: "Dinner", Slug: "dinner"}
	flour := &domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	if err := db.Create(flour).Error; err != nil {
		t.Fatalf("seed ingredient: %v", err)
	}
	alice := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/recipes", alice, map[string]any{
		"name":         "Bread",
		"text":         "bake",
		"cooking_time": 60,
		"image":        testImage,
		"tags":         []uint{tag.ID},
		"ingredients":  []map[string]any{{"id": flour.ID, "amount": 10}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create recipe: %d %s", w.Code, w.Body.String())
	}
	var recipe struct {
		ID uint `json:"id"`
	}
	decode(t, w, &recipe)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", recipe.ID), 0, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get-link: %d %s", w.Code, w.Body.String())
	}
	var link struct {
		ShortLink string `json:"short-link"`
	}
	decode(t, w, &link)
	if !strings.HasPrefix(link.ShortLink, "https://fg.example/s/") {
		t.Fatalf("short link %q", link.ShortLink)
	}
	code := strings.TrimPrefix(link.ShortLink, "https://fg.example/s/")

	w = doJSON(t, r, http.MethodGet, "/s/"+code, 0, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("redirect: %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != fmt.Sprintf("/recipes/%d", recipe.ID) {
		t.Fatalf("redirect target %q", loc)
	}

	// Unknown code is a 404.
	if w := doJSON(t, r, http.MethodGet, "/s/0000000000", 0, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown code: %d", w.Code)
	}
}

func TestAPI_SubscriptionFlowAndHealth(t *testing.T) {
	r, db := newTestRouter(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")
	_ = db

	// Self-subscribe rejected with a detail message.
	if w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", bob), bob, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("self-subscribe: %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", alice), bob, nil); w.Code != http.StatusCreated {
		t.Fatalf("subscribe: %d", w.Code)
	}
	w := doJSON(t, r, http.MethodGet, "/api/users/subscriptions", bob, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("subscriptions: %d %s", w.Code, w.Body.String())
	}
	var page struct {
		Count   int64 `json:"count"`
		Results []struct {
			ID           uint `json:"id"`
			IsSubscribed bool `json:"is_subscribed"`
			RecipesCount int64 `json:"recipes_count"`
		} `json:"results"`
	}
	decode(t, w, &page)
	if page.Count != 1 || len(page.Results) != 1 || page.Results[0].ID != alice || !page.Results[0].IsSubscribed {
		t.Fatalf("subscriptions page: %s", w.Body.String())
	}

	if w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d/subscribe", alice), bob, nil); w.Code != http.StatusNoContent {
		t.Fatalf("unsubscribe: %d", w.Code)
	}

	// Health and 404 fallback.
	if w := doJSON(t, r, http.MethodGet, "/health", 0, nil); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/nope", 0, nil); w.Code != http.StatusNotFound {
		t.Fatalf("fallback: %d", w.Code)
	}
}
