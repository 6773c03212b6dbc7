package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"handmadehub/internal/handlers"
	"handmadehub/internal/middleware"
	"handmadehub/internal/models"
	"handmadehub/internal/repositories"
	"handmadehub/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testJWTSecret = "test_jwt_secret"
	adminEmail    = "admin@handmadehub.test"
	adminPassword = "admin-secret"
)

// setupApp builds the full route tree over an in-memory SQLite database and
// seeds one admin account. Each test gets its own database, keyed by the
// test name.
func setupApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.Blog{},
		&models.State{},
		&models.Contact{},
	)
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	blogRepo := repositories.NewGORMBlogRepository(db)
	stateRepo := repositories.NewGORMStateRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)

	authService := services.NewAuthService(userRepo, testJWTSecret)
	productService := services.NewProductService(productRepo, t.TempDir())
	orderService := services.NewOrderService(orderRepo, nil)
	adminService := services.NewAdminService(userRepo, productRepo, orderRepo)
	contentService := services.NewContentService(blogRepo, stateRepo, contactRepo)

	adminID := uuid.New().String()
	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(&models.User{
		ID:         adminID,
		Name:       "Site Admin",
		Email:      adminEmail,
		Password:   string(hashed),
		Role:       models.RoleAdmin,
		IsApproved: true,
		IsVerified: true,
	}))

	app := fiber.New()
	requireAuth := middleware.AuthRequired(authService)
	api := app.Group("/api")

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewUserHandler(authService).RegisterRoutes(api, requireAuth)
	handlers.NewAdminHandler(authService, adminService).RegisterRoutes(api, requireAuth)
	handlers.NewProductHandler(productService).RegisterRoutes(api, requireAuth)
	handlers.NewArtisanHandler(productService, orderService).RegisterRoutes(api, requireAuth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, requireAuth)
	handlers.NewContentHandler(contentService).RegisterRoutes(api, requireAuth)

	return app, adminID
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func loginAdmin(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/admin/login", "", fiber.Map{
		"email":    adminEmail,
		"password": adminPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestCustomerRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])

	// Duplicate registration is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Alice Again",
		"email":    "ALICE@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "duplicate_account", decodeBody(t, resp)["code"])

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token := decodeBody(t, resp)["token"].(string)

	resp = doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody(t, resp)["user"].(map[string]interface{})
	assert.Equal(t, "Alice", me["name"])

	// Wrong password answers the same way as an unknown email.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", decodeBody(t, resp)["code"])
}

func TestArtisanApprovalFlow(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/artisan/register", "", fiber.Map{
		"email":    "maker@example.com",
		"password": "maker-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodeBody(t, resp)["user"].(map[string]interface{})
	artisanID := registered["id"].(string)
	require.NotEmpty(t, artisanID)

	// Unapproved artisans cannot log in yet.
	login := fiber.Map{"email": "maker@example.com", "password": "maker-pass"}
	resp = doJSON(t, app, http.MethodPost, "/api/auth/artisan/login", "", login)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "not_approved", decodeBody(t, resp)["code"])

	adminToken := loginAdmin(t, app)
	resp = doJSON(t, app, http.MethodPut, "/api/admin/artisan/"+artisanID+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Approval takes effect immediately, no re-registration needed.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/artisan/login", "", login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	artisanToken := decodeBody(t, resp)["token"].(string)

	resp = doJSON(t, app, http.MethodGet, "/api/artisan/products", artisanToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The artisan token does not open the admin console.
	resp = doJSON(t, app, http.MethodGet, "/api/admin/summary", artisanToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "forbidden", decodeBody(t, resp)["code"])
}

func TestLoginLaneIsolation(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Bob",
		"email":    "bob@example.com",
		"password": "bob-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Correct customer credentials are still refused by the other lanes.
	creds := fiber.Map{"email": "bob@example.com", "password": "bob-password"}
	resp = doJSON(t, app, http.MethodPost, "/api/auth/artisan/login", "", creds)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "wrong_account_type", decodeBody(t, resp)["code"])

	resp = doJSON(t, app, http.MethodPost, "/api/admin/login", "", creds)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "wrong_account_type", decodeBody(t, resp)["code"])

	// The admin lane answers 401 on bad credentials.
	resp = doJSON(t, app, http.MethodPost, "/api/admin/login", "", fiber.Map{
		"email":    adminEmail,
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid_credentials", decodeBody(t, resp)["code"])
}

func TestOrderLifecycle(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/orders", "", fiber.Map{
		"email": "C@D.com",
		"items": []fiber.Map{
			{"productId": "P1", "title": "Mug", "qty": 2, "price": 100},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	orderID := created["orderId"].(string)
	assert.Regexp(t, `^ORD-[0-9A-Z]{8}$`, orderID)

	// Lookup by email, case-folded at creation time.
	resp = doJSON(t, app, http.MethodGet, "/api/orders/lookup?query=c@d.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeBody(t, resp)
	assert.Equal(t, orderID, view["id"])
	assert.Equal(t, float64(0), view["statusIndex"])
	assert.Equal(t, float64(200), view["subtotal"])
	tracking := view["tracking"].([]interface{})
	require.Len(t, tracking, 1)
	assert.Equal(t, "Order Placed", tracking[0].(map[string]interface{})["label"])

	// Lookup by order id is case-insensitive.
	resp = doJSON(t, app, http.MethodGet, "/api/orders/lookup?query="+strings.ToLower(orderID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/orders/lookup?query=ORD-NOSUCHID", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/orders/lookup", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing_query", decodeBody(t, resp)["code"])

	// Status changes need a staff token.
	advance := fiber.Map{"status": "Processing"}
	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+orderID+"/status", "", advance)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	adminToken := loginAdmin(t, app)
	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+orderID+"/status", adminToken, advance)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Skipping a stage is refused.
	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+orderID+"/status", adminToken, fiber.Map{
		"status": "Delivered",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "invalid_transition", decodeBody(t, resp)["code"])

	resp = doJSON(t, app, http.MethodGet, "/api/orders/lookup?query="+orderID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decodeBody(t, resp)
	assert.Equal(t, float64(1), view["statusIndex"])
	assert.Len(t, view["tracking"].([]interface{}), 2)
}

func TestPasswordNeverSerialized(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Carol",
		"email":    "carol@example.com",
		"password": "secret-word",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	raw := readBody(t, resp)
	assert.NotContains(t, strings.ToLower(raw), "password")
	assert.NotContains(t, raw, "secret-word")

	resp = doJSON(t, app, http.MethodPost, "/api/auth/artisan/register", "", fiber.Map{
		"email":    "potter@example.com",
		"password": "clay-and-wheel",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	adminToken := loginAdmin(t, app)
	resp = doJSON(t, app, http.MethodGet, "/api/admin/artisans", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw = readBody(t, resp)
	assert.NotContains(t, strings.ToLower(raw), "password")
	assert.NotContains(t, raw, "$2a$")
}

func TestChangePassword(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Dave",
		"email":    "dave@example.com",
		"password": "first-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := decodeBody(t, resp)["token"].(string)

	resp = doJSON(t, app, http.MethodPost, "/api/users/change-password", token, fiber.Map{
		"currentPassword": "wrong-guess",
		"newPassword":     "second-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "incorrect_password", decodeBody(t, resp)["code"])

	resp = doJSON(t, app, http.MethodPost, "/api/users/change-password", token, fiber.Map{
		"currentPassword": "first-password",
		"newPassword":     "second-password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "dave@example.com",
		"password": "first-password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "dave@example.com",
		"password": "second-password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestContactInbox(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/contact", "", fiber.Map{
		"name":    "Visitor",
		"email":   "visitor@example.com",
		"message": "Do you ship to Alaska?",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	submitted := decodeBody(t, resp)["data"].(map[string]interface{})
	contactID := submitted["id"].(string)
	require.NotEmpty(t, contactID)

	// The inbox itself is admin only.
	resp = doJSON(t, app, http.MethodGet, "/api/contact", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	adminToken := loginAdmin(t, app)
	resp = doJSON(t, app, http.MethodGet, "/api/contact", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inbox []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inbox))
	resp.Body.Close()
	require.Len(t, inbox, 1)
	assert.Equal(t, false, inbox[0]["handled"])

	resp = doJSON(t, app, http.MethodPatch, "/api/contact/"+contactID+"/handled", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, true, updated["handled"])
}

func TestAdminCannotDeleteAdmin(t *testing.T) {
	app, adminID := setupApp(t)

	adminToken := loginAdmin(t, app)
	resp := doJSON(t, app, http.MethodDelete, "/api/admin/artisan/"+adminID+"/delete", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "cannot_delete_admin", decodeBody(t, resp)["code"])
}

func TestArtisanProductOwnership(t *testing.T) {
	app, _ := setupApp(t)
	adminToken := loginAdmin(t, app)

	// Two approved artisans.
	tokens := make(map[string]string)
	for _, email := range []string{"a1@example.com", "a2@example.com"} {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/artisan/register", "", fiber.Map{
			"email":    email,
			"password": "artisan-pass",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		id := decodeBody(t, resp)["user"].(map[string]interface{})["id"].(string)

		resp = doJSON(t, app, http.MethodPut, "/api/admin/artisan/"+id+"/approve", adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, app, http.MethodPost, "/api/auth/artisan/login", "", fiber.Map{
			"email":    email,
			"password": "artisan-pass",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		tokens[email] = decodeBody(t, resp)["token"].(string)
	}

	resp := doJSON(t, app, http.MethodPost, "/api/artisan/products", tokens["a1@example.com"], fiber.Map{
		"name":     "Handwoven Basket",
		"price":    45.0,
		"category": "home",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decodeBody(t, resp)["product"].(map[string]interface{})
	productID := product["id"].(string)

	// Anyone can read it.
	resp = doJSON(t, app, http.MethodGet, "/api/products/"+productID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Another artisan cannot delete it; the owner and admins can act on it.
	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+productID, tokens["a2@example.com"], nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/products/"+productID+"/feature", adminToken, fiber.Map{
		"featured": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/products/featured", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var featured []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&featured))
	resp.Body.Close()
	require.Len(t, featured, 1)
	assert.Equal(t, productID, featured[0]["id"])

	resp = doJSON(t, app, http.MethodDelete, "/api/products/"+productID, tokens["a1@example.com"], nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+productID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
