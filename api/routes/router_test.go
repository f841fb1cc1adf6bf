package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdemart/verdemart-backend/internal/auth"
	cartpkg "github.com/verdemart/verdemart-backend/internal/cart"
	"github.com/verdemart/verdemart-backend/internal/catalog"
	checkoutsvc "github.com/verdemart/verdemart-backend/internal/checkout"
	"github.com/verdemart/verdemart-backend/internal/orders"
	"github.com/verdemart/verdemart-backend/internal/users"
	pkgauth "github.com/verdemart/verdemart-backend/pkg/auth"
	"github.com/verdemart/verdemart-backend/pkg/config"
	"github.com/verdemart/verdemart-backend/pkg/db/models"
	"github.com/verdemart/verdemart-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubSessionChecker struct{ known map[string]bool }

func (s stubSessionChecker) HasSession(_ context.Context, accessID string) (bool, error) {
	return s.known[accessID], nil
}

type stubCatalogService struct {
	products map[uuid.UUID]*models.Product
}

func (s stubCatalogService) ListProducts(context.Context) ([]catalog.ProductResponse, error) {
	out := make([]catalog.ProductResponse, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, catalog.ToProductResponse(p))
	}
	return out, nil
}

func (s stubCatalogService) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("product %s missing", id)
}

func (s stubCatalogService) CreateProduct(_ context.Context, req catalog.CreateProductRequest) (*catalog.ProductResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s stubCatalogService) UpdateProduct(_ context.Context, req catalog.UpdateProductRequest) (*catalog.ProductResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreateSession(_ context.Context, lines []cartpkg.Line) (*checkoutsvc.SessionResponse, error) {
	return &checkoutsvc.SessionResponse{SessionID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) RecordFromSession(_ context.Context, sessionID string) (*orders.OrderResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubOrdersService) Create(_ context.Context, req orders.CreateOrderRequest) (*orders.OrderResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubOrdersService) GetOrder(_ context.Context, id uuid.UUID) (*orders.OrderResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubAuthService struct{}

func (stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "token", RefreshToken: "refresh", User: &users.UserDTO{Email: req.Email}}, nil
}

func (stubAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubRegisterService struct{}

func (stubRegisterService) Register(_ context.Context, req auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{User: &users.UserDTO{Email: req.Email}}, nil
}

type memorySlotStore struct {
	mu    sync.Mutex
	slots map[string]string
}

func (m *memorySlotStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = fmt.Sprint(value)
	return nil
}

func (m *memorySlotStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.slots[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("slot %s missing", key)
}

func (m *memorySlotStore) CartSlotKey(owner string) string {
	return "cart:" + owner
}

func testRouterConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "verdemart",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, sessions stubSessionChecker, catalogSvc catalog.Service) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	slots := &memorySlotStore{slots: map[string]string{}}
	bridge, err := cartpkg.NewBridge(slots, slots, time.Hour, logg)
	require.NoError(t, err)
	carts, err := cartpkg.NewManager(bridge)
	require.NoError(t, err)

	return NewRouter(Deps{
		Config:     cfg,
		Logger:     logg,
		DB:         stubPinger{},
		Cache:      stubPinger{},
		RateLimits: nil,
		Sessions:   sessions,
		Carts:      carts,
		Catalog:    catalogSvc,
		Checkout:   stubCheckoutService{},
		Orders:     stubOrdersService{},
		Auth:       stubAuthService{},
		Register:   stubRegisterService{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t, testRouterConfig(), stubSessionChecker{}, stubCatalogService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alive"`)
}

func TestRouterListProductsIsPublic(t *testing.T) {
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Aguacate Hass",
		PriceCents: 2800,
		Currency:   "MXN",
	}
	router := newTestRouter(t, testRouterConfig(), stubSessionChecker{}, stubCatalogService{
		products: map[uuid.UUID]*models.Product{product.ID: product},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aguacate Hass")
}

func TestRouterCartRequiresAuth(t *testing.T) {
	router := newTestRouter(t, testRouterConfig(), stubSessionChecker{}, stubCatalogService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterCartFlow(t *testing.T) {
	cfg := testRouterConfig()
	userID := uuid.New()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Frijol Negro",
		PriceCents: 4500,
		Currency:   "MXN",
	}
	router := newTestRouter(t, cfg, stubSessionChecker{known: map[string]bool{"jti-1": true}}, stubCatalogService{
		products: map[uuid.UUID]*models.Product{product.ID: product},
	})

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Email:  "comprador@example.com",
		JTI:    "jti-1",
	})
	require.NoError(t, err)

	authed := func(method, target string, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := authed(http.MethodPost, "/api/cart/items", fmt.Sprintf(`{"product_id":%q,"qty":2}`, product.ID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = authed(http.MethodPost, "/api/cart/items/"+product.ID.String()+"/increment", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = authed(http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Data struct {
			Owner string `json:"owner"`
			Items []struct {
				ProductID      string `json:"product_id"`
				Qty            int    `json:"qty"`
				UnitPriceCents int    `json:"unit_price_cents"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, userID.String(), payload.Data.Owner)
	require.Len(t, payload.Data.Items, 1)
	assert.Equal(t, product.ID.String(), payload.Data.Items[0].ProductID)
	assert.Equal(t, 3, payload.Data.Items[0].Qty)
	assert.Equal(t, 4500, payload.Data.Items[0].UnitPriceCents)

	rec = authed(http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}

func TestRouterCheckoutSession(t *testing.T) {
	router := newTestRouter(t, testRouterConfig(), stubSessionChecker{}, stubCatalogService{})

	body := `{"items":[{"product_id":"6f1b12de-19a4-44a5-90cc-2eb50ab024e2","qty":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout_sessions/cart", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cs_test_123")
}

func TestRouterRegisterAndLogin(t *testing.T) {
	router := newTestRouter(t, testRouterConfig(), stubSessionChecker{}, stubCatalogService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"first_name":"Mariana","last_name":"Lopez","email":"m@example.com","phone":"555","company":"VM","password":"secret123"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"m@example.com","password":"secret123"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token"`)
}

func TestRouterReplaceCartCollapsesDuplicates(t *testing.T) {
	cfg := testRouterConfig()
	userID := uuid.New()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Tortillas de Maiz",
		PriceCents: 2200,
		Currency:   "MXN",
	}
	router := newTestRouter(t, cfg, stubSessionChecker{known: map[string]bool{"jti-2": true}}, stubCatalogService{
		products: map[uuid.UUID]*models.Product{product.ID: product},
	})

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		JTI:    "jti-2",
	})
	require.NoError(t, err)

	body := fmt.Sprintf(`{"items":[
		{"product_id":%q,"qty":2},
		{"product_id":%q,"qty":3}
	]}`, product.ID, product.ID)
	req := httptest.NewRequest(http.MethodPut, "/api/cart", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Data struct {
			Items []struct {
				ProductID string `json:"product_id"`
				Qty       int    `json:"qty"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Data.Items, 1)
	assert.Equal(t, product.ID.String(), payload.Data.Items[0].ProductID)
	assert.Equal(t, 5, payload.Data.Items[0].Qty)
}
