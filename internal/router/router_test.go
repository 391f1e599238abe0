package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/provider"
	"github.com/indra-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const testAdminEmail = "owner@indra.lk"

type routerTestEnv struct {
	db        *gorm.DB
	container *provider.Container
	engine    *gin.Engine
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func newRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if _, err := models.SeedCategories(db, models.DefaultCategories()); err != nil {
		t.Fatalf("seed categories failed: %v", err)
	}

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Decode(v)
	if err != nil {
		t.Fatalf("decode config failed: %v", err)
	}
	cfg.Server.Mode = "debug"
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.Admin.Emails = []string{testAdminEmail}
	cfg.Cart.Storage = "memory"
	cfg.Upload.Dir = t.TempDir()

	c := provider.NewContainerWithDB(cfg, db)
	return &routerTestEnv{db: db, container: c, engine: SetupRouter(cfg, c)}
}

func (e *routerTestEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *routerTestEnv) createProduct(t *testing.T, slug string, price int64) *models.Product {
	t.Helper()
	var category models.Category
	if err := e.db.Where("slug = ?", "dresses").First(&category).Error; err != nil {
		t.Fatalf("load category failed: %v", err)
	}
	product := &models.Product{
		CategoryID:  category.ID,
		Name:        slug,
		Slug:        slug,
		PriceAmount: models.NewMoneyFromInt(price),
		IsActive:    true,
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *routerTestEnv) bearer(t *testing.T, email string) map[string]string {
	t.Helper()
	session, err := e.container.AuthService.Register(service.RegisterInput{Email: email, Password: "password-123"})
	if err != nil {
		t.Fatalf("register %s failed: %v", email, err)
	}
	return map[string]string{"Authorization": "Bearer " + session.Token}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v (%s)", err, w.Body.String())
	}
	return resp
}

func TestPublicCatalogRoutes(t *testing.T) {
	env := newRouterTestEnv(t)
	product := env.createProduct(t, "linen-dress", 4500)

	w := env.do(t, http.MethodGet, "/api/v1/public/categories", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("categories want 200 got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/public/products/%d", product.ID), nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("product want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"price":"4500.00"`) {
		t.Fatalf("product price should be serialized with 2 decimals, got %s", w.Body.String())
	}

	cases := []struct {
		path string
		code int
	}{
		{path: "/api/v1/public/products/abc", code: http.StatusBadRequest},
		{path: "/api/v1/public/products/9999", code: http.StatusNotFound},
		{path: "/api/v1/public/categories/unknown/products", code: http.StatusNotFound},
		{path: "/api/v1/public/categories/dresses/products", code: http.StatusOK},
		{path: "/api/v1/public/categories/new-arrivals/products", code: http.StatusOK},
		{path: "/api/v1/public/products/featured", code: http.StatusOK},
		{path: "/api/v1/public/products?category=dresses&page=1&page_size=10", code: http.StatusOK},
	}
	for _, tc := range cases {
		w := env.do(t, http.MethodGet, tc.path, nil, nil)
		if w.Code != tc.code {
			t.Fatalf("%s want %d got %d (%s)", tc.path, tc.code, w.Code, w.Body.String())
		}
		resp := decodeEnvelope(t, w)
		if tc.code != http.StatusOK && resp.StatusCode != tc.code {
			t.Fatalf("%s status_code want %d got %d", tc.path, tc.code, resp.StatusCode)
		}
	}
}

func TestCartRoutesIssueTokenAndMutate(t *testing.T) {
	env := newRouterTestEnv(t)
	dress := env.createProduct(t, "wrap-dress", 1000)
	scarf := env.createProduct(t, "silk-scarf", 500)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": dress.ID}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add item want 200 got %d (%s)", w.Code, w.Body.String())
	}
	token := w.Header().Get("X-Cart-Token")
	if token == "" {
		t.Fatalf("cart token should be issued")
	}
	headers := map[string]string{"X-Cart-Token": token}

	env.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": dress.ID}, headers)
	w = env.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": scarf.ID}, headers)
	if got := w.Header().Get("X-Cart-Token"); got != token {
		t.Fatalf("token should be stable")
	}

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cart/items/%d/decrement", scarf.ID), nil, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("decrement want 200 got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/cart", nil, headers)
	var summary struct {
		Count    int    `json:"count"`
		Subtotal string `json:"subtotal"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &summary); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if summary.Count != 3 {
		t.Fatalf("cart count want 3 got %d", summary.Count)
	}
	if summary.Subtotal != "2500" {
		t.Fatalf("cart subtotal want 2500 got %s", summary.Subtotal)
	}

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/cart/items/%d/increment", 424242), nil, headers)
	if w.Code != http.StatusNotFound {
		t.Fatalf("increment unknown item want 404 got %d", w.Code)
	}
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", scarf.ID), nil, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("remove item want 200 got %d", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/cart", nil, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("clear cart want 200 got %d", w.Code)
	}
}

func TestCreateOrderRoute(t *testing.T) {
	env := newRouterTestEnv(t)
	dress := env.createProduct(t, "evening-gown", 1000)
	scarf := env.createProduct(t, "cotton-scarf", 500)

	w := env.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customerEmail": "nadee@example.com",
		"address":       "12 Galle Road",
		"city":          "Colombo",
		"items":         []gin.H{},
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty order want 400 got %d", w.Code)
	}
	var count int64
	env.db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("empty order should persist nothing, got %d orders", count)
	}

	w = env.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customerEmail": "nadee@example.com",
		"address":       "12 Galle Road",
		"city":          "Colombo",
		"items": []gin.H{
			{"id": dress.ID, "name": dress.Name, "price": 1000, "qty": 2},
			{"id": scarf.ID, "name": scarf.Name, "price": 500, "qty": 1},
		},
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order want 201 got %d (%s)", w.Code, w.Body.String())
	}
	var order struct {
		OrderNumber string `json:"orderNumber"`
		Status      string `json:"status"`
		Subtotal    string `json:"subtotal"`
		Shipping    string `json:"shipping"`
		Total       string `json:"total"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &order); err != nil {
		t.Fatalf("unmarshal order failed: %v", err)
	}
	if order.Subtotal != "2500.00" || order.Shipping != "0.00" || order.Total != "2500.00" {
		t.Fatalf("unexpected totals %+v", order)
	}
	if order.Status != "PROCESSING" {
		t.Fatalf("status want PROCESSING got %s", order.Status)
	}

	w = env.do(t, http.MethodGet, "/api/v1/public/orders/track/"+order.OrderNumber+"?email=Nadee@Example.com", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("track order want 200 got %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/v1/public/orders/track/"+order.OrderNumber+"?email=other@example.com", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("track with wrong email want 404 got %d", w.Code)
	}
}

func TestAccountRoutesRequireSession(t *testing.T) {
	env := newRouterTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me without session want 401 got %d", w.Code)
	}

	headers := env.bearer(t, "kasuni@example.com")
	w = env.do(t, http.MethodGet, "/api/v1/me", nil, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("me with session want 200 got %d (%s)", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodGet, "/api/v1/account/orders", nil, headers)
	if w.Code != http.StatusOK {
		t.Fatalf("account orders want 200 got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/me", nil, map[string]string{"Authorization": "Bearer not-a-token"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token want 401 got %d", w.Code)
	}
}

func TestAuthRoutes(t *testing.T) {
	env := newRouterTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "ruwan@example.com", "password": "short"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password want 400 got %d", w.Code)
	}
	if msg := decodeEnvelope(t, w).Msg; !strings.Contains(msg, "8") {
		t.Fatalf("password policy message should mention minimum length, got %q", msg)
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "ruwan@example.com", "password": "password-123"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register want 201 got %d (%s)", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "Ruwan@Example.com", "password": "password-123"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register want 409 got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ruwan@example.com", "password": "wrong-password"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login want 401 got %d", w.Code)
	}
	w = env.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ruwan@example.com", "password": "password-123"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login want 200 got %d", w.Code)
	}
}

func TestAdminRoutesRequireAllowList(t *testing.T) {
	env := newRouterTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("admin without session want 401 got %d", w.Code)
	}

	customer := env.bearer(t, "customer@example.com")
	w = env.do(t, http.MethodGet, "/api/v1/admin/orders", nil, customer)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("non-admin want 401 got %d", w.Code)
	}

	admin := env.bearer(t, testAdminEmail)
	for _, path := range []string{
		"/api/v1/admin/dashboard",
		"/api/v1/admin/orders",
		"/api/v1/admin/products",
		"/api/v1/admin/authz/me",
	} {
		w = env.do(t, http.MethodGet, path, nil, admin)
		if w.Code != http.StatusOK {
			t.Fatalf("%s want 200 got %d (%s)", path, w.Code, w.Body.String())
		}
	}
}

func TestAdminOrderStatusRoutes(t *testing.T) {
	env := newRouterTestEnv(t)
	product := env.createProduct(t, "office-blazer", 3000)
	admin := env.bearer(t, testAdminEmail)

	order, err := env.container.OrderService.CreateOrder(t.Context(), service.CreateOrderInput{
		CustomerEmail: "nadee@example.com",
		Address:       "12 Galle Road",
		City:          "Colombo",
		Items: []service.CreateOrderItem{
			{ProductID: &product.ID, Name: product.Name, Price: product.PriceAmount, Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	w := env.do(t, http.MethodPut, "/api/v1/admin/orders", gin.H{"id": order.ID, "status": "SHIPPED", "trackingNumber": "LK123"}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("ship order want 200 got %d (%s)", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d", order.ID), gin.H{"status": "PROCESSING"}, admin)
	if w.Code != http.StatusConflict {
		t.Fatalf("illegal transition want 409 got %d", w.Code)
	}
	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/orders/%d", order.ID), gin.H{"status": "bogus"}, admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status want 400 got %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/v1/admin/orders/999999", nil, admin)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown order want 404 got %d", w.Code)
	}
}

func TestAdminOrderTrackingFieldsOmittedOrCleared(t *testing.T) {
	env := newRouterTestEnv(t)
	product := env.createProduct(t, "pleated-skirt", 2000)
	admin := env.bearer(t, testAdminEmail)

	order, err := env.container.OrderService.CreateOrder(t.Context(), service.CreateOrderInput{
		CustomerEmail: "nadee@example.com",
		Address:       "12 Galle Road",
		City:          "Colombo",
		Items: []service.CreateOrderItem{
			{ProductID: &product.ID, Name: product.Name, Price: product.PriceAmount, Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	type tracking struct {
		Status         string  `json:"status"`
		TrackingNumber *string `json:"trackingNumber"`
		TrackingURL    *string `json:"trackingUrl"`
	}
	put := func(body gin.H) tracking {
		t.Helper()
		w := env.do(t, http.MethodPut, "/api/v1/admin/orders", body, admin)
		if w.Code != http.StatusOK {
			t.Fatalf("update order want 200 got %d (%s)", w.Code, w.Body.String())
		}
		var got tracking
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &got); err != nil {
			t.Fatalf("unmarshal order failed: %v", err)
		}
		return got
	}

	got := put(gin.H{"id": order.ID, "status": "SHIPPED", "trackingNumber": " LK123 ", "trackingUrl": "https://track.example/LK123"})
	if got.TrackingNumber == nil || *got.TrackingNumber != "LK123" {
		t.Fatalf("tracking number should be trimmed and stored, got %v", got.TrackingNumber)
	}

	got = put(gin.H{"id": order.ID, "status": "SHIPPED"})
	if got.TrackingNumber == nil || *got.TrackingNumber != "LK123" {
		t.Fatalf("omitted tracking number should be kept, got %v", got.TrackingNumber)
	}
	if got.TrackingURL == nil || *got.TrackingURL != "https://track.example/LK123" {
		t.Fatalf("omitted tracking url should be kept, got %v", got.TrackingURL)
	}

	got = put(gin.H{"id": order.ID, "status": "SHIPPED", "trackingNumber": ""})
	if got.TrackingNumber != nil {
		t.Fatalf("empty tracking number should clear the value, got %q", *got.TrackingNumber)
	}
	if got.TrackingURL == nil {
		t.Fatalf("tracking url should be untouched when only the number is cleared")
	}
}

func TestAdminDeleteProductRoutes(t *testing.T) {
	env := newRouterTestEnv(t)
	admin := env.bearer(t, testAdminEmail)
	used := env.createProduct(t, "used-dress", 1000)
	unused := env.createProduct(t, "unused-dress", 1000)

	if _, err := env.container.OrderService.CreateOrder(t.Context(), service.CreateOrderInput{
		CustomerEmail: "nadee@example.com",
		Address:       "12 Galle Road",
		City:          "Colombo",
		Items: []service.CreateOrderItem{
			{ProductID: &used.ID, Name: used.Name, Price: used.PriceAmount, Qty: 1},
		},
	}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	w := env.do(t, http.MethodDelete, "/api/v1/admin/products", nil, admin)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing id want 400 got %d", w.Code)
	}
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/products?id=%d", used.ID), nil, admin)
	if w.Code != http.StatusConflict {
		t.Fatalf("product in use want 409 got %d", w.Code)
	}
	var count int64
	env.db.Model(&models.Product{}).Where("id = ?", used.ID).Count(&count)
	if count != 1 {
		t.Fatalf("product in use should stay intact")
	}
	w = env.do(t, http.MethodDelete, "/api/v1/admin/products?id=999999", nil, admin)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown product want 404 got %d", w.Code)
	}
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/products?id=%d", unused.ID), nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("delete unused want 200 got %d (%s)", w.Code, w.Body.String())
	}
}

func TestBuildAdminPermissionCatalog(t *testing.T) {
	env := newRouterTestEnv(t)
	items := buildAdminPermissionCatalog(env.engine)

	found := false
	for _, item := range items {
		if item.Object == "/admin/orders/:id" && item.Action == http.MethodPatch {
			found = true
			if item.Module != "orders" {
				t.Fatalf("module want orders got %s", item.Module)
			}
		}
		if !strings.HasPrefix(item.Object, "/admin/") {
			t.Fatalf("catalog should only contain admin routes, got %s", item.Object)
		}
	}
	if !found {
		t.Fatalf("PATCH /admin/orders/:id should be in catalog")
	}
}

func TestAdminPermissionsRouteServesCatalog(t *testing.T) {
	env := newRouterTestEnv(t)
	admin := env.bearer(t, testAdminEmail)

	w := env.do(t, http.MethodGet, "/api/v1/admin/authz/permissions", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("permissions want 200 got %d (%s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"/admin/products/:id/inventory"`) {
		t.Fatalf("catalog should list inventory route, got %s", w.Body.String())
	}
}

func TestDeriveAdminPermissionModule(t *testing.T) {
	cases := map[string]string{
		"/admin/products/:id/inventory": "products",
		"/admin/authz/roles":            "authz",
		"/admin":                        "admin",
		"":                              "system",
	}
	for object, want := range cases {
		if got := deriveAdminPermissionModule(object); got != want {
			t.Fatalf("module for %q want %s got %s", object, want, got)
		}
	}
}

func TestCreateOrderFromCartTokenInBody(t *testing.T) {
	env := newRouterTestEnv(t)
	dress := env.createProduct(t, "tiered-dress", 1000)

	w := env.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"productId": dress.ID, "qty": 2}, nil)
	token := w.Header().Get("X-Cart-Token")
	if token == "" {
		t.Fatalf("cart token should be issued")
	}

	w = env.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"customerEmail": "nadee@example.com",
		"address":       "12 Galle Road",
		"city":          "Colombo",
		"cartToken":     token,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order from cart want 201 got %d (%s)", w.Code, w.Body.String())
	}
	var order struct {
		Total string `json:"total"`
		Items []struct {
			ProductID uint `json:"productId"`
			Qty       int  `json:"qty"`
		} `json:"items"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &order); err != nil {
		t.Fatalf("unmarshal order failed: %v", err)
	}
	if order.Total != "2000.00" || len(order.Items) != 1 || order.Items[0].ProductID != dress.ID || order.Items[0].Qty != 2 {
		t.Fatalf("unexpected order %+v", order)
	}

	w = env.do(t, http.MethodGet, "/api/v1/cart", nil, map[string]string{"X-Cart-Token": token})
	var summary struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &summary); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if summary.Count != 0 {
		t.Fatalf("cart should be cleared after checkout, count=%d", summary.Count)
	}
}
