package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/eliteshop/storefront/internal/auth"
	"github.com/eliteshop/storefront/internal/auth/jwt"
	"github.com/eliteshop/storefront/internal/common/config"
	"github.com/eliteshop/storefront/internal/i18n"
	"github.com/eliteshop/storefront/internal/kv"
	"github.com/eliteshop/storefront/internal/report"
	"github.com/eliteshop/storefront/internal/service"
	"github.com/eliteshop/storefront/internal/store"
	"github.com/eliteshop/storefront/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	adminEmail    = "saminsingdho@gmail.com"
	adminPassword = "admin-pass"
	adminCode     = "474001"
)

func newTestServer(t *testing.T, mutate ...func(*config.ShopConfig)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.ShopConfig{}
	cfg.Metrics.Enabled = true
	cfg.Pricing.TimeZone = "UTC"
	for _, fn := range mutate {
		fn(cfg)
	}
	cfg.SetDefaults()

	m := metrics.New(cfg.Metrics)
	st := store.New(zap.NewNop(), kv.NewMemoryStore(zap.NewNop()),
		store.WithClock(fixedClock{testNow}),
		store.WithHasher(auth.BcryptHasher{Cost: bcrypt.MinCost}),
		store.WithFallbackHook(m.DecodeFallback),
		store.WithBootstrap(config.BootstrapConfig{MainAdmin: config.MainAdminConfig{
			ID:       "ADMIN-CORE-001",
			Username: "samin080g",
			Email:    adminEmail,
			Password: adminPassword,
		}}),
	)
	require.NoError(t, st.Init(context.Background()))

	tokens, err := jwt.NewService(jwt.Config{SecretKey: "test-secret", Duration: time.Hour})
	require.NoError(t, err)
	svc := service.New(zap.NewNop(), st, tokens, m, service.Options{
		Pricing:   cfg.Pricing,
		Orders:    cfg.Orders,
		AdminCode: adminCode,
	})
	tr, err := i18n.New("")
	require.NoError(t, err)

	srv := httptest.NewServer(New(Deps{
		Config:  cfg,
		Logger:  zap.NewNop(),
		Service: svc,
		Metrics: m,
		I18n:    tr,
	}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

// client keeps its own cookie jar so every client is its own browser
type client struct {
	t     *testing.T
	base  string
	http  *http.Client
	token string
	lang  string
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) raw(method, path string, body any) *http.Response {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(c.t, err)
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	resp := c.raw(method, path, body)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	out := map[string]any{}
	if len(data) > 0 {
		require.NoError(c.t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func errorMessage(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	msg, _ := e["message"].(string)
	return msg
}

func (c *client) login(identifier, password string) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/auth/login", map[string]any{
		"identifier": identifier, "password": password,
	})
	require.Equal(c.t, http.StatusOK, status, body)
}

func (c *client) unlock() {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/admin/unlock", map[string]any{"code": adminCode})
	require.Equal(c.t, http.StatusOK, status, body)
	c.token, _ = body["token"].(string)
	require.NotEmpty(c.t, c.token)
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	status, body := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	resp := c.raw(http.MethodGet, "/api/storefront", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "elite_client" {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	status, body = c.do(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusOK, status)
	products, _ := body["products"].([]any)
	assert.NotEmpty(t, products)

	status, body = c.do(http.MethodPost, "/api/quote", map[string]any{"productId": "gc-demo", "quantity": 2})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2400.0, body["totalPrice"])

	status, body = c.do(http.MethodPost, "/api/quote", map[string]any{"productId": "nope"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "E4002", errorCode(body))

	status, body = c.do(http.MethodGet, "/api/payment-info", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["accounts"], 2)

	status, body = c.do(http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "E4001", errorCode(body))

	resp = c.raw(http.MethodGet, "/metrics", nil)
	metricsBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(metricsBody), "eliteshop_http_requests_total")
}

func TestSignUpAndCheckout(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	status, body := c.do(http.MethodPost, "/api/orders", map[string]any{"productId": "gc-demo"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "E2001", errorCode(body))

	status, body = c.do(http.MethodPost, "/api/auth/signup", map[string]any{
		"username": "neo", "email": "neo@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, status, body)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "passwordHash")
	assert.Equal(t, "Welcome, neo!", body["message"])

	status, body = c.do(http.MethodPost, "/api/auth/signup", map[string]any{
		"username": "neo2", "email": "NEO@example.com", "password": "secret",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "E4091", errorCode(body))

	status, body = c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, status)
	me, _ := body["user"].(map[string]any)
	assert.Equal(t, "neo", me["username"])

	order := map[string]any{
		"productId":      "gc-demo",
		"quantity":       2,
		"paymentMethod":  "bKash",
		"robloxUsername": "builderman",
		"phoneNumber":    "01700000000",
		"transactionId":  "TX-1",
	}
	status, body = c.do(http.MethodPost, "/api/orders", order)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "E1005", errorCode(body))

	order["agreed"] = true
	status, body = c.do(http.MethodPost, "/api/orders", order)
	require.Equal(t, http.StatusCreated, status, body)
	placed, _ := body["order"].(map[string]any)
	assert.Regexp(t, `^ELITE-[0-9A-Z]{9}$`, placed["id"])
	assert.Equal(t, 2400.0, placed["totalPrice"])
	assert.Equal(t, "Pending", placed["status"])
	assert.Contains(t, body["message"], "2400")

	status, body = c.do(http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["orders"], 1)

	other := newClient(t, srv)
	status, body = other.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["user"])

	status, _ = c.do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, body = c.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["user"])
}

func TestBadBody(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/login", strings.NewReader("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLocalizedErrors(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	c.lang = "bn-BD,bn;q=0.9"
	status, body := c.do(http.MethodPost, "/api/auth/login", map[string]any{
		"identifier": adminEmail, "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "E2002", errorCode(body))
	assert.Equal(t, "ইমেইল বা পাসওয়ার্ড ভুল।", errorMessage(body))

	c.lang = "en"
	_, body = c.do(http.MethodPost, "/api/auth/login", map[string]any{
		"identifier": adminEmail, "password": "wrong",
	})
	assert.Equal(t, "Wrong email or password.", errorMessage(body))
}

func TestAdminGate(t *testing.T) {
	srv := newTestServer(t)

	shopper := newClient(t, srv)
	status, _ := shopper.do(http.MethodPost, "/api/auth/signup", map[string]any{
		"username": "neo", "email": "neo@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, status)
	status, body := shopper.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "E3001", errorCode(body))
	status, body = shopper.do(http.MethodPost, "/api/admin/unlock", map[string]any{"code": adminCode})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "E3001", errorCode(body))

	admin := newClient(t, srv)
	status, body = admin.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "E2001", errorCode(body))

	admin.login("SAMIN080G", adminPassword)
	status, body = admin.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "E3003", errorCode(body))

	status, body = admin.do(http.MethodPost, "/api/admin/unlock", map[string]any{"code": "000000"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "E2003", errorCode(body))

	admin.token = "garbage"
	status, body = admin.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "E3003", errorCode(body))

	admin.token = ""
	admin.unlock()
	status, body = admin.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["users"], 2)

	// a token is bound to the admin it was issued to
	shopper.token = admin.token
	status, _ = shopper.do(http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminOperations(t *testing.T) {
	srv := newTestServer(t)
	admin := newClient(t, srv)
	admin.login(adminEmail, adminPassword)
	admin.unlock()

	// products
	status, body := admin.do(http.MethodPost, "/api/admin/products", map[string]any{"title": "Steam 10 USD"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "E1003", errorCode(body))

	status, body = admin.do(http.MethodPost, "/api/admin/products", map[string]any{
		"title": "Steam 10 USD", "image": "https://drive.google.com/file/d/abc123/view", "price": 1300, "amount": "10 USD",
	})
	require.Equal(t, http.StatusCreated, status, body)
	productID, _ := body["id"].(string)
	assert.True(t, strings.HasPrefix(productID, "PROD-"))
	assert.Equal(t, "https://lh3.googleusercontent.com/d/abc123=s0", body["image"])
	assert.Equal(t, true, body["active"])

	status, _ = admin.do(http.MethodPost, "/api/admin/products/"+productID+"/toggle", nil)
	assert.Equal(t, http.StatusOK, status)
	status, body = admin.do(http.MethodPost, "/api/admin/products/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "E4001", errorCode(body))

	status, body = admin.do(http.MethodGet, "/api/admin/products", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["products"], 3)

	status, _ = admin.do(http.MethodDelete, "/api/admin/products/"+productID, nil)
	assert.Equal(t, http.StatusNoContent, status)

	// events
	status, body = admin.do(http.MethodPost, "/api/admin/events", map[string]any{
		"name": "Eid", "date": "2025-13-40", "time": "10:00", "discountPercentage": 10,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "E1007", errorCode(body))

	status, body = admin.do(http.MethodPost, "/api/admin/events", map[string]any{
		"name": "Eid", "date": "2025-03-02", "time": "10:00", "discountPercentage": 10,
		"applicableProductIds": []string{"gc-demo"},
	})
	require.Equal(t, http.StatusCreated, status, body)
	eventID, _ := body["id"].(string)

	status, body = admin.do(http.MethodPost, "/api/quote", map[string]any{"productId": "gc-demo", "quantity": 1})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1080.0, body["totalPrice"])

	status, _ = admin.do(http.MethodPost, "/api/admin/events/"+eventID+"/toggle", nil)
	assert.Equal(t, http.StatusOK, status)
	status, body = admin.do(http.MethodGet, "/api/admin/events", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["events"], 1)
	status, _ = admin.do(http.MethodDelete, "/api/admin/events/"+eventID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = admin.do(http.MethodDelete, "/api/admin/events/"+eventID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// settings
	status, body = admin.do(http.MethodPut, "/api/admin/settings", map[string]any{
		"name": "Elite Shop", "logoUrl": "https://drive.google.com/open?id=logo42",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "https://lh3.googleusercontent.com/d/logo42=s0", body["logoUrl"])

	// orders
	status, body = admin.do(http.MethodPost, "/api/orders", map[string]any{
		"productId": "robux-custom", "amount": 100, "paymentMethod": "Nagad",
		"robloxUsername": "builderman", "phoneNumber": "01700000000", "transactionId": "TX-9", "agreed": true,
	})
	require.Equal(t, http.StatusCreated, status, body)
	placed, _ := body["order"].(map[string]any)
	orderID, _ := placed["id"].(string)

	status, body = admin.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", map[string]any{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "E1009", errorCode(body))
	status, _ = admin.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", map[string]any{"status": "Done"})
	assert.Equal(t, http.StatusOK, status)
	status, _ = admin.do(http.MethodPut, "/api/admin/orders/ELITE-NOPE/status", map[string]any{"status": "Done"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = admin.do(http.MethodGet, "/api/admin/orders", nil)
	assert.Equal(t, http.StatusOK, status)
	orders, _ := body["orders"].([]any)
	require.Len(t, orders, 1)
	first, _ := orders[0].(map[string]any)
	assert.Equal(t, "Done", first["status"])

	resp := admin.raw(http.MethodGet, "/api/admin/orders/export", nil)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, report.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "orders-20250301-1200.xlsx")
	assert.NotEmpty(t, data)

	// roles
	status, body = admin.do(http.MethodPut, "/api/admin/users/ADMIN-CORE-001/role", map[string]any{"role": "user"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "E4092", errorCode(body))
	status, _ = admin.do(http.MethodPut, "/api/admin/users/U-NOPE/role", map[string]any{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLoginRateLimit(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.ShopConfig) {
		cfg.Auth.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}
	})
	c := newClient(t, srv)

	for i := 0; i < 2; i++ {
		status, _ := c.do(http.MethodPost, "/api/auth/login", map[string]any{"identifier": "x", "password": "y"})
		assert.Equal(t, http.StatusUnauthorized, status)
	}
	resp := c.raw(http.MethodPost, "/api/auth/login", map[string]any{"identifier": "x", "password": "y"})
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	// other routes are not limited
	status, _ := c.do(http.MethodGet, "/api/storefront", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthzBeforeInit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.ShopConfig{}
	cfg.SetDefaults()
	st := store.New(zap.NewNop(), kv.NewMemoryStore(zap.NewNop()))
	svc := service.New(zap.NewNop(), st, nil, nil, service.Options{})

	r := NewRouter(Deps{Config: cfg, Logger: zap.NewNop(), Service: svc})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/storefront", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "E5002")
}

func clientCookie(t *testing.T, c *client) *http.Cookie {
	t.Helper()
	u, err := url.Parse(c.base)
	require.NoError(t, err)
	for _, ck := range c.http.Jar.Cookies(u) {
		if ck.Name == "elite_client" {
			return ck
		}
	}
	return nil
}

func TestLoginIssuesFreshClientID(t *testing.T) {
	srv := newTestServer(t)
	attacker := newClient(t, srv)
	status, _ := attacker.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	planted := clientCookie(t, attacker)
	require.NotNil(t, planted)

	victim := newClient(t, srv)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	victim.http.Jar.SetCookies(u, []*http.Cookie{{Name: "elite_client", Value: planted.Value, Path: "/"}})
	victim.login(adminEmail, adminPassword)

	after := clientCookie(t, victim)
	require.NotNil(t, after)
	assert.NotEqual(t, planted.Value, after.Value)

	status, body := victim.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, body["user"])

	status, body = attacker.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["user"])
}

func TestCORS(t *testing.T) {
	preflight := func(srv *httptest.Server, origin string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/auth/me", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	t.Run("same-origin by default", func(t *testing.T) {
		srv := newTestServer(t)
		resp := preflight(srv, "https://evil.example")
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("configured origins", func(t *testing.T) {
		srv := newTestServer(t, func(cfg *config.ShopConfig) {
			cfg.Server.AllowOrigins = []string{"https://shop.example"}
		})
		resp := preflight(srv, "https://shop.example")
		assert.Equal(t, "https://shop.example", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

		resp = preflight(srv, "https://evil.example")
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
