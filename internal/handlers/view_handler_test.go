package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodexpress/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (c *client) view(path string) (*http.Response, map[string]interface{}) {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: c.token})
	}
	resp, err := c.app.Fiber.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.StatusCode == http.StatusOK {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

func TestViews_Anonymous(t *testing.T) {
	app, _ := setupApp(t)
	anon := &client{t: t, app: app}

	for _, path := range []string{"/catalog", "/cart", "/checkout", "/order", "/rate", "/profile"} {
		resp, _ := anon.view(path)
		assertRedirect(t, resp, "/login")
	}

	resp, body := anon.view("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "login", body["view"])
	assert.Equal(t, "/api/v1/auth/login", body["action"])

	resp, body = anon.view("/signup")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "signup", body["view"])

	resp, _ = anon.view("/")
	assertRedirect(t, resp, "/catalog")

	resp, _ = anon.view("/does-not-exist")
	assertRedirect(t, resp, "/catalog")
}

func TestViews_LoggedIn(t *testing.T) {
	app, _ := setupApp(t)
	c := login(t, app)

	resp, body := c.view("/catalog")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "catalog", body["view"])
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Len(t, body["products"], 3)

	resp, _ = c.view("/order")
	assertRedirect(t, resp, "/catalog")

	c.do(http.MethodPost, "/api/v1/cart/items", map[string]string{"product_id": "3"})

	resp, body = c.view("/checkout")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["can_submit"])
	assert.Equal(t, []interface{}{"pix", "card", "cash"}, body["payment_methods"])

	resp, _ = c.do(http.MethodPost, "/api/v1/checkout", map[string]interface{}{
		"address": map[string]string{"street": "Rua X", "number": "10", "city": "SP"},
		"payment": "cash",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = c.view("/order")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "preparing", order["status"])
	steps := order["steps"].([]interface{})
	require.Len(t, steps, 4)
	assert.True(t, steps[0].(map[string]interface{})["active"].(bool))
	assert.False(t, steps[1].(map[string]interface{})["active"].(bool))

	resp, body = c.view("/rate")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 5, body["default_stars"])
	assert.Equal(t, order["id"], body["order_id"])

	resp, body = c.view("/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Len(t, body["orders"], 1)
}

func TestViews_AfterLogoutRedirectToLogin(t *testing.T) {
	app, _ := setupApp(t)
	c := login(t, app)

	resp, _ := c.view("/profile")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	c.do(http.MethodPost, "/api/v1/auth/logout", nil)

	resp, _ = c.view("/profile")
	assertRedirect(t, resp, "/login")
}

func TestViews_UnknownAPIRoute(t *testing.T) {
	app, _ := setupApp(t)
	c := login(t, app)

	resp, body := c.do(http.MethodGet, "/api/v1/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["category"])
}

func TestViews_ProtectedViewsAreNotCached(t *testing.T) {
	app, _ := setupApp(t)
	c := login(t, app)

	resp, _ := c.view("/profile/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "private, no-store", resp.Header.Get("Cache-Control"))

	anon := &client{t: t, app: app}
	resp, _ = anon.view("/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Cache-Control"))
}

func TestViews_LeavingOrderViewKeepsTracking(t *testing.T) {
	app, sched := setupApp(t)
	c := login(t, app)

	c.do(http.MethodPost, "/api/v1/cart/items", map[string]string{"product_id": "1"})
	resp, _ := c.do(http.MethodPost, "/api/v1/checkout", map[string]interface{}{
		"address": map[string]string{"street": "Rua X", "number": "10", "city": "SP"},
		"payment": "pix",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = c.view("/order")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.view("/catalog")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sched.Advance(7 * time.Second)

	resp, body := c.view("/order")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := body["order"].(map[string]interface{})
	assert.Equal(t, "delivered", order["status"])
}
