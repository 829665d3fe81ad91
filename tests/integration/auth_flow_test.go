package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/v1/nonexistent", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	result := parseJSON(t, rec)["error"].(map[string]interface{})
	if result["code"] != "NOT_FOUND" {
		t.Errorf("expected code NOT_FOUND, got %v", result["code"])
	}
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	// Register
	rec := app.request("POST", "/api/v1/auth/register",
		`{"email":"flow@test.com","password":"password123","display_name":"Flow User"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["token"] == nil || result["refresh_token"] == nil {
		t.Fatal("register response missing token pair")
	}
	user := result["user"].(map[string]interface{})
	if user["currency"] != "USD" {
		t.Errorf("expected default currency USD, got %v", user["currency"])
	}
	if _, ok := user["password"]; ok {
		t.Error("register response leaked password field")
	}

	// Duplicate register
	rec = app.request("POST", "/api/v1/auth/register",
		`{"email":"flow@test.com","password":"password123","display_name":"Other"}`, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", rec.Code)
	}

	// Login
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"flow@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	login := parseJSON(t, rec)
	token := login["token"].(string)
	refreshToken := login["refresh_token"].(string)

	// Wrong password
	rec = app.request("POST", "/api/v1/auth/login",
		`{"email":"flow@test.com","password":"wrongpassword"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", rec.Code)
	}

	// Profile with the access token
	rec = app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	profile := parseJSON(t, rec)["user"].(map[string]interface{})
	if profile["email"] != "flow@test.com" {
		t.Errorf("expected profile email flow@test.com, got %v", profile["email"])
	}

	// Profile without a token
	rec = app.request("GET", "/api/v1/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated profile: expected 401, got %d", rec.Code)
	}

	// Refresh tokens should not work as access tokens
	rec = app.request("GET", "/api/v1/profile", "", refreshToken)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh token as access token: expected 401, got %d", rec.Code)
	}

	// Refresh rotates the token pair
	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refreshToken), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	refreshed := parseJSON(t, rec)
	newRefresh := refreshed["refresh_token"].(string)

	// The rotated-out refresh token must be rejected
	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, refreshToken), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("stale refresh token: expected 401, got %d", rec.Code)
	}

	// The new refresh token works
	rec = app.request("POST", "/api/v1/auth/refresh",
		fmt.Sprintf(`{"refresh_token":%q}`, newRefresh), "")
	if rec.Code != http.StatusOK {
		t.Errorf("rotated refresh: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
