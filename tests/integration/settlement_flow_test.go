package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestFriendRequestFlow(t *testing.T) {
	app := setupApp(t)
	tokenA, idA := app.registerUser(t, "req-a@test.com", "password123")
	tokenB, idB := app.registerUser(t, "req-b@test.com", "password123")
	tokenC, _ := app.registerUser(t, "req-c@test.com", "password123")

	// Self request is rejected
	rec := app.request("POST", "/api/v1/friends/requests", fmt.Sprintf(`{"user_id":%q}`, idA), tokenA)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self request: expected 400, got %d", rec.Code)
	}

	// A requests B
	rec = app.request("POST", "/api/v1/friends/requests", fmt.Sprintf(`{"user_id":%q}`, idB), tokenA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("request: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	link := parseJSON(t, rec)["link"].(map[string]interface{})
	linkID := link["id"].(string)
	if link["status"] != "pending" {
		t.Errorf("expected pending link, got %v", link["status"])
	}

	// Duplicate request from either direction is rejected
	rec = app.request("POST", "/api/v1/friends/requests", fmt.Sprintf(`{"user_id":%q}`, idA), tokenB)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate request: expected 409, got %d", rec.Code)
	}

	// The requester cannot accept their own request
	rec = app.request("PUT", "/api/v1/friends/requests/"+linkID, `{"accept":true}`, tokenA)
	if rec.Code != http.StatusForbidden {
		t.Errorf("requester accepting own request: expected 403, got %d", rec.Code)
	}

	// An outsider cannot see the request
	rec = app.request("PUT", "/api/v1/friends/requests/"+linkID, `{"accept":true}`, tokenC)
	if rec.Code != http.StatusNotFound {
		t.Errorf("outsider responding: expected 404, got %d", rec.Code)
	}

	// B accepts
	rec = app.request("PUT", "/api/v1/friends/requests/"+linkID, `{"accept":true}`, tokenB)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Both sides now list each other as friends
	for name, token := range map[string]string{"A": tokenA, "B": tokenB} {
		rec = app.request("GET", "/api/v1/friends", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s friends: expected 200, got %d", name, rec.Code)
		}
		friends := parseJSON(t, rec)["friends"].([]interface{})
		if len(friends) != 1 {
			t.Errorf("%s: expected 1 friend, got %d", name, len(friends))
		}
	}

	// A resolved link cannot be responded to again
	rec = app.request("PUT", "/api/v1/friends/requests/"+linkID, `{"accept":false}`, tokenB)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("responding to resolved link: expected 400, got %d", rec.Code)
	}
}

func TestSettlementFlow(t *testing.T) {
	app := setupApp(t)
	tokenA, idA, tokenB, idB := app.makeFriends(t)

	// A pays 10000, B owes half; B pays 4000, A owes half.
	// Net from A's perspective: +5000 - 2000 = +3000.
	body := fmt.Sprintf(
		`{"amount":10000,"category":"food","description":"Group dinner","occurred_at":%q,"counterparty_id":%q,"share_percent":50,"direction":"owed_to_me"}`,
		isoDaysAgo(3), idB)
	rec := app.request("POST", "/api/v1/expenses", body, tokenA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expense A: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body = fmt.Sprintf(
		`{"amount":4000,"category":"transport","description":"Taxi","occurred_at":%q,"counterparty_id":%q,"share_percent":50,"direction":"owed_to_me"}`,
		isoDaysAgo(2), idA)
	rec = app.request("POST", "/api/v1/expenses", body, tokenB)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expense B: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Balances net per friend
	rec = app.request("GET", "/api/v1/settlements/balances", "", tokenA)
	if rec.Code != http.StatusOK {
		t.Fatalf("balances A: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	balances := parseJSON(t, rec)["balances"].([]interface{})
	if len(balances) != 1 {
		t.Fatalf("expected 1 balance entry, got %d", len(balances))
	}
	entry := balances[0].(map[string]interface{})
	if entry["friend_id"].(string) != idB {
		t.Errorf("expected balance against %s, got %v", idB, entry["friend_id"])
	}
	if entry["net"].(float64) != 3000 {
		t.Errorf("expected A net +3000, got %v", entry["net"])
	}

	rec = app.request("GET", "/api/v1/settlements/balances", "", tokenB)
	balances = parseJSON(t, rec)["balances"].([]interface{})
	if balances[0].(map[string]interface{})["net"].(float64) != -3000 {
		t.Errorf("expected B net -3000, got %v", balances[0].(map[string]interface{})["net"])
	}

	// Settling with a stranger fails
	_, strangerID := app.registerUser(t, "settle-stranger@test.com", "password123")
	rec = app.request("POST", "/api/v1/settlements/"+strangerID, `{"amount":1000}`, tokenB)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("settle with stranger: expected 400, got %d", rec.Code)
	}

	// B settles up with A
	rec = app.request("POST", "/api/v1/settlements/"+idA, `{"amount":3000}`, tokenB)
	if rec.Code != http.StatusCreated {
		t.Fatalf("settle: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	payment := parseJSON(t, rec)["expense"].(map[string]interface{})
	if payment["category"].(string) != "debt_payment" {
		t.Errorf("expected debt_payment expense, got %v", payment["category"])
	}
	if payment["amount"].(float64) != 3000 {
		t.Errorf("expected payment amount 3000, got %v", payment["amount"])
	}
	if _, shared := payment["share_group_id"]; shared {
		t.Error("settlement payment must not itself be shared")
	}

	// B's side is now clear
	rec = app.request("GET", "/api/v1/settlements/balances", "", tokenB)
	balances = parseJSON(t, rec)["balances"].([]interface{})
	for _, b := range balances {
		if b.(map[string]interface{})["net"].(float64) != 0 {
			t.Errorf("expected B balance cleared, got %v", b.(map[string]interface{})["net"])
		}
	}
}
