//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var loginResp struct {
		AccessToken string `json:"access_token"`
	}
	doJSON(t, http.MethodPost, baseURL+"/auth/login", "", map[string]any{
		"username": getenv("E2E_ADMIN_USER", "admin"),
		"password": os.Getenv("E2E_ADMIN_PASSWORD"),
	}, &loginResp, 200)
	if loginResp.AccessToken == "" {
		t.Fatalf("empty access_token")
	}

	name := fmt.Sprintf("e2e-widget-%d", time.Now().UnixNano())

	var created struct {
		Product   map[string]any `json:"product"`
		Persisted bool           `json:"persisted"`
	}
	doJSON(t, http.MethodPost, baseURL+"/products", loginResp.AccessToken, map[string]any{
		"name":     name,
		"category": "e2e",
		"price":    9.99,
		"rating":   4.2,
	}, &created, 201)
	if !created.Persisted {
		t.Fatalf("add not persisted: %#v", created)
	}

	var found map[string]any
	doJSON(t, http.MethodGet, baseURL+"/products/find?name="+url.QueryEscape(name), "", nil, &found, 200)
	if found["name"] != name {
		t.Fatalf("find returned %#v", found)
	}

	var filtered []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/products?category=e2e&max_price=10", "", nil, &filtered, 200)
	if len(filtered) == 0 {
		t.Fatalf("filter dropped the new product")
	}

	if os.Getenv("E2E_RESTART_CATALOG") == "1" {
		restartCatalogContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")
		doJSON(t, http.MethodGet, baseURL+"/products/find?name="+url.QueryEscape(name), "", nil, &found, 200)
		if found["name"] != name {
			t.Fatalf("product lost across restart: %#v", found)
		}
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url, token string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status = %d, want %d", method, url, resp.StatusCode, want)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
