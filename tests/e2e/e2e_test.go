// Package e2e 端到端测试
// 测试完整的交易流程：注册 → 发布商品 → 预订 → 认证删除
// 需要一个运行中的 API Server（API_BASE_URL，默认 http://localhost:5000）
package e2e

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"phone-mania/tests/testutil"
)

var c *testutil.E2EClient

func TestMain(m *testing.M) {
	var err error
	c, err = testutil.SetupE2EClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "e2e: %v, skipping E2E tests\n", err)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func TestLiveness(t *testing.T) {
	resp, err := c.Get("/")
	if err != nil {
		t.Fatalf("Liveness request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Liveness returned %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Phone Mania") {
		t.Errorf("Liveness body = %q", string(body))
	}
}

func TestHealth(t *testing.T) {
	resp, err := c.Get("/health")
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	result := testutil.ReadJSON(resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Health check returned %d", resp.StatusCode)
	}
	if result["status"] != "ok" {
		t.Errorf("Status = %v, want 'ok'", result["status"])
	}
}

func TestMetrics(t *testing.T) {
	resp, err := c.Get("/metrics")
	if err != nil {
		t.Fatalf("Metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Metrics returned %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "api_http_requests_total") {
		t.Error("Metrics missing api_http_requests_total")
	}
}

// TestMarketplaceLifecycle 完整交易链路
func TestMarketplaceLifecycle(t *testing.T) {
	suffix := time.Now().Format("150405")

	// Step 1: 发布商品
	t.Log("Step 1: Creating product...")
	resp, err := c.Post("/products", map[string]interface{}{
		"name":          "E2E Pixel 6 - " + suffix,
		"BrandId":       "google",
		"resalePrice":   "21,500",
		"originalPrice": "52,000",
		"sellerEmail":   c.Email,
	})
	if err != nil {
		t.Fatalf("Create product failed: %v", err)
	}
	result := testutil.ReadJSON(resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create product returned %d: %v", resp.StatusCode, result)
	}
	productID, _ := result["inserted_id"].(string)
	if productID == "" {
		t.Fatal("Create product response missing inserted_id")
	}

	// Step 2: 查询商品详情
	t.Log("Step 2: Fetching product...")
	resp, err = c.Get("/product/" + productID)
	if err != nil {
		t.Fatalf("Get product failed: %v", err)
	}
	result = testutil.ReadJSON(resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get product returned %d", resp.StatusCode)
	}
	if result["availability"] != "true" {
		t.Errorf("New product availability = %v, want \"true\"", result["availability"])
	}

	// Step 3: 创建预订
	t.Log("Step 3: Creating booking...")
	resp, err = c.Post("/bookings", map[string]interface{}{
		"email":       c.Email,
		"productId":   productID,
		"productName": "E2E Pixel 6 - " + suffix,
		"price":       "21,500",
	})
	if err != nil {
		t.Fatalf("Create booking failed: %v", err)
	}
	result = testutil.ReadJSON(resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Create booking returned %d: %v", resp.StatusCode, result)
	}
	bookingID, _ := result["inserted_id"].(string)
	if bookingID == "" {
		t.Fatal("Create booking response missing inserted_id")
	}

	// Step 4: 按买家邮箱列出预订（邮箱是路径段，原服务的路由形状）
	t.Log("Step 4: Listing bookings...")
	resp, err = c.Get("/bookings/" + c.Email)
	if err != nil {
		t.Fatalf("List bookings failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("List bookings returned %d", resp.StatusCode)
	}
	bookings := testutil.ReadJSONArray(resp)
	found := false
	for _, b := range bookings {
		if b["id"] == bookingID {
			found = true
		}
	}
	if !found {
		t.Errorf("Booking %s not in list for %s", bookingID, c.Email)
	}

	// Step 5: 预订详情走单数路由
	t.Log("Step 5: Fetching booking...")
	resp, err = c.Get("/booking/" + bookingID)
	if err != nil {
		t.Fatalf("Get booking failed: %v", err)
	}
	result = testutil.ReadJSON(resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Get booking returned %d: %v", resp.StatusCode, result)
	}
	if result["productId"] != productID {
		t.Errorf("Booking productId = %v, want %s", result["productId"], productID)
	}

	// Step 6: 未认证删除被拒
	t.Log("Step 6: Anonymous delete should be rejected...")
	resp, err = c.DoAnonymous("DELETE", "/bookings/"+bookingID, nil)
	if err != nil {
		t.Fatalf("Anonymous delete failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Anonymous delete returned %d, want 401", resp.StatusCode)
	}

	// Step 7: 认证删除预订
	t.Log("Step 7: Deleting booking...")
	resp, err = c.Delete("/bookings/" + bookingID)
	if err != nil {
		t.Fatalf("Delete booking failed: %v", err)
	}
	result = testutil.ReadJSON(resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Delete booking returned %d: %v", resp.StatusCode, result)
	}

	// Step 8: 清理商品
	t.Log("Step 8: Deleting product...")
	resp, err = c.Delete("/products/" + productID)
	if err != nil {
		t.Fatalf("Delete product failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Delete product returned %d", resp.StatusCode)
	}
}

func TestJWTRejectsUnknownEmail(t *testing.T) {
	resp, err := c.Get("/jwt?email=nobody-" + fmt.Sprint(time.Now().UnixNano()) + "@phone-mania.test")
	if err != nil {
		t.Fatalf("JWT request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("JWT for unknown email returned %d, want 401", resp.StatusCode)
	}
}

func TestRoleProbes(t *testing.T) {
	resp, err := c.Get("/users/admin/" + c.Email)
	if err != nil {
		t.Fatalf("Admin probe failed: %v", err)
	}
	result := testutil.ReadJSON(resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Admin probe returned %d", resp.StatusCode)
	}
	if isAdmin, ok := result["isAdmin"].(bool); !ok || isAdmin {
		t.Errorf("isAdmin = %v, want false for fresh user", result["isAdmin"])
	}

	resp, err = c.Get("/users/seller/" + c.Email)
	if err != nil {
		t.Fatalf("Seller probe failed: %v", err)
	}
	result = testutil.ReadJSON(resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Seller probe returned %d", resp.StatusCode)
	}
	if isSeller, ok := result["isSeller"].(bool); !ok || isSeller {
		t.Errorf("isSeller = %v, want false for fresh user", result["isSeller"])
	}
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	// 普通测试用户调管理员接口应被 403 拒绝
	resp, err := c.Put("/users/verify/some-user-id", nil)
	if err != nil {
		t.Fatalf("Verify request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Verify as non-admin returned %d, want 403", resp.StatusCode)
	}
}
