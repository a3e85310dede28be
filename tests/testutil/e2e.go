// Package testutil 提供 E2E 测试共享基础设施
//
// E2EClient 封装携带 Bearer 令牌的 HTTP 客户端，
// 供 tests/e2e/ 下各测试复用。
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// E2EClient 端到端测试共享客户端
type E2EClient struct {
	BaseURL string
	Client  *http.Client
	Email   string
	Token   string
}

// SetupE2EClient 初始化 E2E 客户端
// 自动读取环境变量、等待服务就绪、注册测试用户并换取令牌
// 返回 error 时调用者应 os.Exit(0) 跳过测试
func SetupE2EClient() (*E2EClient, error) {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	c := &E2EClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}

	// 等待 API Server 就绪
	if !c.waitForAPI(15 * time.Second) {
		return nil, fmt.Errorf("API Server not ready at %s", baseURL)
	}

	// 注册测试用户并换取令牌
	if err := c.authenticate(); err != nil {
		return nil, fmt.Errorf("authenticate failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "e2e: connected to %s as %s\n", baseURL, c.Email)
	return c, nil
}

func (c *E2EClient) waitForAPI(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := c.Client.Get(c.BaseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

// authenticate 注册一次性测试用户，再通过 /jwt 换取访问令牌
func (c *E2EClient) authenticate() error {
	c.Email = os.Getenv("E2E_EMAIL")
	if c.Email == "" {
		c.Email = fmt.Sprintf("e2e-%d@phone-mania.test", time.Now().UnixNano())
	}

	resp, err := c.Post("/users", map[string]string{
		"email": c.Email,
		"name":  "E2E Tester",
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("create user returned %d", resp.StatusCode)
	}

	resp, err = c.Get("/jwt?email=" + c.Email)
	if err != nil {
		return err
	}
	result := ReadJSON(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwt returned %d", resp.StatusCode)
	}
	token, _ := result["accessToken"].(string)
	if token == "" {
		return fmt.Errorf("jwt response missing accessToken")
	}
	c.Token = token
	return nil
}

// ---- HTTP 请求辅助方法 ----

// Get 发送 GET 请求
func (c *E2EClient) Get(path string) (*http.Response, error) {
	return c.Do("GET", path, nil)
}

// Post 发送 POST 请求（JSON body）
func (c *E2EClient) Post(path string, body interface{}) (*http.Response, error) {
	return c.Do("POST", path, body)
}

// Put 发送 PUT 请求
func (c *E2EClient) Put(path string, body interface{}) (*http.Response, error) {
	return c.Do("PUT", path, body)
}

// Delete 发送 DELETE 请求
func (c *E2EClient) Delete(path string) (*http.Response, error) {
	return c.Do("DELETE", path, nil)
}

// Do 执行自定义请求，自动携带 Bearer 令牌
func (c *E2EClient) Do(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.Client.Do(req)
}

// DoAnonymous 执行不携带令牌的请求，用于认证边界测试
func (c *E2EClient) DoAnonymous(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reader = bytes.NewReader(jsonBody)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.Client.Do(req)
}

// ---- 响应解析辅助 ----

// ReadJSON 解析 JSON 响应到 map
func ReadJSON(resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result
}

// ReadJSONArray 解析 JSON 数组响应
func ReadJSONArray(resp *http.Response) []map[string]interface{} {
	defer resp.Body.Close()
	var result []map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return result
}
