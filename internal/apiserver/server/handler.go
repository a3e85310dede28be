// Package server 路由配置与核心基础设施
//
// 本文件定义 HTTP API 路由，将请求分发到各领域独立包。
package server

import (
	"log"
	"net/http"
	"runtime/debug"

	"phone-mania/internal/apiserver/auth"
	"phone-mania/internal/apiserver/booking"
	"phone-mania/internal/apiserver/payment"
	"phone-mania/internal/apiserver/product"
	"phone-mania/internal/apiserver/report"
	"phone-mania/internal/apiserver/user"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 基础:
//   - GET  /        - 存活探针（纯文本）
//   - GET  /health  - 服务健康检查
//   - GET  /metrics - Prometheus 指标
//
// 认证 (Auth):
//   - GET /jwt - 按邮箱换取访问令牌
//
// 商品管理 (Product):
//   - GET    /products           - 列出商品
//   - POST   /products           - 发布商品
//   - GET    /products/{brandId} - 按品牌列出商品
//   - GET    /product/{id}       - 获取商品详情
//   - PUT    /products/{id}      - 标记商品已售出
//   - DELETE /products/{id}      - 删除商品
//
// 预订管理 (Booking):
//   - GET    /bookings/{email} - 按买家邮箱列出预订
//   - POST   /bookings         - 创建预订
//   - GET    /booking/{id}     - 获取预订详情
//   - DELETE /bookings/{id}    - 删除预订 [需认证]
//
// 用户管理 (User):
//   - GET    /users               - 列出用户
//   - POST   /users               - 注册/登记用户
//   - GET    /users/admin/{email}  - 管理员角色探测
//   - GET    /users/seller/{email} - 卖家类型探测
//   - PUT    /users/admin/{id}     - 授予管理员 [需管理员]
//   - PUT    /users/verify/{id}    - 认证卖家 [需管理员]
//   - DELETE /users/{id}           - 删除用户 [需管理员]
//
// 举报管理 (Report，历史路径 /reported):
//   - GET    /reported      - 列出举报
//   - POST   /reported      - 提交举报
//   - DELETE /reported/{id} - 删除举报
//
// 支付 (Payment):
//   - POST /create-payment-intent - 创建支付意图 [需认证]
//   - POST /payment               - 记录支付并联动更新 [需认证]
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 存活探针与健康检查
	mux.HandleFunc("GET /{$}", h.Liveness)
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// 认证中间件（按路由粒度应用，公开接口不经过认证）
	requireAuth := auth.RequireAuth(h.authCfg)
	requireAdmin := auth.RequireAdmin(h.store)

	// 令牌签发接口
	authHandler := auth.NewHandler(h.store, h.authCfg)
	authHandler.RegisterRoutes(mux)

	// 商品接口
	productHandler := product.NewHandler(h.store)
	productHandler.RegisterRoutes(mux)

	// 预订接口
	bookingHandler := booking.NewHandler(h.store, h.store, h.bookingPolicy)
	bookingHandler.RegisterRoutes(mux, requireAuth)

	// 用户接口
	userHandler := user.NewHandler(h.store)
	userHandler.RegisterRoutes(mux, requireAuth, requireAdmin)

	// 举报接口
	reportHandler := report.NewHandler(h.store)
	reportHandler.RegisterRoutes(mux)

	// 支付接口
	paymentHandler := payment.NewHandler(h.store, h.intents)
	paymentHandler.RegisterRoutes(mux, requireAuth)

	// 应用指标中间件到 REST API
	apiHandler := h.metrics.MetricsMiddleware(mux)

	// 应用异常恢复中间件（处理器 panic 不拖垮进程）
	recovered := recoveryMiddleware(apiHandler)

	// 应用 CORS 中间件
	return corsMiddleware(recovered)
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware 捕获处理器 panic，返回统一的 500 响应
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[server] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
