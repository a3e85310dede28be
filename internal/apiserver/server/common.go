// Package server 提供 HTTP API 处理器
//
// 本包实现了 Phone Mania 二手手机交易平台的 RESTful API 组装层，包括：
//   - 路由配置与中间件编排（认证、指标、CORS、异常恢复）
//   - 健康检查与存活探针
//   - Prometheus 指标
//
// 文件组织：
//   - common.go: Handler 定义与通用接口
//   - handler.go: 路由配置与中间件
//   - metrics.go: Prometheus 指标
package server

import (
	"encoding/json"
	"net/http"

	"phone-mania/internal/apiserver/auth"
	"phone-mania/internal/apiserver/booking"
	"phone-mania/internal/apiserver/payment"
	"phone-mania/internal/shared/storage"
)

// Handler API 处理器
//
// Handler 是所有 HTTP API 的入口，负责：
//   - 路由请求到各领域独立包（product/booking/user/report/payment）
//   - 管理存储层连接
//   - 编排认证与指标中间件
type Handler struct {
	store storage.PersistentStore // MongoDB 存储层（持久化业务数据）

	authCfg auth.Config // JWT 签发与校验配置

	intents payment.IntentCreator // Stripe 支付意图桥接（可为 nil，表示未配置支付）

	bookingPolicy booking.DeletePolicy // 预订删除授权策略

	metrics *Metrics // Prometheus 指标
}

// NewHandler 创建 Handler 实例
//
// 参数：
//   - store: MongoDB 存储层实例
//   - authCfg: JWT 配置（密钥与令牌有效期）
//   - intents: 支付意图创建器（nil 时支付接口返回 503）
//   - bookingPolicy: 预订删除策略（空值退回历史默认）
func NewHandler(store storage.PersistentStore, authCfg auth.Config, intents payment.IntentCreator, bookingPolicy booking.DeletePolicy) *Handler {
	return &Handler{
		store:         store,
		authCfg:       authCfg,
		intents:       intents,
		bookingPolicy: bookingPolicy,
		metrics:       NewMetrics("api"),
	}
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
// 返回 {"status": "ok"} 表示服务正常运行。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Liveness 存活探针
//
// 路由: GET /
//
// 返回纯文本欢迎语，历史客户端以此判断服务是否在线。
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Phone Mania is running"))
}
