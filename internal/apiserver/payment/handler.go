// Package payment 支付领域 - 支付意图创建与支付记录
package payment

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"phone-mania/internal/apiserver/auth"
	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"
)

// Handler 支付领域 HTTP 处理器
type Handler struct {
	store   storage.PaymentStore
	intents IntentCreator
}

// NewHandler 创建支付处理器
func NewHandler(store storage.PaymentStore, intents IntentCreator) *Handler {
	return &Handler{store: store, intents: intents}
}

// RegisterRoutes 注册支付相关路由（全部需要认证）
func (h *Handler) RegisterRoutes(mux *http.ServeMux, requireAuth auth.Middleware) {
	mux.HandleFunc("POST /create-payment-intent", requireAuth(h.CreateIntent))
	mux.HandleFunc("POST /payment", requireAuth(h.Record))
}

// CreateIntent 为预订创建支付意图
//
// 路由: POST /create-payment-intent
//
// 请求体是预订文档，只消费其中的 price 字段——带千分位分组的
// 十进制字符串，换算成最小货币单位后发给支付桥。
func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price string `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price")
		return
	}

	if h.intents == nil {
		log.Printf("[payment] intent requested but payment bridge is not configured")
		writeError(w, http.StatusServiceUnavailable, "payment bridge not configured")
		return
	}

	clientSecret, err := h.intents.CreateIntent(r.Context(), amount, "usd")
	if err != nil {
		log.Printf("[payment] CreateIntent error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create payment intent")
		return
	}

	log.Printf("[payment] Payment intent created: amount=%d", amount)
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// Record 记录已完成的支付并把预订标记为已支付
//
// 路由: POST /payment
//
// 支付插入与预订更新由存储层在一个事务里完成。
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var payment model.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payment.BookingID == "" {
		writeError(w, http.StatusBadRequest, "productId (booking id) is required")
		return
	}

	if payment.Amount == 0 && payment.Price != "" {
		amount, err := parseAmount(payment.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid price")
			return
		}
		payment.Amount = amount
	}

	payment.ID = generateID("pay")
	payment.CreatedAt = time.Now()

	result, err := h.store.RecordPayment(r.Context(), &payment)
	if err != nil {
		log.Printf("[payment] RecordPayment error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	log.Printf("[payment] Payment recorded: %s (booking %s)", payment.ID, payment.BookingID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"acknowledged":   true,
		"inserted_id":    payment.ID,
		"booking_update": result,
	})
}

// parseAmount 解析带千分位分组的价格字符串为最小货币单位
// "1,234.50" → 123450
func parseAmount(price string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(price), ",", "")
	if clean == "" {
		return 0, fmt.Errorf("empty price")
	}
	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", price, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative price %q", price)
	}
	return int64(math.Round(value * 100)), nil
}

func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
