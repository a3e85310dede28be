// Package booking 预订领域 - HTTP 处理
package booking

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"phone-mania/internal/apiserver/auth"
	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"
)

// DeletePolicy 预订删除的授权策略
//
// 线上历史行为是 any_authenticated：任何登录用户可以删除任何预订，
// 包括别人的。这极可能是疏漏而非设计，但为了兼容默认保留，
// 通过配置切换到 owner_or_admin。
type DeletePolicy string

const (
	// DeleteAnyAuthenticated 任何携带有效令牌的调用方（历史默认）
	DeleteAnyAuthenticated DeletePolicy = "any_authenticated"
	// DeleteOwnerOrAdmin 仅预订所有者或管理员
	DeleteOwnerOrAdmin DeletePolicy = "owner_or_admin"
)

// Handler 预订领域 HTTP 处理器
type Handler struct {
	store  storage.BookingStore
	users  auth.UserStore // owner_or_admin 策略下的角色查询
	policy DeletePolicy
}

// NewHandler 创建预订处理器
func NewHandler(store storage.BookingStore, users auth.UserStore, policy DeletePolicy) *Handler {
	if policy == "" {
		policy = DeleteAnyAuthenticated
	}
	return &Handler{store: store, users: users, policy: policy}
}

// RegisterRoutes 注册预订相关路由
// 只有删除需要认证守卫，其余公开（与原服务一致）
func (h *Handler) RegisterRoutes(mux *http.ServeMux, requireAuth auth.Middleware) {
	mux.HandleFunc("GET /bookings/{email}", h.ListByEmail)
	mux.HandleFunc("POST /bookings", h.Create)
	mux.HandleFunc("GET /booking/{id}", h.Get)
	mux.HandleFunc("DELETE /bookings/{id}", requireAuth(h.Delete))
}

// ListByEmail 按买家邮箱获取预订
func (h *Handler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	bookings, err := h.store.ListBookingsByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[booking] ListBookingsByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Get 获取单个预订
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	booking, err := h.store.GetBooking(r.Context(), id)
	if err != nil {
		log.Printf("[booking] GetBooking error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get booking")
		return
	}
	if booking == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Create 创建预订（结算意图前由买家提交）
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if booking.Email == "" || booking.ProductID == "" {
		writeError(w, http.StatusBadRequest, "email and productId are required")
		return
	}

	booking.ID = generateID("book")
	booking.Paid = false
	booking.CreatedAt = time.Now()

	if err := h.store.CreateBooking(r.Context(), &booking); err != nil {
		log.Printf("[booking] CreateBooking error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	log.Printf("[booking] Booking created: %s (product %s)", booking.ID, booking.ProductID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"acknowledged": true,
		"inserted_id":  booking.ID,
	})
}

// Delete 删除预订（需要认证）
//
// 授权按配置的 DeletePolicy 执行，详见类型注释。
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if h.policy == DeleteOwnerOrAdmin {
		allowed, err := h.callerMayDelete(r, id)
		if err != nil {
			log.Printf("[booking] delete authorization error: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !allowed {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	deleted, err := h.store.DeleteBooking(r.Context(), id)
	if err != nil {
		log.Printf("[booking] DeleteBooking error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete booking")
		return
	}

	log.Printf("[booking] Booking deleted: %s (count=%d)", id, deleted)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted_count": deleted})
}

// callerMayDelete owner_or_admin 策略：所有者或管理员放行
// 预订不存在时放行，让删除落到零匹配（幂等语义不变）
func (h *Handler) callerMayDelete(r *http.Request, id string) (bool, error) {
	claims := auth.GetClaims(r.Context())
	if claims == nil {
		return false, nil
	}

	booking, err := h.store.GetBooking(r.Context(), id)
	if err != nil {
		return false, err
	}
	if booking == nil {
		return true, nil
	}
	if booking.Email == claims.Email {
		return true, nil
	}

	user, err := h.users.GetUserByEmail(r.Context(), claims.Email)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
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
