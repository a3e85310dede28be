// Package user 用户领域 - HTTP 处理
package user

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

// Handler 用户领域 HTTP 处理器
type Handler struct {
	store storage.UserStore
}

// NewHandler 创建用户处理器
func NewHandler(store storage.UserStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册用户相关路由
//
// 角色授予、认证标记、删除是管理操作，走双重守卫；
// 角色探测接口公开（前端按钮可见性用，非安全边界）。
func (h *Handler) RegisterRoutes(mux *http.ServeMux, requireAuth, requireAdmin auth.Middleware) {
	mux.HandleFunc("GET /users", h.List)
	mux.HandleFunc("POST /users", h.Create)
	mux.HandleFunc("GET /users/admin/{email}", h.CheckAdmin)
	mux.HandleFunc("GET /users/seller/{email}", h.CheckSeller)
	mux.HandleFunc("PUT /users/admin/{id}", requireAuth(requireAdmin(h.GrantAdmin)))
	mux.HandleFunc("PUT /users/verify/{id}", requireAuth(requireAdmin(h.Verify)))
	mux.HandleFunc("DELETE /users/{id}", requireAuth(requireAdmin(h.Delete)))
}

// List 获取全部用户
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		log.Printf("[user] ListUsers error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Create 注册用户
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var user model.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if user.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user.ID = generateID("usr")
	user.Role = model.UserRoleNormal // 角色只能由管理员授予
	user.CreatedAt = time.Now()

	if err := h.store.CreateUser(r.Context(), &user); err != nil {
		log.Printf("[user] CreateUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	log.Printf("[user] User created: %s (%s)", user.Email, user.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"acknowledged": true,
		"inserted_id":  user.ID,
	})
}

// GrantAdmin 授予管理员角色
func (h *Handler) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := h.store.SetUserRole(r.Context(), id, model.UserRoleAdmin)
	if err != nil {
		log.Printf("[user] SetUserRole error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	log.Printf("[user] Admin role granted: %s", id)
	writeJSON(w, http.StatusOK, result)
}

// Verify 标记用户已认证
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := h.store.SetUserVerified(r.Context(), id)
	if err != nil {
		log.Printf("[user] SetUserVerified error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	log.Printf("[user] User verified: %s", id)
	writeJSON(w, http.StatusOK, result)
}

// CheckAdmin 按邮箱探测管理员身份
//
// 路由: GET /users/admin/{email}
//
// 未知邮箱返回 {isAdmin:false} 而不是 404
func (h *Handler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[user] GetUserByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isAdmin": user.IsAdmin()})
}

// CheckSeller 按邮箱探测卖家身份
func (h *Handler) CheckSeller(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[user] GetUserByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isSeller": user.IsSeller()})
}

// Delete 删除用户
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.store.DeleteUser(r.Context(), id)
	if err != nil {
		log.Printf("[user] DeleteUser error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	log.Printf("[user] User deleted: %s (count=%d)", id, deleted)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted_count": deleted})
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
