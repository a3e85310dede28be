package auth

import (
	"encoding/json"
	"log"
	"net/http"
)

// Handler 令牌签发 HTTP 处理器
type Handler struct {
	store UserStore
	cfg   Config
}

// NewHandler 创建令牌签发处理器
func NewHandler(store UserStore, cfg Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes 注册认证相关路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /jwt", h.IssueToken)
}

// IssueToken 按邮箱签发令牌
//
// 路由: GET /jwt?email=
//
// 邮箱必须对应已注册用户，这是唯一一次回库检查身份；
// 未知邮箱按授权失败处理（401），不暴露"用户不存在"这一区别。
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil {
		log.Printf("[auth] GetUserByEmail error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	token, err := IssueToken(h.cfg, email)
	if err != nil {
		log.Printf("[auth] IssueToken error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": token})
}

// ============================================================================
// 工具函数
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
