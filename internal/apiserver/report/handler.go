// Package report 投诉领域 - HTTP 处理
package report

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"
)

// Handler 投诉领域 HTTP 处理器
type Handler struct {
	store storage.ReportStore
}

// NewHandler 创建投诉处理器
func NewHandler(store storage.ReportStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册投诉相关路由（公开，与原服务一致）
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /reported", h.List)
	mux.HandleFunc("POST /reported", h.Create)
	mux.HandleFunc("DELETE /reported/{id}", h.Delete)
}

// List 获取全部投诉
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reports, err := h.store.ListReports(r.Context())
	if err != nil {
		log.Printf("[report] ListReports error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Create 提交投诉
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var report model.Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report.ID = generateID("report")
	report.CreatedAt = time.Now()

	if err := h.store.CreateReport(r.Context(), &report); err != nil {
		log.Printf("[report] CreateReport error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create report")
		return
	}

	log.Printf("[report] Report created: %s (product %s)", report.ID, report.ProductID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"acknowledged": true,
		"inserted_id":  report.ID,
	})
}

// Delete 删除投诉
//
// 路径参数直接作为 _id 过滤条件——存储层的 _id 就是字符串，
// 不需要也不允许任何类型转换。
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.store.DeleteReport(r.Context(), id)
	if err != nil {
		log.Printf("[report] DeleteReport error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	log.Printf("[report] Report deleted: %s (count=%d)", id, deleted)
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
