// Package product 商品领域 - HTTP 处理
package product

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

// Handler 商品领域 HTTP 处理器
type Handler struct {
	store storage.ProductStore
}

// NewHandler 创建商品处理器
func NewHandler(store storage.ProductStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册商品相关路由（全部公开，与原服务一致）
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.List)
	mux.HandleFunc("POST /products", h.Create)
	mux.HandleFunc("GET /products/{brandId}", h.ListByBrand)
	mux.HandleFunc("GET /product/{id}", h.Get)
	mux.HandleFunc("PUT /products/{id}", h.MarkSold)
	mux.HandleFunc("DELETE /products/{id}", h.Delete)
}

// List 获取全部商品
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		log.Printf("[product] ListProducts error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ListByBrand 按品牌获取商品
func (h *Handler) ListByBrand(w http.ResponseWriter, r *http.Request) {
	brandID := r.PathValue("brandId")

	products, err := h.store.ListProductsByBrand(r.Context(), brandID)
	if err != nil {
		log.Printf("[product] ListProductsByBrand error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Get 获取单个商品
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		log.Printf("[product] GetProduct error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	if product == nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create 创建商品（卖家发布）
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product.ID = generateID("prod")
	product.CreatedAt = time.Now()
	if product.Availability == "" {
		product.Availability = model.AvailabilityAvailable
	}

	if err := h.store.CreateProduct(r.Context(), &product); err != nil {
		log.Printf("[product] CreateProduct error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	log.Printf("[product] Product created: %s (brand %s)", product.ID, product.BrandID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"acknowledged": true,
		"inserted_id":  product.ID,
	})
}

// MarkSold 购买完成标记
//
// 路由: PUT /products/{id}
//
// 无论请求体写了什么，都固定写入 paid=true、availability="false"——
// 这是结算路径的行为约定，补丁内容被忽略。
func (h *Handler) MarkSold(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := h.store.MarkProductSold(r.Context(), id)
	if err != nil {
		log.Printf("[product] MarkProductSold error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	log.Printf("[product] Product marked sold: %s", id)
	writeJSON(w, http.StatusOK, result)
}

// Delete 删除商品
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := h.store.DeleteProduct(r.Context(), id)
	if err != nil {
		log.Printf("[product] DeleteProduct error: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	log.Printf("[product] Product deleted: %s (count=%d)", id, deleted)
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
