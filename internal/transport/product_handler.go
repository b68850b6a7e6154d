package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest is the body accepted by create and update. The text keys
// must be present; empty strings are stored as given.
type ProductRequest struct {
	Name          *string          `json:"name" validate:"required"`
	Description   *string          `json:"description" validate:"required"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	StockQuantity *int32           `json:"stock_quantity" validate:"required"`
	Category      *string          `json:"category"`
	ImgURL        *string          `json:"img_url"`
}

func (req ProductRequest) toInput() domain.ProductInput {
	return domain.ProductInput{
		Name:          *req.Name,
		Description:   req.Description,
		Price:         req.Price.Round(2),
		StockQuantity: *req.StockQuantity,
		Category:      req.Category,
		ImgURL:        req.ImgURL,
	}
}

// ProductResponse is the JSON form of a product. Price is written as a bare
// JSON number carrying the stored decimal digits.
type ProductResponse struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	Price         json.Number `json:"price"`
	StockQuantity int32       `json:"stock_quantity"`
	Category      *string     `json:"category"`
	ImgURL        *string     `json:"img_url"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         json.Number(p.Price.String()),
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		ImgURL:        p.ImgURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProductHandler handles HTTP requests for the product catalogue
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Post("/product", h.AddProduct)
	r.Get("/products", h.GetAllProducts)
	r.Get("/product/{id:[0-9]+}", h.GetProductByID)
	r.Put("/product/{id:[0-9]+}", h.UpdateProductByID)
	r.Delete("/product/{id:[0-9]+}", h.DeleteProductByID)
}

// AddProduct handles POST /product
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondToDecodeError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), req.toInput())
	if err != nil {
		h.logger.Error("Failed to add product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to add product.")
		return
	}

	h.logger.Info("Product added", zap.Int64("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, "Product added successfully.")
}

// GetAllProducts handles GET /products
func (h *ProductHandler) GetAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products!")
		return
	}

	response := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, newProductResponse(p))
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// GetProductByID handles GET /product/{id}
func (h *ProductHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found!")
			return
		}
		h.logger.Error("Failed to fetch product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch product!")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newProductResponse(product))
}

// UpdateProductByID handles PUT /product/{id}
func (h *ProductHandler) UpdateProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondToDecodeError(w, err)
		return
	}

	if err := h.productService.Update(r.Context(), id, req.toInput()); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found!")
			return
		}
		h.logger.Error("Failed to update product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to update product!")
		return
	}

	h.logger.Info("Product updated", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, "Product updated successfully.")
}

// DeleteProductByID handles DELETE /product/{id}
func (h *ProductHandler) DeleteProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found!")
			return
		}
		h.logger.Error("Failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to delete the product!")
		return
	}

	h.logger.Info("Product deleted", zap.Int64("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, "Product deleted successfully.")
}

// productID reads the {id} path segment. The route pattern only admits
// digits, so a failure here means the value overflowed int64.
func (h *ProductHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found!")
		return 0, false
	}
	return id, true
}
