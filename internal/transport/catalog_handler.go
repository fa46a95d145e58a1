package transport

import (
	"errors"
	"net/http"

	"stitchmart/internal/middleware"
	"stitchmart/internal/repository"
	"stitchmart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// CreateTagRequest represents the tag creation payload
type CreateTagRequest struct {
	CategoryID string `json:"category_id" validate:"required,uuid"`
	Name       string `json:"name" validate:"required,min=2,max=100"`
}

// CreateAttributeRequest represents the size/color creation payload
type CreateAttributeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	TagID    string          `json:"tag_id" validate:"required,uuid"`
	Name     string          `json:"name" validate:"required,min=2,max=200"`
	Brand    string          `json:"brand" validate:"required,min=1,max=100"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Discount float64         `json:"discount" validate:"gte=0,lte=100"`
}

// VariantRequest represents the variant creation payload
type VariantRequest struct {
	SizeID   string          `json:"size_id" validate:"required,uuid"`
	ColorID  string          `json:"color_id" validate:"required,uuid"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

// UpdateVariantRequest represents the variant update payload
type UpdateVariantRequest struct {
	Price    decimal.Decimal `json:"price" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

// CatalogHandler handles HTTP requests for catalog operations
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Reads are public; mutations
// require an admin.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/tags", h.ListTags)
		r.Get("/sizes", h.ListSizes)
		r.Get("/colors", h.ListColors)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/categories", h.CreateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)
			r.Post("/tags", h.CreateTag)
			r.Delete("/tags/{id}", h.DeleteTag)
			r.Post("/sizes", h.CreateSize)
			r.Post("/colors", h.CreateColor)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/search", h.SearchProducts)
		r.Get("/{id}", h.GetProduct)
		r.Get("/slug/{slug}", h.GetProductBySlug)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
			r.Post("/{id}/variants", h.CreateVariant)
			r.Put("/variants/{variantID}", h.UpdateVariant)
			r.Delete("/variants/{variantID}", h.DeleteVariant)
			r.Post("/{id}/images", h.UploadImage)
			r.Delete("/images/{imageID}", h.DeleteImage)
		})
	})
}

func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "category already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func (h *CatalogHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	tag, err := h.catalogService.CreateTag(r.Context(), categoryID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, repository.ErrTagAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "tag already exists")
		default:
			h.logger.Error("Failed to create tag", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create tag")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, tag)
}

func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
			return
		}
		categoryID = &id
	}

	tags, err := h.catalogService.ListTags(r.Context(), categoryID)
	if err != nil {
		h.logger.Error("Failed to list tags", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, tags)
}

func (h *CatalogHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid tag ID")
		return
	}

	if err := h.catalogService.DeleteTag(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "tag not found")
			return
		}
		h.logger.Error("Failed to delete tag", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete tag")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "tag deleted"})
}

func (h *CatalogHandler) CreateSize(w http.ResponseWriter, r *http.Request) {
	var req CreateAttributeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	size, err := h.catalogService.CreateSize(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrAttributeAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "size already exists")
			return
		}
		h.logger.Error("Failed to create size", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create size")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, size)
}

func (h *CatalogHandler) ListSizes(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.catalogService.ListSizes(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sizes", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list sizes")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sizes)
}

func (h *CatalogHandler) CreateColor(w http.ResponseWriter, r *http.Request) {
	var req CreateAttributeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	color, err := h.catalogService.CreateColor(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrAttributeAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "color already exists")
			return
		}
		h.logger.Error("Failed to create color", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create color")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, color)
}

func (h *CatalogHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.catalogService.ListColors(r.Context())
	if err != nil {
		h.logger.Error("Failed to list colors", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list colors")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, colors)
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tagID, err := uuid.Parse(req.TagID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid tag ID")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), service.CreateProductInput{
		TagID:    tagID,
		Name:     req.Name,
		Brand:    req.Brand,
		Price:    req.Price,
		Discount: req.Discount,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTagNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "tag not found")
		case errors.Is(err, service.ErrInvalidDiscount):
			middleware.RespondWithError(w, http.StatusBadRequest, "discount must be between 0 and 100")
		case errors.Is(err, repository.ErrProductAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "product already exists")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tagID, err := uuid.Parse(req.TagID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid tag ID")
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, service.UpdateProductInput{
		TagID:    tagID,
		Name:     req.Name,
		Brand:    req.Brand,
		Price:    req.Price,
		Discount: req.Discount,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrTagNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "tag not found")
		case errors.Is(err, service.ErrInvalidDiscount):
			middleware.RespondWithError(w, http.StatusBadRequest, "discount must be between 0 and 100")
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	detail, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalogService.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	params := service.ProductListParams{
		Page:      page,
		PageSize:  pageSize,
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: repository.SortOrder(r.URL.Query().Get("sort_order")),
	}

	if v := r.URL.Query().Get("tag_id"); v != "" {
		tagID, err := uuid.Parse(v)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid tag ID")
			return
		}
		params.TagID = &tagID
	}

	products, total, err := h.catalogService.ListProducts(r.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListResponse{
		Data:     products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	products, total, err := h.catalogService.SearchProducts(r.Context(), r.URL.Query().Get("q"), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to search products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListResponse{
		Data:     products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *CatalogHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUUIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req VariantRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sizeID, err := uuid.Parse(req.SizeID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid size ID")
		return
	}
	colorID, err := uuid.Parse(req.ColorID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid color ID")
		return
	}

	variant, err := h.catalogService.CreateVariant(r.Context(), productID, service.CreateVariantInput{
		SizeID:   sizeID,
		ColorID:  colorID,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrSizeNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "size not found")
		case errors.Is(err, repository.ErrColorNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "color not found")
		case errors.Is(err, repository.ErrVariantAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "variant with this size and color already exists")
		default:
			h.logger.Error("Failed to create variant", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create variant")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, variant)
}

func (h *CatalogHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	variantID, err := parseUUIDParam(r, "variantID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant ID")
		return
	}

	var req UpdateVariantRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	variant, err := h.catalogService.UpdateVariant(r.Context(), variantID, service.UpdateVariantInput{
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
			return
		}
		h.logger.Error("Failed to update variant", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, variant)
}

func (h *CatalogHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	variantID, err := parseUUIDParam(r, "variantID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid variant ID")
		return
	}

	if err := h.catalogService.DeleteVariant(r.Context(), variantID); err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
			return
		}
		h.logger.Error("Failed to delete variant", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete variant")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "variant deleted"})
}

// UploadImage accepts a multipart form with an "image" file and a "color_id"
// field
func (h *CatalogHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	productID, err := parseUUIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	// 10 MB upload cap
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	colorID, err := uuid.Parse(r.FormValue("color_id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid color ID")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	image, err := h.catalogService.UploadImage(r.Context(), productID, colorID, file)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrColorNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "color not found")
		default:
			h.logger.Error("Failed to upload image", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to upload image")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, image)
}

func (h *CatalogHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, err := parseUUIDParam(r, "imageID")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid image ID")
		return
	}

	if err := h.catalogService.DeleteImage(r.Context(), imageID); err != nil {
		if errors.Is(err, repository.ErrProductImageNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "image not found")
			return
		}
		h.logger.Error("Failed to delete image", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete image")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "image deleted"})
}
