package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

type ProductsHandler struct {
	repo       *repository.ProductsRepository
	categories *repository.CategoriesRepository
}

func NewProductsHandler(repo *repository.ProductsRepository, categories *repository.CategoriesRepository) *ProductsHandler {
	return &ProductsHandler{
		repo:       repo,
		categories: categories,
	}
}

// GetProducts lists products with offset pagination
// GET /api/v1/products and /api/v1/admin/products
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	req := parseListRequest(c)

	products, total, err := h.repo.GetProducts(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve products",
			},
		})
		return
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success: true,
		Data:    products,
		Pagination: &models.PaginationInfo{
			Page:        req.Page,
			Limit:       req.Limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     req.Page < totalPages,
			HasPrevious: req.Page > 1,
		},
	})
}

// GetProductsFeed lists products with cursor pagination for infinite scroll
// GET /api/v1/products/feed
func (h *ProductsHandler) GetProductsFeed(c *gin.Context) {
	req := parseListRequest(c)
	cursor := c.Query("cursor")

	products, nextCursor, hasMore, err := h.repo.GetProductsByCursor(req, cursor)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_CURSOR",
				Message: err.Error(),
			},
		})
		return
	}

	info := &models.CursorInfo{
		HasMore: hasMore,
		Limit:   req.Limit,
	}
	if nextCursor != "" {
		info.NextCursor = &nextCursor
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success: true,
		Data:    products,
		Cursor:  info,
	})
}

// GetProduct retrieves a single product by ID
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID",
			},
		})
		return
	}

	product, err := h.repo.GetProductByID(productID)
	if err != nil {
		status := http.StatusInternalServerError
		code := "FETCH_FAILED"
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
			code = "NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    code,
				Message: "Product not found",
			},
		})
		return
	}

	// Inactive products are invisible to the storefront
	if c.GetBool("storefront") && !product.IsActive {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// GetProductBySlug retrieves a single product by its URL slug
func (h *ProductsHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.repo.GetProductBySlug(c.Param("slug"))
	if err != nil || (c.GetBool("storefront") && !product.IsActive) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Product not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// CreateProduct creates a new product (admin)
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	product := &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		SKU:           req.SKU,
		Model:         req.Model,
		Brand:         req.Brand,
		Images:        models.StringArray(req.Images),
		Sizes:         models.StringArray(req.Sizes),
		Colors:        models.StringArray(req.Colors),
		Tags:          models.StringArray(req.Tags),
		Details:       req.Details,
		IsActive:      true,
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsNewArrival != nil {
		product.IsNewArrival = *req.IsNewArrival
	}
	if req.IsTrending != nil {
		product.IsTrending = *req.IsTrending
	}
	if req.IsBestSeller != nil {
		product.IsBestSeller = *req.IsBestSeller
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "VALIDATION_ERROR",
					Message: "Invalid category ID",
					Field:   "categoryId",
				},
			})
			return
		}
		category, err := h.categories.GetCategoryByID(categoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "CATEGORY_NOT_FOUND",
					Message: "Category does not exist",
					Field:   "categoryId",
				},
			})
			return
		}
		product.CategoryID = &category.ID
		product.CategoryName = &category.Name
	}

	if err := h.repo.CreateProduct(product); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// UpdateProduct applies a partial update to a product (admin)
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID",
			},
		})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "VALIDATION_ERROR",
					Message: "Price must be non-negative",
					Field:   "price",
				},
			})
			return
		}
		updates["price"] = *req.Price
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Model != nil {
		updates["model"] = *req.Model
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Images != nil {
		updates["images"] = models.StringArray(*req.Images)
	}
	if req.Sizes != nil {
		updates["sizes"] = models.StringArray(*req.Sizes)
	}
	if req.Colors != nil {
		updates["colors"] = models.StringArray(*req.Colors)
	}
	if req.Tags != nil {
		updates["tags"] = models.StringArray(*req.Tags)
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsNewArrival != nil {
		updates["is_new_arrival"] = *req.IsNewArrival
	}
	if req.IsTrending != nil {
		updates["is_trending"] = *req.IsTrending
	}
	if req.IsBestSeller != nil {
		updates["is_best_seller"] = *req.IsBestSeller
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			updates["category_id"] = nil
			updates["category_name"] = nil
		} else {
			categoryID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Success: false,
					Error: models.Error{
						Code:    "VALIDATION_ERROR",
						Message: "Invalid category ID",
						Field:   "categoryId",
					},
				})
				return
			}
			category, err := h.categories.GetCategoryByID(categoryID)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Success: false,
					Error: models.Error{
						Code:    "CATEGORY_NOT_FOUND",
						Message: "Category does not exist",
						Field:   "categoryId",
					},
				})
				return
			}
			updates["category_id"] = category.ID
			updates["category_name"] = category.Name
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "No fields to update",
			},
		})
		return
	}

	if err := h.repo.UpdateProduct(productID, updates); err != nil {
		status := http.StatusInternalServerError
		code := "UPDATE_FAILED"
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
			code = "NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	product, err := h.repo.GetProductByID(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Product updated but could not be reloaded",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// DeleteProduct soft-deletes a product (admin)
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid product ID",
			},
		})
		return
	}

	if err := h.repo.DeleteProduct(productID); err != nil {
		status := http.StatusInternalServerError
		code := "DELETE_FAILED"
		if err == gorm.ErrRecordNotFound {
			status = http.StatusNotFound
			code = "NOT_FOUND"
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    code,
				Message: "Failed to delete product",
			},
		})
		return
	}

	message := "Product deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: &message,
	})
}

// parseListRequest builds a listing request from query parameters. Storefront
// routes set activeOnly through the route group; admin routes see everything.
func parseListRequest(c *gin.Context) *models.ListProductsRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	req := &models.ListProductsRequest{
		Page:       page,
		Limit:      limit,
		ActiveOnly: c.GetBool("storefront"),
	}

	if search := c.Query("search"); search != "" {
		req.Search = &search
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		req.CategoryID = &categoryID
	}
	if brand := c.Query("brand"); brand != "" {
		req.Brand = &brand
	}
	if minPrice := c.Query("minPrice"); minPrice != "" {
		if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
			req.MinPrice = &v
		}
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			req.MaxPrice = &v
		}
	}
	for param, target := range map[string]**bool{
		"featured":   &req.IsFeatured,
		"newArrival": &req.IsNewArrival,
		"trending":   &req.IsTrending,
		"bestSeller": &req.IsBestSeller,
	} {
		if value := c.Query(param); value != "" {
			flag := value == "true"
			*target = &flag
		}
	}
	if sortBy := c.Query("sortBy"); sortBy != "" {
		req.SortBy = &sortBy
	}
	if sortOrder := c.Query("sortOrder"); sortOrder != "" {
		req.SortOrder = &sortOrder
	}

	return req
}
