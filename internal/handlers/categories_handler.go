package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

type CategoriesHandler struct {
	repo *repository.CategoriesRepository
}

func NewCategoriesHandler(repo *repository.CategoriesRepository) *CategoriesHandler {
	return &CategoriesHandler{
		repo: repo,
	}
}

// GetCategories lists categories. Storefront routes only see active ones.
func (h *CategoriesHandler) GetCategories(c *gin.Context) {
	categories, err := h.repo.GetCategories(c.GetBool("storefront"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.CategoryListResponse{
		Success: true,
		Data:    categories,
	})
}

// GetCategory retrieves a single category by ID
func (h *CategoriesHandler) GetCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid category ID",
			},
		})
		return
	}

	category, err := h.repo.GetCategoryByID(categoryID)
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
				Message: "Category not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.CategoryResponse{
		Success: true,
		Data:    category,
	})
}

// CreateCategory creates a new category (admin)
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
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

	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.Position != nil {
		category.Position = *req.Position
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := h.repo.CreateCategory(category); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.CategoryResponse{
		Success: true,
		Data:    category,
	})
}

// UpdateCategory applies a partial update to a category (admin)
func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid category ID",
			},
		})
		return
	}

	var req models.UpdateCategoryRequest
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
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
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

	if err := h.repo.UpdateCategory(categoryID, updates); err != nil {
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

	category, err := h.repo.GetCategoryByID(categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Category updated but could not be reloaded",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.CategoryResponse{
		Success: true,
		Data:    category,
	})
}

// DeleteCategory removes a category (admin). Categories still referenced by
// products cannot be deleted.
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid category ID",
			},
		})
		return
	}

	count, err := h.repo.CountProductsByCategory(categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "DELETE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CATEGORY_IN_USE",
				Message: "Category has products assigned to it",
			},
		})
		return
	}

	if err := h.repo.DeleteCategory(categoryID); err != nil {
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
				Message: "Failed to delete category",
			},
		})
		return
	}

	message := "Category deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: &message,
	})
}
