package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray is a []string stored as JSONB
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		a = StringArray{}
	}
	return json.Marshal(a)
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = make(StringArray, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// StringMap is a map[string]string stored as JSONB (open-ended key set)
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		m = StringMap{}
	}
	return json.Marshal(m)
}

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(StringMap)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Product represents a catalog product
type Product struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name          string          `json:"name" gorm:"not null;index"`
	Slug          string          `json:"slug" gorm:"not null;uniqueIndex"`
	Description   *string         `json:"description,omitempty"`
	Price         float64         `json:"price" gorm:"not null;index"`
	StockQuantity int             `json:"stockQuantity" gorm:"not null;default:0"`
	SKU           *string         `json:"sku,omitempty" gorm:"index"`
	Model         *string         `json:"model,omitempty"`
	Brand         *string         `json:"brand,omitempty" gorm:"index"`
	CategoryID    *uuid.UUID      `json:"categoryId,omitempty" gorm:"index"`
	CategoryName  *string         `json:"categoryName,omitempty"`
	Images        StringArray     `json:"images" gorm:"type:jsonb"`
	Sizes         StringArray     `json:"sizes" gorm:"type:jsonb"`
	Colors        StringArray     `json:"colors" gorm:"type:jsonb"`
	Tags          StringArray     `json:"tags" gorm:"type:jsonb"`
	Details       StringMap       `json:"details" gorm:"type:jsonb"`
	IsFeatured    bool            `json:"isFeatured" gorm:"default:false;index"`
	IsNewArrival  bool            `json:"isNewArrival" gorm:"default:false"`
	IsTrending    bool            `json:"isTrending" gorm:"default:false"`
	IsBestSeller  bool            `json:"isBestSeller" gorm:"default:false"`
	IsActive      bool            `json:"isActive" gorm:"default:true;index"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Category represents a product category
type Category struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string          `json:"name" gorm:"not null;index"`
	Slug        string          `json:"slug" gorm:"not null;uniqueIndex"`
	Description *string         `json:"description,omitempty"`
	ImageURL    *string         `json:"imageUrl,omitempty" gorm:"column:image_url"`
	Position    int             `json:"position" gorm:"not null;default:1"`
	IsActive    bool            `json:"isActive" gorm:"column:is_active;default:true"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name          string    `json:"name" binding:"required"`
	Description   *string   `json:"description,omitempty"`
	Price         float64   `json:"price" binding:"gte=0"`
	StockQuantity int       `json:"stockQuantity" binding:"gte=0"`
	SKU           *string   `json:"sku,omitempty"`
	Model         *string   `json:"model,omitempty"`
	Brand         *string   `json:"brand,omitempty"`
	CategoryID    *string   `json:"categoryId,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Sizes         []string  `json:"sizes,omitempty"`
	Colors        []string  `json:"colors,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Details       StringMap `json:"details,omitempty"`
	IsFeatured    *bool     `json:"isFeatured,omitempty"`
	IsNewArrival  *bool     `json:"isNewArrival,omitempty"`
	IsTrending    *bool     `json:"isTrending,omitempty"`
	IsBestSeller  *bool     `json:"isBestSeller,omitempty"`
	IsActive      *bool     `json:"isActive,omitempty"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	StockQuantity *int       `json:"stockQuantity,omitempty"`
	SKU           *string    `json:"sku,omitempty"`
	Model         *string    `json:"model,omitempty"`
	Brand         *string    `json:"brand,omitempty"`
	CategoryID    *string    `json:"categoryId,omitempty"`
	Images        *[]string  `json:"images,omitempty"`
	Sizes         *[]string  `json:"sizes,omitempty"`
	Colors        *[]string  `json:"colors,omitempty"`
	Tags          *[]string  `json:"tags,omitempty"`
	Details       *StringMap `json:"details,omitempty"`
	IsFeatured    *bool      `json:"isFeatured,omitempty"`
	IsNewArrival  *bool      `json:"isNewArrival,omitempty"`
	IsTrending    *bool      `json:"isTrending,omitempty"`
	IsBestSeller  *bool      `json:"isBestSeller,omitempty"`
	IsActive      *bool      `json:"isActive,omitempty"`
}

// ListProductsRequest represents a catalog listing query
type ListProductsRequest struct {
	Search       *string  `json:"search,omitempty"`
	CategoryID   *string  `json:"categoryId,omitempty"`
	Brand        *string  `json:"brand,omitempty"`
	MinPrice     *float64 `json:"minPrice,omitempty"`
	MaxPrice     *float64 `json:"maxPrice,omitempty"`
	IsFeatured   *bool    `json:"isFeatured,omitempty"`
	IsNewArrival *bool    `json:"isNewArrival,omitempty"`
	IsTrending   *bool    `json:"isTrending,omitempty"`
	IsBestSeller *bool    `json:"isBestSeller,omitempty"`
	ActiveOnly   bool     `json:"activeOnly"`
	SortBy       *string  `json:"sortBy,omitempty"`
	SortOrder    *string  `json:"sortOrder,omitempty"`
	Page         int      `json:"page"`
	Limit        int      `json:"limit"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Position    *int    `json:"position,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Position    *int    `json:"position,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Response types
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// CursorInfo carries cursor pagination state for storefront feeds
type CursorInfo struct {
	NextCursor *string `json:"nextCursor,omitempty"`
	HasMore    bool    `json:"hasMore"`
	Limit      int     `json:"limit"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	Cursor     *CursorInfo     `json:"cursor,omitempty"`
}

type CategoryResponse struct {
	Success bool      `json:"success"`
	Data    *Category `json:"data"`
	Message *string   `json:"message,omitempty"`
}

type CategoryListResponse struct {
	Success bool       `json:"success"`
	Data    []Category `json:"data"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
