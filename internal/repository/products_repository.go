package repository

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute // Single product cache
	ProductListCacheTTL = 2 * time.Minute // Product list cache (shorter due to frequent changes)
)

type ProductsRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewProductsRepository(db *gorm.DB, redis *redis.Client) *ProductsRepository {
	return &ProductsRepository{
		db:    db,
		redis: redis,
	}
}

// generateListCacheKey creates a deterministic cache key for list queries
func generateListCacheKey(prefix string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// invalidateProductCaches drops cached reads after a write
func (r *ProductsRepository) invalidateProductCaches(ctx context.Context, productID uuid.UUID) {
	if r.redis == nil {
		return
	}
	r.redis.Del(ctx, fmt.Sprintf("product:%s", productID.String()))
	r.invalidateProductListCaches(ctx)
}

func (r *ProductsRepository) invalidateProductListCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	iter := r.redis.Scan(ctx, 0, "products:list:*", 100).Iterator()
	for iter.Next(ctx) {
		r.redis.Del(ctx, iter.Val())
	}
}

// CreateProduct creates a new product
func (r *ProductsRepository) CreateProduct(product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	// Ensure product has an ID before generating slug (for uniqueness)
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	if product.Slug == "" {
		product.Slug = uniqueSlug(product.Name, product.ID)
	}

	err := r.db.Create(product).Error
	if err == nil {
		r.invalidateProductCaches(context.Background(), product.ID)
	}
	return err
}

// GetProductByID retrieves a single product
func (r *ProductsRepository) GetProductByID(productID uuid.UUID) (*models.Product, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("product:%s", productID.String())

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	if err := r.db.Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		data, err := json.Marshal(product)
		if err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}

	return &product, nil
}

// GetProductBySlug retrieves a single product by its slug
func (r *ProductsRepository) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a column map to a product
func (r *ProductsRepository) UpdateProduct(productID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Product{}).Where("id = ?", productID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateProductCaches(context.Background(), productID)
	return nil
}

// DeleteProduct soft-deletes a product
func (r *ProductsRepository) DeleteProduct(productID uuid.UUID) error {
	result := r.db.Where("id = ?", productID).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateProductCaches(context.Background(), productID)
	return nil
}

// GetProducts lists products with offset pagination and filter/sort composition
func (r *ProductsRepository) GetProducts(req *models.ListProductsRequest) ([]models.Product, int64, error) {
	ctx := context.Background()
	cacheKey := generateListCacheKey("products:list", req)

	type cachedList struct {
		Products []models.Product `json:"products"`
		Total    int64            `json:"total"`
	}

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached cachedList
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Total, nil
			}
		}
	}

	var products []models.Product
	var total int64

	query := r.applyProductFilters(r.db.Model(&models.Product{}), req)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyProductSort(query, req.SortBy, req.SortOrder)

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	if r.redis != nil {
		data, err := json.Marshal(cachedList{Products: products, Total: total})
		if err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductListCacheTTL)
		}
	}

	return products, total, nil
}

// GetProductsByCursor lists products ordered by (created_at DESC, id DESC) from
// an opaque cursor. Returns the page plus the cursor for the next one.
func (r *ProductsRepository) GetProductsByCursor(req *models.ListProductsRequest, cursor string) ([]models.Product, string, bool, error) {
	query := r.applyProductFilters(r.db.Model(&models.Product{}), req)

	if cursor != "" {
		createdAt, id, err := DecodeCursor(cursor)
		if err != nil {
			return nil, "", false, err
		}
		query = query.Where("(created_at, id) < (?, ?)", createdAt, id)
	}

	var products []models.Product
	// Fetch one extra row to learn whether another page exists
	err := query.Order("created_at DESC, id DESC").Limit(req.Limit + 1).Find(&products).Error
	if err != nil {
		return nil, "", false, err
	}

	hasMore := len(products) > req.Limit
	if hasMore {
		products = products[:req.Limit]
	}

	nextCursor := ""
	if hasMore && len(products) > 0 {
		last := products[len(products)-1]
		nextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}

	return products, nextCursor, hasMore, nil
}

// applyProductFilters composes WHERE clauses from the listing request
func (r *ProductsRepository) applyProductFilters(query *gorm.DB, req *models.ListProductsRequest) *gorm.DB {
	if req.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		query = query.Where("category_id = ?", *req.CategoryID)
	}
	if req.Brand != nil && *req.Brand != "" {
		query = query.Where("LOWER(brand) = LOWER(?)", *req.Brand)
	}
	if req.MinPrice != nil {
		query = query.Where("price >= ?", *req.MinPrice)
	}
	if req.MaxPrice != nil {
		query = query.Where("price <= ?", *req.MaxPrice)
	}
	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}
	if req.IsNewArrival != nil {
		query = query.Where("is_new_arrival = ?", *req.IsNewArrival)
	}
	if req.IsTrending != nil {
		query = query.Where("is_trending = ?", *req.IsTrending)
	}
	if req.IsBestSeller != nil {
		query = query.Where("is_best_seller = ?", *req.IsBestSeller)
	}
	if req.Search != nil && *req.Search != "" {
		like := "%" + strings.ToLower(*req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	return query
}

// sortColumns whitelists sortable columns to keep user input out of ORDER BY
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
}

func applyProductSort(query *gorm.DB, sortBy, sortOrder *string) *gorm.DB {
	column := "created_at"
	if sortBy != nil {
		if mapped, ok := sortColumns[*sortBy]; ok {
			column = mapped
		}
	}
	order := "DESC"
	if sortOrder != nil && strings.EqualFold(*sortOrder, "asc") {
		order = "ASC"
	}
	return query.Order(fmt.Sprintf("%s %s", column, order))
}

// UpsertBySKU finds a product by SKU and updates it, or creates it when no
// match exists. The returned boolean reports whether an existing product was
// matched, which is what distinguishes an update from a create.
func (r *ProductsRepository) UpsertBySKU(product *models.Product) (*models.Product, bool, error) {
	if product.SKU == nil || *product.SKU == "" {
		return nil, false, fmt.Errorf("upsert requires a non-empty sku")
	}

	var matched bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		err := tx.Unscoped().Where("sku = ?", *product.SKU).First(&existing).Error

		if err == nil {
			matched = true
			product.ID = existing.ID
			product.CreatedAt = existing.CreatedAt // Preserve original creation time
			product.UpdatedAt = time.Now()

			if product.Slug == "" {
				product.Slug = existing.Slug
			}

			// Update in place, clearing deleted_at to restore soft-deleted rows
			return tx.Unscoped().Model(&models.Product{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"name":           product.Name,
					"slug":           product.Slug,
					"description":    product.Description,
					"price":          product.Price,
					"stock_quantity": product.StockQuantity,
					"model":          product.Model,
					"brand":          product.Brand,
					"category_id":    product.CategoryID,
					"category_name":  product.CategoryName,
					"images":         product.Images,
					"sizes":          product.Sizes,
					"colors":         product.Colors,
					"tags":           product.Tags,
					"details":        product.Details,
					"is_featured":    product.IsFeatured,
					"is_new_arrival": product.IsNewArrival,
					"is_trending":    product.IsTrending,
					"is_best_seller": product.IsBestSeller,
					"is_active":      product.IsActive,
					"updated_at":     product.UpdatedAt,
					"deleted_at":     nil,
				}).Error
		}

		if err != gorm.ErrRecordNotFound {
			return err
		}

		matched = false
		product.CreatedAt = time.Now()
		product.UpdatedAt = time.Now()
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		if product.Slug == "" {
			product.Slug = uniqueSlug(product.Name, product.ID)
		}
		return tx.Create(product).Error
	})

	if err != nil {
		return nil, false, err
	}

	r.invalidateProductCaches(context.Background(), product.ID)
	return product, matched, nil
}

// DecrementStock atomically reduces stock for a product, failing when the
// remaining stock is insufficient
func (r *ProductsRepository) DecrementStock(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("insufficient stock")
	}
	return nil
}

// EncodeCursor packs a (createdAt, id) position into an opaque page token
func EncodeCursor(createdAt time.Time, id uuid.UUID) string {
	raw := fmt.Sprintf("%s|%s", createdAt.UTC().Format(time.RFC3339Nano), id.String())
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor unpacks a page token produced by EncodeCursor
func DecodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, fmt.Errorf("malformed cursor")
	}
	return createdAt, id, nil
}

func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// uniqueSlug appends the first 8 chars of the product ID to keep slugs unique
func uniqueSlug(name string, id uuid.UUID) string {
	return fmt.Sprintf("%s-%s", generateSlug(name), id.String()[:8])
}
