package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// CategoryCacheTTL is generous because categories rarely change
const CategoryCacheTTL = 30 * time.Minute

type CategoriesRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCategoriesRepository(db *gorm.DB, redis *redis.Client) *CategoriesRepository {
	return &CategoriesRepository{
		db:    db,
		redis: redis,
	}
}

func (r *CategoriesRepository) invalidateCategoryCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	iter := r.redis.Scan(ctx, 0, "categories:*", 100).Iterator()
	for iter.Next(ctx) {
		r.redis.Del(ctx, iter.Val())
	}
}

// CreateCategory creates a new category
func (r *CategoriesRepository) CreateCategory(category *models.Category) error {
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.Slug == "" {
		category.Slug = uniqueSlug(category.Name, category.ID)
	}
	err := r.db.Create(category).Error
	if err == nil {
		r.invalidateCategoryCaches(context.Background())
	}
	return err
}

// GetCategoryByID retrieves a single category
func (r *CategoriesRepository) GetCategoryByID(categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName resolves a category by case-insensitive exact name match.
// Returns gorm.ErrRecordNotFound when no category matches.
func (r *CategoriesRepository) FindByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategories lists categories ordered by position
func (r *CategoriesRepository) GetCategories(activeOnly bool) ([]models.Category, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("categories:list:%v", activeOnly)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var categories []models.Category
			if err := json.Unmarshal([]byte(val), &categories); err == nil {
				return categories, nil
			}
		}
	}

	var categories []models.Category
	query := r.db.Model(&models.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		data, err := json.Marshal(categories)
		if err == nil {
			r.redis.Set(ctx, cacheKey, data, CategoryCacheTTL)
		}
	}

	return categories, nil
}

// UpdateCategory applies a column map to a category
func (r *CategoriesRepository) UpdateCategory(categoryID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Category{}).Where("id = ?", categoryID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCategoryCaches(context.Background())
	return nil
}

// DeleteCategory soft-deletes a category. Products keep their denormalized
// category name but lose the reference on next import/update.
func (r *CategoriesRepository) DeleteCategory(categoryID uuid.UUID) error {
	result := r.db.Where("id = ?", categoryID).Delete(&models.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateCategoryCaches(context.Background())
	return nil
}

// CountProductsByCategory returns how many products reference a category,
// used to warn admins before deletion
func (r *CategoriesRepository) CountProductsByCategory(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
