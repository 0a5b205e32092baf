package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// ContentRepository manages storefront banners and promotional videos
type ContentRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewContentRepository(db *gorm.DB, redis *redis.Client) *ContentRepository {
	return &ContentRepository{
		db:    db,
		redis: redis,
	}
}

// Banner operations

func (r *ContentRepository) CreateBanner(banner *models.Banner) error {
	banner.CreatedAt = time.Now()
	banner.UpdatedAt = time.Now()
	if banner.ID == uuid.Nil {
		banner.ID = uuid.New()
	}
	return r.db.Create(banner).Error
}

func (r *ContentRepository) GetBannerByID(bannerID uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.Where("id = ?", bannerID).First(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

// GetBanners lists banners ordered by position; activeOnly is used by the
// public storefront endpoint
func (r *ContentRepository) GetBanners(activeOnly bool) ([]models.Banner, error) {
	var banners []models.Banner
	query := r.db.Model(&models.Banner{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("position ASC, created_at DESC").Find(&banners).Error
	return banners, err
}

func (r *ContentRepository) UpdateBanner(bannerID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Banner{}).Where("id = ?", bannerID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) DeleteBanner(bannerID uuid.UUID) error {
	result := r.db.Where("id = ?", bannerID).Delete(&models.Banner{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Promo video operations

func (r *ContentRepository) CreatePromoVideo(video *models.PromoVideo) error {
	video.CreatedAt = time.Now()
	video.UpdatedAt = time.Now()
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	return r.db.Create(video).Error
}

func (r *ContentRepository) GetPromoVideoByID(videoID uuid.UUID) (*models.PromoVideo, error) {
	var video models.PromoVideo
	if err := r.db.Where("id = ?", videoID).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *ContentRepository) GetPromoVideos(activeOnly bool) ([]models.PromoVideo, error) {
	var videos []models.PromoVideo
	query := r.db.Model(&models.PromoVideo{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("position ASC, created_at DESC").Find(&videos).Error
	return videos, err
}

func (r *ContentRepository) UpdatePromoVideo(videoID uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.PromoVideo{}).Where("id = ?", videoID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ContentRepository) DeletePromoVideo(videoID uuid.UUID) error {
	result := r.db.Where("id = ?", videoID).Delete(&models.PromoVideo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
