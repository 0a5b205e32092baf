package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Banner represents a storefront hero/promotional banner
type Banner struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title     string          `json:"title" gorm:"not null"`
	Subtitle  *string         `json:"subtitle,omitempty"`
	ImageURL  string          `json:"imageUrl" gorm:"column:image_url;not null"`
	LinkURL   *string         `json:"linkUrl,omitempty" gorm:"column:link_url"`
	Position  int             `json:"position" gorm:"not null;default:1"`
	IsActive  bool            `json:"isActive" gorm:"column:is_active;default:true"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// PromoVideo represents a promotional video shown on the storefront
type PromoVideo struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title        string          `json:"title" gorm:"not null"`
	VideoURL     string          `json:"videoUrl" gorm:"column:video_url;not null"`
	ThumbnailURL *string         `json:"thumbnailUrl,omitempty" gorm:"column:thumbnail_url"`
	Position     int             `json:"position" gorm:"not null;default:1"`
	IsActive     bool            `json:"isActive" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// CreateBannerRequest represents a request to create a banner
type CreateBannerRequest struct {
	Title    string  `json:"title" binding:"required"`
	Subtitle *string `json:"subtitle,omitempty"`
	ImageURL string  `json:"imageUrl" binding:"required"`
	LinkURL  *string `json:"linkUrl,omitempty"`
	Position *int    `json:"position,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// UpdateBannerRequest represents a partial banner update
type UpdateBannerRequest struct {
	Title    *string `json:"title,omitempty"`
	Subtitle *string `json:"subtitle,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
	LinkURL  *string `json:"linkUrl,omitempty"`
	Position *int    `json:"position,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// CreatePromoVideoRequest represents a request to create a promo video
type CreatePromoVideoRequest struct {
	Title        string  `json:"title" binding:"required"`
	VideoURL     string  `json:"videoUrl" binding:"required"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	Position     *int    `json:"position,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

// UpdatePromoVideoRequest represents a partial promo video update
type UpdatePromoVideoRequest struct {
	Title        *string `json:"title,omitempty"`
	VideoURL     *string `json:"videoUrl,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	Position     *int    `json:"position,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

type BannerResponse struct {
	Success bool    `json:"success"`
	Data    *Banner `json:"data"`
	Message *string `json:"message,omitempty"`
}

type BannerListResponse struct {
	Success bool     `json:"success"`
	Data    []Banner `json:"data"`
}

type PromoVideoResponse struct {
	Success bool        `json:"success"`
	Data    *PromoVideo `json:"data"`
	Message *string     `json:"message,omitempty"`
}

type PromoVideoListResponse struct {
	Success bool         `json:"success"`
	Data    []PromoVideo `json:"data"`
}

// TableName returns the table name for the Banner model
func (Banner) TableName() string {
	return "banners"
}

// TableName returns the table name for the PromoVideo model
func (PromoVideo) TableName() string {
	return "promo_videos"
}
