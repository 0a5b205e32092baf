package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// ContentHandler serves storefront banners and promo videos
type ContentHandler struct {
	repo *repository.ContentRepository
}

func NewContentHandler(repo *repository.ContentRepository) *ContentHandler {
	return &ContentHandler{
		repo: repo,
	}
}

// GetBanners lists banners ordered by position
func (h *ContentHandler) GetBanners(c *gin.Context) {
	banners, err := h.repo.GetBanners(c.GetBool("storefront"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve banners",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.BannerListResponse{
		Success: true,
		Data:    banners,
	})
}

// CreateBanner creates a banner (admin)
func (h *ContentHandler) CreateBanner(c *gin.Context) {
	var req models.CreateBannerRequest
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

	banner := &models.Banner{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: 1,
		IsActive: true,
	}
	if req.Position != nil {
		banner.Position = *req.Position
	}
	if req.IsActive != nil {
		banner.IsActive = *req.IsActive
	}

	if err := h.repo.CreateBanner(banner); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.BannerResponse{
		Success: true,
		Data:    banner,
	})
}

// UpdateBanner applies a partial update to a banner (admin)
func (h *ContentHandler) UpdateBanner(c *gin.Context) {
	bannerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid banner ID",
			},
		})
		return
	}

	var req models.UpdateBannerRequest
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
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Subtitle != nil {
		updates["subtitle"] = *req.Subtitle
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.LinkURL != nil {
		updates["link_url"] = *req.LinkURL
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

	if err := h.repo.UpdateBanner(bannerID, updates); err != nil {
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

	banner, err := h.repo.GetBannerByID(bannerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Banner updated but could not be reloaded",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.BannerResponse{
		Success: true,
		Data:    banner,
	})
}

// DeleteBanner removes a banner (admin)
func (h *ContentHandler) DeleteBanner(c *gin.Context) {
	bannerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid banner ID",
			},
		})
		return
	}

	if err := h.repo.DeleteBanner(bannerID); err != nil {
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
				Message: "Failed to delete banner",
			},
		})
		return
	}

	message := "Banner deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: &message,
	})
}

// GetPromoVideos lists promo videos ordered by position
func (h *ContentHandler) GetPromoVideos(c *gin.Context) {
	videos, err := h.repo.GetPromoVideos(c.GetBool("storefront"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve promo videos",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.PromoVideoListResponse{
		Success: true,
		Data:    videos,
	})
}

// CreatePromoVideo creates a promo video (admin)
func (h *ContentHandler) CreatePromoVideo(c *gin.Context) {
	var req models.CreatePromoVideoRequest
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

	video := &models.PromoVideo{
		Title:        req.Title,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Position:     1,
		IsActive:     true,
	}
	if req.Position != nil {
		video.Position = *req.Position
	}
	if req.IsActive != nil {
		video.IsActive = *req.IsActive
	}

	if err := h.repo.CreatePromoVideo(video); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "CREATE_FAILED",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, models.PromoVideoResponse{
		Success: true,
		Data:    video,
	})
}

// UpdatePromoVideo applies a partial update to a promo video (admin)
func (h *ContentHandler) UpdatePromoVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid video ID",
			},
		})
		return
	}

	var req models.UpdatePromoVideoRequest
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
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.VideoURL != nil {
		updates["video_url"] = *req.VideoURL
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
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

	if err := h.repo.UpdatePromoVideo(videoID, updates); err != nil {
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

	video, err := h.repo.GetPromoVideoByID(videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Video updated but could not be reloaded",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.PromoVideoResponse{
		Success: true,
		Data:    video,
	})
}

// DeletePromoVideo removes a promo video (admin)
func (h *ContentHandler) DeletePromoVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid video ID",
			},
		})
		return
	}

	if err := h.repo.DeletePromoVideo(videoID); err != nil {
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
				Message: "Failed to delete promo video",
			},
		})
		return
	}

	message := "Promo video deleted"
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: &message,
	})
}
