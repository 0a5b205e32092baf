package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

type OrdersHandler struct {
	orders   *repository.OrdersRepository
	products *repository.ProductsRepository
	logger   *logrus.Logger
}

func NewOrdersHandler(orders *repository.OrdersRepository, products *repository.ProductsRepository, logger *logrus.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders:   orders,
		products: products,
		logger:   logger,
	}
}

// PlaceOrder handles storefront checkout. Cash on delivery only, so the order
// is accepted as PENDING with no payment step.
// POST /api/v1/orders
func (h *OrdersHandler) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
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

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EMPTY_ORDER",
				Message: "Order must contain at least one item",
			},
		})
		return
	}

	// Snapshot name and price from the catalog at checkout time; the client
	// never supplies prices
	items := make(models.OrderItems, 0, len(req.Items))
	var total float64
	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "VALIDATION_ERROR",
					Message: "Invalid product ID",
					Field:   "items",
				},
			})
			return
		}

		product, err := h.products.GetProductByID(productID)
		if err != nil || !product.IsActive {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "PRODUCT_UNAVAILABLE",
					Message: "One or more products are no longer available",
					Field:   "items",
				},
			})
			return
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID.String(),
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
		})
		total += product.Price * float64(line.Quantity)
	}

	order := &models.Order{
		CustomerName:    req.CustomerName,
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		Total:           total,
		Status:          models.OrderStatusPending,
		PaymentMethod:   models.PaymentMethodCOD,
		Notes:           req.Notes,
	}

	if err := h.orders.CreateOrder(order); err != nil {
		h.logger.WithError(err).Error("Failed to place order")
		if strings.Contains(err.Error(), "insufficient stock") {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "INSUFFICIENT_STOCK",
					Message: err.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "ORDER_FAILED",
				Message: "Failed to place order",
			},
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"items":        len(order.Items),
	}).Info("Order placed")

	c.JSON(http.StatusCreated, models.OrderResponse{
		Success: true,
		Data:    order,
	})
}

// TrackOrder retrieves an order by its number and the customer email
// GET /api/v1/orders/track?orderNumber=...&email=...
func (h *OrdersHandler) TrackOrder(c *gin.Context) {
	orderNumber := c.Query("orderNumber")
	email := c.Query("email")
	if orderNumber == "" || email == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: "orderNumber and email are required",
			},
		})
		return
	}

	order, err := h.orders.GetOrderByNumber(orderNumber, email)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.OrderResponse{
		Success: true,
		Data:    order,
	})
}

// GetOrders lists orders for the admin back-office
// GET /api/v1/admin/orders
func (h *OrdersHandler) GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var status *models.OrderStatus
	if s := c.Query("status"); s != "" {
		orderStatus := models.OrderStatus(strings.ToUpper(s))
		status = &orderStatus
	}

	orders, total, err := h.orders.GetOrders(status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve orders",
			},
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, models.OrderListResponse{
		Success: true,
		Data:    orders,
		Pagination: &models.PaginationInfo{
			Page:        page,
			Limit:       limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	})
}

// GetOrder retrieves a single order by ID (admin)
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid order ID",
			},
		})
		return
	}

	order, err := h.orders.GetOrderByID(orderID)
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
				Message: "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.OrderResponse{
		Success: true,
		Data:    order,
	})
}

// UpdateOrderStatus transitions an order's status (admin)
// PATCH /api/v1/admin/orders/:id/status
func (h *OrdersHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_ID",
				Message: "Invalid order ID",
			},
		})
		return
	}

	var req models.UpdateOrderStatusRequest
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

	if !isValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_STATUS",
				Message: "Unknown order status",
				Field:   "status",
			},
		})
		return
	}

	if err := h.orders.UpdateOrderStatus(orderID, req.Status); err != nil {
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

	order, err := h.orders.GetOrderByID(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Order updated but could not be reloaded",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.OrderResponse{
		Success: true,
		Data:    order,
	})
}

func isValidOrderStatus(status models.OrderStatus) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return true
	}
	return false
}
