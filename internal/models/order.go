package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PaymentMethodCOD is the only supported payment method
const PaymentMethodCOD = "CASH_ON_DELIVERY"

// OrderItem is a product snapshot taken at checkout time
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// OrderItems is a []OrderItem stored as JSONB
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		o = OrderItems{}
	}
	return json.Marshal(o)
}

func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = make(OrderItems, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// Order represents a cash-on-delivery order placed from the storefront
type Order struct {
	ID              uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderNumber     string          `json:"orderNumber" gorm:"not null;uniqueIndex"`
	CustomerName    string          `json:"customerName" gorm:"not null"`
	CustomerEmail   string          `json:"customerEmail" gorm:"not null;index"`
	CustomerPhone   string          `json:"customerPhone" gorm:"not null"`
	ShippingAddress string          `json:"shippingAddress" gorm:"not null"`
	Items           OrderItems      `json:"items" gorm:"type:jsonb;not null"`
	Total           float64         `json:"total" gorm:"not null"`
	Status          OrderStatus     `json:"status" gorm:"not null;default:'PENDING';index"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"not null;default:'CASH_ON_DELIVERY'"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// PlaceOrderItem is a single line in a checkout request
type PlaceOrderItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// PlaceOrderRequest represents a checkout submission
type PlaceOrderRequest struct {
	CustomerName    string           `json:"customerName" binding:"required"`
	CustomerEmail   string           `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string           `json:"customerPhone" binding:"required"`
	ShippingAddress string           `json:"shippingAddress" binding:"required"`
	Items           []PlaceOrderItem `json:"items" binding:"required,dive"`
	Notes           *string          `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest represents an admin status change
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

type OrderResponse struct {
	Success bool    `json:"success"`
	Data    *Order  `json:"data"`
	Message *string `json:"message,omitempty"`
}

type OrderListResponse struct {
	Success    bool            `json:"success"`
	Data       []Order         `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
