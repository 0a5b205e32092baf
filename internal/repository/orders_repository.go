package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

type OrdersRepository struct {
	db       *gorm.DB
	products *ProductsRepository
}

func NewOrdersRepository(db *gorm.DB, products *ProductsRepository) *OrdersRepository {
	return &OrdersRepository{
		db:       db,
		products: products,
	}
}

// CreateOrder persists an order and decrements stock for every line in one
// transaction; any insufficient line aborts the whole checkout
func (r *OrdersRepository) CreateOrder(order *models.Order) error {
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber(order.CreatedAt, order.ID)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				return fmt.Errorf("invalid product id %q", item.ProductID)
			}
			if err := r.products.DecrementStock(tx, productID, item.Quantity); err != nil {
				return fmt.Errorf("product %s: %w", item.Name, err)
			}
		}
		return tx.Create(order).Error
	})
}

// GetOrderByNumber retrieves an order for tracking. The customer email must
// match so order numbers alone cannot leak someone else's order.
func (r *OrdersRepository) GetOrderByNumber(orderNumber, email string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("order_number = ? AND LOWER(customer_email) = LOWER(?)", orderNumber, email).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByID retrieves an order for the admin back-office
func (r *OrdersRepository) GetOrderByID(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders lists orders for the admin back-office, newest first
func (r *OrdersRepository) GetOrders(status *models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.Model(&models.Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateOrderStatus transitions an order's status
func (r *OrdersRepository) UpdateOrderStatus(orderID uuid.UUID, status models.OrderStatus) error {
	result := r.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// generateOrderNumber builds a short, human-quotable order reference
func generateOrderNumber(t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("ORD-%s-%s", t.UTC().Format("20060102"), id.String()[:8])
}
