package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/breakfast4u/breakfast4u-api/models"
)

const (
	// TaxRate is the fixed tax applied to the pre-fee item total.
	TaxRate = 0.05

	orderNumberPrefix = "B4U"

	// Two attempts total: the fallback count-based sequence can race under
	// concurrent creation, and the order-number uniqueness constraint is the
	// safety net. On a collision the sequence is re-derived and the insert
	// retried once.
	orderCreateAttempts = 2

	estimatedReadyDelay = 30 * time.Minute
)

// Seams for the order-number clock and sequence, swapped in tests to force
// collisions deterministically.
var (
	orderNumberNow = time.Now
	orderSequence  = NextOrderSequence
)

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	MealID   uint `json:"meal" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,gte=1"`
}

// CreateOrderInput carries the validated request body for order creation.
type CreateOrderInput struct {
	StoreID         uint                   `json:"store" binding:"required"`
	Items           []OrderItemInput       `json:"items" binding:"required,min=1,dive"`
	OrderType       string                 `json:"orderType" binding:"required"`
	DeliveryAddress models.DeliveryAddress `json:"deliveryAddress"`
	CustomerNotes   string                 `json:"customerNotes" binding:"max=200"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

// GenerateOrderNumber formats a human-readable order number from a timestamp
// and a zero-padded sequence number.
func GenerateOrderNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("%s%d%04d", orderNumberPrefix, now.UnixMilli(), seq)
}

// CreateOrder prices and persists a new order for the given user.
//
// Pricing: each line snapshots the meal's current price; tax is a fixed 5% of
// the item total; the delivery fee applies only to Delivery orders. The item
// total must meet the store's minimum order. The order and its items persist
// atomically with status Pending and an estimated ready time 30 minutes out.
// A confirmation email is sent best-effort.
func CreateOrder(db *gorm.DB, user *models.User, input CreateOrderInput) (*models.Order, error) {
	var store models.Store
	if err := db.First(&store, input.StoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Store not found"}
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	var totalAmount float64
	orderItems := make([]models.OrderItem, 0, len(input.Items))
	emailItems := make([]EmailLineItem, 0, len(input.Items))

	for _, item := range input.Items {
		var meal models.Meal
		if err := db.First(&meal, item.MealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Message: fmt.Sprintf("Meal with ID %d not found", item.MealID)}
			}
			return nil, fmt.Errorf("failed to load meal: %w", err)
		}

		if !meal.IsAvailable {
			return nil, &InvalidStateError{Message: fmt.Sprintf("%s is currently not available", meal.Name)}
		}

		totalAmount += meal.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MealID:   meal.ID,
			Quantity: item.Quantity,
			Price:    meal.Price, // snapshot, immune to later meal edits
		})
		emailItems = append(emailItems, EmailLineItem{
			Name:     meal.Name,
			Quantity: item.Quantity,
			Price:    meal.Price,
		})
	}

	if totalAmount < store.MinimumOrder {
		return nil, &InvalidStateError{Message: fmt.Sprintf("Minimum order amount is ₹%g", store.MinimumOrder)}
	}

	deliveryFee := 0.0
	if input.OrderType == models.OrderTypeDelivery {
		deliveryFee = store.DeliveryFee
	}
	tax := roundMoney(totalAmount * TaxRate)
	finalAmount := totalAmount + deliveryFee + tax

	order := &models.Order{
		UserID:        user.ID,
		StoreID:       store.ID,
		Items:         orderItems,
		TotalAmount:   totalAmount,
		DeliveryFee:   deliveryFee,
		Tax:           tax,
		FinalAmount:   finalAmount,
		Status:        models.OrderStatusPending,
		OrderType:     input.OrderType,
		CustomerNotes: input.CustomerNotes,
		PaymentMethod: input.PaymentMethod,
	}
	if input.OrderType == models.OrderTypeDelivery {
		order.DeliveryAddress = input.DeliveryAddress
	}
	estimated := time.Now().Add(estimatedReadyDelay)
	order.EstimatedDeliveryTime = &estimated

	if err := insertWithOrderNumber(db, order); err != nil {
		return nil, err
	}

	// Confirmation email must never fail an already-committed order.
	if mailer := GetMailer(); mailer != nil {
		subject, body := OrderConfirmationEmail(order.OrderNumber, emailItems, finalAmount)
		if err := mailer.Send(user.Email, subject, body); err != nil {
			log.Printf("Order confirmation email failed: %v", err)
		}
	}

	return order, nil
}

// insertWithOrderNumber assigns an order number and persists the order,
// retrying once with a fresh sequence if the uniqueness constraint fires.
func insertWithOrderNumber(db *gorm.DB, order *models.Order) error {
	var lastErr error
	for attempt := 0; attempt < orderCreateAttempts; attempt++ {
		seq, err := orderSequence(db)
		if err != nil {
			return err
		}
		order.OrderNumber = GenerateOrderNumber(orderNumberNow(), seq)

		err = db.Create(order).Error
		if err == nil {
			return nil
		}
		if !isDuplicateKeyError(err) {
			return fmt.Errorf("failed to create order: %w", err)
		}
		// Collision with a concurrent creation; reset identity and retry.
		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
			order.Items[i].OrderID = 0
		}
		lastErr = err
	}
	return fmt.Errorf("failed to allocate a unique order number: %w", lastErr)
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// UpdateOrderStatus moves an order to the given status. Only the store's own
// owner or an admin may transition; any transition between recognized
// statuses is accepted. Delivered stamps the actual delivery time, and a
// repeated Delivered transition overwrites it.
func UpdateOrderStatus(db *gorm.DB, actor *models.User, orderID uint, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, &InvalidStateError{Message: "Invalid order status"}
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Order not found"}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if actor.Role != models.RoleAdmin {
		var store models.Store
		if err := db.First(&store, order.StoreID).Error; err != nil || store.OwnerID != actor.ID {
			return nil, &ForbiddenError{Message: "Not authorized to update this order"}
		}
	}

	order.Status = status
	if status == models.OrderStatusDelivered {
		now := time.Now()
		order.ActualDeliveryTime = &now
	}

	if err := db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return &order, nil
}

// CancelOrder cancels an order on behalf of its own purchasing user. Orders
// can only be cancelled while Pending or Confirmed.
func CancelOrder(db *gorm.DB, actor *models.User, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Order not found"}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if order.UserID != actor.ID {
		return nil, &ForbiddenError{Message: "Not authorized to cancel this order"}
	}

	switch order.Status {
	case models.OrderStatusPreparing, models.OrderStatusReady,
		models.OrderStatusOutForDelivery, models.OrderStatusDelivered:
		return nil, &InvalidStateError{Message: "Order cannot be cancelled at this stage"}
	}

	order.Status = models.OrderStatusCancelled
	if err := db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	return &order, nil
}

// AddOrderReview attaches a one-time review to a delivered order. Only the
// purchasing user may review, only once, and only after delivery.
func AddOrderReview(db *gorm.DB, actor *models.User, orderID uint, rating int, review string) (*models.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, &InvalidStateError{Message: "Rating must be between 1 and 5"}
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Order not found"}
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if order.UserID != actor.ID {
		return nil, &ForbiddenError{Message: "Not authorized to review this order"}
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, &InvalidStateError{Message: "Can only review delivered orders"}
	}
	if order.Rating != nil {
		return nil, &InvalidStateError{Message: "Order already reviewed"}
	}

	order.Rating = &rating
	order.Review = review
	if err := db.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return &order, nil
}

// roundMoney rounds to two decimal places.
func roundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
