package models

import (
	"time"
)

// Order statuses.
const (
	OrderStatusPending        = "Pending"
	OrderStatusConfirmed      = "Confirmed"
	OrderStatusPreparing      = "Preparing"
	OrderStatusReady          = "Ready"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
)

// OrderStatuses lists every recognized order status.
var OrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
	OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order types.
const (
	OrderTypePickup   = "Pickup"
	OrderTypeDelivery = "Delivery"
)

// Payment methods.
var PaymentMethods = []string{"Cash on Delivery", "Online Payment", "UPI"}

// Payment statuses.
var PaymentStatuses = []string{"Pending", "Paid", "Failed", "Refunded"}

// OrderItem is one line of an order. Price is snapshotted from the meal at
// order time; later meal price edits never touch it.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"not null;index" json:"-"`
	MealID   uint    `gorm:"not null" json:"mealId"`
	Meal     *Meal   `gorm:"foreignKey:MealID" json:"meal,omitempty"`
	Quantity int     `gorm:"not null;check:quantity >= 1" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// DeliveryAddress is where a Delivery order goes. Empty for Pickup.
type DeliveryAddress struct {
	Street   string `json:"street"`
	Area     string `json:"area"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark"`
}

// Order represents a placed order. Orders are created once and mutated only
// along the status state machine and by a single post-delivery review.
type Order struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	OrderNumber           string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID                uint            `gorm:"not null;index" json:"userId"`
	User                  *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StoreID               uint            `gorm:"not null;index" json:"storeId"`
	Store                 *Store          `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Items                 []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount           float64         `gorm:"not null" json:"totalAmount"`
	DeliveryFee           float64         `gorm:"not null;default:0" json:"deliveryFee"`
	Tax                   float64         `gorm:"not null;default:0" json:"tax"`
	FinalAmount           float64         `gorm:"not null" json:"finalAmount"`
	Status                string          `gorm:"not null;default:'Pending';index" json:"status"`
	OrderType             string          `gorm:"not null" json:"orderType"`
	DeliveryAddress       DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_" json:"deliveryAddress"`
	CustomerNotes         string          `json:"customerNotes"`
	EstimatedDeliveryTime *time.Time      `json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time      `json:"actualDeliveryTime"`
	PaymentMethod         string          `gorm:"not null" json:"paymentMethod"`
	PaymentStatus         string          `gorm:"not null;default:'Pending'" json:"paymentStatus"`
	Rating                *int            `json:"rating"`
	Review                string          `json:"review"`
	CreatedAt             time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsValidOrderStatus reports whether status is a recognized order status.
func IsValidOrderStatus(status string) bool {
	return StringList(OrderStatuses).Contains(status)
}

// IsValidOrderType reports whether t is Pickup or Delivery.
func IsValidOrderType(t string) bool {
	return t == OrderTypePickup || t == OrderTypeDelivery
}

// IsValidPaymentMethod reports whether method is a recognized payment method.
func IsValidPaymentMethod(method string) bool {
	return StringList(PaymentMethods).Contains(method)
}
