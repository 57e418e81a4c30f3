package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderPending               OrderStatus = "pending"
	OrderProcessing            OrderStatus = "processing"
	OrderAwaitingCustomization OrderStatus = "awaiting_customization"
	OrderUnderCustomization    OrderStatus = "under_customization"
	OrderCompleted             OrderStatus = "completed"
	OrderCancelled             OrderStatus = "cancelled"
	OrderRefunded              OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFree     PaymentStatus = "free"
)

type DeliveryStatus string

const (
	DeliveryPending         DeliveryStatus = "pending"
	DeliveryAutoDelivered   DeliveryStatus = "auto_delivered"
	DeliveryCustomDelivered DeliveryStatus = "custom_delivered"
)

// orderTransitions is the single source of truth for status changes. Every
// route goes through CanTransitionTo; cancelled and refunded are dead ends.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:               {OrderProcessing, OrderAwaitingCustomization, OrderCompleted, OrderCancelled},
	OrderProcessing:            {OrderAwaitingCustomization, OrderUnderCustomization, OrderCompleted, OrderCancelled},
	OrderAwaitingCustomization: {OrderUnderCustomization, OrderCompleted, OrderCancelled},
	OrderUnderCustomization:    {OrderCompleted, OrderCancelled},
	OrderCompleted:             {OrderRefunded},
	OrderCancelled:             {},
	OrderRefunded:              {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status change is allowed from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// TextChange is a single customer-requested text replacement.
type TextChange struct {
	Field string `bson:"field" json:"field"`
	Value string `bson:"value" json:"value"`
}

type UploadedLogo struct {
	URL      string `bson:"url" json:"url"`
	FileName string `bson:"fileName,omitempty" json:"fileName,omitempty"`
}

// Customizations is the customer-submitted payload attached to an order item.
type Customizations struct {
	TextChanges        []TextChange  `bson:"textChanges,omitempty" json:"textChanges,omitempty"`
	UploadedImages     []string      `bson:"uploadedImages,omitempty" json:"uploadedImages,omitempty"`
	UploadedLogo       *UploadedLogo `bson:"uploadedLogo,omitempty" json:"uploadedLogo,omitempty"`
	CustomizationNotes string        `bson:"customizationNotes,omitempty" json:"customizationNotes,omitempty"`
}

// Empty reports whether the payload carries no actual customer input.
func (c Customizations) Empty() bool {
	return len(c.TextChanges) == 0 &&
		len(c.UploadedImages) == 0 &&
		(c.UploadedLogo == nil || c.UploadedLogo.URL == "") &&
		c.CustomizationNotes == ""
}

type OrderItem struct {
	ProductID            primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName          string             `bson:"productName" json:"productName"`
	Quantity             int                `bson:"quantity" json:"quantity"`
	UnitPrice            float64            `bson:"unitPrice" json:"unitPrice"`
	TotalPrice           float64            `bson:"totalPrice" json:"totalPrice"`
	EnableCustomizations bool               `bson:"enableCustomizations" json:"enableCustomizations"`
	HasCustomizations    bool               `bson:"hasCustomizations" json:"hasCustomizations"`
	Customizations       Customizations     `bson:"customizations" json:"customizations"`
	DeliveryStatus       DeliveryStatus     `bson:"deliveryStatus" json:"deliveryStatus"`
	DeliveredAt          *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	DeliveryNote         string             `bson:"deliveryNote,omitempty" json:"deliveryNote,omitempty"`
}

// HistoryEntry is one record of the append-only audit trail. Entries are only
// ever pushed, never rewritten.
type HistoryEntry struct {
	Status    string    `bson:"status" json:"status"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Note      string    `bson:"note" json:"note"`
	ChangedBy string    `bson:"changedBy" json:"changedBy"`
}

// NewHistoryEntry stamps a history record with the current time.
func NewHistoryEntry(status OrderStatus, note, changedBy string) HistoryEntry {
	return HistoryEntry{
		Status:    string(status),
		Timestamp: time.Now().UTC(),
		Note:      note,
		ChangedBy: changedBy,
	}
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber    string             `bson:"orderNumber" json:"orderNumber"`
	CustomerID     primitive.ObjectID `bson:"customerId" json:"customerId"`
	CustomerEmail  string             `bson:"customerEmail" json:"customerEmail"`
	OrderStatus    OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	PaymentStatus  PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PayPalOrderID  string             `bson:"paypalOrderId,omitempty" json:"paypalOrderId,omitempty"`
	TransactionID  string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Items          []OrderItem        `bson:"items" json:"items"`
	Subtotal       float64            `bson:"subtotal" json:"subtotal"`
	PromoCode      string             `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	DiscountAmount float64            `bson:"discountAmount" json:"discountAmount"`
	TotalPrice     float64            `bson:"totalPrice" json:"totalPrice"`
	OrderHistory   []HistoryEntry     `bson:"orderHistory" json:"orderHistory"`
	EmailSentAt    *time.Time         `bson:"emailSentAt,omitempty" json:"emailSentAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AllItemsDelivered reports whether every line item has been delivered, auto
// or custom.
func (o *Order) AllItemsDelivered() bool {
	for _, item := range o.Items {
		if item.DeliveryStatus == DeliveryPending {
			return false
		}
	}
	return len(o.Items) > 0
}
