package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/models"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
	"github.com/haitham-akram/prestige-designs-sub003/services/fulfillment"
	"github.com/haitham-akram/prestige-designs-sub003/services/paypal"
)

type PayPalController struct {
	db          *database.Mongo
	paypal      *paypal.Client
	fulfillment *fulfillment.Service
	log         logger.Logger
}

func NewPayPalController(db *database.Mongo, pp *paypal.Client, f *fulfillment.Service, log logger.Logger) *PayPalController {
	return &PayPalController{db: db, paypal: pp, fulfillment: f, log: log}
}

type paypalOrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// loadOwnOrder fetches the order and enforces ownership.
func (p *PayPalController) loadOwnOrder(ctx context.Context, c *gin.Context, orderIDHex string) (*models.Order, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return nil, false
	}
	orderID, err := primitive.ObjectIDFromHex(orderIDHex)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderId"})
		return nil, false
	}

	var order models.Order
	if err := p.db.Orders.FindOne(ctx, bson.M{"_id": orderID, "customerId": userID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	return &order, true
}

// CreateOrder opens a PayPal order for an unpaid checkout.
func (p *PayPalController) CreateOrder(c *gin.Context) {
	var input paypalOrderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	order, ok := p.loadOwnOrder(ctx, c, input.OrderID)
	if !ok {
		return
	}
	if order.OrderStatus.Terminal() {
		c.JSON(http.StatusConflict, gin.H{"error": "Order is no longer active"})
		return
	}
	if order.PaymentStatus != models.PaymentPending || order.TotalPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order does not require payment"})
		return
	}

	paypalOrderID, err := p.paypal.CreateOrder(ctx, order.TotalPrice, order.OrderNumber)
	if err != nil {
		p.log.Error("paypal create order failed", "orderNumber", order.OrderNumber, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create PayPal order"})
		return
	}

	update := bson.M{
		"$set": bson.M{
			"paypalOrderId": paypalOrderID,
			"updatedAt":     time.Now().UTC(),
		},
		"$push": bson.M{
			"orderHistory": models.NewHistoryEntry(order.OrderStatus, "paypal order created", "system"),
		},
	}
	if _, err := p.db.Orders.UpdateOne(ctx, bson.M{"_id": order.ID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment reference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paypalOrderId": paypalOrderID})
}

// CapturePayment captures an approved PayPal order, commits the payment on
// the order, redeems the promo code, bumps purchase counters, and kicks off
// auto-delivery.
func (p *PayPalController) CapturePayment(c *gin.Context) {
	var input paypalOrderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	order, ok := p.loadOwnOrder(ctx, c, input.OrderID)
	if !ok {
		return
	}
	if order.OrderStatus.Terminal() {
		c.JSON(http.StatusConflict, gin.H{"error": "Order is no longer active"})
		return
	}
	if order.PaymentStatus == models.PaymentPaid {
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already paid"})
		return
	}
	if order.PayPalOrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PayPal order to capture"})
		return
	}

	capture, err := p.paypal.CaptureOrder(ctx, order.PayPalOrderID)
	if err != nil {
		p.log.Error("paypal capture failed", "orderNumber", order.OrderNumber, "error", err)
		_, _ = p.db.Orders.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
			"$set": bson.M{"paymentStatus": models.PaymentFailed, "updatedAt": time.Now().UTC()},
			"$push": bson.M{
				"orderHistory": models.NewHistoryEntry(order.OrderStatus, "payment capture failed", "system"),
			},
		})
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment capture failed"})
		return
	}

	order.PaymentStatus = models.PaymentPaid
	order.TransactionID = capture.CaptureID
	if order.OrderStatus == models.OrderPending {
		order.OrderStatus = models.OrderProcessing
	}
	update := bson.M{
		"$set": bson.M{
			"paymentStatus": order.PaymentStatus,
			"transactionId": order.TransactionID,
			"orderStatus":   order.OrderStatus,
			"updatedAt":     time.Now().UTC(),
		},
		"$push": bson.M{
			"orderHistory": models.NewHistoryEntry(order.OrderStatus, "payment captured: "+capture.CaptureID, "system"),
		},
	}
	if _, err := p.db.Orders.UpdateOne(ctx, bson.M{"_id": order.ID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	if order.PromoCode != "" {
		if err := redeemPromoCode(ctx, p.db, order.PromoCode); err != nil {
			p.log.Warn("promo redemption failed after capture", "code", order.PromoCode, "error", err)
		}
	}
	for _, item := range order.Items {
		_, _ = p.db.Products.UpdateOne(ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"purchaseCount": item.Quantity}})
	}

	if err := p.fulfillment.AttemptAutoDelivery(ctx, order, "system"); err != nil {
		// Payment is committed; delivery problems surface to the admin, not
		// the customer.
		p.log.Error("auto delivery failed after capture", "orderNumber", order.OrderNumber, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Payment captured",
		"orderStatus":   order.OrderStatus,
		"paymentStatus": order.PaymentStatus,
		"transactionId": order.TransactionID,
	})
}
