package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/models"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
	"github.com/haitham-akram/prestige-designs-sub003/services/fulfillment"
	"github.com/haitham-akram/prestige-designs-sub003/services/paypal"
)

type AdminOrderController struct {
	db          *database.Mongo
	fulfillment *fulfillment.Service
	paypal      *paypal.Client
	log         logger.Logger
}

func NewAdminOrderController(db *database.Mongo, f *fulfillment.Service, pp *paypal.Client, log logger.Logger) *AdminOrderController {
	return &AdminOrderController{db: db, fulfillment: f, paypal: pp, log: log}
}

func (a *AdminOrderController) List(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter["orderStatus"] = status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := a.db.Orders.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": orders})
}

func (a *AdminOrderController) Get(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := a.db.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// UpdateStatus moves an order along the central transition table. Terminal
// orders reject every change.
func (a *AdminOrderController) UpdateStatus(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input updateStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	next := models.OrderStatus(input.Status)
	if !next.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := a.db.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !order.OrderStatus.CanTransitionTo(next) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot change status from %s to %s", order.OrderStatus, next),
		})
		return
	}

	note := input.Note
	if note == "" {
		note = fmt.Sprintf("status changed from %s to %s", order.OrderStatus, next)
	}
	update := bson.M{
		"$set": bson.M{
			"orderStatus": next,
			"updatedAt":   time.Now().UTC(),
		},
		"$push": bson.M{
			"orderHistory": models.NewHistoryEntry(next, note, changedBy(c)),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	if err := a.db.Orders.FindOneAndUpdate(ctx, bson.M{"_id": orderID}, update, opts).Decode(&updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "data": updated})
}

type completeOrderRequest struct {
	Note string `json:"note"`
}

// Complete runs the fulfillment pipeline on an order.
func (a *AdminOrderController) Complete(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input completeOrderRequest
	_ = c.ShouldBindJSON(&input)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	order, err := a.fulfillment.Complete(ctx, orderID, changedBy(c), input.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order completed", "data": order})
}

type attachFileRequest struct {
	ProductID    string `json:"productId" binding:"required"`
	FileName     string `json:"fileName" binding:"required"`
	FileURL      string `json:"fileUrl" binding:"required,url"`
	FileType     string `json:"fileType" binding:"required"`
	FileSize     int64  `json:"fileSize" binding:"gte=0"`
	MaxDownloads int    `json:"maxDownloads" binding:"gte=0"`
}

// AttachDesignFile records an admin-produced custom file against an order.
func (a *AdminOrderController) AttachDesignFile(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input attachFileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	file := models.DesignFile{
		ProductID:    productID,
		FileName:     input.FileName,
		FileURL:      input.FileURL,
		FileType:     input.FileType,
		FileSize:     input.FileSize,
		MaxDownloads: input.MaxDownloads,
	}
	order, err := a.fulfillment.AttachCustomFile(ctx, orderID, file, changedBy(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File attached", "data": order})
}

// Cancel voids an order. A paid order with a capture id gets a refund
// attempt first; the order stays untouched if the refund fails. Free orders
// never hit the payment API.
func (a *AdminOrderController) Cancel(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	var order models.Order
	if err := a.db.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !order.OrderStatus.CanTransitionTo(models.OrderCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Cannot cancel an order in status %s", order.OrderStatus),
		})
		return
	}

	set := bson.M{
		"orderStatus": models.OrderCancelled,
		"updatedAt":   time.Now().UTC(),
	}
	entries := []models.HistoryEntry{
		models.NewHistoryEntry(models.OrderCancelled, "cancelled by admin", changedBy(c)),
	}

	if order.PaymentStatus == models.PaymentPaid && order.TransactionID != "" {
		refundID, err := a.paypal.RefundCapture(ctx, order.TransactionID, order.TotalPrice)
		if err != nil {
			a.log.Error("refund failed", "orderNumber", order.OrderNumber, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Refund failed, order not cancelled"})
			return
		}
		set["paymentStatus"] = models.PaymentRefunded
		entries = append(entries,
			models.NewHistoryEntry(models.OrderCancelled, "payment refunded: "+refundID, "system"))
	}

	update := bson.M{
		"$set":  set,
		"$push": bson.M{"orderHistory": bson.M{"$each": entries}},
	}
	if _, err := a.db.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}
