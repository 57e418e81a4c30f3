package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/models"
	"github.com/haitham-akram/prestige-designs-sub003/pkg/logger"
	"github.com/haitham-akram/prestige-designs-sub003/services/fulfillment"
	"github.com/haitham-akram/prestige-designs-sub003/services/promo"
)

type OrderController struct {
	db          *database.Mongo
	fulfillment *fulfillment.Service
	log         logger.Logger
}

func NewOrderController(db *database.Mongo, f *fulfillment.Service, log logger.Logger) *OrderController {
	return &OrderController{db: db, fulfillment: f, log: log}
}

// newOrderNumber issues the human-facing order id.
func newOrderNumber() string {
	return "PD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

type checkoutItem struct {
	ProductID      string                `json:"productId" binding:"required"`
	Quantity       int                   `json:"quantity" binding:"required,gte=1"`
	Customizations models.Customizations `json:"customizations"`
}

type checkoutRequest struct {
	Items     []checkoutItem `json:"items" binding:"required,min=1,dive"`
	PromoCode string         `json:"promoCode"`
}

// Checkout builds an order from the submitted items, applies a promo code,
// and starts the free-order fast path when nothing is owed.
func (oc *OrderController) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	var input checkoutRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var user models.User
	if err := oc.db.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	var (
		orderItems []models.OrderItem
		promoLines []promo.CartLine
		productIDs []primitive.ObjectID
		subtotal   float64
	)
	for _, in := range input.Items {
		productID, err := primitive.ObjectIDFromHex(in.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId format"})
			return
		}

		var product models.Product
		if err := oc.db.Products.FindOne(ctx, bson.M{"_id": productID, "isActive": true}).Decode(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product not available: " + in.ProductID})
			return
		}
		if !product.EnableCustomizations && !in.Customizations.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not accept customizations: " + product.Name})
			return
		}

		price := product.EffectivePrice()
		lineTotal := price * float64(in.Quantity)
		subtotal += lineTotal

		orderItems = append(orderItems, models.OrderItem{
			ProductID:            product.ID,
			ProductName:          product.Name,
			Quantity:             in.Quantity,
			UnitPrice:            price,
			TotalPrice:           lineTotal,
			EnableCustomizations: product.EnableCustomizations,
			HasCustomizations:    !in.Customizations.Empty(),
			Customizations:       in.Customizations,
			DeliveryStatus:       models.DeliveryPending,
		})
		promoLines = append(promoLines, promo.CartLine{ProductID: product.ID, Quantity: in.Quantity})
		productIDs = append(productIDs, product.ID)
	}

	var discount float64
	promoCode := ""
	total := subtotal
	if input.PromoCode != "" {
		code := strings.ToUpper(strings.TrimSpace(input.PromoCode))
		var pc models.PromoCode
		if err := oc.db.PromoCodes.FindOne(ctx, bson.M{"code": code}).Decode(&pc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Promo code not found"})
			return
		}
		result, err := promo.Validate(&pc, promoLines, subtotal, time.Now().UTC())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		discount = result.DiscountAmount
		// The validator rounds; raw float arithmetic here would leave a
		// fully-discounted cart a hair above zero and demand payment for it.
		total = result.FinalAmount
		promoCode = code
	}

	now := time.Now().UTC()
	order := models.Order{
		ID:             primitive.NewObjectID(),
		OrderNumber:    newOrderNumber(),
		CustomerID:     userID,
		CustomerEmail:  user.Email,
		OrderStatus:    models.OrderPending,
		PaymentStatus:  models.PaymentPending,
		Items:          orderItems,
		Subtotal:       subtotal,
		PromoCode:      promoCode,
		DiscountAmount: discount,
		TotalPrice:     total,
		OrderHistory: []models.HistoryEntry{
			models.NewHistoryEntry(models.OrderPending, "order created", userID.Hex()),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if total == 0 {
		order.PaymentStatus = models.PaymentFree
	}

	if _, err := oc.db.Orders.InsertOne(ctx, order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	_, _ = oc.db.Carts.DeleteMany(ctx, bson.M{
		"userId":    userID,
		"productId": bson.M{"$in": productIDs},
	})

	// Free orders skip payment entirely and go straight to delivery.
	if order.PaymentStatus == models.PaymentFree {
		if promoCode != "" {
			if err := redeemPromoCode(ctx, oc.db, promoCode); err != nil {
				oc.log.Warn("promo redemption failed on free order", "code", promoCode, "error", err)
			}
		}
		if err := oc.fulfillment.AttemptAutoDelivery(ctx, &order, "system"); err != nil {
			oc.log.Error("auto delivery failed for free order", "orderNumber", order.OrderNumber, "error", err)
		}
	}

	oc.log.Info("order created", "orderNumber", order.OrderNumber, "total", order.TotalPrice)
	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout success",
		"order": gin.H{
			"id":              order.ID.Hex(),
			"orderNumber":     order.OrderNumber,
			"orderStatus":     order.OrderStatus,
			"paymentStatus":   order.PaymentStatus,
			"subtotal":        order.Subtotal,
			"discountAmount":  order.DiscountAmount,
			"totalPrice":      order.TotalPrice,
			"paymentRequired": order.TotalPrice > 0,
		},
	})
}

func (oc *OrderController) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := oc.db.Orders.Find(ctx, bson.M{"customerId": userID})
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

func (oc *OrderController) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.db.Orders.FindOne(ctx, bson.M{"_id": orderID, "customerId": userID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": order})
}

// Cancel lets a customer withdraw an order that has not been paid yet. Paid
// orders go through the admin refund path instead.
func (oc *OrderController) Cancel(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":           orderID,
		"customerId":    userID,
		"orderStatus":   models.OrderPending,
		"paymentStatus": bson.M{"$in": []models.PaymentStatus{models.PaymentPending, models.PaymentFailed}},
	}
	update := bson.M{
		"$set": bson.M{
			"orderStatus": models.OrderCancelled,
			"updatedAt":   time.Now().UTC(),
		},
		"$push": bson.M{
			"orderHistory": models.NewHistoryEntry(models.OrderCancelled, "cancelled by customer", userID.Hex()),
		},
	}
	result, err := oc.db.Orders.UpdateOne(ctx, filter, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel order"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order not found or cannot be cancelled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

// Files lists the design file grants the order has accumulated.
func (oc *OrderController) Files(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.db.Orders.FindOne(ctx, bson.M{"_id": orderID, "customerId": userID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	cursor, err := oc.db.OrderDesignFiles.Find(ctx, bson.M{"orderId": orderID, "isActive": true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}
	var grants []models.OrderDesignFile
	if err := cursor.All(ctx, &grants); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode files"})
		return
	}

	var resp []gin.H
	for _, g := range grants {
		var f models.DesignFile
		if err := oc.db.DesignFiles.FindOne(ctx, bson.M{"_id": g.DesignFileID}).Decode(&f); err != nil {
			continue
		}
		resp = append(resp, gin.H{
			"id":            g.ID.Hex(),
			"fileName":      f.FileName,
			"fileType":      f.FileType,
			"fileSize":      f.FileSize,
			"downloadCount": g.DownloadCount,
			"maxDownloads":  g.MaxDownloads,
			"expiresAt":     g.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": resp})
}

// Download registers one download against a grant and hands back the file
// URL. The counter increment is conditional on the grant still being usable,
// so concurrent requests cannot exceed maxDownloads.
func (oc *OrderController) Download(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}
	grantID, err := primitive.ObjectIDFromHex(c.Param("fileId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	if err := oc.db.Orders.FindOne(ctx, bson.M{"_id": orderID, "customerId": userID}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	now := time.Now().UTC()
	filter := bson.M{
		"_id":      grantID,
		"orderId":  orderID,
		"isActive": true,
		"$and": []bson.M{
			{"$or": []bson.M{
				{"expiresAt": bson.M{"$exists": false}},
				{"expiresAt": bson.M{"$gt": now}},
			}},
			{"$or": []bson.M{
				{"maxDownloads": 0},
				{"$expr": bson.M{"$lt": bson.A{"$downloadCount", "$maxDownloads"}}},
			}},
		},
	}
	result, err := oc.db.OrderDesignFiles.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"downloadCount": 1}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register download"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusGone, gin.H{"error": "Download link expired or limit reached"})
		return
	}

	var grant models.OrderDesignFile
	if err := oc.db.OrderDesignFiles.FindOne(ctx, bson.M{"_id": grantID}).Decode(&grant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load file"})
		return
	}
	var file models.DesignFile
	if err := oc.db.DesignFiles.FindOne(ctx, bson.M{"_id": grant.DesignFileID}).Decode(&file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileUrl":       file.FileURL,
		"fileName":      file.FileName,
		"downloadCount": grant.DownloadCount,
		"maxDownloads":  grant.MaxDownloads,
	})
}

// redeemPromoCode counts one use of a code. The filter re-checks the cap so
// the increment is atomic even under concurrent captures.
func redeemPromoCode(ctx context.Context, db *database.Mongo, code string) error {
	filter := bson.M{
		"code":     code,
		"isActive": true,
		"$or": []bson.M{
			{"usageLimit": bson.M{"$exists": false}},
			{"usageLimit": 0},
			{"$expr": bson.M{"$lt": bson.A{"$usageCount", "$usageLimit"}}},
		},
	}
	result, err := db.PromoCodes.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"usageCount": 1}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("promo code usage limit reached")
	}
	return nil
}
