package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/models"
)

type CartController struct {
	db *database.Mongo
}

func NewCartController(db *database.Mongo) *CartController {
	return &CartController{db: db}
}

type addToCartRequest struct {
	ProductID      string                `json:"productId" binding:"required"`
	Quantity       int                   `json:"quantity" binding:"required,gte=1"`
	Customizations models.Customizations `json:"customizations"`
}

func (ct *CartController) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	var input addToCartRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := ct.db.Products.FindOne(ctx, bson.M{"_id": productID, "isActive": true}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !product.EnableCustomizations && !input.Customizations.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not accept customizations"})
		return
	}

	// One cart row per user+product; re-adding replaces quantity and payload.
	update := bson.M{
		"$set": bson.M{
			"quantity":       input.Quantity,
			"customizations": input.Customizations,
		},
		"$setOnInsert": bson.M{
			"userId":    userID,
			"productId": productID,
			"createdAt": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := ct.db.Carts.UpdateOne(ctx, bson.M{"userId": userID, "productId": productID}, update, opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Added to cart"})
}

func (ct *CartController) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := ct.db.Carts.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode cart"})
		return
	}

	var resp []gin.H
	var total float64
	for _, item := range items {
		var product models.Product
		if err := ct.db.Products.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product); err != nil {
			continue
		}
		price := product.EffectivePrice()
		total += price * float64(item.Quantity)
		resp = append(resp, gin.H{
			"productId":      product.ID.Hex(),
			"name":           product.Name,
			"nameEn":         product.NameEn,
			"price":          price,
			"quantity":       item.Quantity,
			"customizations": item.Customizations,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": resp, "total": total})
}

func (ct *CartController) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	var input struct {
		Quantity int `json:"quantity" binding:"required,gte=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := ct.db.Carts.UpdateOne(ctx,
		bson.M{"userId": userID, "productId": productID},
		bson.M{"$set": bson.M{"quantity": input.Quantity}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart updated"})
}

func (ct *CartController) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := ct.db.Carts.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}
