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

type ProductController struct {
	db *database.Mongo
}

func NewProductController(db *database.Mongo) *ProductController {
	return &ProductController{db: db}
}

// List returns active products, optionally filtered by category.
func (p *ProductController) List(c *gin.Context) {
	filter := bson.M{"isActive": true}
	if category := c.Query("category"); category != "" {
		categoryID, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		filter["categoryId"] = categoryID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "purchaseCount", Value: -1}})
	cursor, err := p.db.Products.Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": products})
}

// Get resolves a product by id or slug.
func (p *ProductController) Get(c *gin.Context) {
	key := c.Param("id")

	filter := bson.M{"slug": key, "isActive": true}
	if id, err := primitive.ObjectIDFromHex(key); err == nil {
		filter = bson.M{"_id": id, "isActive": true}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := p.db.Products.FindOne(ctx, filter).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": product})
}
