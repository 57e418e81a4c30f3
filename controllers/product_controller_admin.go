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

type AdminProductController struct {
	db *database.Mongo
}

func NewAdminProductController(db *database.Mongo) *AdminProductController {
	return &AdminProductController{db: db}
}

func (a *AdminProductController) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var existing models.Product
	if err := a.db.Products.FindOne(ctx, bson.M{"slug": product.Slug}).Decode(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use"})
		return
	}

	product.ID = primitive.NewObjectID()
	product.PurchaseCount = 0
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt

	if _, err := a.db.Products.InsertOne(ctx, product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product created", "data": product})
}

func (a *AdminProductController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":                  product.Name,
		"nameEn":                product.NameEn,
		"slug":                  product.Slug,
		"description":           product.Description,
		"categoryId":            product.CategoryID,
		"price":                 product.Price,
		"salePrice":             product.SalePrice,
		"images":                product.Images,
		"isActive":              product.IsActive,
		"enableCustomizations":  product.EnableCustomizations,
		"allowColorChanges":     product.AllowColorChanges,
		"allowTextEditing":      product.AllowTextEditing,
		"allowImageReplacement": product.AllowImageReplacement,
		"allowLogoUpload":       product.AllowLogoUpload,
		"colorThemes":           product.ColorThemes,
		"updatedAt":             time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	if err := a.db.Products.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "data": updated})
}

// Delete deactivates a product. Orders keep referencing it, so products are
// never removed outright.
func (a *AdminProductController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := a.db.Products.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}

func (a *AdminProductController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := a.db.Products.Find(ctx, bson.M{}, opts)
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
