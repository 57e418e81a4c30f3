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
)

// DesignFileController manages the deliverable files attached to products.
type DesignFileController struct {
	db *database.Mongo
}

func NewDesignFileController(db *database.Mongo) *DesignFileController {
	return &DesignFileController{db: db}
}

func (d *DesignFileController) ListForProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := d.db.DesignFiles.Find(ctx, bson.M{"productId": productID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch design files"})
		return
	}
	var files []models.DesignFile
	if err := cursor.All(ctx, &files); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode design files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": files})
}

type designFileRequest struct {
	FileName     string    `json:"fileName" binding:"required"`
	FileURL      string    `json:"fileUrl" binding:"required,url"`
	FileType     string    `json:"fileType" binding:"required"`
	FileSize     int64     `json:"fileSize" binding:"gte=0"`
	MaxDownloads int       `json:"maxDownloads" binding:"gte=0"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// AddToProduct registers an uploaded file as a deliverable for a product.
func (d *DesignFileController) AddToProduct(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input designFileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := d.db.Products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	now := time.Now().UTC()
	file := models.DesignFile{
		ID:           primitive.NewObjectID(),
		ProductID:    productID,
		FileName:     input.FileName,
		FileURL:      input.FileURL,
		FileType:     input.FileType,
		FileSize:     input.FileSize,
		MaxDownloads: input.MaxDownloads,
		ExpiresAt:    input.ExpiresAt,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := d.db.DesignFiles.InsertOne(ctx, file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save design file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Design file added", "data": file})
}

// Deactivate retires a file from future grants. Existing OrderDesignFile
// rows keep their own lifecycle.
func (d *DesignFileController) Deactivate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid design file ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := d.db.DesignFiles.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update design file"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Design file not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Design file deactivated"})
}
