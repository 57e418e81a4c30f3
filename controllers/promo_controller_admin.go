package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/models"
	"github.com/haitham-akram/prestige-designs-sub003/services/promo"
)

type PromoController struct {
	db *database.Mongo
}

func NewPromoController(db *database.Mongo) *PromoController {
	return &PromoController{db: db}
}

type promoCodeRequest struct {
	Code               string    `json:"code" binding:"required,min=3,max=32"`
	Description        string    `json:"description"`
	DiscountType       string    `json:"discountType" binding:"required,oneof=percentage fixed_amount"`
	DiscountValue      float64   `json:"discountValue" binding:"required,gt=0"`
	MaxDiscountAmount  float64   `json:"maxDiscountAmount" binding:"gte=0"`
	MinimumOrderAmount float64   `json:"minimumOrderAmount" binding:"gte=0"`
	UsageLimit         int       `json:"usageLimit" binding:"gte=0"`
	ApplyToAllProducts bool      `json:"applyToAllProducts"`
	ProductIDs         []string  `json:"productIds"`
	IsActive           *bool     `json:"isActive"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
}

func (r *promoCodeRequest) toModel() (*models.PromoCode, error) {
	pc := &models.PromoCode{
		Code:               strings.ToUpper(strings.TrimSpace(r.Code)),
		Description:        r.Description,
		DiscountType:       models.DiscountType(r.DiscountType),
		DiscountValue:      r.DiscountValue,
		MaxDiscountAmount:  r.MaxDiscountAmount,
		MinimumOrderAmount: r.MinimumOrderAmount,
		UsageLimit:         r.UsageLimit,
		ApplyToAllProducts: r.ApplyToAllProducts,
		IsActive:           true,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
	}
	if r.IsActive != nil {
		pc.IsActive = *r.IsActive
	}
	for _, hex := range r.ProductIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, err
		}
		pc.ProductIDs = append(pc.ProductIDs, id)
	}
	return pc, nil
}

func (p *PromoController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := p.db.PromoCodes.Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promo codes"})
		return
	}
	var codes []models.PromoCode
	if err := cursor.All(ctx, &codes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode promo codes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": codes})
}

func (p *PromoController) Create(c *gin.Context) {
	var input promoCodeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	pc, err := input.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productIds"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var existing models.PromoCode
	if err := p.db.PromoCodes.FindOne(ctx, bson.M{"code": pc.Code}).Decode(&existing); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Promo code already exists"})
		return
	}

	now := time.Now().UTC()
	pc.ID = primitive.NewObjectID()
	pc.CreatedBy = changedBy(c)
	pc.CreatedAt = now
	pc.UpdatedAt = now

	if _, err := p.db.PromoCodes.InsertOne(ctx, pc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promo code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promo code created", "data": pc})
}

func (p *PromoController) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo code ID"})
		return
	}

	var input promoCodeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	pc, err := input.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productIds"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"code":               pc.Code,
		"description":        pc.Description,
		"discountType":       pc.DiscountType,
		"discountValue":      pc.DiscountValue,
		"maxDiscountAmount":  pc.MaxDiscountAmount,
		"minimumOrderAmount": pc.MinimumOrderAmount,
		"usageLimit":         pc.UsageLimit,
		"applyToAllProducts": pc.ApplyToAllProducts,
		"productIds":         pc.ProductIDs,
		"isActive":           pc.IsActive,
		"startDate":          pc.StartDate,
		"endDate":            pc.EndDate,
		"updatedAt":          time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.PromoCode
	if err := p.db.PromoCodes.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promo code updated", "data": updated})
}

func (p *PromoController) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promo code ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := p.db.PromoCodes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete promo code"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promo code deleted"})
}

type validatePromoRequest struct {
	Code        string `json:"code" binding:"required"`
	OrderAmount float64 `json:"orderAmount" binding:"required,gt=0"`
	Items       []struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required,gte=1"`
	} `json:"items" binding:"required,min=1,dive"`
}

// Validate dry-runs a code against a cart without consuming a use.
func (p *PromoController) Validate(c *gin.Context) {
	var input validatePromoRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	lines := make([]promo.CartLine, 0, len(input.Items))
	for _, item := range input.Items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId format"})
			return
		}
		lines = append(lines, promo.CartLine{ProductID: id, Quantity: item.Quantity})
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	code := strings.ToUpper(strings.TrimSpace(input.Code))
	var pc models.PromoCode
	if err := p.db.PromoCodes.FindOne(ctx, bson.M{"code": code}).Decode(&pc); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		return
	}

	result, err := promo.Validate(&pc, lines, input.OrderAmount, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":          true,
		"code":           result.Code,
		"discountAmount": result.DiscountAmount,
		"finalAmount":    result.FinalAmount,
	})
}
