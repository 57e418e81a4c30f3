package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/haitham-akram/prestige-designs-sub003/database"
	"github.com/haitham-akram/prestige-designs-sub003/models"
)

type SettingsController struct {
	db *database.Mongo
}

func NewSettingsController(db *database.Mongo) *SettingsController {
	return &SettingsController{db: db}
}

func (s *SettingsController) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var settings models.SiteSettings
	if err := s.db.SiteSettings.FindOne(ctx, bson.M{}).Decode(&settings); err != nil {
		// No settings saved yet, return the defaults.
		settings = models.SiteSettings{StoreName: "Prestige Designs"}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fetch success", "data": settings})
}

type settingsRequest struct {
	StoreName    string `json:"storeName" binding:"required"`
	StoreNameEn  string `json:"storeNameEn"`
	SupportEmail string `json:"supportEmail" binding:"omitempty,email"`
	WhatsApp     string `json:"whatsapp"`
	Instagram    string `json:"instagram"`
}

// Update upserts the singleton settings document.
func (s *SettingsController) Update(c *gin.Context) {
	var input settingsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"storeName":    input.StoreName,
		"storeNameEn":  input.StoreNameEn,
		"supportEmail": input.SupportEmail,
		"whatsapp":     input.WhatsApp,
		"instagram":    input.Instagram,
		"updatedAt":    time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := s.db.SiteSettings.UpdateOne(ctx, bson.M{}, update, opts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}
