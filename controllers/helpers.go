package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/haitham-akram/prestige-designs-sub003/pkg/apperrors"
)

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		return primitive.NilObjectID, false
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// changedBy is the actor recorded in order history entries.
func changedBy(c *gin.Context) string {
	if raw, exists := c.Get("userId"); exists {
		if hex, ok := raw.(string); ok {
			return hex
		}
	}
	return "system"
}

// respondError translates service errors to the JSON error envelope.
func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), gin.H{"error": err.Error()})
}
