package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

// PromoCode is a discount code. Zero values mean "no constraint": a zero
// UsageLimit is unlimited, a zero MaxDiscountAmount is uncapped, zero dates
// leave the window open on that side.
type PromoCode struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Code               string               `bson:"code" json:"code"`
	Description        string               `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType       DiscountType         `bson:"discountType" json:"discountType"`
	DiscountValue      float64              `bson:"discountValue" json:"discountValue"`
	MaxDiscountAmount  float64              `bson:"maxDiscountAmount,omitempty" json:"maxDiscountAmount,omitempty"`
	MinimumOrderAmount float64              `bson:"minimumOrderAmount,omitempty" json:"minimumOrderAmount,omitempty"`
	UsageLimit         int                  `bson:"usageLimit,omitempty" json:"usageLimit,omitempty"`
	UsageCount         int                  `bson:"usageCount" json:"usageCount"`
	ApplyToAllProducts bool                 `bson:"applyToAllProducts" json:"applyToAllProducts"`
	ProductIDs         []primitive.ObjectID `bson:"productIds,omitempty" json:"productIds,omitempty"`
	// ProductID is the legacy single-product field kept for codes created
	// before ProductIDs existed. Checked only when the list is empty.
	ProductID primitive.ObjectID `bson:"productId,omitempty" json:"productId,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	StartDate time.Time          `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   time.Time          `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedBy string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
