package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings is a singleton document with storefront metadata.
type SiteSettings struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StoreName    string             `bson:"storeName" json:"storeName"`
	StoreNameEn  string             `bson:"storeNameEn,omitempty" json:"storeNameEn,omitempty"`
	SupportEmail string             `bson:"supportEmail,omitempty" json:"supportEmail,omitempty"`
	WhatsApp     string             `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	Instagram    string             `bson:"instagram,omitempty" json:"instagram,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
