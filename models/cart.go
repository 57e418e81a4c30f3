package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem snapshots a product plus the customization payload the customer
// filled in while browsing, so checkout can carry it onto the order item.
type CartItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	ProductID      primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Customizations Customizations     `bson:"customizations" json:"customizations"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
