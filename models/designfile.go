package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DesignFile is a stored deliverable asset owned by a product.
type DesignFile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID    primitive.ObjectID `bson:"productId" json:"productId"`
	FileName     string             `bson:"fileName" json:"fileName"`
	FileURL      string             `bson:"fileUrl" json:"fileUrl"`
	FileType     string             `bson:"fileType" json:"fileType"`
	FileSize     int64              `bson:"fileSize" json:"fileSize"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	ExpiresAt    time.Time          `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	MaxDownloads int                `bson:"maxDownloads" json:"maxDownloads"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderDesignFile grants one order access to one design file. Download
// accounting lives here, not on the file, so a file can be shared across
// orders with independent counters and expiry.
type OrderDesignFile struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID       primitive.ObjectID `bson:"orderId" json:"orderId"`
	DesignFileID  primitive.ObjectID `bson:"designFileId" json:"designFileId"`
	DownloadCount int                `bson:"downloadCount" json:"downloadCount"`
	MaxDownloads  int                `bson:"maxDownloads" json:"maxDownloads"`
	ExpiresAt     time.Time          `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
